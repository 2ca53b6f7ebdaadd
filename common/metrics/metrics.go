package metrics

import (
	"net/http"

	"github.com/arl/statsviz"
)

// Handler 挂载 /debug/statsviz/ 的路由
func Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// Serve 启动运行时监控，阻塞直到出错
func Serve(addr string) error {
	mux, err := Handler()
	if err != nil {
		return err
	}
	return http.ListenAndServe(addr, mux)
}
