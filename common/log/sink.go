package log

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Sink 独立的日志输出，注入到引擎作为诊断接口使用
type Sink struct {
	logger *log.Logger
}

// NewSink w 为 nil 时写到 os.Stdout
func NewSink(prefix string, logLevel string, w io.Writer) *Sink {
	if w == nil {
		w = os.Stdout
	}
	return &Sink{logger: newLogger(w, prefix, logLevel)}
}

// With 附加固定字段，例如会话 ID
func (s *Sink) With(keyvals ...any) *Sink {
	return &Sink{logger: s.logger.With(keyvals...)}
}

func (s *Sink) Debug(format string, args ...any) {
	s.logger.Debugf(format, args...)
}

func (s *Sink) Info(format string, args ...any) {
	s.logger.Infof(format, args...)
}

func (s *Sink) Warn(format string, args ...any) {
	s.logger.Warnf(format, args...)
}
