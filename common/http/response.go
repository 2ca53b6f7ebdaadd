package http

import "net/http"

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// 通用响应码，业务错误码由各服务自行定义
const (
	CodeSuccess      = 0
	CodeInvalidParam = 10001 // 参数错误
	CodeNotFound     = 10004 // 资源不存在
	CodeServerError  = 10005 // 服务器内部错误
	CodeTooMany      = 10029 // 资源数量已达上限
)

func (c *Context) reply(status, code int, message, fallback string, data interface{}) {
	if message == "" {
		message = fallback
	}
	c.gc.JSON(status, Response{Code: code, Message: message, Data: data})
}

func (c *Context) Success(data interface{}) {
	c.reply(http.StatusOK, CodeSuccess, "success", "", data)
}

// Fail 自定义 HTTP 状态与业务错误码
func (c *Context) Fail(status, code int, message string) {
	c.reply(status, code, message, http.StatusText(status), nil)
}

func (c *Context) BadRequest(message string) {
	c.reply(http.StatusBadRequest, CodeInvalidParam, message, "invalid parameters", nil)
}

func (c *Context) NotFound(message string) {
	c.reply(http.StatusNotFound, CodeNotFound, message, "not found", nil)
}

func (c *Context) InternalServerError(message string) {
	c.reply(http.StatusInternalServerError, CodeServerError, message, "internal server error", nil)
}
