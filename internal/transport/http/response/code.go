package response

import "net/http"

// 错误码直接沿用 HTTP 语义，成功为 0
const (
	CodeOK                  = 0
	CodeBadRequest          = http.StatusBadRequest
	CodeNotFound            = http.StatusNotFound
	CodeRequestTooLarge     = http.StatusRequestEntityTooLarge
	CodeUnprocessableEntity = http.StatusUnprocessableEntity
	CodeTooManyRequests     = http.StatusTooManyRequests
	CodeServerError         = http.StatusInternalServerError
	CodeUnavailable         = http.StatusServiceUnavailable
	CodeTimeout             = http.StatusGatewayTimeout
)

var CodeMsgMap = map[int]string{
	CodeOK:                  "OK",
	CodeBadRequest:          "Bad Request",
	CodeNotFound:            "Not Found",
	CodeRequestTooLarge:     "Request Entity Too Large",
	CodeUnprocessableEntity: "Unprocessable Entity",
	CodeTooManyRequests:     "Too Many Requests",
	CodeServerError:         "Internal Server Error",
	CodeUnavailable:         "Service Unavailable",
	CodeTimeout:             "Gateway Timeout",
}

// HTTPStatus 错误码对应的 HTTP 状态码
func HTTPStatus(code int) int {
	if code == CodeOK {
		return http.StatusOK
	}
	return code
}
