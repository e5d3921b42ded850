// Package resp 提供统一的HTTP JSON响应封装。
package resp

import (
	"encoding/json"
	"net/http"
)

// Code 业务响应码类型
type Code int

// 约定的业务响应码集合。
const (
	CodeOK            Code = 0    // 成功
	CodeInvalidParam  Code = 1001 // 参数错误
	CodeTimeout       Code = 1002 // 请求超时
	CodeInternalError Code = 2001 // 内部错误
	CodeUpstreamError Code = 3001 // 上游协作方错误
)

// Body 统一响应体结构
type Body struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	TraceID   string `json:"trace_id,omitempty"`
}

// HTTPStatusFromCode 将业务响应码映射为HTTP状态码
func HTTPStatusFromCode(code Code) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeTimeout:
		return http.StatusServiceUnavailable
	case CodeUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// OK 写入成功响应
func OK(w http.ResponseWriter, data any, requestID, traceID string) {
	write(w, http.StatusOK, &Body{
		Code:      CodeOK,
		Message:   "ok",
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// Error 写入错误响应
func Error(w http.ResponseWriter, httpStatus int, code Code, message, requestID, traceID string) {
	write(w, httpStatus, &Body{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// write 序列化并写出响应体；序列化失败时退化为纯文本500。
func write(w http.ResponseWriter, status int, body *Body) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
