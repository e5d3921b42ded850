package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"

	// maxRequestIDLen 入站请求ID的最大长度，超长视为非法并重新生成
	maxRequestIDLen = 64
)

// RequestID 确保每个请求都有请求 ID：
// 1) 优先读取请求头 X-Request-ID，便于与网关侧日志关联；
// 2) 若为空或非法则生成 UUID；
// 3) 将该 ID 写入响应头与请求上下文，响应封套与访问日志均引用它。
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if !validRequestID(rid) {
			rid = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, rid)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), rid)))
	})
}

// validRequestID 只接受可打印ASCII且长度受限的外部ID，避免日志注入。
func validRequestID(rid string) bool {
	if rid == "" || len(rid) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(rid); i++ {
		if rid[i] <= ' ' || rid[i] > '~' {
			return false
		}
	}
	return true
}
