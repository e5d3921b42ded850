package middleware

import (
	"net/http"
	"strings"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/backend"
)

// AuthPassthrough 提取调用方的Bearer令牌并注入上下文，
// 供后端客户端原样转发。令牌校验由后端完成，本服务不解析。
func AuthPassthrough(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
			r = r.WithContext(backend.WithAuthToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
