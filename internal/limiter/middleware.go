// Package limiter 限流中间件实现
package limiter

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/middleware"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/resp"
)

const limitCheckTimeout = 5 * time.Second

// KeyFunc 限流Key生成函数
type KeyFunc func(*http.Request) string

// IPKey 基于客户端IP的限流Key
func IPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		host = xf
	}
	return fmt.Sprintf("ip:%s", host)
}

// PathKey 基于IP与请求路径的限流Key
func PathKey(r *http.Request) string {
	return fmt.Sprintf("%s:path:%s:%s", IPKey(r), r.Method, r.URL.Path)
}

// RateLimit 写操作限流中间件。
// 读请求直接放行；超限时返回429并附带Retry-After。
func RateLimit(l Limiter, keyFn KeyFunc) func(http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = IPKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), limitCheckTimeout)
			defer cancel()

			result, err := l.Allow(ctx, keyFn(r))
			reqID := middleware.RequestIDFromContext(r.Context())
			if err != nil {
				// 限流器故障时放行
				next.ServeHTTP(w, r)
				return
			}

			if result.Remaining >= 0 {
				w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			}

			if !result.Allowed {
				if result.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.FormatInt(int64(result.RetryAfter.Seconds()), 10))
				}
				resp.Error(w, http.StatusTooManyRequests, resp.CodeInvalidParam,
					"too many requests, please retry later", reqID, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
