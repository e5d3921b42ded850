package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HeaderIdempotencyKey 幂等键请求头
const HeaderIdempotencyKey = "X-Idempotency-Key"

const contextKeyIdempotency contextKey = "idempotency_key"

// Idempotency 提取写请求的幂等键并写入上下文。
// 客户端未提供时基于请求内容按分钟生成，实际的重复提交
// 拦截由业务层的提交锁完成。
func Idempotency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		key := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
		if key == "" {
			key = generateIdempotencyKey(r)
		}

		ctx := context.WithValue(r.Context(), contextKeyIdempotency, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdempotencyKeyFromContext 读取上下文中的幂等键（可能为空）
func IdempotencyKeyFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyIdempotency).(string); ok {
		return v
	}
	return ""
}

// generateIdempotencyKey 基于方法、路径和分钟级时间戳生成幂等键
func generateIdempotencyKey(r *http.Request) string {
	content := fmt.Sprintf("%s:%s:%d", r.Method, r.URL.Path, time.Now().Unix()/60)
	hash := md5.Sum([]byte(content))
	return fmt.Sprintf("auto_%x", hash)[:16]
}
