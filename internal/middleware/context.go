// Package middleware 提供管理端HTTP中间件：
// 请求ID、访问日志、恢复、超时、CORS、鉴权透传、幂等与限流。
package middleware

import (
	"context"
)

// contextKey 包内私有的上下文键类型，避免与其他包的键冲突。
type contextKey string

const (
	contextKeyRequestID contextKey = "catalog_request_id"
)

// withRequestID 将请求 ID 写入上下文。
func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, id)
}

// RequestIDFromContext 从上下文中读取请求 ID，缺失时返回空串。
func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return s
	}
	return ""
}
