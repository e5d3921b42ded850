package backend

import "context"

type contextKey string

const authTokenKey contextKey = "backend_auth_token"

// WithAuthToken 将调用方携带的Bearer令牌注入上下文
func WithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, authTokenKey, token)
}

// AuthTokenFromContext 读取上下文中的Bearer令牌，不存在时返回空串
func AuthTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(authTokenKey).(string); ok {
		return token
	}
	return ""
}
