// Package router 提供 HTTP 路由设置和中间件配置功能
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/api"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/config"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/limiter"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/middleware"
)

// Dependencies 包含路由设置所需的所有依赖
type Dependencies struct {
	DraftHandler    *api.DraftHandler
	CategoryHandler *api.CategoryHandler
	AdminHandler    *api.AdminHandler
	RateLimiter     limiter.Limiter
}

// Router 路由器接口
type Router interface {
	Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler
}

// GinRouter Gin路由器实现。
// 业务处理器基于标准库签名编写，通过 gin.WrapF 挂载；
// 请求ID、访问日志、超时等横切关注点以标准库中间件包在引擎外层。
type GinRouter struct {
	engine *gin.Engine
	deps   *Dependencies
	logger *zap.Logger
}

// New 创建新的路由器实例
func New() Router {
	return &GinRouter{}
}

// Setup 设置路由和中间件
func (r *GinRouter) Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler {
	// 根据环境设置 Gin 模式
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r.engine = gin.New()
	r.deps = deps
	r.logger = lg

	r.setupRoutes(cfg)

	return r.wrapMiddleware(cfg, r.engine)
}

// setupRoutes 设置所有路由
func (r *GinRouter) setupRoutes(cfg *config.Config) {
	// 健康检查
	r.engine.GET("/healthz", r.healthCheck(cfg))

	// API v1 路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 草稿会话
		drafts := v1.Group("/drafts")
		{
			drafts.POST("", r.wrapHandler(r.deps.DraftHandler.Create))
			drafts.GET("/:id", r.wrapHandler(r.deps.DraftHandler.Get))
			drafts.DELETE("/:id", r.wrapHandler(r.deps.DraftHandler.Discard))
			drafts.PUT("/:id/fields", r.wrapHandler(r.deps.DraftHandler.UpdateFields))
			drafts.POST("/:id/variants/:vid/cancel-edit", r.wrapHandler(r.deps.DraftHandler.CancelEdit))
			drafts.POST("/:id/submit", r.wrapHandler(r.deps.DraftHandler.Submit))

			// 变体
			drafts.POST("/:id/variants", r.wrapHandler(r.deps.DraftHandler.AddVariant))
			drafts.PUT("/:id/variants/:vid", r.wrapHandler(r.deps.DraftHandler.SaveEdit))
			drafts.DELETE("/:id/variants/:vid", r.wrapHandler(r.deps.DraftHandler.RemoveVariant))
			drafts.POST("/:id/variants/:vid/edit", r.wrapHandler(r.deps.DraftHandler.StartEdit))

			// 变体媒体
			drafts.GET("/:id/variants/:vid/media", r.wrapHandler(r.deps.DraftHandler.ListMedia))
			drafts.POST("/:id/variants/:vid/media", r.wrapHandler(r.deps.DraftHandler.UploadMedia))
			drafts.PUT("/:id/variants/:vid/media/order", r.wrapHandler(r.deps.DraftHandler.MoveMedia))
			drafts.DELETE("/:id/variants/:vid/media/:index", r.wrapHandler(r.deps.DraftHandler.RemoveMedia))
		}

		// 尺码/颜色目录选项
		v1.GET("/options", r.wrapHandler(r.deps.DraftHandler.Options))

		// 分类树
		categories := v1.Group("/categories")
		{
			categories.GET("", r.wrapHandler(r.deps.CategoryHandler.Tree))
			categories.POST("", r.wrapHandler(r.deps.CategoryHandler.Create))
			categories.PUT("/:id", r.wrapHandler(r.deps.CategoryHandler.Update))
			categories.DELETE("/:id", r.wrapHandler(r.deps.CategoryHandler.Delete))
			categories.GET("/:id/cascade-warning", r.wrapHandler(r.deps.CategoryHandler.CascadeWarning))
			categories.POST("/:id/subcategories", r.wrapHandler(r.deps.CategoryHandler.CreateSubcategory))
			categories.PUT("/:id/subcategories/:sid", r.wrapHandler(r.deps.CategoryHandler.UpdateSubcategory))
			categories.DELETE("/:id/subcategories/:sid", r.wrapHandler(r.deps.CategoryHandler.DeleteSubcategory))
		}

		// 商品/订单管理透传
		products := v1.Group("/products")
		{
			products.GET("", r.wrapHandler(r.deps.AdminHandler.ListProducts))
			products.PUT("/:id/status", r.wrapHandler(r.deps.AdminHandler.SetProductStatus))
		}
		orders := v1.Group("/orders")
		{
			orders.GET("", r.wrapHandler(r.deps.AdminHandler.ListOrders))
			orders.PUT("/:id/status", r.wrapHandler(r.deps.AdminHandler.UpdateOrderStatus))
		}
		v1.POST("/upload", r.wrapHandler(r.deps.AdminHandler.Upload))
	}
}

// wrapMiddleware 在 Gin 引擎外层套标准库中间件链。
// 顺序自外向内：请求ID、访问日志、恢复、超时、CORS、令牌透传、幂等键、限流。
func (r *GinRouter) wrapMiddleware(cfg *config.Config, h http.Handler) http.Handler {
	if cfg.RateLimit.Enabled && r.deps.RateLimiter != nil {
		h = limiter.RateLimit(r.deps.RateLimiter, limiter.IPKey)(h)
	}
	h = middleware.Idempotency(h)
	h = middleware.AuthPassthrough(h)
	h = middleware.CORS(cfg.CORS)(h)
	h = middleware.Timeout(cfg.App.RequestTimeout)(h)
	h = middleware.Recovery(r.logger)(h)
	h = middleware.AccessLog(r.logger)(h)
	h = middleware.RequestID(h)
	return h
}

// healthCheck 健康检查处理器
func (r *GinRouter) healthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": cfg.App.Version,
		})
	}
}

// wrapHandler 将标准的 http.HandlerFunc 包装为 gin.HandlerFunc
func (r *GinRouter) wrapHandler(handler func(http.ResponseWriter, *http.Request)) gin.HandlerFunc {
	return gin.WrapF(handler)
}
