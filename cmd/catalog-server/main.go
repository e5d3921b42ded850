package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Yashraj9595/Zyntherraa-sub001/internal/api"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/backend"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/cache"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/catalog"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/config"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/event"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/limiter"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/logger"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/media"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/router"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/service"
	"github.com/Yashraj9595/Zyntherraa-sub001/internal/session"
)

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}

	return cfg, lg, nil
}

// initCache 初始化草稿会话的缓存实例
func initCache(cfg *config.Config, lg *zap.Logger) cache.Cache {
	switch cfg.Cache.Type {
	case "redis":
		redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		redisCache, err := cache.NewRedisCache(redisAddr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lg.Sugar().Warnw("failed to connect to Redis, falling back to memory cache", "error", err)
			lg.Sugar().Infow("draft store ready", "type", "memory (fallback)", "ttl", cfg.Cache.TTL)
			return cache.NewMemoryCache()
		}
		lg.Sugar().Infow("draft store ready", "type", "redis", "addr", redisAddr, "ttl", cfg.Cache.TTL)
		return redisCache
	case "memory":
		lg.Sugar().Infow("draft store ready", "type", "memory", "ttl", cfg.Cache.TTL)
		return cache.NewMemoryCache()
	default:
		lg.Sugar().Warnw("unknown cache type, using memory cache", "type", cfg.Cache.Type)
		return cache.NewMemoryCache()
	}
}

// initPublisher 初始化事件发布器，未启用时返回空实现
func initPublisher(cfg *config.Config, lg *zap.Logger) event.Publisher {
	if !cfg.Event.Enabled {
		lg.Sugar().Infow("event publishing disabled")
		return event.NullPublisher{}
	}
	pub, err := event.NewAMQPPublisher(cfg.Event, lg)
	if err != nil {
		lg.Sugar().Warnw("failed to connect to message broker, events disabled", "error", err)
		return event.NullPublisher{}
	}
	lg.Sugar().Infow("event publishing enabled", "exchange", cfg.Event.Exchange)
	return pub
}

// initRateLimiter 初始化限流器。Redis可用时多实例共享配额，
// 否则退化为进程内令牌桶。
func initRateLimiter(cfg *config.Config, lg *zap.Logger) limiter.Limiter {
	if !cfg.RateLimit.Enabled {
		return limiter.NoopLimiter{}
	}
	lcfg := &limiter.Config{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	}
	if cfg.Cache.Type == "redis" {
		redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err == nil {
			rl, err := limiter.NewTokenBucketLimiter(client, lcfg)
			if err == nil {
				lg.Sugar().Infow("rate limiter ready", "type", "redis", "rate", lcfg.Rate, "window", lcfg.Window)
				return rl
			}
			lg.Sugar().Warnw("invalid rate limit config, limiter disabled", "error", err)
			return limiter.NoopLimiter{}
		} else {
			lg.Sugar().Warnw("failed to connect rate limiter to Redis, using in-process bucket", "error", err)
		}
	}
	ml, err := limiter.NewMemoryTokenBucket(lcfg)
	if err != nil {
		lg.Sugar().Warnw("invalid rate limit config, limiter disabled", "error", err)
		return limiter.NoopLimiter{}
	}
	lg.Sugar().Infow("rate limiter ready", "type", "memory", "rate", lcfg.Rate, "window", lcfg.Window)
	return ml
}

// initDependencies 初始化依赖注入链：后端客户端 -> 服务 -> API处理器
func initDependencies(cfg *config.Config, cacheInstance cache.Cache, publisher event.Publisher, lg *zap.Logger) *router.Dependencies {
	backendClient := backend.New(cfg.Backend, lg)
	store := session.NewStore(cacheInstance, cfg.Cache.TTL)
	pipeline := media.NewPipeline(cfg.Catalog.MaxImageDimension)
	engine := catalog.NewEngine(catalog.Policy{
		AllowDuplicateVariants: cfg.Catalog.AllowDuplicateVariants,
	}, catalog.OptionsFromNames(cfg.Catalog.SizeOptions), catalog.OptionsFromNames(cfg.Catalog.ColorOptions))

	draftService := service.NewDraftService(service.DraftServiceOptions{
		Engine:             engine,
		Store:              store,
		Backend:            backendClient,
		Pipeline:           pipeline,
		Publisher:          publisher,
		Logger:             lg,
		RejectUnknownMedia: cfg.Catalog.RejectUnknownMedia,
	})
	categoryService := service.NewCategoryService(backendClient, publisher, lg)
	adminService := service.NewAdminService(backendClient, pipeline, lg)

	return &router.Dependencies{
		DraftHandler:    api.NewDraftHandler(draftService, lg),
		CategoryHandler: api.NewCategoryHandler(categoryService, lg),
		AdminHandler:    api.NewAdminHandler(adminService, lg),
		RateLimiter:     initRateLimiter(cfg, lg),
	}
}

// startServer 启动服务器并处理优雅关闭
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

// main 为应用入口，协调各个组件的初始化和启动
func main() {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}

	// 2) 初始化草稿会话缓存
	cacheInstance := initCache(cfg, lg)

	// 3) 初始化事件发布器
	publisher := initPublisher(cfg, lg)
	defer func() {
		if err := publisher.Close(); err != nil {
			lg.Sugar().Errorw("failed to close event publisher", "err", err)
		}
	}()

	// 4) 初始化应用依赖（后端客户端、服务、处理器）
	deps := initDependencies(cfg, cacheInstance, publisher, lg)

	// 5) 设置路由和中间件
	handler := router.New().Setup(cfg, deps, lg)

	// 6) 启动 HTTP 服务器
	startServer(cfg, handler, lg)
}
