// Package logger 提供基于zap的结构化日志器构建。
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 根据环境和配置创建zap日志器。
// env 为 "prod" 时使用生产配置（JSON编码、Info级别起步），
// 其它环境使用开发配置（彩色控制台输出）。
func New(env, level, encoding, appName, version string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lv, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lv)
	}

	if encoding != "" {
		cfg.Encoding = encoding
	}

	lg, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	// 附加应用标识字段，便于多服务日志聚合检索
	lg = lg.With(
		zap.String("app", appName),
		zap.String("version", version),
	)

	return lg, nil
}
