package logger

import (
	"fmt"
	"strings"

	"github.com/autoshop/shop-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns the process-wide zap logger. Every entry carries the app
// name and environment.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	zapCfg := baseConfig(cfg.Format, appCfg.Environment)
	zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building zap logger: %w", err)
	}
	return log, nil
}

// baseConfig picks the encoder: json whenever asked for or in production,
// otherwise a colored console for local work.
func baseConfig(format, environment string) zap.Config {
	if strings.EqualFold(format, "json") || environment == "production" {
		c := zap.NewProductionConfig()
		c.EncoderConfig.TimeKey = "ts"
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return c
	}
	c := zap.NewDevelopmentConfig()
	c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	c.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return c
}

// unknown or empty levels fall back to info
func parseLevel(raw string) zapcore.Level {
	level, err := zapcore.ParseLevel(strings.TrimSpace(raw))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// RequestFields are the fields every access log line starts with.
func RequestFields(requestID, method, path string) []zap.Field {
	return []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
	}
}

// UserFields identify the shop user behind a request.
func UserFields(userID, username string) []zap.Field {
	return []zap.Field{
		zap.String("user_id", userID),
		zap.String("user_name", username),
	}
}
