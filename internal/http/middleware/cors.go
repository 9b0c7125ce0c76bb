package middleware

import (
	"net/http"

	"github.com/autoshop/shop-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func isDevelopment(environment string) bool {
	switch environment {
	case "development", "local", "test", "":
		return true
	}
	return false
}

// CORS builds the go-chi/cors handler. The desktop client loads its pages from
// file:// and sends Origin "null", which is only accepted in development.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   append([]string{RequestIDHeader}, cfg.ExposedHeaders...),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	options.AllowOriginFunc = originPolicy(cfg.AllowedOrigins, environment, logger)
	return cors.Handler(options)
}

func originPolicy(allowed []string, environment string, logger *zap.Logger) func(*http.Request, string) bool {
	dev := isDevelopment(environment)

	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			if !dev {
				logger.Warn("CORS configured with wildcard origin outside development",
					zap.String("environment", environment))
			}
			return func(_ *http.Request, origin string) bool { return origin != "" }
		}
		set[origin] = true
	}

	switch {
	case len(set) > 0:
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", allowed))
		return func(_ *http.Request, origin string) bool {
			return set[origin] || (dev && origin == "null")
		}
	case dev:
		logger.Info("CORS allows all origins in development")
		return func(_ *http.Request, origin string) bool { return origin != "" }
	default:
		// empty AllowedOrigins would mean "*" to go-chi/cors
		logger.Warn("CORS has no allowed origins; cross-origin requests are denied",
			zap.String("environment", environment))
		return func(*http.Request, string) bool { return false }
	}
}
