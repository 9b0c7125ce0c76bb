package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/config"
	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimiter applies httprate limits per client IP before authentication and
// per signed-in user after it
type RateLimiter struct {
	enabled      bool
	logger       *zap.Logger
	ipLimiter    func(http.Handler) http.Handler
	userLimiter  func(http.Handler) http.Handler
	whitelistIPs map[string]bool
	exactPaths   map[string]bool
	prefixPaths  []string
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		enabled:      cfg.Enabled,
		logger:       logger,
		whitelistIPs: make(map[string]bool),
		exactPaths:   make(map[string]bool),
	}
	for _, ip := range cfg.WhitelistIPs {
		rl.whitelistIPs[ip] = true
	}
	for _, path := range cfg.WhitelistPaths {
		if prefix, ok := strings.CutSuffix(path, "/*"); ok {
			rl.prefixPaths = append(rl.prefixPaths, prefix)
			continue
		}
		rl.exactPaths[path] = true
	}

	rl.ipLimiter = httprate.Limit(
		cfg.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return "ip:" + service.ClientIP(r), nil
		}),
		httprate.WithLimitHandler(rl.rateLimitExceededHandler),
	)
	rl.userLimiter = httprate.Limit(
		cfg.RequestsPerMinuteAuth,
		time.Minute,
		httprate.WithKeyFuncs(keyByUserOrIP),
		httprate.WithLimitHandler(rl.rateLimitExceededHandler),
	)

	logger.Info("Rate limiter initialized",
		zap.Bool("enabled", cfg.Enabled),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
		zap.Int("requests_per_minute_auth", cfg.RequestsPerMinuteAuth),
		zap.Strings("whitelist_paths", cfg.WhitelistPaths),
	)
	return rl
}

// LimitByIP limits every request by client IP. Mount it before auth.
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	return rl.wrap(next, rl.ipLimiter)
}

// LimitByUser limits signed-in users by id and everyone else by IP. Mount it after auth.
func (rl *RateLimiter) LimitByUser(next http.Handler) http.Handler {
	return rl.wrap(next, rl.userLimiter)
}

func (rl *RateLimiter) wrap(next http.Handler, limiter func(http.Handler) http.Handler) http.Handler {
	if !rl.enabled {
		return next
	}
	limited := limiter(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) exempt(r *http.Request) bool {
	if rl.whitelistIPs[service.ClientIP(r)] || rl.exactPaths[r.URL.Path] {
		return true
	}
	for _, prefix := range rl.prefixPaths {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func keyByUserOrIP(r *http.Request) (string, error) {
	if user, ok := auth.FromContext(r.Context()); ok && !user.Anonymous {
		return "user:" + user.UserID.String(), nil
	}
	return "ip:" + service.ClientIP(r), nil
}

func (rl *RateLimiter) rateLimitExceededHandler(w http.ResponseWriter, r *http.Request) {
	rl.logger.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("client_ip", service.ClientIP(r)),
	)

	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, domain.APIError{
		Type:    domain.ErrorTypeRateLimited,
		Title:   http.StatusText(http.StatusTooManyRequests),
		Status:  http.StatusTooManyRequests,
		Detail:  "Too many requests. Please try again later.",
		Message: "rate limit exceeded",
	})
}
