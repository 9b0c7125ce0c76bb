package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/autoshop/shop-api/internal/config"
	"github.com/autoshop/shop-api/internal/domain"
	"go.uber.org/zap"
)

// Middleware authenticates requests with the admin API key or a bearer token
type Middleware struct {
	tokens   *TokenManager
	apiKey   string
	required bool
	logger   *zap.Logger
}

// NewMiddleware creates the authentication middleware
func NewMiddleware(cfg *config.Config, tokens *TokenManager, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens:   tokens,
		apiKey:   cfg.ApiKey.Value,
		required: cfg.Auth.Required,
		logger:   logger,
	}
}

// Authenticate attaches the caller to the request context. Bad credentials are
// always rejected. Missing credentials are rejected only when auth is required;
// otherwise the request continues as an anonymous user.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("x-api-key"); key != "" {
			if !m.validateAPIKey(key) {
				m.logger.Warn("invalid API key attempt",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr))
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), systemUser())))
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			if m.required {
				writeError(w, http.StatusUnauthorized, "Unauthorized: missing authorization header")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), anonymousUser())))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized: invalid authorization header format")
			return
		}

		user, err := m.tokens.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			writeError(w, http.StatusUnauthorized, "Unauthorized: "+err.Error())
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("path", r.URL.Path),
			zap.String("user_id", user.UserID.String()),
			zap.String("username", user.Username))
		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), user)))
	})
}

// RequireAdmin admits admins and API-key callers. When auth is not required
// anonymous callers are admitted too, matching the single-user desktop setup.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusForbidden, "Forbidden: no user context")
			return
		}
		if user.IsAdmin() || (user.Anonymous && !m.required) {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusForbidden, "Forbidden: admin access required")
	})
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}
