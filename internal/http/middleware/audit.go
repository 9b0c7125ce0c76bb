package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/autoshop/shop-api/internal/service"
	"go.uber.org/zap"
)

// AuditConfig holds configuration for audit middleware
type AuditConfig struct {
	// SkipPaths are path prefixes that are never audited
	SkipPaths []string
	// AuditReads also records GET requests
	AuditReads bool
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/swagger",
		},
	}
}

// sensitiveFields are blanked out of recorded bodies
var sensitiveFields = []string{"password", "secret", "token", "api_key", "apiKey"}

// AuditMiddleware records mutating requests in the audit log. Entries are
// written on a separate goroutine once the response is sent.
type AuditMiddleware struct {
	auditService *service.AuditLogService
	config       *AuditConfig
	logger       *zap.Logger
	pending      sync.WaitGroup
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(auditService *service.AuditLogService, config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		auditService: auditService,
		config:       config,
		logger:       logger,
	}
}

// Audit returns middleware that logs modifications to the audit log
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.auditService == nil || !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		body := m.captureBody(r)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		rec := service.RequestRecord{
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: rw.statusCode,
			RequestID:  r.Header.Get(RequestIDHeader),
			Body:       body,
			Duration:   time.Since(start),
		}
		ctx := context.WithoutCancel(r.Context())

		m.pending.Add(1)
		go func() {
			defer m.pending.Done()
			if err := m.auditService.Record(ctx, r, rec); err != nil {
				m.logger.Warn("failed to create audit log entry",
					zap.String("path", rec.Path),
					zap.String("method", rec.Method),
					zap.Error(err))
			}
		}()
	})
}

// Wait blocks until every queued audit entry has been written
func (m *AuditMiddleware) Wait() {
	m.pending.Wait()
}

func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	switch r.Method {
	case http.MethodOptions, http.MethodHead:
		return false
	case http.MethodGet:
		if !m.config.AuditReads {
			return false
		}
	}
	for _, skip := range m.config.SkipPaths {
		if strings.HasPrefix(r.URL.Path, skip) {
			return false
		}
	}
	return true
}

// captureBody reads a JSON body for the audit entry and restores it for the
// handler. File uploads are not copied.
func (m *AuditMiddleware) captureBody(r *http.Request) []byte {
	if r.Body == nil || r.Method == http.MethodDelete {
		return nil
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return []byte("[multipart upload]")
	}

	raw, err := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		m.logger.Debug("failed to read body for audit", zap.Error(err))
	}
	return redact(raw)
}

// redact blanks sensitive top-level fields of a JSON object body
func redact(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}
	var parsed map[string]interface{}
	if json.Unmarshal(raw, &parsed) != nil {
		return raw
	}
	changed := false
	for _, field := range sensitiveFields {
		if _, ok := parsed[field]; ok {
			parsed[field] = "[redacted]"
			changed = true
		}
	}
	if !changed {
		return raw
	}
	out, err := json.Marshal(parsed)
	if err != nil {
		return nil
	}
	return out
}
