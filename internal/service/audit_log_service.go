package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/mapper"
	"github.com/autoshop/shop-api/internal/repository"
	"go.uber.org/zap"
)

// maxAuditBody caps the request body kept on an audit entry
const maxAuditBody = 4096

// AuditLogService records and lists the trail of mutating requests
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// RequestRecord is what the audit middleware captured about one request
type RequestRecord struct {
	Method     string
	Path       string
	StatusCode int
	RequestID  string
	Body       []byte
	Duration   time.Duration
}

// Record stores an audit entry for a finished request. The caller's user and
// address are read from ctx and r.
func (s *AuditLogService) Record(ctx context.Context, r *http.Request, rec RequestRecord) error {
	entry := &domain.AuditLog{
		Method:      rec.Method,
		Path:        rec.Path,
		StatusCode:  rec.StatusCode,
		RequestID:   rec.RequestID,
		Body:        truncateBody(rec.Body),
		DurationMs:  rec.Duration.Milliseconds(),
		PerformedAt: time.Now().UTC(),
	}

	if user, ok := auth.FromContext(ctx); ok && user != nil {
		if !user.Anonymous {
			entry.UserID = user.UserID.String()
		}
		entry.Username = user.Actor()
	}
	if r != nil {
		entry.IPAddress = ClientIP(r)
		entry.UserAgent = r.UserAgent()
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to create audit log",
			zap.String("method", rec.Method),
			zap.String("path", rec.Path),
			zap.Error(err))
		return err
	}
	return nil
}

// List returns the newest entries matching filter. limit is clamped to 1..500.
func (s *AuditLogService) List(ctx context.Context, filter *repository.AuditLogFilter, limit int) ([]domain.AuditLogDTO, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	logs, err := s.auditRepo.List(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	dtos := make([]domain.AuditLogDTO, 0, len(logs))
	for i := range logs {
		dtos = append(dtos, mapper.ToAuditLogDTO(&logs[i]))
	}
	return dtos, nil
}

// CleanupOldLogs removes entries older than retentionDays
func (s *AuditLogService) CleanupOldLogs(ctx context.Context, retentionDays int) (int64, error) {
	before := time.Now().UTC().AddDate(0, 0, -retentionDays)
	count, err := s.auditRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		s.logger.Error("failed to cleanup old audit logs",
			zap.Int("retention_days", retentionDays),
			zap.Error(err))
		return 0, err
	}

	if count > 0 {
		s.logger.Info("cleaned up old audit logs",
			zap.Int64("deleted_count", count),
			zap.Int("retention_days", retentionDays))
	}
	return count, nil
}

// ClientIP prefers X-Forwarded-For, then X-Real-IP, then the socket address
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

// truncateBody keeps at most maxAuditBody bytes without splitting a rune
func truncateBody(body []byte) string {
	if len(body) <= maxAuditBody {
		return string(body)
	}
	cut := maxAuditBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "…"
}
