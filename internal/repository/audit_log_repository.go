package repository

import (
	"context"
	"time"

	"github.com/autoshop/shop-api/internal/domain"
	"gorm.io/gorm"
)

// AuditLogFilter narrows audit log queries; zero fields are ignored
type AuditLogFilter struct {
	UserID    string
	Method    string
	PathLike  string
	StartTime *time.Time
	EndTime   *time.Time
}

// AuditLogRepository handles audit log data access
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create inserts a new audit log entry (append-only)
func (r *AuditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List returns the most recent entries matching filter
func (r *AuditLogRepository) List(ctx context.Context, filter *AuditLogFilter, limit int) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	query := r.db.WithContext(ctx).Model(&domain.AuditLog{})
	if filter != nil {
		if filter.UserID != "" {
			query = query.Where("user_id = ?", filter.UserID)
		}
		if filter.Method != "" {
			query = query.Where("method = ?", filter.Method)
		}
		if filter.PathLike != "" {
			query = query.Where("LOWER(path) LIKE ?", likePattern(filter.PathLike))
		}
		if filter.StartTime != nil {
			query = query.Where("performed_at >= ?", *filter.StartTime)
		}
		if filter.EndTime != nil {
			query = query.Where("performed_at <= ?", *filter.EndTime)
		}
	}
	err := query.Order("performed_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// DeleteOlderThan removes entries performed before cutoff
func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("performed_at < ?", cutoff).Delete(&domain.AuditLog{})
	return result.RowsAffected, result.Error
}
