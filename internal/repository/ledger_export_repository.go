package repository

import (
	"context"
	"errors"
	"time"

	"github.com/autoshop/shop-api/internal/domain"
	"gorm.io/gorm"
)

// LedgerExportRepository stores the history of accounting warehouse exports
type LedgerExportRepository struct {
	db *gorm.DB
}

func NewLedgerExportRepository(db *gorm.DB) *LedgerExportRepository {
	return &LedgerExportRepository{db: db}
}

func (r *LedgerExportRepository) Create(ctx context.Context, run *domain.LedgerExport) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// LastSuccessfulUntil returns the watermark of the latest successful export,
// or the zero time when nothing has been exported yet
func (r *LedgerExportRepository) LastSuccessfulUntil(ctx context.Context) (time.Time, error) {
	var run domain.LedgerExport
	err := r.db.WithContext(ctx).
		Where("success = ?", true).
		Order("exported_until DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return run.ExportedUntil, nil
}
