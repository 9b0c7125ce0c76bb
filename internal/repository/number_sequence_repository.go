package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autoshop/shop-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository hands out offer and order numbers.
// Each kind has one row holding the last number used.
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// GetNextNumber locks the kind's row, increments it and returns the new value.
// When tx is nil the increment runs in its own transaction. floor is the
// highest number already in use; the sequence never returns a value at or below it.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, tx *gorm.DB, kind string, floor int) (int, error) {
	if tx != nil {
		return r.next(ctx, tx, kind, floor)
	}

	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		next, err = r.next(ctx, tx, kind, floor)
		return err
	})
	return next, err
}

func (r *NumberSequenceRepository) next(ctx context.Context, tx *gorm.DB, kind string, floor int) (int, error) {
	var seq domain.NumberSequence
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("kind = ?", kind).
		First(&seq).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		seq = domain.NumberSequence{Kind: kind, LastNumber: floor + 1, UpdatedAt: time.Now()}
		if err := tx.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, fmt.Errorf("failed to create number sequence: %w", err)
		}
		return seq.LastNumber, nil
	case err != nil:
		return 0, fmt.Errorf("failed to get number sequence: %w", err)
	}

	next := seq.LastNumber + 1
	if next <= floor {
		next = floor + 1
	}
	if err := tx.WithContext(ctx).Model(&seq).Updates(map[string]interface{}{
		"last_number": next,
		"updated_at":  time.Now(),
	}).Error; err != nil {
		return 0, fmt.Errorf("failed to update number sequence: %w", err)
	}
	return next, nil
}

// GetCurrent returns the last number used for kind, or 0
func (r *NumberSequenceRepository) GetCurrent(ctx context.Context, kind string) (int, error) {
	var seq domain.NumberSequence
	err := r.db.WithContext(ctx).Where("kind = ?", kind).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", err)
	}
	return seq.LastNumber, nil
}
