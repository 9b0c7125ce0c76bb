package repository

import (
	"context"
	"time"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, tx *gorm.DB, payment *domain.Payment) error {
	return conn(r.db, tx).WithContext(ctx).Create(payment).Error
}

// AmountsByOrder returns every payment amount recorded for an order
func (r *PaymentRepository) AmountsByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := conn(r.db, tx).WithContext(ctx).
		Model(&domain.Payment{}).
		Where("order_id = ?", orderID).
		Pluck("amount", &amounts).Error
	return amounts, err
}

// PaymentFilter narrows List; nil fields are ignored
type PaymentFilter struct {
	ClientID *uuid.UUID
	OrderID  *uuid.UUID
}

// List returns payments matching filter, newest first
func (r *PaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error) {
	var payments []domain.Payment
	query := r.db.WithContext(ctx).Model(&domain.Payment{})
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	err := query.Order("date DESC, created_at DESC").Find(&payments).Error
	return payments, err
}

// ListCreatedBetween returns payments created in (from, to]
func (r *PaymentRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("created_at > ? AND created_at <= ?", from, to).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}
