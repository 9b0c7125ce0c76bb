package repository

import (
	"context"
	"time"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReturnRepository struct {
	db *gorm.DB
}

func NewReturnRepository(db *gorm.DB) *ReturnRepository {
	return &ReturnRepository{db: db}
}

func (r *ReturnRepository) Create(ctx context.Context, tx *gorm.DB, ret *domain.Return) error {
	return conn(r.db, tx).WithContext(ctx).Create(ret).Error
}

// ReturnedQty sums the units already returned for a line
func (r *ReturnRepository) ReturnedQty(ctx context.Context, tx *gorm.DB, orderProductID uuid.UUID) (int, error) {
	var total int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&domain.Return{}).
		Where("order_product_id = ?", orderProductID).
		Select("COALESCE(SUM(return_qty), 0)").
		Scan(&total).Error
	return int(total), err
}

// ReturnedRow is a return joined with the order and client it belongs to
type ReturnedRow struct {
	domain.Return
	OrderID  uuid.UUID
	ClientID uuid.UUID
}

// ListCreatedBetween returns refunds created in (from, to] with their order and client
func (r *ReturnRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]ReturnedRow, error) {
	var returns []domain.Return
	err := r.db.WithContext(ctx).
		Where("created_at > ? AND created_at <= ?", from, to).
		Order("created_at ASC").
		Find(&returns).Error
	if err != nil || len(returns) == 0 {
		return []ReturnedRow{}, err
	}

	lineIDs := make([]uuid.UUID, 0, len(returns))
	for _, ret := range returns {
		lineIDs = append(lineIDs, ret.OrderProductID)
	}
	var lines []domain.OrderProduct
	if err := r.db.WithContext(ctx).Where("id IN ?", lineIDs).Find(&lines).Error; err != nil {
		return nil, err
	}
	lineOrder := make(map[uuid.UUID]uuid.UUID, len(lines))
	orderIDs := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		lineOrder[l.ID] = l.OrderID
		orderIDs = append(orderIDs, l.OrderID)
	}
	var orders []domain.Order
	if err := r.db.WithContext(ctx).Where("id IN ?", orderIDs).Find(&orders).Error; err != nil {
		return nil, err
	}
	orderClient := make(map[uuid.UUID]uuid.UUID, len(orders))
	for _, o := range orders {
		orderClient[o.ID] = o.ClientID
	}

	rows := make([]ReturnedRow, 0, len(returns))
	for _, ret := range returns {
		orderID := lineOrder[ret.OrderProductID]
		rows = append(rows, ReturnedRow{Return: ret, OrderID: orderID, ClientID: orderClient[orderID]})
	}
	return rows, nil
}
