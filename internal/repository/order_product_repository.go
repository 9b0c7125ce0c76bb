package repository

import (
	"context"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderProductRepository struct {
	db *gorm.DB
}

func NewOrderProductRepository(db *gorm.DB) *OrderProductRepository {
	return &OrderProductRepository{db: db}
}

func (r *OrderProductRepository) ListByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]domain.OrderProduct, error) {
	var products []domain.OrderProduct
	err := conn(r.db, tx).WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("position ASC").
		Find(&products).Error
	return products, err
}

// ListByOrderWithReturns includes the recorded returns of each line
func (r *OrderProductRepository) ListByOrderWithReturns(ctx context.Context, orderID uuid.UUID) ([]domain.OrderProduct, error) {
	var products []domain.OrderProduct
	err := r.db.WithContext(ctx).
		Preload("Returns").
		Where("order_id = ?", orderID).
		Order("position ASC").
		Find(&products).Error
	return products, err
}

// GetForUpdate loads a line and locks its row until the transaction ends
func (r *OrderProductRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.OrderProduct, error) {
	var product domain.OrderProduct
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByCode returns lines of an order with exactly this product code
func (r *OrderProductRepository) FindByCode(ctx context.Context, orderID uuid.UUID, code string) ([]domain.OrderProduct, error) {
	var products []domain.OrderProduct
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND code = ?", orderID, code).
		Order("position ASC").
		Find(&products).Error
	return products, err
}

// FindByAny returns lines of an order whose name, brand or code equals term
func (r *OrderProductRepository) FindByAny(ctx context.Context, orderID uuid.UUID, term string) ([]domain.OrderProduct, error) {
	var products []domain.OrderProduct
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Where("name = ? OR brand = ? OR code = ?", term, term, term).
		Order("position ASC").
		Find(&products).Error
	return products, err
}

// ProductMatch is a line found by the global search with its order and client
type ProductMatch struct {
	domain.OrderProduct
	OrderNumber string
	ClientID    uuid.UUID
	ClientName  string
}

// FindGlobal matches lines across all orders. Codes are compared with hyphens
// removed; every comparison ignores case.
func (r *OrderProductRepository) FindGlobal(ctx context.Context, term string) ([]ProductMatch, error) {
	cleaned := strings.ToLower(strings.ReplaceAll(term, "-", ""))

	var products []domain.OrderProduct
	err := r.db.WithContext(ctx).
		Where("REPLACE(LOWER(code), '-', '') = ? OR LOWER(name) = ? OR LOWER(brand) = ?", cleaned, cleaned, cleaned).
		Order("created_at DESC, id ASC").
		Find(&products).Error
	if err != nil || len(products) == 0 {
		return []ProductMatch{}, err
	}

	orderIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		orderIDs = append(orderIDs, p.OrderID)
	}
	var orders []domain.Order
	if err := r.db.WithContext(ctx).Preload("Client").Where("id IN ?", orderIDs).Find(&orders).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}

	matches := make([]ProductMatch, 0, len(products))
	for _, p := range products {
		m := ProductMatch{OrderProduct: p}
		if o, ok := byID[p.OrderID]; ok {
			m.OrderNumber = o.OrderNumber
			m.ClientID = o.ClientID
			if o.Client != nil {
				m.ClientName = o.Client.Name
			}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Search matches lines by name, brand or code (substring)
func (r *OrderProductRepository) Search(ctx context.Context, query string, page, perPage int) ([]domain.OrderProduct, error) {
	var products []domain.OrderProduct
	p := likePattern(query)
	q := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(code) LIKE ?", p, p, p).
		Order("created_at DESC, id ASC")
	err := paginate(q, page, perPage).Find(&products).Error
	return products, err
}
