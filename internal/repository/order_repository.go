package repository

import (
	"context"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order together with its product lines
func (r *OrderRepository) Create(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Client", "Vehicle", "Payments").Create(order).Error
}

func (r *OrderRepository) ExistsByNumber(ctx context.Context, tx *gorm.DB, number string) (bool, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetForUpdate loads an order and locks its row until the transaction ends.
// SQLite has no row locks; its single writer gives the same guarantee.
func (r *OrderRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByNumberForUpdate loads an order by number and locks its row
func (r *OrderRepository) GetByNumberForUpdate(ctx context.Context, tx *gorm.DB, number string) (*domain.Order, error) {
	var order domain.Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByNumber loads an order with client, vehicle, lines and payments
func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var order domain.Order
	err := r.withLedger(r.db.WithContext(ctx)).
		Preload("Client").
		Preload("Vehicle").
		Where("order_number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByClient returns the client's orders with lines and payments, newest first
func (r *OrderRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.withLedger(r.db.WithContext(ctx)).
		Where("client_id = ?", clientID).
		Order("date DESC, created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListWithLedger returns every order with lines, returns and payments
func (r *OrderRepository) ListWithLedger(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.withLedger(r.db.WithContext(ctx)).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// ListOutstanding returns orders whose payment axis is unpaid or partially paid
func (r *OrderRepository) ListOutstanding(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.withLedger(r.db.WithContext(ctx)).
		Preload("Vehicle").
		Where("payment_status IN ?", []domain.PaymentStatus{domain.PaymentUnpaid, domain.PaymentPartiallyPaid}).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// UpdateFields writes the given columns of an order
func (r *OrderRepository) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	result := conn(r.db, tx).WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPaymentStatus writes the payment axis
func (r *OrderRepository) SetPaymentStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.PaymentStatus) error {
	return r.UpdateFields(ctx, tx, id, map[string]interface{}{"payment_status": status})
}

// HighestNumber returns the largest n over order numbers shaped CMD<n>, or 0
func (r *OrderRepository) HighestNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	var numbers []string
	err := conn(r.db, tx).WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_number LIKE ?", "CMD%").
		Pluck("order_number", &numbers).Error
	if err != nil {
		return 0, err
	}
	return highestSuffix(numbers, "CMD"), nil
}

// ListIDs returns every order id, oldest first
func (r *OrderRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Order("created_at ASC").Pluck("id", &ids).Error
	return ids, err
}

// Search matches order number, observations or source offer number
func (r *OrderRepository) Search(ctx context.Context, query string, page, perPage int) ([]domain.Order, error) {
	var orders []domain.Order
	p := likePattern(query)
	q := r.withLedger(r.db.WithContext(ctx)).
		Preload("Client").
		Where("LOWER(order_number) LIKE ? OR LOWER(observations) LIKE ? OR LOWER(source_offer_number) LIKE ? OR LOWER(source_category) LIKE ?", p, p, p, p).
		Order("date DESC, order_number ASC")
	err := paginate(q, page, perPage).Find(&orders).Error
	return orders, err
}

// GetByIDs returns orders keyed by id with client and vehicle preloaded
func (r *OrderRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Order, error) {
	result := make(map[uuid.UUID]domain.Order, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Vehicle").
		Where("id IN ?", ids).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		result[o.ID] = o
	}
	return result, nil
}

// DeleteByClient removes the client's orders with their lines, returns and payments
func (r *OrderRepository) DeleteByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error {
	db := conn(r.db, tx).WithContext(ctx)
	orderIDs := db.Model(&domain.Order{}).Select("id").Where("client_id = ?", clientID)
	lineIDs := db.Model(&domain.OrderProduct{}).Select("id").Where("order_id IN (?)", orderIDs)

	if err := db.Where("order_product_id IN (?)", lineIDs).Delete(&domain.Return{}).Error; err != nil {
		return err
	}
	if err := db.Where("order_id IN (?)", orderIDs).Delete(&domain.OrderProduct{}).Error; err != nil {
		return err
	}
	if err := db.Where("client_id = ? OR order_id IN (?)", clientID, orderIDs).Delete(&domain.Payment{}).Error; err != nil {
		return err
	}
	return db.Where("client_id = ?", clientID).Delete(&domain.Order{}).Error
}

func (r *OrderRepository) withLedger(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Products.Returns").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC, created_at ASC")
		})
}
