package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create inserts the offer together with its product lines
func (r *OfferRepository) Create(ctx context.Context, tx *gorm.DB, offer *domain.Offer) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Client", "Vehicle").Create(offer).Error
}

func (r *OfferRepository) ExistsByNumber(ctx context.Context, tx *gorm.DB, number string) (bool, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&domain.Offer{}).
		Where("offer_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// GetByNumber loads an offer with its client and product lines
func (r *OfferRepository) GetByNumber(ctx context.Context, tx *gorm.DB, number string) (*domain.Offer, error) {
	var offer domain.Offer
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Client").
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("category ASC, position ASC")
		}).
		Where("offer_number = ?", number).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListByClient returns the client's offers, optionally for one vehicle, newest first
func (r *OfferRepository) ListByClient(ctx context.Context, clientID uuid.UUID, vehicleID *uuid.UUID) ([]domain.Offer, error) {
	var offers []domain.Offer
	query := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("category ASC, position ASC")
		}).
		Where("client_id = ?", clientID)
	if vehicleID != nil {
		query = query.Where("vehicle_id = ?", *vehicleID)
	}
	err := query.Order("date DESC, created_at DESC").Find(&offers).Error
	return offers, err
}

// UpdateFields writes the given columns of an offer
func (r *OfferRepository) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return conn(r.db, tx).WithContext(ctx).
		Model(&domain.Offer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateStatus sets the status by offer number
func (r *OfferRepository) UpdateStatus(ctx context.Context, number, status string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Offer{}).
		Where("offer_number = ?", number).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceProducts deletes every line of the offer and inserts products
func (r *OfferRepository) ReplaceProducts(ctx context.Context, tx *gorm.DB, offerID uuid.UUID, products []domain.OfferProduct) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("offer_id = ?", offerID).Delete(&domain.OfferProduct{}).Error; err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}
	for i := range products {
		products[i].OfferID = offerID
	}
	return db.Create(&products).Error
}

// ProductsByCategory returns the lines of one category
func (r *OfferRepository) ProductsByCategory(ctx context.Context, tx *gorm.DB, offerID uuid.UUID, category string) ([]domain.OfferProduct, error) {
	var products []domain.OfferProduct
	err := conn(r.db, tx).WithContext(ctx).
		Where("offer_id = ? AND category = ?", offerID, category).
		Order("position ASC").
		Find(&products).Error
	return products, err
}

// HighestNumber returns the largest n over offer numbers shaped O<n>, or 0
func (r *OfferRepository) HighestNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	var numbers []string
	err := conn(r.db, tx).WithContext(ctx).
		Model(&domain.Offer{}).
		Where("offer_number LIKE ?", "O%").
		Pluck("offer_number", &numbers).Error
	if err != nil {
		return 0, err
	}
	return highestSuffix(numbers, "O"), nil
}

// Search matches offer number, status or observations
func (r *OfferRepository) Search(ctx context.Context, query string, page, perPage int) ([]domain.Offer, error) {
	var offers []domain.Offer
	p := likePattern(query)
	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("category ASC, position ASC")
		}).
		Where("LOWER(offer_number) LIKE ? OR LOWER(status) LIKE ? OR LOWER(observations) LIKE ?", p, p, p).
		Order("date DESC, offer_number ASC")
	err := paginate(q, page, perPage).Find(&offers).Error
	return offers, err
}

// SearchProducts matches offer lines by name, brand, code or category
func (r *OfferRepository) SearchProducts(ctx context.Context, query string, page, perPage int) ([]domain.OfferProduct, error) {
	var products []domain.OfferProduct
	p := likePattern(query)
	q := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(code) LIKE ? OR LOWER(category) LIKE ?", p, p, p, p).
		Order("created_at DESC, id ASC")
	err := paginate(q, page, perPage).Find(&products).Error
	return products, err
}

// GetByIDs returns offers keyed by id with client and vehicle preloaded
func (r *OfferRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Offer, error) {
	result := make(map[uuid.UUID]domain.Offer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var offers []domain.Offer
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Vehicle").
		Where("id IN ?", ids).
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	for _, o := range offers {
		result[o.ID] = o
	}
	return result, nil
}

// DeleteByClient removes the client's offers and their lines
func (r *OfferRepository) DeleteByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("offer_id IN (?)", db.Model(&domain.Offer{}).Select("id").Where("client_id = ?", clientID)).
		Delete(&domain.OfferProduct{}).Error; err != nil {
		return err
	}
	return db.Where("client_id = ?", clientID).Delete(&domain.Offer{}).Error
}

func highestSuffix(numbers []string, prefix string) int {
	highest := 0
	for _, n := range numbers {
		rest, ok := strings.CutPrefix(n, prefix)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if v > highest {
			highest = v
		}
	}
	return highest
}
