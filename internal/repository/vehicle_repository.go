package repository

import (
	"context"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.db.WithContext(ctx).Omit("Client").Create(vehicle).Error
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// GetByIDs returns the vehicles keyed by id
func (r *VehicleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Vehicle, error) {
	result := make(map[uuid.UUID]domain.Vehicle, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var vehicles []domain.Vehicle
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&vehicles).Error; err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		result[v.ID] = v
	}
	return result, nil
}

func (r *VehicleRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&vehicles).Error
	return vehicles, err
}

// Update writes the given columns
func (r *VehicleRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.Vehicle{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search matches make, model, VIN or plate and preloads the owner
func (r *VehicleRepository) Search(ctx context.Context, query string, page, perPage int) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	p := likePattern(query)
	q := r.db.WithContext(ctx).
		Preload("Client").
		Where("LOWER(make) LIKE ? OR LOWER(model) LIKE ? OR LOWER(vin) LIKE ? OR LOWER(registration) LIKE ?", p, p, p, p).
		Order("make ASC, model ASC, id ASC")
	err := paginate(q, page, perPage).Find(&vehicles).Error
	return vehicles, err
}

// Delete removes the vehicle and detaches it from offers and orders
func (r *VehicleRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Model(&domain.Offer{}).Where("vehicle_id = ?", id).Update("vehicle_id", nil).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&domain.Order{}).Where("vehicle_id = ?", id).Update("vehicle_id", nil).Error; err != nil {
		return 0, err
	}
	if err := db.Where("vehicle_id = ?", id).Delete(&domain.VehicleDocument{}).Error; err != nil {
		return 0, err
	}
	result := db.Delete(&domain.Vehicle{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

// DeleteByClient removes every vehicle of a client
func (r *VehicleRepository) DeleteByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("vehicle_id IN (?)", db.Model(&domain.Vehicle{}).Select("id").Where("client_id = ?", clientID)).
		Delete(&domain.VehicleDocument{}).Error; err != nil {
		return err
	}
	return db.Where("client_id = ?", clientID).Delete(&domain.Vehicle{}).Error
}

// CreateDocument records a stored registration document
func (r *VehicleRepository) CreateDocument(ctx context.Context, doc *domain.VehicleDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// LatestDocument returns the most recently uploaded document of a vehicle
func (r *VehicleRepository) LatestDocument(ctx context.Context, vehicleID uuid.UUID) (*domain.VehicleDocument, error) {
	var doc domain.VehicleDocument
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at DESC").
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DocumentByPath finds the document stored at storagePath
func (r *VehicleRepository) DocumentByPath(ctx context.Context, storagePath string) (*domain.VehicleDocument, error) {
	var doc domain.VehicleDocument
	if err := r.db.WithContext(ctx).Where("storage_path = ?", storagePath).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}
