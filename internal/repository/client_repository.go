package repository

import (
	"context"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByIDs returns the clients keyed by id; missing ids are absent from the map
func (r *ClientRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Client, error) {
	result := make(map[uuid.UUID]domain.Client, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var clients []domain.Client
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&clients).Error; err != nil {
		return nil, err
	}
	for _, c := range clients {
		result[c.ID] = c
	}
	return result, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// List returns clients whose name contains name (case-insensitive), or all clients
func (r *ClientRepository) List(ctx context.Context, name string) ([]domain.Client, error) {
	var clients []domain.Client
	query := r.db.WithContext(ctx).Model(&domain.Client{})
	if name != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(name))
	}
	err := query.Order("name ASC").Find(&clients).Error
	return clients, err
}

func (r *ClientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.WithContext(ctx).Order("name ASC").Find(&clients).Error
	return clients, err
}

// Search matches name, phone, address, locality, county or CNP
func (r *ClientRepository) Search(ctx context.Context, query string, page, perPage int) ([]domain.Client, error) {
	var clients []domain.Client
	p := likePattern(query)
	q := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(address) LIKE ? OR LOWER(locality) LIKE ? OR LOWER(county) LIKE ? OR LOWER(COALESCE(cnp, '')) LIKE ?",
			p, p, p, p, p, p).
		Order("name ASC")
	err := paginate(q, page, perPage).Find(&clients).Error
	return clients, err
}

// Delete removes the client row. Dependent rows are removed by the caller in the same tx.
func (r *ClientRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	result := conn(r.db, tx).WithContext(ctx).Delete(&domain.Client{}, "id = ?", id)
	return result.RowsAffected, result.Error
}
