package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/mapper"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VehicleService struct {
	vehicleRepo *repository.VehicleRepository
	clientRepo  *repository.ClientRepository
	logger      *zap.Logger
}

func NewVehicleService(vehicleRepo *repository.VehicleRepository, clientRepo *repository.ClientRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

// Create adds a vehicle to an existing client
func (s *VehicleService) Create(ctx context.Context, req *domain.CreateVehicleRequest) (*domain.VehicleDTO, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, Invalid("client_id invalid")
	}
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, mapNotFound(err, ErrClientNotFound)
	}

	vehicle := &domain.Vehicle{
		ClientID:     clientID,
		Make:         strings.TrimSpace(req.Marca),
		Model:        strings.TrimSpace(req.Model),
		Year:         strings.TrimSpace(req.An),
		VIN:          strings.TrimSpace(req.VIN),
		Registration: strings.TrimSpace(req.NumarInmatriculare),
		ImageURL:     strings.TrimSpace(req.ImageURL),
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("vehicle created",
		zap.String("vehicle_id", vehicle.ID.String()),
		zap.String("client_id", clientID.String()))
	dto := mapper.ToVehicleDTO(vehicle)
	return &dto, nil
}

func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.VehicleDTO, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrVehicleNotFound)
	}
	dto := mapper.ToVehicleDTO(vehicle)
	return &dto, nil
}

func (s *VehicleService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.VehicleDTO, error) {
	vehicles, err := s.vehicleRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	dtos := make([]domain.VehicleDTO, 0, len(vehicles))
	for i := range vehicles {
		dtos = append(dtos, mapper.ToVehicleDTO(&vehicles[i]))
	}
	return dtos, nil
}

// Update overwrites the descriptive fields. image_url is only written when sent.
func (s *VehicleService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateVehicleRequest) error {
	required := []struct {
		name  string
		value *string
	}{
		{"marca", req.Marca},
		{"model", req.Model},
		{"an", req.An},
		{"vin", req.VIN},
		{"numar_inmatriculare", req.NumarInmatriculare},
	}
	for _, f := range required {
		if f.value == nil {
			return Invalid(fmt.Sprintf("Missing field: %s", f.name))
		}
	}

	updates := map[string]interface{}{
		"make":         strings.TrimSpace(*req.Marca),
		"model":        strings.TrimSpace(*req.Model),
		"year":         strings.TrimSpace(*req.An),
		"vin":          strings.TrimSpace(*req.VIN),
		"registration": strings.TrimSpace(*req.NumarInmatriculare),
	}
	if req.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*req.ImageURL)
	}

	if err := s.vehicleRepo.Update(ctx, id, updates); err != nil {
		return mapNotFound(err, ErrVehicleNotFound)
	}
	return nil
}

// Search matches make, model, VIN or plate. An empty page is reported as not found.
func (s *VehicleService) Search(ctx context.Context, query string, page, perPage int) ([]domain.VehicleSearchResultDTO, error) {
	vehicles, err := s.vehicleRepo.Search(ctx, strings.TrimSpace(query), page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}
	if len(vehicles) == 0 {
		return nil, newError(ErrNotFound, "No vehicles found")
	}

	results := make([]domain.VehicleSearchResultDTO, 0, len(vehicles))
	for i := range vehicles {
		r := domain.VehicleSearchResultDTO{VehicleDTO: mapper.ToVehicleDTO(&vehicles[i])}
		if vehicles[i].Client != nil {
			r.ClientName = vehicles[i].Client.Name
		}
		results = append(results, r)
	}
	return results, nil
}

// Delete removes the vehicle. Offers and orders keep their history without it.
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.vehicleRepo.Delete(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if affected == 0 {
		s.logger.Debug("vehicle already absent", zap.String("vehicle_id", id.String()))
	}
	return nil
}

// exists reports whether the vehicle is stored
func (s *VehicleService) exists(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVehicleNotFound
	}
	return vehicle, err
}
