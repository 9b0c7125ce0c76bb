package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/mapper"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ClientService struct {
	clientRepo  *repository.ClientRepository
	vehicleRepo *repository.VehicleRepository
	offerRepo   *repository.OfferRepository
	orderRepo   *repository.OrderRepository
	db          *gorm.DB
	logger      *zap.Logger
}

func NewClientService(
	clientRepo *repository.ClientRepository,
	vehicleRepo *repository.VehicleRepository,
	offerRepo *repository.OfferRepository,
	orderRepo *repository.OrderRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		vehicleRepo: vehicleRepo,
		offerRepo:   offerRepo,
		orderRepo:   orderRepo,
		db:          db,
		logger:      logger,
	}
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.ClientDTO, error) {
	client := &domain.Client{
		Name:     strings.TrimSpace(req.Nume),
		Phone:    strings.TrimSpace(req.Telefon),
		Address:  strings.TrimSpace(req.Adresa),
		County:   strings.TrimSpace(req.Judet),
		Locality: strings.TrimSpace(req.Localitate),
		CNP:      blankToNil(req.CNP),
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created", zap.String("client_id", client.ID.String()))
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

func (s *ClientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrClientNotFound)
	}
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// List returns clients whose name contains name, or all clients when name is empty
func (s *ClientService) List(ctx context.Context, name string) ([]domain.ClientDTO, error) {
	clients, err := s.clientRepo.List(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	dtos := make([]domain.ClientDTO, 0, len(clients))
	for i := range clients {
		dtos = append(dtos, mapper.ToClientDTO(&clients[i]))
	}
	return dtos, nil
}

// Update applies the fields present in req
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateClientRequest) (*domain.ClientDTO, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrClientNotFound)
	}

	if v := trimmed(req.Nume); v != nil {
		client.Name = *v
	}
	if v := trimmed(req.Telefon); v != nil {
		client.Phone = *v
	}
	if v := trimmed(req.Adresa); v != nil {
		client.Address = *v
	}
	if v := trimmed(req.Judet); v != nil {
		client.County = *v
	}
	if v := trimmed(req.Localitate); v != nil {
		client.Locality = *v
	}
	if req.CNP != nil {
		client.CNP = blankToNil(req.CNP)
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	dto := mapper.ToClientDTO(client)
	return &dto, nil
}

// Delete removes the client with its vehicles, offers, orders, returns and payments
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.DeleteByClient(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
		if err := s.offerRepo.DeleteByClient(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete offers: %w", err)
		}
		if err := s.vehicleRepo.DeleteByClient(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to delete vehicles: %w", err)
		}
		affected, err := s.clientRepo.Delete(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		if affected == 0 {
			return ErrClientNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("client deleted", zap.String("client_id", id.String()))
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
