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

const (
	msgOfferCreated        = "Ofertă adăugată cu succes!"
	msgOfferUpdated        = "Ofertă actualizată cu succes!"
	msgOfferUpdatedNoLines = "Ofertă actualizată fără produse."
	msgOfferStatusUpdated  = "Offer updated successfully"
)

type OfferService struct {
	offerRepo   *repository.OfferRepository
	clientRepo  *repository.ClientRepository
	vehicleRepo *repository.VehicleRepository
	numbers     *NumberSequenceService
	db          *gorm.DB
	logger      *zap.Logger
}

func NewOfferService(
	offerRepo *repository.OfferRepository,
	clientRepo *repository.ClientRepository,
	vehicleRepo *repository.VehicleRepository,
	numbers *NumberSequenceService,
	db *gorm.DB,
	logger *zap.Logger,
) *OfferService {
	return &OfferService{
		offerRepo:   offerRepo,
		clientRepo:  clientRepo,
		vehicleRepo: vehicleRepo,
		numbers:     numbers,
		db:          db,
		logger:      logger,
	}
}

// Create stores an offer with every category's lines in one transaction.
// When offer_number is empty the next O<n> is allocated.
func (s *OfferService) Create(ctx context.Context, req *domain.CreateOfferRequest) (*domain.CreateOfferResponse, error) {
	if strings.TrimSpace(req.ClientID) == "" || strings.TrimSpace(req.VehicleID) == "" ||
		len(req.Categories) == 0 || strings.TrimSpace(req.Status) == "" || strings.TrimSpace(req.Date) == "" {
		return nil, ErrMissingFields
	}

	clientID, err := uuid.Parse(strings.TrimSpace(req.ClientID))
	if err != nil {
		return nil, Invalid("client_id invalid")
	}
	vehicleID, err := parseOptionalUUID(req.VehicleID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, mapNotFound(err, ErrClientNotFound)
	}
	if _, err := s.vehicleRepo.GetByID(ctx, *vehicleID); err != nil {
		return nil, mapNotFound(err, ErrVehicleNotFound)
	}

	offer := &domain.Offer{
		OfferNumber:  strings.TrimSpace(req.OfferNumber),
		ClientID:     clientID,
		VehicleID:    vehicleID,
		Date:         date,
		Status:       strings.TrimSpace(req.Status),
		Observations: req.Observations,
		Products:     linesFromCategories(req.Categories),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if offer.OfferNumber == "" {
			number, err := s.numbers.NextOfferNumber(ctx, tx)
			if err != nil {
				return err
			}
			offer.OfferNumber = number
		} else {
			exists, err := s.offerRepo.ExistsByNumber(ctx, tx, offer.OfferNumber)
			if err != nil {
				return fmt.Errorf("failed to check offer number: %w", err)
			}
			if exists {
				return ErrDuplicateOfferNumber
			}
		}
		return s.offerRepo.Create(ctx, tx, offer)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("offer created",
		zap.String("offer_number", offer.OfferNumber),
		zap.String("client_id", clientID.String()),
		zap.Int("lines", len(offer.Products)))

	return &domain.CreateOfferResponse{
		Message:     msgOfferCreated,
		OfferID:     offer.ID.String(),
		OfferNumber: offer.OfferNumber,
	}, nil
}

func (s *OfferService) GetByNumber(ctx context.Context, number string) (*domain.OfferDTO, error) {
	offer, err := s.offerRepo.GetByNumber(ctx, nil, number)
	if err != nil {
		return nil, mapNotFound(err, ErrOfferNotFound)
	}
	dto := mapper.ToOfferDTO(offer)
	return &dto, nil
}

// ListByClient returns the client's offers. No offers is reported as not found.
func (s *OfferService) ListByClient(ctx context.Context, clientID uuid.UUID, vehicleID *uuid.UUID) ([]domain.OfferDTO, error) {
	offers, err := s.offerRepo.ListByClient(ctx, clientID, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	if len(offers) == 0 {
		return nil, newError(ErrNotFound, "No offers found")
	}

	dtos := make([]domain.OfferDTO, 0, len(offers))
	for i := range offers {
		dtos = append(dtos, mapper.ToOfferDTO(&offers[i]))
	}
	return dtos, nil
}

// Update writes the header fields present in req and, when categories are
// sent, replaces every line of the offer.
func (s *OfferService) Update(ctx context.Context, number string, req *domain.UpdateOfferRequest) (*domain.MessageResponse, error) {
	updates := map[string]interface{}{}
	if req.VehicleID != nil {
		vehicleID, err := parseOptionalUUID(*req.VehicleID)
		if err != nil {
			return nil, err
		}
		updates["vehicle_id"] = vehicleID
	}
	if req.Status != nil {
		updates["status"] = strings.TrimSpace(*req.Status)
	}
	if req.Observations != nil {
		updates["observations"] = *req.Observations
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		updates["date"] = date
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offer, err := s.offerRepo.GetByNumber(ctx, tx, number)
		if err != nil {
			return mapNotFound(err, ErrOfferNotFound)
		}
		if err := s.offerRepo.UpdateFields(ctx, tx, offer.ID, updates); err != nil {
			return fmt.Errorf("failed to update offer: %w", err)
		}
		if len(req.Categories) == 0 {
			return nil
		}
		return s.offerRepo.ReplaceProducts(ctx, tx, offer.ID, linesFromCategories(req.Categories))
	})
	if err != nil {
		return nil, err
	}

	if len(req.Categories) == 0 {
		return &domain.MessageResponse{Message: msgOfferUpdatedNoLines}, nil
	}
	s.logger.Info("offer lines replaced", zap.String("offer_number", number))
	return &domain.MessageResponse{Message: msgOfferUpdated}, nil
}

func (s *OfferService) UpdateStatus(ctx context.Context, req *domain.UpdateOfferStatusRequest) (*domain.MessageResponse, error) {
	number := strings.TrimSpace(req.OfferNumber)
	status := strings.TrimSpace(req.NewStatus)
	if number == "" || status == "" {
		return nil, Invalid("Missing data")
	}

	if err := s.offerRepo.UpdateStatus(ctx, number, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to update offer status: %w", err)
	}
	return &domain.MessageResponse{Message: msgOfferStatusUpdated}, nil
}

func (s *OfferService) HighestOfferNumber(ctx context.Context) (*domain.HighestOfferNumberDTO, error) {
	number, err := s.numbers.HighestOfferNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.HighestOfferNumberDTO{HighestOfferNumber: number}, nil
}

// linesFromCategories flattens categories in name order. Position keeps the
// row order within each category.
func linesFromCategories(categories map[string]domain.CategoryDTO) []domain.OfferProduct {
	var lines []domain.OfferProduct
	for _, name := range mapper.SortedCategoryNames(categories) {
		for i, row := range categories[name].Products {
			line := mapper.FromProductRow(name, row)
			line.Position = i
			lines = append(lines, line)
		}
	}
	return lines
}
