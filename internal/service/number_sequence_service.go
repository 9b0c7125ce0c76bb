package service

import (
	"context"
	"fmt"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	offerNumberPrefix = "O"
	orderNumberPrefix = "CMD"
)

// NumberSequenceService hands out offer numbers (O<n>) and order numbers (CMD<n>).
// The sequence never goes below the highest number already stored, so numbers
// typed in by hand or imported from older data are skipped.
type NumberSequenceService struct {
	repo      *repository.NumberSequenceRepository
	offerRepo *repository.OfferRepository
	orderRepo *repository.OrderRepository
	logger    *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	offerRepo *repository.OfferRepository,
	orderRepo *repository.OrderRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:      repo,
		offerRepo: offerRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// NextOfferNumber allocates the next offer number inside tx (nil runs standalone)
func (s *NumberSequenceService) NextOfferNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	floor, err := s.offerRepo.HighestNumber(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("failed to read highest offer number: %w", err)
	}
	return s.generate(ctx, tx, domain.SequenceOffer, offerNumberPrefix, floor)
}

// NextOrderNumber allocates the next order number inside tx (nil runs standalone)
func (s *NumberSequenceService) NextOrderNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	floor, err := s.orderRepo.HighestNumber(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("failed to read highest order number: %w", err)
	}
	return s.generate(ctx, tx, domain.SequenceOrder, orderNumberPrefix, floor)
}

// HighestOfferNumber returns "O<max>" over stored offers, or "O0"
func (s *NumberSequenceService) HighestOfferNumber(ctx context.Context) (string, error) {
	n, err := s.offerRepo.HighestNumber(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read highest offer number: %w", err)
	}
	return fmt.Sprintf("%s%d", offerNumberPrefix, n), nil
}

// HighestOrderNumber returns "CMD<max>" over stored orders, or "CMD0"
func (s *NumberSequenceService) HighestOrderNumber(ctx context.Context) (string, error) {
	n, err := s.orderRepo.HighestNumber(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read highest order number: %w", err)
	}
	return fmt.Sprintf("%s%d", orderNumberPrefix, n), nil
}

func (s *NumberSequenceService) generate(ctx context.Context, tx *gorm.DB, kind, prefix string, floor int) (string, error) {
	next, err := s.repo.GetNextNumber(ctx, tx, kind, floor)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("kind", kind),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", kind, err)
	}

	number := fmt.Sprintf("%s%d", prefix, next)
	s.logger.Debug("generated number",
		zap.String("kind", kind),
		zap.String("number", number))
	return number, nil
}
