package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/ledger"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgReturnRecorded = "Return recorded"

type ReturnService struct {
	returnRepo  *repository.ReturnRepository
	productRepo *repository.OrderProductRepository
	db          *gorm.DB
	logger      *zap.Logger
}

func NewReturnService(
	returnRepo *repository.ReturnRepository,
	productRepo *repository.OrderProductRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		returnRepo:  returnRepo,
		productRepo: productRepo,
		db:          db,
		logger:      logger,
	}
}

// ReturnableItems lists the order's lines with the units still eligible for return
func (s *ReturnService) ReturnableItems(ctx context.Context, orderID uuid.UUID) ([]domain.ReturnableItemDTO, error) {
	lines, err := s.productRepo.ListByOrderWithReturns(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}

	items := make([]domain.ReturnableItemDTO, 0, len(lines))
	for _, line := range lines {
		returned := 0
		for _, r := range line.Returns {
			returned += r.ReturnQty
		}
		items = append(items, domain.ReturnableItemDTO{
			ID:          line.ID.String(),
			Produs:      line.Name,
			Brand:       line.Brand,
			CodProdus:   line.Code,
			Cantitate:   line.Quantity,
			PretUnitar:  ledger.Float(line.UnitPrice),
			Discount:    ledger.Float(line.DiscountPct),
			EligibleQty: ledger.EligibleQty(line.Quantity, returned),
		})
	}
	return items, nil
}

// AddReturn records returned units of a line. The line row stays locked while
// eligibility is checked and the return is written, so concurrent returns
// cannot exceed the quantity sold.
func (s *ReturnService) AddReturn(ctx context.Context, req *domain.CreateReturnRequest) (*domain.ReturnResultDTO, error) {
	lineID, err := uuid.Parse(strings.TrimSpace(req.OrderProductID))
	if err != nil || int(req.ReturnQty) <= 0 {
		return nil, Invalid("order_product_id and positive return_qty required")
	}
	qty := int(req.ReturnQty)

	var ret *domain.Return
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line, err := s.productRepo.GetForUpdate(ctx, tx, lineID)
		if err != nil {
			return mapNotFound(err, ErrLineNotFound)
		}

		returned, err := s.returnRepo.ReturnedQty(ctx, tx, lineID)
		if err != nil {
			return fmt.Errorf("failed to sum returned quantity: %w", err)
		}
		if err := ledger.CheckReturn(line.Quantity, returned, qty); err != nil {
			if errors.Is(err, ledger.ErrExceedsEligible) {
				s.logger.Warn("return exceeds eligible quantity",
					zap.String("order_product_id", lineID.String()),
					zap.Int("sold", line.Quantity),
					zap.Int("returned", returned),
					zap.Int("requested", qty))
				return ErrReturnExceedsEligible
			}
			return Invalid(err.Error())
		}

		ret = &domain.Return{
			OrderProductID: lineID,
			ReturnQty:      qty,
			UnitPrice:      line.UnitPrice,
			DiscountPct:    line.DiscountPct,
			TotalRefund:    ledger.Round2(ledger.Refund(qty, line.UnitPrice, line.DiscountPct)),
			Notes:          req.Notes,
		}
		return s.returnRepo.Create(ctx, tx, ret)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return recorded",
		zap.String("order_product_id", lineID.String()),
		zap.Int("qty", qty),
		zap.String("refund", ret.TotalRefund.StringFixed(2)))

	return &domain.ReturnResultDTO{
		Message: msgReturnRecorded,
		Refund:  ledger.Float(ret.TotalRefund),
	}, nil
}
