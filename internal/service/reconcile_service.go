package service

import (
	"context"
	"fmt"

	"github.com/autoshop/shop-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReconcileResult summarizes one reconciliation sweep
type ReconcileResult struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// ReconcileService re-derives every order's payment status from its lines
// and payments. Statuses drift when rows are edited outside the API.
type ReconcileService struct {
	orderRepo *repository.OrderRepository
	ledger    *orderLedger
	db        *gorm.DB
	logger    *zap.Logger
}

func NewReconcileService(
	orderRepo *repository.OrderRepository,
	productRepo *repository.OrderProductRepository,
	paymentRepo *repository.PaymentRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		orderRepo: orderRepo,
		ledger:    newOrderLedger(orderRepo, productRepo, paymentRepo),
		db:        db,
		logger:    logger,
	}
}

// Run sweeps all orders. A failing order is logged and skipped; the sweep stops
// only when ctx is cancelled.
func (s *ReconcileService) Run(ctx context.Context) (*ReconcileResult, error) {
	ids, err := s.orderRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	result := &ReconcileResult{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++

		var changed bool
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			order, err := s.orderRepo.GetForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}
			_, _, changed, err = s.ledger.sync(ctx, tx, order)
			return err
		})
		if err != nil {
			result.Failed++
			s.logger.Warn("order reconciliation failed",
				zap.String("order_id", id.String()),
				zap.Error(err))
			continue
		}
		if changed {
			result.Updated++
			s.logger.Info("order payment status corrected", zap.String("order_id", id.String()))
		}
	}
	return result, nil
}
