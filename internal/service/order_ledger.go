package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/ledger"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderLedger reads an order's money inside a transaction and keeps its
// payment axis in step with it. Shared by orders, payments and reconciliation.
type orderLedger struct {
	orderRepo   *repository.OrderRepository
	productRepo *repository.OrderProductRepository
	paymentRepo *repository.PaymentRepository
}

func newOrderLedger(
	orderRepo *repository.OrderRepository,
	productRepo *repository.OrderProductRepository,
	paymentRepo *repository.PaymentRepository,
) *orderLedger {
	return &orderLedger{orderRepo: orderRepo, productRepo: productRepo, paymentRepo: paymentRepo}
}

// amounts returns the order total and the sum of its payments
func (l *orderLedger) amounts(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (total, paid decimal.Decimal, err error) {
	lines, err := l.productRepo.ListByOrder(ctx, tx, orderID)
	if err != nil {
		return total, paid, fmt.Errorf("failed to load order lines: %w", err)
	}
	prices := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		prices = append(prices, line.DiscountedPrice)
	}

	payments, err := l.paymentRepo.AmountsByOrder(ctx, tx, orderID)
	if err != nil {
		return total, paid, fmt.Errorf("failed to load payments: %w", err)
	}
	return ledger.OrderTotal(prices), ledger.OrderPaid(payments), nil
}

// paymentAmount rounds a requested payment to cents. Amounts that round to
// zero would leave a 0.00 row in the append-only ledger and are refused.
func paymentAmount(raw decimal.Decimal) (decimal.Decimal, error) {
	amount, err := ledger.PaymentAmount(raw)
	switch {
	case errors.Is(err, ledger.ErrAmountOutOfRange):
		return decimal.Zero, ErrAmountTooLarge
	case err != nil:
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// record appends an already rounded payment to order
func (l *orderLedger) record(ctx context.Context, tx *gorm.DB, order *domain.Order, amount decimal.Decimal, recordedBy, observations string) (*domain.Payment, error) {
	if recordedBy == "" {
		recordedBy = "admin"
	}
	payment := &domain.Payment{
		ClientID:     order.ClientID,
		OrderID:      order.ID,
		Amount:       amount,
		Date:         time.Now().UTC(),
		RecordedBy:   recordedBy,
		Observations: observations,
	}
	if err := l.paymentRepo.Create(ctx, tx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return payment, nil
}

// sync re-derives the payment axis of order and writes it when it changed
func (l *orderLedger) sync(ctx context.Context, tx *gorm.DB, order *domain.Order) (total, paid decimal.Decimal, changed bool, err error) {
	total, paid, err = l.amounts(ctx, tx, order.ID)
	if err != nil {
		return total, paid, false, err
	}
	status := ledger.DerivePaymentStatus(total, paid)
	if status == order.PaymentStatus {
		return total, paid, false, nil
	}
	if err := l.orderRepo.SetPaymentStatus(ctx, tx, order.ID, status); err != nil {
		return total, paid, false, fmt.Errorf("failed to update payment status: %w", err)
	}
	order.PaymentStatus = status
	return total, paid, true, nil
}
