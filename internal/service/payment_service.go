package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/ledger"
	"github.com/autoshop/shop-api/internal/mapper"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgPaymentRecorded = "Plata înregistrată cu succes"

type PaymentService struct {
	paymentRepo *repository.PaymentRepository
	orderRepo   *repository.OrderRepository
	clientRepo  *repository.ClientRepository
	ledger      *orderLedger
	db          *gorm.DB
	logger      *zap.Logger
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	orderRepo *repository.OrderRepository,
	productRepo *repository.OrderProductRepository,
	clientRepo *repository.ClientRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		clientRepo:  clientRepo,
		ledger:      newOrderLedger(orderRepo, productRepo, paymentRepo),
		db:          db,
		logger:      logger,
	}
}

// AddPayment appends a payment and re-derives the order's payment state while
// holding a lock on the order row. Posting the same payment twice records it twice.
func (s *PaymentService) AddPayment(ctx context.Context, req *domain.CreatePaymentRequest) (*domain.PaymentResultDTO, error) {
	orderID, err := uuid.Parse(strings.TrimSpace(req.OrderID))
	if err != nil {
		return nil, Invalid("order_id invalid")
	}
	amount, err := paymentAmount(req.Amount.Decimal)
	if err != nil {
		return nil, err
	}

	var total, paid decimal.Decimal
	var status domain.PaymentStatus
	var fulfillment domain.FulfillmentStatus

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetForUpdate(ctx, tx, orderID)
		if err != nil {
			return mapNotFound(err, ErrOrderNotFound)
		}
		if req.ClientID != "" && req.ClientID != order.ClientID.String() {
			return Invalid("Comanda nu aparține clientului")
		}

		if _, err := s.ledger.record(ctx, tx, order, amount, strings.TrimSpace(req.RecordedBy), req.Observations); err != nil {
			return err
		}
		total, paid, _, err = s.ledger.sync(ctx, tx, order)
		status = order.PaymentStatus
		fulfillment = order.FulfillmentStatus
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("order_id", orderID.String()),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("payment_status", string(status)))

	return &domain.PaymentResultDTO{
		Message: msgPaymentRecorded,
		Status:  domain.StatusLabel(fulfillment, status),
		Paid:    ledger.Float(paid),
		Total:   ledger.Float(total),
		Balance: ledger.Float(ledger.Balance(total, paid)),
	}, nil
}

// List returns the payments register with client names and order numbers
func (s *PaymentService) List(ctx context.Context, filter repository.PaymentFilter) ([]domain.PaymentListItemDTO, error) {
	payments, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	clientIDs := make([]uuid.UUID, 0, len(payments))
	orderIDs := make([]uuid.UUID, 0, len(payments))
	for _, p := range payments {
		clientIDs = append(clientIDs, p.ClientID)
		orderIDs = append(orderIDs, p.OrderID)
	}
	clients, err := s.clientRepo.GetByIDs(ctx, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	orders, err := s.orderRepo.GetByIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	items := make([]domain.PaymentListItemDTO, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		items = append(items, mapper.ToPaymentListItemDTO(p, clients[p.ClientID].Name, orders[p.OrderID].OrderNumber))
	}
	return items, nil
}
