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

const msgOrderSaved = "Comandă salvată!"

type OrderService struct {
	orderRepo   *repository.OrderRepository
	offerRepo   *repository.OfferRepository
	productRepo *repository.OrderProductRepository
	ledger      *orderLedger
	numbers     *NumberSequenceService
	db          *gorm.DB
	logger      *zap.Logger
}

func NewOrderService(
	orderRepo *repository.OrderRepository,
	offerRepo *repository.OfferRepository,
	productRepo *repository.OrderProductRepository,
	paymentRepo *repository.PaymentRepository,
	numbers *NumberSequenceService,
	db *gorm.DB,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		offerRepo:   offerRepo,
		productRepo: productRepo,
		ledger:      newOrderLedger(orderRepo, productRepo, paymentRepo),
		numbers:     numbers,
		db:          db,
		logger:      logger,
	}
}

// CreateFromOffer turns one category of an offer into an order. The order, its
// copied lines and the initial payment are written in a single transaction.
func (s *OrderService) CreateFromOffer(ctx context.Context, req *domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	offerNumber := strings.TrimSpace(req.OfferNumber)
	category := strings.TrimSpace(req.SelectedCategory)
	if offerNumber == "" || category == "" {
		return nil, Invalid("offer_number and selected_category are required")
	}

	label := strings.TrimSpace(req.Status)
	if label == "" {
		label = domain.DefaultOrderStatusLabel
	}
	fulfillment, _, _, ok := domain.ParseStatusLabel(label)
	if !ok {
		return nil, ErrInvalidStatus
	}

	// an absent or zero amount_paid creates the order without a payment
	amountPaid := decimal.Zero
	if !req.AmountPaid.IsZero() {
		amount, err := paymentAmount(req.AmountPaid.Decimal)
		if err != nil {
			return nil, err
		}
		amountPaid = amount
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderNumber:       strings.TrimSpace(req.OrderNumber),
		Date:              date,
		Observations:      req.Observations,
		SourceOfferNumber: offerNumber,
		SourceCategory:    category,
		FulfillmentStatus: fulfillment,
		PaymentStatus:     domain.PaymentUnpaid,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offer, err := s.offerRepo.GetByNumber(ctx, tx, offerNumber)
		if err != nil {
			return mapNotFound(err, ErrOfferNotFound)
		}

		lines, err := s.offerRepo.ProductsByCategory(ctx, tx, offer.ID, category)
		if err != nil {
			return fmt.Errorf("failed to load offer lines: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCategory
		}

		if order.OrderNumber == "" {
			if order.OrderNumber, err = s.numbers.NextOrderNumber(ctx, tx); err != nil {
				return err
			}
		} else {
			exists, err := s.orderRepo.ExistsByNumber(ctx, tx, order.OrderNumber)
			if err != nil {
				return fmt.Errorf("failed to check order number: %w", err)
			}
			if exists {
				return ErrDuplicateOrderNumber
			}
		}

		order.ClientID = offer.ClientID
		order.VehicleID = offer.VehicleID
		order.Products = copyOfferLines(lines)
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		if amountPaid.IsPositive() {
			if _, err := s.ledger.record(ctx, tx, order, amountPaid, "admin", req.Observations); err != nil {
				return err
			}
		}
		_, _, _, err = s.ledger.sync(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created from offer",
		zap.String("order_number", order.OrderNumber),
		zap.String("offer_number", offerNumber),
		zap.String("category", category),
		zap.Int("lines", len(order.Products)))

	return &domain.CreateOrderResponse{
		Message:     msgOrderSaved,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		Status:      domain.StatusLabel(order.FulfillmentStatus, order.PaymentStatus),
	}, nil
}

// ListByClient returns the client's orders with lines, payments and amounts
func (s *OrderService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.OrderDTO, error) {
	orders, err := s.orderRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	dtos := make([]domain.OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, mapper.ToOrderDTO(&orders[i]))
	}
	return dtos, nil
}

func (s *OrderService) GetByNumber(ctx context.Context, number string) (*domain.OrderDetailDTO, error) {
	order, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, mapNotFound(err, ErrOrderNotFound)
	}
	dto := mapper.ToOrderDetailDTO(order)
	return &dto, nil
}

// Update edits observations and the fulfillment state. A higher amount_paid
// records the difference as a new payment; a lower one is refused because
// payments are never deleted.
func (s *OrderService) Update(ctx context.Context, number string, req *domain.UpdateOrderRequest) (*domain.OrderDetailDTO, error) {
	var fulfillment domain.FulfillmentStatus
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		f, _, _, ok := domain.ParseStatusLabel(*req.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		fulfillment = f
	}
	if req.AmountPaid != nil {
		switch target := req.AmountPaid.Round(2); {
		case target.IsNegative():
			return nil, ErrInvalidAmount
		case target.GreaterThan(ledger.MaxAmount):
			return nil, ErrAmountTooLarge
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByNumberForUpdate(ctx, tx, number)
		if err != nil {
			return mapNotFound(err, ErrOrderNotFound)
		}

		updates := map[string]interface{}{}
		if req.Observations != nil {
			updates["observations"] = *req.Observations
		}
		if fulfillment != "" && fulfillment != order.FulfillmentStatus {
			updates["fulfillment_status"] = fulfillment
		}
		if err := s.orderRepo.UpdateFields(ctx, tx, order.ID, updates); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if req.AmountPaid != nil {
			_, paid, err := s.ledger.amounts(ctx, tx, order.ID)
			if err != nil {
				return err
			}
			target := req.AmountPaid.Round(2)
			switch {
			case target.LessThan(paid):
				return ErrPaymentDecrease
			case target.GreaterThan(paid):
				diff, err := paymentAmount(target.Sub(paid))
				if err != nil {
					return err
				}
				if _, err := s.ledger.record(ctx, tx, order, diff, "admin", "Actualizare comandă"); err != nil {
					return err
				}
			}
		}

		_, _, _, err = s.ledger.sync(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated", zap.String("order_number", number))
	return s.GetByNumber(ctx, number)
}

func (s *OrderService) HighestOrderNumber(ctx context.Context) (*domain.HighestOrderNumberDTO, error) {
	number, err := s.numbers.HighestOrderNumber(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.HighestOrderNumberDTO{HighestOrderNumber: number}, nil
}

func (s *OrderService) Products(ctx context.Context, orderID uuid.UUID) ([]domain.OrderProductDTO, error) {
	lines, err := s.productRepo.ListByOrder(ctx, nil, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order products: %w", err)
	}
	return mapper.ToOrderProductDTOs(lines), nil
}

// ProductsByCode matches the exact product code within one order
func (s *OrderService) ProductsByCode(ctx context.Context, orderID uuid.UUID, code string) ([]domain.OrderProductDTO, error) {
	lines, err := s.productRepo.FindByCode(ctx, orderID, strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("failed to search order products: %w", err)
	}
	return mapper.ToOrderProductDTOs(lines), nil
}

// ProductsByAny matches name, brand or code exactly within one order
func (s *OrderService) ProductsByAny(ctx context.Context, orderID uuid.UUID, term string) ([]domain.OrderProductDTO, error) {
	lines, err := s.productRepo.FindByAny(ctx, orderID, strings.TrimSpace(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search order products: %w", err)
	}
	return mapper.ToOrderProductDTOs(lines), nil
}

// ProductsGlobal looks a product up across every order
func (s *OrderService) ProductsGlobal(ctx context.Context, term string) ([]domain.ProductMatchDTO, error) {
	matches, err := s.productRepo.FindGlobal(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	dtos := make([]domain.ProductMatchDTO, 0, len(matches))
	for i := range matches {
		dtos = append(dtos, domain.ProductMatchDTO{
			OrderProductDTO: mapper.ToOrderProductDTO(&matches[i].OrderProduct),
			OrderNumber:     matches[i].OrderNumber,
			ClientID:        matches[i].ClientID.String(),
			Nume:            matches[i].ClientName,
		})
	}
	return dtos, nil
}

// copyOfferLines copies offer lines verbatim; prices are never recomputed
func copyOfferLines(lines []domain.OfferProduct) []domain.OrderProduct {
	products := make([]domain.OrderProduct, 0, len(lines))
	for i, l := range lines {
		products = append(products, domain.OrderProduct{
			Position:        i,
			Name:            l.Name,
			Brand:           l.Brand,
			Code:            l.Code,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			TotalPrice:      l.TotalPrice,
			DiscountPct:     l.DiscountPct,
			DiscountedPrice: l.DiscountedPrice,
		})
	}
	return products
}
