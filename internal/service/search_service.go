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
)

// Universal search categories
const (
	SearchClients       = "clients"
	SearchVehicles      = "vehicles"
	SearchOffers        = "offers"
	SearchOrders        = "orders"
	SearchOrderProducts = "order_products"
	SearchOfferProducts = "offer_products"
)

type SearchService struct {
	clientRepo  *repository.ClientRepository
	vehicleRepo *repository.VehicleRepository
	offerRepo   *repository.OfferRepository
	orderRepo   *repository.OrderRepository
	productRepo *repository.OrderProductRepository
	logger      *zap.Logger
}

func NewSearchService(
	clientRepo *repository.ClientRepository,
	vehicleRepo *repository.VehicleRepository,
	offerRepo *repository.OfferRepository,
	orderRepo *repository.OrderRepository,
	productRepo *repository.OrderProductRepository,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		clientRepo:  clientRepo,
		vehicleRepo: vehicleRepo,
		offerRepo:   offerRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Search runs a case-insensitive substring search in one category. The element
// type of the returned slice depends on the category.
func (s *SearchService) Search(ctx context.Context, query, category string, page, perPage int) (interface{}, error) {
	query = strings.TrimSpace(query)
	category = strings.ToLower(strings.TrimSpace(category))
	if query == "" || category == "" {
		return nil, Invalid("Query and category are required")
	}

	switch category {
	case SearchClients:
		return s.clients(ctx, query, page, perPage)
	case SearchVehicles:
		return s.vehicles(ctx, query, page, perPage)
	case SearchOffers:
		return s.offers(ctx, query, page, perPage)
	case SearchOrders:
		return s.orders(ctx, query, page, perPage)
	case SearchOrderProducts:
		return s.orderProducts(ctx, query, page, perPage)
	case SearchOfferProducts:
		return s.offerProducts(ctx, query, page, perPage)
	default:
		return nil, Invalid(fmt.Sprintf("Unknown search category: %s", category))
	}
}

func (s *SearchService) clients(ctx context.Context, query string, page, perPage int) ([]domain.ClientDTO, error) {
	clients, err := s.clientRepo.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	dtos := make([]domain.ClientDTO, 0, len(clients))
	for i := range clients {
		dtos = append(dtos, mapper.ToClientDTO(&clients[i]))
	}
	return dtos, nil
}

func (s *SearchService) vehicles(ctx context.Context, query string, page, perPage int) ([]domain.VehicleSearchResultDTO, error) {
	vehicles, err := s.vehicleRepo.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}
	dtos := make([]domain.VehicleSearchResultDTO, 0, len(vehicles))
	for i := range vehicles {
		r := domain.VehicleSearchResultDTO{VehicleDTO: mapper.ToVehicleDTO(&vehicles[i])}
		if vehicles[i].Client != nil {
			r.ClientName = vehicles[i].Client.Name
		}
		dtos = append(dtos, r)
	}
	return dtos, nil
}

func (s *SearchService) offers(ctx context.Context, query string, page, perPage int) ([]domain.OfferDTO, error) {
	offers, err := s.offerRepo.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search offers: %w", err)
	}
	dtos := make([]domain.OfferDTO, 0, len(offers))
	for i := range offers {
		dtos = append(dtos, mapper.ToOfferDTO(&offers[i]))
	}
	return dtos, nil
}

func (s *SearchService) orders(ctx context.Context, query string, page, perPage int) ([]domain.OrderDTO, error) {
	orders, err := s.orderRepo.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	dtos := make([]domain.OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, mapper.ToOrderDTO(&orders[i]))
	}
	return dtos, nil
}

func (s *SearchService) orderProducts(ctx context.Context, query string, page, perPage int) ([]domain.OrderProductHitDTO, error) {
	lines, err := s.productRepo.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search order products: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.OrderID)
	}
	orders, err := s.orderRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	hits := make([]domain.OrderProductHitDTO, 0, len(lines))
	for _, l := range lines {
		order := orders[l.OrderID]
		hits = append(hits, domain.OrderProductHitDTO{
			Order:        domain.SearchOrderRef{ID: l.OrderID.String(), OrderNumber: order.OrderNumber},
			Client:       mapper.ToSearchClientRef(order.Client),
			Vehicle:      mapper.ToSearchVehicleRef(order.Vehicle),
			OrderProduct: mapper.ToSearchLine(l.Name, l.Brand, l.Code, l.Quantity, l.UnitPrice, l.TotalPrice, l.DiscountPct, l.DiscountedPrice),
		})
	}
	return hits, nil
}

func (s *SearchService) offerProducts(ctx context.Context, query string, page, perPage int) ([]domain.OfferProductHitDTO, error) {
	lines, err := s.offerRepo.SearchProducts(ctx, query, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search offer products: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.OfferID)
	}
	offers, err := s.offerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load offers: %w", err)
	}

	hits := make([]domain.OfferProductHitDTO, 0, len(lines))
	for _, l := range lines {
		offer := offers[l.OfferID]
		hits = append(hits, domain.OfferProductHitDTO{
			Offer:        domain.SearchOfferRef{ID: l.OfferID.String(), OfferNumber: offer.OfferNumber},
			Client:       mapper.ToSearchClientRef(offer.Client),
			Vehicle:      mapper.ToSearchVehicleRef(offer.Vehicle),
			OfferProduct: mapper.ToSearchLine(l.Name, l.Brand, l.Code, l.Quantity, l.UnitPrice, l.TotalPrice, l.DiscountPct, l.DiscountedPrice),
		})
	}
	return hits, nil
}
