package service_test

import (
	"testing"

	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fixture wires every shop service over a fresh in-memory database
type fixture struct {
	db *gorm.DB

	clientRepo  *repository.ClientRepository
	vehicleRepo *repository.VehicleRepository
	offerRepo   *repository.OfferRepository
	orderRepo   *repository.OrderRepository
	productRepo *repository.OrderProductRepository
	paymentRepo *repository.PaymentRepository
	returnRepo  *repository.ReturnRepository

	numbers  *service.NumberSequenceService
	clients  *service.ClientService
	vehicles *service.VehicleService
	offers   *service.OfferService
	orders   *service.OrderService
	payments *service.PaymentService
	returns  *service.ReturnService
	reports  *service.ReportService
	search   *service.SearchService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	f := &fixture{
		db:          db,
		clientRepo:  repository.NewClientRepository(db),
		vehicleRepo: repository.NewVehicleRepository(db),
		offerRepo:   repository.NewOfferRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		productRepo: repository.NewOrderProductRepository(db),
		paymentRepo: repository.NewPaymentRepository(db),
		returnRepo:  repository.NewReturnRepository(db),
	}
	f.numbers = service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), f.offerRepo, f.orderRepo, logger)
	f.clients = service.NewClientService(f.clientRepo, f.vehicleRepo, f.offerRepo, f.orderRepo, db, logger)
	f.vehicles = service.NewVehicleService(f.vehicleRepo, f.clientRepo, logger)
	f.offers = service.NewOfferService(f.offerRepo, f.clientRepo, f.vehicleRepo, f.numbers, db, logger)
	f.orders = service.NewOrderService(f.orderRepo, f.offerRepo, f.productRepo, f.paymentRepo, f.numbers, db, logger)
	f.payments = service.NewPaymentService(f.paymentRepo, f.orderRepo, f.productRepo, f.clientRepo, db, logger)
	f.returns = service.NewReturnService(f.returnRepo, f.productRepo, db, logger)
	f.reports = service.NewReportService(f.clientRepo, f.orderRepo, logger)
	f.search = service.NewSearchService(f.clientRepo, f.vehicleRepo, f.offerRepo, f.orderRepo, f.productRepo, logger)
	return f
}
