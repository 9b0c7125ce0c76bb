package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/geo"
	"github.com/autoshop/shop-api/internal/http/handler"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/storage"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv serves the shop routes over a fresh in-memory database
type testEnv struct {
	db     *gorm.DB
	router http.Handler
	auth   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	clientRepo := repository.NewClientRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewOrderProductRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	returnRepo := repository.NewReturnRepository(db)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), offerRepo, orderRepo, logger)
	clients := service.NewClientService(clientRepo, vehicleRepo, offerRepo, orderRepo, db, logger)
	vehicles := service.NewVehicleService(vehicleRepo, clientRepo, logger)
	documents := service.NewDocumentService(vehicles, vehicleRepo, store, "http://localhost:8080/files", logger)
	offers := service.NewOfferService(offerRepo, clientRepo, vehicleRepo, numbers, db, logger)
	orders := service.NewOrderService(orderRepo, offerRepo, productRepo, paymentRepo, numbers, db, logger)
	payments := service.NewPaymentService(paymentRepo, orderRepo, productRepo, clientRepo, db, logger)
	returns := service.NewReturnService(returnRepo, productRepo, db, logger)
	reports := service.NewReportService(clientRepo, orderRepo, logger)
	search := service.NewSearchService(clientRepo, vehicleRepo, offerRepo, orderRepo, productRepo, logger)
	tokens := auth.NewTokenManager("test-secret", "shop-api-test", time.Hour)
	authService := service.NewAuthService(repository.NewUserRepository(db), tokens, logger)

	geoHandler := handler.NewGeoHandler(geo.New(map[string][]string{
		"Cluj": {"Turda", "Cluj-Napoca", "Dej"},
		"Arad": {"Lipova", "Arad"},
	}))
	authHandler := handler.NewAuthHandler(authService, logger)
	clientHandler := handler.NewClientHandler(clients, logger)
	vehicleHandler := handler.NewVehicleHandler(vehicles, documents, 1, logger)
	offerHandler := handler.NewOfferHandler(offers, logger)
	orderHandler := handler.NewOrderHandler(orders, logger)
	paymentHandler := handler.NewPaymentHandler(payments, logger)
	returnHandler := handler.NewReturnHandler(returns, logger)
	reportHandler := handler.NewReportHandler(reports, logger)
	searchHandler := handler.NewSearchHandler(search, logger)

	r := chi.NewRouter()
	r.Post("/login", authHandler.Login)
	r.Get("/get_judete", geoHandler.Counties)
	r.Get("/get_localitati/{judet}", geoHandler.Localities)
	r.Get("/search_localitati", geoHandler.SearchLocalities)
	r.Post("/add_client", clientHandler.Create)
	r.Get("/clients", clientHandler.List)
	r.Get("/clients/{id}", clientHandler.GetByID)
	r.Patch("/clients/{id}", clientHandler.Update)
	r.Delete("/delete_client", clientHandler.Delete)
	r.Post("/add_vehicle", vehicleHandler.Create)
	r.Get("/vehicles", vehicleHandler.ListByClient)
	r.Get("/vehicles/{id}", vehicleHandler.GetByID)
	r.Patch("/vehicles/{id}", vehicleHandler.Update)
	r.Post("/vehicles/{id}/document", vehicleHandler.UploadDocument)
	r.Get("/vehicles/{id}/document", vehicleHandler.DownloadDocument)
	r.Get("/files/*", vehicleHandler.ServeFile)
	r.Get("/search_vehicles", vehicleHandler.Search)
	r.Delete("/delete_vehicle", vehicleHandler.Delete)
	r.Post("/add_offer", offerHandler.Create)
	r.Get("/offers", offerHandler.ListByClient)
	r.Get("/offers/{offer_number}", offerHandler.GetByNumber)
	r.Patch("/offers/{offer_number}", offerHandler.Update)
	r.Post("/update_offer_status", offerHandler.UpdateStatus)
	r.Get("/highest_offer_number", offerHandler.HighestNumber)
	r.Post("/add_order", orderHandler.Create)
	r.Get("/orders", orderHandler.ListByClient)
	r.Get("/orders/{order_number}", orderHandler.GetByNumber)
	r.Put("/orders/{order_number}", orderHandler.Update)
	r.Get("/highest_order_number", orderHandler.HighestNumber)
	r.Get("/order_products", orderHandler.Products)
	r.Get("/order_products/search", orderHandler.ProductsByCode)
	r.Get("/order_products/search_global", orderHandler.ProductsGlobal)
	r.Post("/add_payment", paymentHandler.Create)
	r.Get("/payments", paymentHandler.List)
	r.Get("/returnable_items", returnHandler.ReturnableItems)
	r.Post("/add_return", returnHandler.Create)
	r.Get("/totals/{client_id}", reportHandler.ClientTotals)
	r.Get("/debts", reportHandler.Debts)
	r.Get("/search_universal", searchHandler.Search)

	return &testEnv{db: db, router: r, auth: authService}
}

// do sends a request with an optional JSON body and returns the recorder
func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

// errorMessage reads the "error" key the desktop client shows
func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	decode(t, rr, &body)
	msg, _ := body["error"].(string)
	return msg
}
