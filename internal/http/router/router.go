package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/config"
	"github.com/autoshop/shop-api/internal/database"
	"github.com/autoshop/shop-api/internal/http/handler"
	"github.com/autoshop/shop-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/autoshop/shop-api/docs" // registers the swagger document
)

// Pinger is an optional dependency reported by the readiness check
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	auditMiddleware *middleware.AuditMiddleware
	authHandler     *handler.AuthHandler
	geoHandler      *handler.GeoHandler
	clientHandler   *handler.ClientHandler
	vehicleHandler  *handler.VehicleHandler
	offerHandler    *handler.OfferHandler
	orderHandler    *handler.OrderHandler
	paymentHandler  *handler.PaymentHandler
	returnHandler   *handler.ReturnHandler
	reportHandler   *handler.ReportHandler
	searchHandler   *handler.SearchHandler
	auditHandler    *handler.AuditHandler
	warehouse       Pinger
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	authHandler *handler.AuthHandler,
	geoHandler *handler.GeoHandler,
	clientHandler *handler.ClientHandler,
	vehicleHandler *handler.VehicleHandler,
	offerHandler *handler.OfferHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	returnHandler *handler.ReturnHandler,
	reportHandler *handler.ReportHandler,
	searchHandler *handler.SearchHandler,
	auditHandler *handler.AuditHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		auditMiddleware: auditMiddleware,
		authHandler:     authHandler,
		geoHandler:      geoHandler,
		clientHandler:   clientHandler,
		vehicleHandler:  vehicleHandler,
		offerHandler:    offerHandler,
		orderHandler:    orderHandler,
		paymentHandler:  paymentHandler,
		returnHandler:   returnHandler,
		reportHandler:   reportHandler,
		searchHandler:   searchHandler,
		auditHandler:    auditHandler,
	}
}

// WithWarehouse adds the accounting warehouse to the readiness checks
func (rt *Router) WithWarehouse(p Pinger) *Router {
	rt.warehouse = p
	return rt
}

// Setup builds the route table. Paths keep the names the desktop client calls.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(rt.cfg.App.Name))
	})
	rt.healthRoutes(r)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// Public routes
	r.With(rt.auditMiddleware.Audit).Post("/login", rt.authHandler.Login)
	r.Get("/get_judete", rt.geoHandler.Counties)
	r.Get("/get_localitati/{judet}", rt.geoHandler.Localities)
	r.Get("/search_localitati", rt.geoHandler.SearchLocalities)
	r.Get("/search_judete", rt.geoHandler.SearchCounties)

	// image_url links; object names are random uuids
	r.Get("/files/*", rt.vehicleHandler.ServeFile)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)
		r.Use(rt.rateLimiter.LimitByUser)
		r.Use(rt.auditMiddleware.Audit)

		r.Get("/auth/me", rt.authHandler.Me)
		r.With(rt.authMiddleware.RequireAdmin).Get("/audit_logs", rt.auditHandler.List)

		// Clients
		r.Post("/add_client", rt.clientHandler.Create)
		r.Get("/clients", rt.clientHandler.List)
		r.Get("/clients/{id}", rt.clientHandler.GetByID)
		r.Patch("/clients/{id}", rt.clientHandler.Update)
		r.Delete("/delete_client", rt.clientHandler.Delete)

		// Vehicles
		r.Post("/add_vehicle", rt.vehicleHandler.Create)
		r.Get("/vehicles", rt.vehicleHandler.ListByClient)
		r.Get("/vehicle/{id}", rt.vehicleHandler.GetByID)
		r.Get("/vehicles/{id}", rt.vehicleHandler.GetByID)
		r.Patch("/vehicles/{id}", rt.vehicleHandler.Update)
		r.Post("/vehicles/{id}/document", rt.vehicleHandler.UploadDocument)
		r.Get("/vehicles/{id}/document", rt.vehicleHandler.DownloadDocument)
		r.Get("/search_vehicles", rt.vehicleHandler.Search)
		r.Delete("/delete_vehicle", rt.vehicleHandler.Delete)

		// Offers
		r.Post("/add_offer", rt.offerHandler.Create)
		r.Get("/offers", rt.offerHandler.ListByClient)
		r.Get("/offers/{offer_number}", rt.offerHandler.GetByNumber)
		r.Patch("/offers/{offer_number}", rt.offerHandler.Update)
		r.Post("/update_offer_status", rt.offerHandler.UpdateStatus)
		r.Get("/highest_offer_number", rt.offerHandler.HighestNumber)

		// Orders
		r.Post("/add_order", rt.orderHandler.Create)
		r.Get("/orders", rt.orderHandler.ListByClient)
		r.Get("/orders/{order_number}", rt.orderHandler.GetByNumber)
		r.Put("/orders/{order_number}", rt.orderHandler.Update)
		r.Get("/highest_order_number", rt.orderHandler.HighestNumber)
		r.Route("/order_products", func(r chi.Router) {
			r.Get("/", rt.orderHandler.Products)
			r.Get("/search", rt.orderHandler.ProductsByCode)
			r.Get("/search_any", rt.orderHandler.ProductsByAny)
			r.Get("/search_global", rt.orderHandler.ProductsGlobal)
		})

		// Payments and returns
		r.Post("/add_payment", rt.paymentHandler.Create)
		r.Get("/payments", rt.paymentHandler.List)
		r.Get("/returnable_items", rt.returnHandler.ReturnableItems)
		r.Post("/add_return", rt.returnHandler.Create)

		// Reports and search
		r.Get("/totals/{client_id}", rt.reportHandler.ClientTotals)
		r.Get("/sales_report", rt.reportHandler.SalesReport)
		r.Get("/top_clients", rt.reportHandler.TopClients)
		r.Get("/debts", rt.reportHandler.Debts)
		r.Get("/search_universal", rt.searchHandler.Search)
	})

	return r
}

func (rt *Router) healthRoutes(r chi.Router) {
	// Liveness
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database pool statistics
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Readiness. The warehouse is reported but never fails the check.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		checks := map[string]interface{}{"database": map[string]interface{}{"status": "healthy"}}
		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			status, code = "unhealthy", http.StatusServiceUnavailable
			checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		}
		if rt.warehouse != nil {
			wh := map[string]interface{}{"status": "healthy"}
			if err := rt.warehouse.Ping(r.Context()); err != nil {
				rt.logger.Warn("Data warehouse health check failed", zap.Error(err))
				wh = map[string]interface{}{"status": "degraded", "error": err.Error()}
			}
			checks["warehouse"] = wh
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
