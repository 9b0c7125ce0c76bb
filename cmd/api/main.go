package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/autoshop/shop-api/docs"
	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/config"
	"github.com/autoshop/shop-api/internal/database"
	"github.com/autoshop/shop-api/internal/datawarehouse"
	"github.com/autoshop/shop-api/internal/geo"
	"github.com/autoshop/shop-api/internal/http/handler"
	"github.com/autoshop/shop-api/internal/http/middleware"
	"github.com/autoshop/shop-api/internal/http/router"
	"github.com/autoshop/shop-api/internal/jobs"
	"github.com/autoshop/shop-api/internal/logger"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/storage"
	"go.uber.org/zap"
)

// @title Auto Shop API
// @version 1.0
// @description Backend for the auto parts and service shop desktop client: clients, vehicles, offers, orders, payments and returns

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key for system integrations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)

	// Secrets come from Key Vault in staging/production, the environment otherwise
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated")
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	directory, err := geo.LoadFile(cfg.Geo.LocalitiesPath)
	if err != nil {
		return fmt.Errorf("failed to load localities: %w", err)
	}

	// The accounting warehouse is optional; the shop runs without it
	dwClient, err := datawarehouse.NewClient(&cfg.DataWarehouse, log)
	if err != nil {
		log.Warn("Data warehouse connection failed, continuing without it", zap.Error(err))
		dwClient = nil
	}

	// Repositories
	clientRepo := repository.NewClientRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewOrderProductRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	ledgerExportRepo := repository.NewLedgerExportRepository(db)

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL())
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, offerRepo, orderRepo, log)
	clientService := service.NewClientService(clientRepo, vehicleRepo, offerRepo, orderRepo, db, log)
	vehicleService := service.NewVehicleService(vehicleRepo, clientRepo, log)
	documentService := service.NewDocumentService(vehicleService, vehicleRepo, fileStorage, cfg.Storage.PublicBaseURL, log)
	offerService := service.NewOfferService(offerRepo, clientRepo, vehicleRepo, numberSequenceService, db, log)
	orderService := service.NewOrderService(orderRepo, offerRepo, productRepo, paymentRepo, numberSequenceService, db, log)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, productRepo, clientRepo, db, log)
	returnService := service.NewReturnService(returnRepo, productRepo, db, log)
	reportService := service.NewReportService(clientRepo, orderRepo, log)
	searchService := service.NewSearchService(clientRepo, vehicleRepo, offerRepo, orderRepo, productRepo, log)
	authService := service.NewAuthService(userRepo, tokens, log)
	auditLogService := service.NewAuditLogService(auditLogRepo, log)
	reconcileService := service.NewReconcileService(orderRepo, productRepo, paymentRepo, db, log)

	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(auditLogService, nil, log)

	// Handlers
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		auditMiddleware,
		handler.NewAuthHandler(authService, log),
		handler.NewGeoHandler(directory),
		handler.NewClientHandler(clientService, log),
		handler.NewVehicleHandler(vehicleService, documentService, cfg.Storage.MaxUploadSizeMB, log),
		handler.NewOfferHandler(offerService, log),
		handler.NewOrderHandler(orderService, log),
		handler.NewPaymentHandler(paymentService, log),
		handler.NewReturnHandler(returnService, log),
		handler.NewReportHandler(reportService, log),
		handler.NewSearchHandler(searchService, log),
		handler.NewAuditHandler(auditLogService, log),
	)
	if dwClient != nil {
		rt.WithWarehouse(dwClient)
	}

	// Background jobs
	scheduler := jobs.NewScheduler(log)
	if cfg.Jobs.ReconcileEnabled {
		if err := jobs.RegisterReconcileJob(scheduler, reconcileService, log,
			cfg.Jobs.ReconcileCron, cfg.Jobs.ReconcileTimeoutDuration()); err != nil {
			log.Error("Failed to register reconcile job", zap.Error(err))
		}
	}
	if err := jobs.RegisterAuditCleanupJob(scheduler, auditLogService, log,
		cfg.Jobs.AuditCleanupCron, cfg.Jobs.AuditRetentionDays); err != nil {
		log.Error("Failed to register audit cleanup job", zap.Error(err))
	}
	if dwClient != nil {
		exporter := service.NewLedgerExportService(ledgerExportRepo, paymentRepo, returnRepo, dwClient, log)
		if err := jobs.RegisterLedgerExportJob(scheduler, exporter, log,
			cfg.DataWarehouse.ExportCron, cfg.DataWarehouse.ExportTimeoutDuration()); err != nil {
			log.Error("Failed to register ledger export job", zap.Error(err))
		}
	} else {
		log.Info("Ledger export disabled", zap.Bool("dw_enabled", cfg.DataWarehouse.Enabled))
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		<-scheduler.Stop().Done()
		log.Info("Scheduler stopped")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		// audit entries queued by the last requests
		auditMiddleware.Wait()

		if dwClient != nil {
			if err := dwClient.Close(); err != nil {
				log.Warn("Error closing data warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
