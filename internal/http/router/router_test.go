package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/config"
	"github.com/autoshop/shop-api/internal/http/handler"
	"github.com/autoshop/shop-api/internal/http/middleware"
	"github.com/autoshop/shop-api/internal/http/router"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWarehouse struct{ err error }

func (f fakeWarehouse) Ping(context.Context) error { return f.err }

func newRouter(t *testing.T, required bool) *router.Router {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	cfg := &config.Config{
		App:    config.AppConfig{Name: "Shop API", Environment: "development"},
		ApiKey: config.ApiKeyConfig{Value: "sys-key"},
		Auth:   config.AuthConfig{Required: required},
		Server: config.ServerConfig{EnableSwagger: true},
	}

	clientRepo := repository.NewClientRepository(db)
	clients := service.NewClientService(clientRepo, repository.NewVehicleRepository(db),
		repository.NewOfferRepository(db), repository.NewOrderRepository(db), db, logger)
	tokens := auth.NewTokenManager("test-secret", "shop-api-test", time.Hour)

	return router.NewRouter(
		cfg,
		logger,
		db,
		auth.NewMiddleware(cfg, tokens, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		middleware.NewAuditMiddleware(nil, nil, logger),
		nil, nil,
		handler.NewClientHandler(clients, logger),
		nil, nil, nil, nil, nil, nil, nil, nil,
	)
}

func get(t *testing.T, h http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthRoutes(t *testing.T) {
	h := newRouter(t, false).Setup()

	rr := get(t, h, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = get(t, h, "/health/db", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)

	rr = get(t, h, "/", nil)
	assert.Equal(t, "Shop API", rr.Body.String())
}

func TestReadiness_ReportsWarehouseWithoutFailing(t *testing.T) {
	h := newRouter(t, false).WithWarehouse(fakeWarehouse{err: errors.New("login timeout")}).Setup()

	rr := get(t, h, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Status string                            `json:"status"`
		Checks map[string]map[string]interface{} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"]["status"])
	assert.Equal(t, "degraded", body.Checks["warehouse"]["status"])
	assert.Equal(t, "login timeout", body.Checks["warehouse"]["error"])
}

func TestReadiness_WithoutWarehouse(t *testing.T) {
	h := newRouter(t, false).Setup()

	rr := get(t, h, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "warehouse")
}

func TestProtectedRoutes_RequireCredentialsWhenConfigured(t *testing.T) {
	h := newRouter(t, true).Setup()

	rr := get(t, h, "/clients", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = get(t, h, "/clients", map[string]string{"x-api-key": "sys-key"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestProtectedRoutes_AnonymousInDevelopment(t *testing.T) {
	h := newRouter(t, false).Setup()

	rr := get(t, h, "/clients", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSwaggerDocument(t *testing.T) {
	h := newRouter(t, false).Setup()

	rr := get(t, h, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Auto Shop API")
}
