package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/config"
	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm := auth.NewTokenManager("secret", "shop-api", time.Hour)
	user := &auth.UserContext{UserID: uuid.New(), Username: "ana", DisplayName: "Ana", Role: domain.RoleAdmin}

	token, expiresAt, err := tm.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, "ana", got.Username)
	assert.True(t, got.IsAdmin())
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	issuer := auth.NewTokenManager("secret", "shop-api", time.Hour)
	token, _, err := issuer.Issue(&auth.UserContext{UserID: uuid.New(), Username: "ana"})
	require.NoError(t, err)

	_, err = auth.NewTokenManager("other-secret", "shop-api", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = auth.NewTokenManager("secret", "someone-else", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = auth.NewTokenManager("", "", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := auth.NewTokenManager("secret", "", time.Nanosecond)
	token, _, err := tm.Issue(&auth.UserContext{UserID: uuid.New(), Username: "ana"})
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("parola123")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(hash, "parola123"))
	assert.False(t, auth.CheckPassword(hash, "parola124"))

	_, err = auth.HashPassword("")
	assert.Error(t, err)
}

func newMiddleware(required bool) (*auth.Middleware, *auth.TokenManager) {
	cfg := &config.Config{}
	cfg.ApiKey.Value = "admin-key"
	cfg.Auth.Required = required
	tm := auth.NewTokenManager("secret", "", time.Hour)
	return auth.NewMiddleware(cfg, tm, zap.NewNop()), tm
}

func captureUser(t *testing.T, m *auth.Middleware, req *http.Request) (*auth.UserContext, int) {
	t.Helper()
	var seen *auth.UserContext
	h := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Code
}

func TestMiddleware_APIKey(t *testing.T) {
	m, _ := newMiddleware(true)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set("x-api-key", "admin-key")
	user, code := captureUser(t, m, req)
	assert.Equal(t, http.StatusNoContent, code)
	require.NotNil(t, user)
	assert.True(t, user.IsAdmin())

	req = httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set("x-api-key", "wrong")
	_, code = captureUser(t, m, req)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestMiddleware_Bearer(t *testing.T) {
	m, tm := newMiddleware(true)
	token, _, err := tm.Issue(&auth.UserContext{UserID: uuid.New(), Username: "ion", Role: domain.RoleStaff})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	user, code := captureUser(t, m, req)
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, "ion", user.Username)

	req = httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set("Authorization", "Basic abc")
	_, code = captureUser(t, m, req)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestMiddleware_MissingCredentials(t *testing.T) {
	required, _ := newMiddleware(true)
	_, code := captureUser(t, required, httptest.NewRequest(http.MethodGet, "/clients", nil))
	assert.Equal(t, http.StatusUnauthorized, code)

	optional, _ := newMiddleware(false)
	user, code := captureUser(t, optional, httptest.NewRequest(http.MethodGet, "/clients", nil))
	assert.Equal(t, http.StatusNoContent, code)
	require.NotNil(t, user)
	assert.True(t, user.Anonymous)
	assert.Equal(t, "admin", user.Actor())
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	cases := []struct {
		name     string
		required bool
		user     *auth.UserContext
		want     int
	}{
		{"admin", true, &auth.UserContext{Username: "a", Role: domain.RoleAdmin}, http.StatusOK},
		{"staff", true, &auth.UserContext{Username: "s", Role: domain.RoleStaff}, http.StatusForbidden},
		{"anonymous when optional", false, &auth.UserContext{Anonymous: true}, http.StatusOK},
		{"anonymous when required", true, &auth.UserContext{Anonymous: true}, http.StatusForbidden},
		{"no user", true, nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newMiddleware(tc.required)
			req := httptest.NewRequest(http.MethodGet, "/audit_logs", nil)
			if tc.user != nil {
				req = req.WithContext(auth.WithUserContext(req.Context(), tc.user))
			}
			rec := httptest.NewRecorder()
			m.RequireAdmin(ok).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
