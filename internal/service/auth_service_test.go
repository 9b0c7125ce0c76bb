package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/autoshop/shop-api/internal/auth"
	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	tokens := auth.NewTokenManager("test-secret", "shop-api", time.Hour)
	svc := service.NewAuthService(users, tokens, zap.NewNop())

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "parola-sigura"))
	// a second bootstrap is a no-op
	require.NoError(t, svc.EnsureAdmin(ctx, "altul", "x"))
	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	resp, err := svc.Login(ctx, &domain.LoginRequest{Username: "ADMIN", Password: "parola-sigura"})
	require.NoError(t, err)
	assert.Equal(t, "Autentificare reușită!", resp.Message)
	assert.NotEmpty(t, resp.ExpiresAt)

	user, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	assert.Equal(t, resp.UserID, user.UserID.String())
	assert.True(t, user.IsAdmin())

	tests := []domain.LoginRequest{
		{Username: "admin", Password: "gresit"},
		{Username: "nimeni", Password: "parola-sigura"},
		{Username: "", Password: ""},
	}
	for _, req := range tests {
		_, err := svc.Login(ctx, &req)
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	}
}
