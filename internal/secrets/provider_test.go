package secrets_test

import (
	"context"
	"testing"

	"github.com/autoshop/shop-api/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveSource(t *testing.T) {
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, "development"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, ""))
	assert.Equal(t, secrets.SourceVault, secrets.ResolveSource(secrets.SourceAuto, "production"))
	assert.Equal(t, secrets.SourceVault, secrets.ResolveSource(secrets.SourceVault, "development"))
}

func TestEnvironmentProvider(t *testing.T) {
	env := map[string]string{
		"JWT_SECRET": "override",
		"jwt-secret": "from-source",
	}
	p := secrets.NewEnvironmentProvider(func(k string) string { return env[k] }, zap.NewNop())
	ctx := context.Background()

	t.Run("env override wins", func(t *testing.T) {
		v, err := p.GetSecretOrEnv(ctx, "jwt-secret", "JWT_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "override", v)
	})

	t.Run("falls back to source", func(t *testing.T) {
		v, err := p.GetSecretOrEnv(ctx, "jwt-secret", "UNSET")
		require.NoError(t, err)
		assert.Equal(t, "from-source", v)
	})

	t.Run("missing secret errors", func(t *testing.T) {
		_, err := p.GetSecret(ctx, "missing")
		assert.Error(t, err)
	})
}
