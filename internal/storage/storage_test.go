package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/autoshop/shop-api/internal/config"
	"github.com/autoshop/shop-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, size, err := s.Upload(ctx, "vehicles/abc", "Talon.PDF", "application/pdf", strings.NewReader("talon"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
	assert.True(t, strings.HasPrefix(path, "vehicles/abc/"))
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "talon", string(body))

	require.NoError(t, s.Delete(ctx, path))
	require.NoError(t, s.Delete(ctx, path))

	_, err = s.Download(ctx, path)
	assert.True(t, errors.Is(err, storage.ErrObjectNotFound))
}

func TestLocalStorage_PathsStayInsideRoot(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "../../etc/passwd")
	assert.True(t, errors.Is(err, storage.ErrObjectNotFound))
}

func TestNewStorage(t *testing.T) {
	s, err := storage.NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, s)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "azure"}, zap.NewNop())
	assert.Error(t, err)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:5000/files/vehicles/a.pdf", storage.PublicURL("http://127.0.0.1:5000/files/", "/vehicles/a.pdf"))
}
