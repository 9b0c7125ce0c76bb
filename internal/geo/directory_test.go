package geo_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
	"Iasi": ["Pascani", "Iasi", "Harlau"],
	"Cluj": ["Turda", "Cluj-Napoca", "Dej"],
	"Bacau": ["Onesti", "Bacau"]
}`

func TestDirectory(t *testing.T) {
	dir, err := geo.Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"Bacau", "Cluj", "Iasi"}, dir.Counties())
	assert.Equal(t, []string{"Cluj-Napoca", "Dej", "Turda"}, dir.Localities("Cluj"))
	assert.Equal(t, []string{}, dir.Localities("Vaslui"))

	t.Run("locality search ignores case", func(t *testing.T) {
		got := dir.SearchLocalities("IAS")
		assert.Equal(t, []domain.LocalityMatchDTO{{Judet: "Iasi", Localitate: "Iasi"}}, got)
	})

	t.Run("county search", func(t *testing.T) {
		assert.Equal(t, []string{"Bacau"}, dir.SearchCounties("ba"))
		assert.Empty(t, dir.SearchCounties("zzz"))
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		c := dir.Counties()
		c[0] = "changed"
		assert.Equal(t, "Bacau", dir.Counties()[0])
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "judete.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	dir, err := geo.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, dir.Counties(), 3)

	_, err = geo.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
