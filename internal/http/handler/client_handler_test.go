package handler_test

import (
	"net/http"
	"testing"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientHandler_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/add_client", map[string]string{
		"nume":       "Ion Popescu",
		"telefon":    "0740111222",
		"adresa":     "Str. Lunga 4",
		"judet":      "Cluj",
		"localitate": "Turda",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var created domain.ClientDTO
	decode(t, rr, &created)
	assert.Equal(t, "Ion Popescu", created.Nume)
	assert.Nil(t, created.CNP)

	rr = env.do(t, http.MethodGet, "/clients/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var fetched domain.ClientDTO
	decode(t, rr, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Turda", fetched.Localitate)
}

func TestClientHandler_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("missing phone names the field", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/add_client", map[string]string{
			"nume":       "Ion",
			"judet":      "Cluj",
			"localitate": "Turda",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Missing field: telefon", errorMessage(t, rr))
	})

	t.Run("phone must be digits", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/add_client", map[string]string{
			"nume":       "Ion",
			"telefon":    "07-40",
			"judet":      "Cluj",
			"localitate": "Turda",
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var body domain.APIError
		decode(t, rr, &body)
		assert.Contains(t, body.Errors, "telefon")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/add_client", "{nope")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestClientHandler_ListFiltersByName(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateTestClient(t, env.db, "Maria Ionescu", "Turda", "Cluj")
	testutil.CreateTestClient(t, env.db, "Vasile Pop", "Arad", "Arad")

	rr := env.do(t, http.MethodGet, "/clients?name=ionescu", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var clients []domain.ClientDTO
	decode(t, rr, &clients)
	require.Len(t, clients, 1)
	assert.Equal(t, "Maria Ionescu", clients[0].Nume)

	rr = env.do(t, http.MethodGet, "/clients", nil)
	decode(t, rr, &clients)
	assert.Len(t, clients, 2)
}

func TestClientHandler_NotFound(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.NewString()

	rr := env.do(t, http.MethodGet, "/clients/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Clientul nu a fost găsit!", errorMessage(t, rr))

	rr = env.do(t, http.MethodPatch, "/clients/"+id, map[string]string{"nume": "X"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, http.MethodGet, "/clients/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClientHandler_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")

	rr := env.do(t, http.MethodPatch, "/clients/"+client.ID.String(), map[string]string{"telefon": "0755000111"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated domain.ClientDTO
	decode(t, rr, &updated)
	assert.Equal(t, "0755000111", updated.Telefon)
	assert.Equal(t, "Maria", updated.Nume)

	rr = env.do(t, http.MethodDelete, "/delete_client", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing client_id", errorMessage(t, rr))

	rr = env.do(t, http.MethodDelete, "/delete_client?client_id="+client.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/clients/"+client.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
