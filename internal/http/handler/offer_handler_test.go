package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offerBody(clientID, vehicleID string) string {
	return fmt.Sprintf(`{
		"client_id": %q,
		"vehicle_id": %q,
		"status": "In asteptare",
		"date": "14/03/2025",
		"observations": "revizie",
		"categories": {
			"Frane": {"products": [["Placute", "ATE", "13.0460", "2", "150", "300", "10", "270"]], "total_price": 270},
			"Filtre": {"products": [["Filtru ulei", "Mann", "W712", 1, 45.5, 45.5, 0, 45.5]], "total_price": 45.5}
		}
	}`, clientID, vehicleID)
}

func TestOfferHandler_CreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID, "VW", "Golf", "CJ-01-AAA")

	rr := env.do(t, http.MethodPost, "/add_offer", offerBody(client.ID.String(), vehicle.ID.String()))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var created domain.CreateOfferResponse
	decode(t, rr, &created)
	assert.Equal(t, "O1", created.OfferNumber)
	assert.Equal(t, "Ofertă adăugată cu succes!", created.Message)

	rr = env.do(t, http.MethodGet, "/offers/O1", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var offer map[string]interface{}
	decode(t, rr, &offer)
	categories, ok := offer["categories"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, categories, 2)

	frane := categories["Frane"].(map[string]interface{})
	rows := frane["products"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].([]interface{})
	require.Len(t, row, 8)
	assert.Equal(t, "Placute", row[0])
	assert.Equal(t, "13.0460", row[2])

	rr = env.do(t, http.MethodGet, "/highest_offer_number", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var highest domain.HighestOfferNumberDTO
	decode(t, rr, &highest)
	assert.Equal(t, "O1", highest.HighestOfferNumber)
}

func TestOfferHandler_CreateRequiresFields(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")

	rr := env.do(t, http.MethodPost, "/add_offer", map[string]interface{}{
		"client_id": client.ID.String(),
		"status":    "In asteptare",
		"date":      "2025-03-14",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Toate câmpurile sunt obligatorii!", errorMessage(t, rr))
}

func TestOfferHandler_CreateRejectsShortRow(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")
	vehicle := testutil.CreateTestVehicle(t, env.db, client.ID, "VW", "Golf", "CJ-01-AAA")

	body := fmt.Sprintf(`{"client_id": %q, "vehicle_id": %q, "status": "x", "date": "2025-03-14",
		"categories": {"Frane": {"products": [["Placute", "ATE"]]}}}`, client.ID, vehicle.ID)
	rr := env.do(t, http.MethodPost, "/add_offer", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOfferHandler_ListByClient(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")

	rr := env.do(t, http.MethodGet, "/offers", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodGet, "/offers?client_id="+client.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "No offers found", errorMessage(t, rr))

	testutil.CreateTestOffer(t, env.db, client.ID, nil, "O4",
		testutil.OfferLine("Frane", "Disc", "D1", 2, "200", "0"))

	rr = env.do(t, http.MethodGet, "/offers?client_id="+client.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var offers []map[string]interface{}
	decode(t, rr, &offers)
	require.Len(t, offers, 1)
	assert.Equal(t, "O4", offers[0]["offer_number"])
}

func TestOfferHandler_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")
	testutil.CreateTestOffer(t, env.db, client.ID, nil, "O2",
		testutil.OfferLine("Frane", "Disc", "D1", 1, "100", "0"))

	rr := env.do(t, http.MethodPost, "/update_offer_status", map[string]string{
		"offer_number": "O2",
		"new_status":   "Acceptata",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(t, http.MethodGet, "/offers/O2", nil)
	var offer domain.OfferDTO
	decode(t, rr, &offer)
	assert.Equal(t, "Acceptata", offer.Status)

	rr = env.do(t, http.MethodPost, "/update_offer_status", map[string]string{"offer_number": "O2"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/update_offer_status", map[string]string{
		"offer_number": "O99",
		"new_status":   "Acceptata",
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
