package service_test

import (
	"context"
	"testing"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestClientService_CreateUpdateList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.clients.Create(ctx, &domain.CreateClientRequest{
		Nume:       "  Elena Marin ",
		Telefon:    "0722000111",
		Adresa:     "Bd. Eroilor 3",
		Judet:      "Cluj",
		Localitate: "Turda",
		CNP:        strPtr(" "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Elena Marin", created.Nume)
	assert.Nil(t, created.CNP)

	id := uuid.MustParse(created.ID)
	updated, err := f.clients.Update(ctx, id, &domain.UpdateClientRequest{
		Telefon: strPtr("0733999888"),
		CNP:     strPtr("1900101123456"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0733999888", updated.Telefon)
	assert.Equal(t, "Turda", updated.Localitate)
	require.NotNil(t, updated.CNP)
	assert.Equal(t, "1900101123456", *updated.CNP)

	testutil.CreateTestClient(t, f.db, "Mihai Dobre", "Cluj-Napoca", "Cluj")
	all, err := f.clients.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.clients.List(ctx, "elena")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, created.ID, filtered[0].ID)

	_, err = f.clients.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrClientNotFound)
}

func TestClientService_DeleteRemovesEverythingOwned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client, vehicle, _ := seedOffer(t, f)
	keep := testutil.CreateTestClient(t, f.db, "Alt Client", "Arad", "Arad")
	testutil.CreateTestOrder(t, f.db, keep, nil, "CMD9", domain.PaymentPaid,
		[]domain.OrderProduct{testutil.OrderLine("Filtru", "F", 1, "10", "0", "10")}, "10")

	order := testutil.CreateTestOrder(t, f.db, client, &vehicle.ID, "CMD1", domain.PaymentPartiallyPaid,
		[]domain.OrderProduct{testutil.OrderLine("Bec", "B", 2, "10", "0", "20")}, "5")
	_, err := f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: order.Products[0].ID.String(), ReturnQty: 1})
	require.NoError(t, err)

	require.NoError(t, f.clients.Delete(ctx, client.ID))

	counts := map[string]interface{}{
		"clients":        &domain.Client{},
		"vehicles":       &domain.Vehicle{},
		"offers":         &domain.Offer{},
		"offer_products": &domain.OfferProduct{},
		"orders":         &domain.Order{},
		"order_products": &domain.OrderProduct{},
		"payments":       &domain.Payment{},
		"returns":        &domain.Return{},
	}
	expected := map[string]int64{
		"clients": 1, "vehicles": 0, "offers": 0, "offer_products": 0,
		"orders": 1, "order_products": 1, "payments": 1, "returns": 0,
	}
	for name, model := range counts {
		var n int64
		require.NoError(t, f.db.Model(model).Count(&n).Error)
		assert.Equal(t, expected[name], n, name)
	}

	err = f.clients.Delete(ctx, client.ID)
	assert.ErrorIs(t, err, service.ErrClientNotFound)
}

func TestVehicleService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Ion Popescu", "Cluj-Napoca", "Cluj")

	_, err := f.vehicles.Create(ctx, &domain.CreateVehicleRequest{ClientID: uuid.NewString()})
	assert.ErrorIs(t, err, service.ErrClientNotFound)

	created, err := f.vehicles.Create(ctx, &domain.CreateVehicleRequest{
		ClientID:           client.ID.String(),
		Marca:              "Ford",
		Model:              "Focus",
		An:                 "2012",
		VIN:                "WF0AXXGCDA1234567",
		NumarInmatriculare: "CJ-99-FOC",
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	err = f.vehicles.Update(ctx, id, &domain.UpdateVehicleRequest{Marca: strPtr("Ford")})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	err = f.vehicles.Update(ctx, id, &domain.UpdateVehicleRequest{
		Marca:              strPtr("Ford"),
		Model:              strPtr("Mondeo"),
		An:                 strPtr("2014"),
		VIN:                strPtr("WF0AXXGCDA7654321"),
		NumarInmatriculare: strPtr("CJ-98-MON"),
	})
	require.NoError(t, err)

	got, err := f.vehicles.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Mondeo", got.Model)
	assert.Equal(t, "CJ-98-MON", got.NumarInmatriculare)

	found, err := f.vehicles.Search(ctx, "mondeo", 0, 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ion Popescu", found[0].ClientName)

	_, err = f.vehicles.Search(ctx, "trabant", 0, 0)
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, f.vehicles.Delete(ctx, id))
	list, err := f.vehicles.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
