package service_test

import (
	"context"
	"testing"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Categories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client, vehicle, _ := seedOffer(t, f)
	testutil.CreateTestOrder(t, f.db, client, &vehicle.ID, "CMD4", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Curea accesorii", "CA-1", 1, "90", "0", "90")})

	res, err := f.search.Search(ctx, "popescu", service.SearchClients, 0, 0)
	require.NoError(t, err)
	clients := res.([]domain.ClientDTO)
	require.Len(t, clients, 1)
	assert.Equal(t, "Ion Popescu", clients[0].Nume)

	res, err = f.search.Search(ctx, "logan", "VEHICLES", 0, 0)
	require.NoError(t, err)
	vehicles := res.([]domain.VehicleSearchResultDTO)
	require.Len(t, vehicles, 1)
	assert.Equal(t, "Ion Popescu", vehicles[0].ClientName)

	res, err = f.search.Search(ctx, "cmd4", service.SearchOrders, 0, 0)
	require.NoError(t, err)
	assert.Len(t, res.([]domain.OrderDTO), 1)

	res, err = f.search.Search(ctx, "curea", service.SearchOrderProducts, 0, 0)
	require.NoError(t, err)
	orderHits := res.([]domain.OrderProductHitDTO)
	require.Len(t, orderHits, 1)
	assert.Equal(t, "CMD4", orderHits[0].Order.OrderNumber)
	assert.Equal(t, "Ion Popescu", orderHits[0].Client.Nume)
	assert.Equal(t, "CJ-01-ABC", orderHits[0].Vehicle.NumarInmatriculare)

	res, err = f.search.Search(ctx, "disc", service.SearchOfferProducts, 0, 0)
	require.NoError(t, err)
	offerHits := res.([]domain.OfferProductHitDTO)
	require.Len(t, offerHits, 1)
	assert.Equal(t, "O1", offerHits[0].Offer.OfferNumber)
	assert.Equal(t, "D200", offerHits[0].OfferProduct.CodProdus)

	res, err = f.search.Search(ctx, "o1", service.SearchOffers, 0, 0)
	require.NoError(t, err)
	assert.Len(t, res.([]domain.OfferDTO), 1)
}

func TestSearchService_Pagination(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Ana A", "Ana B", "Ana C"} {
		testutil.CreateTestClient(t, f.db, name, "Sibiu", "Sibiu")
	}

	res, err := f.search.Search(context.Background(), "ana", service.SearchClients, 2, 2)
	require.NoError(t, err)
	assert.Len(t, res.([]domain.ClientDTO), 1)
}

func TestSearchService_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.search.Search(ctx, "", service.SearchClients, 0, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.search.Search(ctx, "x", "suppliers", 0, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
