package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnService_AddReturn_CapsAtSoldQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "George Stan", "Oradea", "Bihor")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Bec H7", "H7", 6, "100", "10", "540")})
	lineID := order.Products[0].ID.String()

	_, err := f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: lineID, ReturnQty: 7})
	assert.ErrorIs(t, err, service.ErrReturnExceedsEligible)
	assert.ErrorIs(t, err, service.ErrConflict)

	res, err := f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: lineID, ReturnQty: 6, Notes: "defecte"})
	require.NoError(t, err)
	assert.Equal(t, "Return recorded", res.Message)
	assert.Equal(t, 540.0, res.Refund)

	_, err = f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: lineID, ReturnQty: 1})
	assert.ErrorIs(t, err, service.ErrReturnExceedsEligible)

	items, err := f.returns.ReturnableItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0, items[0].EligibleQty)
	assert.Equal(t, 6, items[0].Cantitate)
}

func TestReturnService_AddReturn_Partial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "George Stan", "Oradea", "Bihor")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Stergator", "ST-1", 3, "33.33", "0", "99.99")})
	lineID := order.Products[0].ID.String()

	res, err := f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: lineID, ReturnQty: 2})
	require.NoError(t, err)
	assert.Equal(t, 66.66, res.Refund)

	items, err := f.returns.ReturnableItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].EligibleQty)
}

func TestReturnService_AddReturn_InvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: "x", ReturnQty: 1})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: uuid.NewString(), ReturnQty: 0})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: uuid.NewString(), ReturnQty: 1})
	assert.ErrorIs(t, err, service.ErrLineNotFound)
}

func TestReturnService_AddReturn_HugeQuantityStaysWithinSold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "George Stan", "Oradea", "Bihor")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Bujie", "BK-1", 10, "20", "0", "200")})
	lineID := order.Products[0].ID.String()

	_, err := f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: lineID, ReturnQty: 4})
	require.NoError(t, err)

	for _, qty := range []int{math.MaxInt, math.MaxInt32, 7} {
		_, err = f.returns.AddReturn(ctx, &domain.CreateReturnRequest{OrderProductID: lineID, ReturnQty: domain.FlexInt(qty)})
		assert.ErrorIs(t, err, service.ErrReturnExceedsEligible, "qty %d", qty)
	}

	items, err := f.returns.ReturnableItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 6, items[0].EligibleQty)
}
