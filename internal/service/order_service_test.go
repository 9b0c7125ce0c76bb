package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedOffer creates a client, a vehicle and offer O1 with two lines in "Frane"
// and one in "Ulei"
func seedOffer(t *testing.T, f *fixture) (*domain.Client, *domain.Vehicle, *domain.Offer) {
	t.Helper()
	client := testutil.CreateTestClient(t, f.db, "Ion Popescu", "Cluj-Napoca", "Cluj")
	vehicle := testutil.CreateTestVehicle(t, f.db, client.ID, "Dacia", "Logan", "CJ-01-ABC")
	offer := testutil.CreateTestOffer(t, f.db, client.ID, &vehicle.ID, "O1",
		testutil.OfferLine("Frane", "Placute frana", "P100", 2, "100", "10"),
		testutil.OfferLine("Frane", "Disc frana", "D200", 2, "150", "0"),
		testutil.OfferLine("Ulei", "Ulei 5W30", "U5", 1, "200", "0"),
	)
	return client, vehicle, offer
}

func TestOrderService_CreateFromOffer_CopiesCategoryLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client, vehicle, _ := seedOffer(t, f)

	resp, err := f.orders.CreateFromOffer(ctx, &domain.CreateOrderRequest{
		OfferNumber:      "O1",
		SelectedCategory: "Frane",
	})
	require.NoError(t, err)
	assert.Equal(t, "Comandă salvată!", resp.Message)
	assert.Equal(t, "CMD1", resp.OrderNumber)
	assert.Equal(t, "Comandată și neplătită", resp.Status)

	order, err := f.orderRepo.GetByNumber(ctx, resp.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, client.ID, order.ClientID)
	require.NotNil(t, order.VehicleID)
	assert.Equal(t, vehicle.ID, *order.VehicleID)
	assert.Equal(t, "O1", order.SourceOfferNumber)
	assert.Equal(t, "Frane", order.SourceCategory)

	lines, err := f.orders.Products(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "P100", lines[0].CodProdus)
	assert.Equal(t, 2, lines[0].Cantitate)
	assert.Equal(t, 100.0, lines[0].PretUnitar)
	assert.Equal(t, 180.0, lines[0].PretCuDiscount)
	assert.Equal(t, "D200", lines[1].CodProdus)
	assert.Equal(t, 300.0, lines[1].PretCuDiscount)
}

func TestOrderService_CreateFromOffer_FullInitialPaymentMarksPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedOffer(t, f)

	resp, err := f.orders.CreateFromOffer(ctx, &domain.CreateOrderRequest{
		OfferNumber:      "O1",
		SelectedCategory: "Frane",
		AmountPaid:       domain.NewFlexDecimal(testutil.Dec("480")),
		Observations:     "avans la comanda",
	})
	require.NoError(t, err)
	assert.Equal(t, "Comandată și plătită", resp.Status)

	detail, err := f.orders.GetByNumber(ctx, resp.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, 480.0, detail.TotalAmount)
	assert.Equal(t, 480.0, detail.AmountPaid)
	assert.Equal(t, 0.0, detail.Balance)

	order, err := f.orderRepo.GetByNumber(ctx, resp.OrderNumber)
	require.NoError(t, err)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, "avans la comanda", order.Payments[0].Observations)
	assert.Equal(t, "admin", order.Payments[0].RecordedBy)
}

func TestOrderService_CreateFromOffer_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedOffer(t, f)

	tests := []struct {
		name string
		req  domain.CreateOrderRequest
		want error
	}{
		{"unknown offer", domain.CreateOrderRequest{OfferNumber: "O99", SelectedCategory: "Frane"}, service.ErrOfferNotFound},
		{"empty category", domain.CreateOrderRequest{OfferNumber: "O1", SelectedCategory: "Jante"}, service.ErrEmptyCategory},
		{"bad status", domain.CreateOrderRequest{OfferNumber: "O1", SelectedCategory: "Frane", Status: "Pierdută"}, service.ErrInvalidStatus},
		{"negative amount", domain.CreateOrderRequest{OfferNumber: "O1", SelectedCategory: "Frane", AmountPaid: domain.NewFlexDecimal(testutil.Dec("-1"))}, service.ErrInvalidAmount},
		{"sub-cent amount", domain.CreateOrderRequest{OfferNumber: "O1", SelectedCategory: "Frane", AmountPaid: domain.NewFlexDecimal(testutil.Dec("0.004"))}, service.ErrInvalidAmount},
		{"amount over column range", domain.CreateOrderRequest{OfferNumber: "O1", SelectedCategory: "Frane", AmountPaid: domain.NewFlexDecimal(testutil.Dec("10000000000"))}, service.ErrAmountTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateFromOffer(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOrderService_CreateFromOffer_DuplicateNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedOffer(t, f)

	_, err := f.orders.CreateFromOffer(ctx, &domain.CreateOrderRequest{OfferNumber: "O1", SelectedCategory: "Frane", OrderNumber: "CMD10"})
	require.NoError(t, err)

	_, err = f.orders.CreateFromOffer(ctx, &domain.CreateOrderRequest{OfferNumber: "O1", SelectedCategory: "Ulei", OrderNumber: "CMD10"})
	assert.ErrorIs(t, err, service.ErrDuplicateOrderNumber)
	assert.True(t, errors.Is(err, service.ErrConflict))

	// allocation continues above the highest number in use
	resp, err := f.orders.CreateFromOffer(ctx, &domain.CreateOrderRequest{OfferNumber: "O1", SelectedCategory: "Ulei"})
	require.NoError(t, err)
	assert.Equal(t, "CMD11", resp.OrderNumber)

	highest, err := f.orders.HighestOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CMD11", highest.HighestOrderNumber)
}

func TestOrderService_Update_SplitPaymentsReachPaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Maria Ionescu", "Brasov", "Brasov")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD5", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Amortizor", "A1", 2, "250", "0", "500")})

	_, err := f.payments.AddPayment(ctx, &domain.CreatePaymentRequest{
		OrderID: order.ID.String(),
		Amount:  domain.NewFlexDecimal(testutil.Dec("200")),
	})
	require.NoError(t, err)

	partial, err := f.orders.GetByNumber(ctx, "CMD5")
	require.NoError(t, err)
	assert.Equal(t, "Comandată și plătită parțial", partial.Status)

	target := domain.NewFlexDecimal(testutil.Dec("500"))
	picked := "Ridicată"
	detail, err := f.orders.Update(ctx, "CMD5", &domain.UpdateOrderRequest{AmountPaid: &target, Status: &picked})
	require.NoError(t, err)
	assert.Equal(t, 500.0, detail.AmountPaid)
	assert.Equal(t, 0.0, detail.Balance)
	assert.Equal(t, "Ridicată și plătită", detail.Status)

	stored, err := f.orderRepo.GetByNumber(ctx, "CMD5")
	require.NoError(t, err)
	require.Len(t, stored.Payments, 2)
	var topUp *domain.Payment
	for i := range stored.Payments {
		if stored.Payments[i].Observations == "Actualizare comandă" {
			topUp = &stored.Payments[i]
		}
	}
	require.NotNil(t, topUp)
	assert.True(t, topUp.Amount.Equal(testutil.Dec("300")))
}

func TestOrderService_Update_RefusesDecrease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Dan Matei", "Iasi", "Iasi")
	testutil.CreateTestOrder(t, f.db, client, nil, "CMD2", domain.PaymentPartiallyPaid,
		[]domain.OrderProduct{testutil.OrderLine("Filtru", "F1", 1, "100", "0", "100")}, "60")

	lower := domain.NewFlexDecimal(testutil.Dec("40"))
	_, err := f.orders.Update(ctx, "CMD2", &domain.UpdateOrderRequest{AmountPaid: &lower})
	assert.ErrorIs(t, err, service.ErrPaymentDecrease)

	huge := domain.NewFlexDecimal(testutil.Dec("10000000000"))
	_, err = f.orders.Update(ctx, "CMD2", &domain.UpdateOrderRequest{AmountPaid: &huge})
	assert.ErrorIs(t, err, service.ErrAmountTooLarge)

	// rounds to the amount already paid, so nothing is recorded
	subCent := domain.NewFlexDecimal(testutil.Dec("60.004"))
	_, err = f.orders.Update(ctx, "CMD2", &domain.UpdateOrderRequest{AmountPaid: &subCent})
	require.NoError(t, err)
	stored, err := f.orderRepo.GetByNumber(ctx, "CMD2")
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 1)

	note := "client revine joi"
	same := domain.NewFlexDecimal(testutil.Dec("60"))
	detail, err := f.orders.Update(ctx, "CMD2", &domain.UpdateOrderRequest{AmountPaid: &same, Observations: &note})
	require.NoError(t, err)
	assert.Equal(t, "client revine joi", detail.Observations)
	assert.Equal(t, 60.0, detail.AmountPaid)
}

func TestOrderService_Update_UnknownOrder(t *testing.T) {
	f := newFixture(t)
	note := "x"
	_, err := f.orders.Update(context.Background(), "CMD404", &domain.UpdateOrderRequest{Observations: &note})
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_ProductLookups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Ana Pop", "Sibiu", "Sibiu")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD3", domain.PaymentUnpaid, []domain.OrderProduct{
		testutil.OrderLine("Bujie Iridium", "BJ-9", 4, "40", "0", "160"),
		testutil.OrderLine("Filtru aer", "FA-2", 1, "60", "0", "60"),
	})

	byCode, err := f.orders.ProductsByCode(ctx, order.ID, "BJ-9")
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "BJ-9", byCode[0].CodProdus)

	byAny, err := f.orders.ProductsByAny(ctx, order.ID, "Filtru aer")
	require.NoError(t, err)
	require.Len(t, byAny, 1)
	assert.Equal(t, "FA-2", byAny[0].CodProdus)

	partial, err := f.orders.ProductsByAny(ctx, order.ID, "Filtru")
	require.NoError(t, err)
	assert.Empty(t, partial)

	// hyphens and case are ignored across orders
	global, err := f.orders.ProductsGlobal(ctx, "bj9")
	require.NoError(t, err)
	require.Len(t, global, 1)
	assert.Equal(t, "CMD3", global[0].OrderNumber)
	assert.Equal(t, "Ana Pop", global[0].Nume)
}
