package service_test

import (
	"context"
	"testing"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/autoshop/shop-api/internal/service"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentService_AddPayment_PostedTwiceCountsTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Vasile Rus", "Arad", "Arad")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Baterie", "B70", 1, "500", "0", "500")})

	req := &domain.CreatePaymentRequest{
		ClientID: client.ID.String(),
		OrderID:  order.ID.String(),
		Amount:   domain.NewFlexDecimal(testutil.Dec("150")),
	}
	first, err := f.payments.AddPayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Plata înregistrată cu succes", first.Message)
	assert.Equal(t, 150.0, first.Paid)
	assert.Equal(t, "Comandată și plătită parțial", first.Status)

	second, err := f.payments.AddPayment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 300.0, second.Paid)
	assert.Equal(t, 500.0, second.Total)
	assert.Equal(t, 200.0, second.Balance)

	stored, err := f.orderRepo.GetByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Len(t, stored.Payments, 2)
	assert.Equal(t, domain.PaymentPartiallyPaid, stored.PaymentStatus)
}

func TestPaymentService_AddPayment_Overpayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Vasile Rus", "Arad", "Arad")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Baterie", "B70", 1, "500", "0", "500")})

	res, err := f.payments.AddPayment(ctx, &domain.CreatePaymentRequest{
		OrderID: order.ID.String(),
		Amount:  domain.NewFlexDecimal(testutil.Dec("520.50")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Comandată și plătită", res.Status)
	assert.Equal(t, -20.5, res.Balance)
}

func TestPaymentService_AddPayment_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Vasile Rus", "Arad", "Arad")
	other := testutil.CreateTestClient(t, f.db, "Alt Client", "Arad", "Arad")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Baterie", "B70", 1, "500", "0", "500")})

	tests := []struct {
		name string
		req  domain.CreatePaymentRequest
		want error
	}{
		{"zero amount", domain.CreatePaymentRequest{OrderID: order.ID.String()}, service.ErrInvalidAmount},
		{"negative amount", domain.CreatePaymentRequest{OrderID: order.ID.String(), Amount: domain.NewFlexDecimal(testutil.Dec("-5"))}, service.ErrInvalidAmount},
		{"sub-cent amount rounds to zero", domain.CreatePaymentRequest{OrderID: order.ID.String(), Amount: domain.NewFlexDecimal(testutil.Dec("0.004"))}, service.ErrInvalidAmount},
		{"amount over column range", domain.CreatePaymentRequest{OrderID: order.ID.String(), Amount: domain.NewFlexDecimal(testutil.Dec("10000000000"))}, service.ErrAmountTooLarge},
		{"bad order id", domain.CreatePaymentRequest{OrderID: "nope", Amount: domain.NewFlexDecimal(testutil.Dec("1"))}, service.ErrInvalidInput},
		{"unknown order", domain.CreatePaymentRequest{OrderID: uuid.NewString(), Amount: domain.NewFlexDecimal(testutil.Dec("1"))}, service.ErrOrderNotFound},
		{"other client", domain.CreatePaymentRequest{ClientID: other.ID.String(), OrderID: order.ID.String(), Amount: domain.NewFlexDecimal(testutil.Dec("1"))}, service.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.payments.AddPayment(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stored, err := f.orderRepo.GetByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Empty(t, stored.Payments)
	assert.Equal(t, domain.PaymentUnpaid, stored.PaymentStatus)
}

func TestPaymentService_AddPayment_HalfCentRoundsUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Vasile Rus", "Arad", "Arad")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Baterie", "B70", 1, "500", "0", "500")})

	res, err := f.payments.AddPayment(ctx, &domain.CreatePaymentRequest{
		OrderID: order.ID.String(),
		Amount:  domain.NewFlexDecimal(testutil.Dec("0.005")),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.01, res.Paid)

	stored, err := f.orderRepo.GetByNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, stored.Payments, 1)
	assert.Equal(t, "0.01", stored.Payments[0].Amount.StringFixed(2))
}

func TestPaymentService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, f.db, "Vasile Rus", "Arad", "Arad")
	order := testutil.CreateTestOrder(t, f.db, client, nil, "CMD7", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Baterie", "B70", 1, "500", "0", "500")})

	_, err := f.payments.AddPayment(ctx, &domain.CreatePaymentRequest{
		OrderID:      order.ID.String(),
		Amount:       domain.NewFlexDecimal(testutil.Dec("100")),
		RecordedBy:   "casier",
		Observations: "numerar",
	})
	require.NoError(t, err)

	items, err := f.payments.List(ctx, repository.PaymentFilter{ClientID: &client.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Vasile Rus", items[0].Client)
	assert.Equal(t, "CMD7", items[0].Comanda)
	assert.Equal(t, 100.0, items[0].Suma)
	assert.Equal(t, "casier", items[0].InregistratDe)
	assert.Equal(t, "numerar", items[0].Observations)
}
