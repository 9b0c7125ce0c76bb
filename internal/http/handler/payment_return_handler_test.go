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

func TestPaymentHandler_FullPaymentMarksPaid(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")
	order := testutil.CreateTestOrder(t, env.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Disc", "D-1", 2, "100", "0", "200")})

	rr := env.do(t, http.MethodPost, "/add_payment", map[string]interface{}{
		"client_id":   client.ID.String(),
		"order_id":    order.ID.String(),
		"amount":      "200,00",
		"recorded_by": "ana",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result domain.PaymentResultDTO
	decode(t, rr, &result)
	assert.Equal(t, domain.StatusLabel(domain.FulfillmentOrdered, domain.PaymentPaid), result.Status)
	assert.InDelta(t, 200.0, result.Paid, 0.001)
	assert.InDelta(t, 0.0, result.Balance, 0.001)

	rr = env.do(t, http.MethodGet, "/payments?order_id="+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var payments []domain.PaymentListItemDTO
	decode(t, rr, &payments)
	require.Len(t, payments, 1)
	assert.Equal(t, "CMD1", payments[0].Comanda)
	assert.Equal(t, "ana", payments[0].InregistratDe)
}

func TestPaymentHandler_Rejections(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")
	other := testutil.CreateTestClient(t, env.db, "Ion", "Arad", "Arad")
	order := testutil.CreateTestOrder(t, env.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Disc", "D-1", 1, "100", "0", "100")})

	rr := env.do(t, http.MethodPost, "/add_payment", map[string]interface{}{"order_id": order.ID.String(), "amount": 0})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/add_payment", map[string]interface{}{
		"client_id": other.ID.String(),
		"order_id":  order.ID.String(),
		"amount":    50,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/add_payment", map[string]interface{}{"order_id": uuid.NewString(), "amount": 50})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	for _, amount := range []string{`0.004`, `"0,001"`, `10000000000`} {
		rr = env.do(t, http.MethodPost, "/add_payment",
			`{"order_id":"`+order.ID.String()+`","amount":`+amount+`}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code, amount)
	}

	rr = env.do(t, http.MethodGet, "/payments?order_id="+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestReturnHandler_ReturnFlow(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.CreateTestClient(t, env.db, "Maria", "Turda", "Cluj")
	order := testutil.CreateTestOrder(t, env.db, client, nil, "CMD1", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Bec", "H7", 4, "25", "20", "80")})

	rr := env.do(t, http.MethodGet, "/returnable_items?order_id="+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var items []domain.ReturnableItemDTO
	decode(t, rr, &items)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].EligibleQty)

	rr = env.do(t, http.MethodPost, "/add_return", map[string]interface{}{
		"order_product_id": items[0].ID,
		"return_qty":       "3",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var result domain.ReturnResultDTO
	decode(t, rr, &result)
	assert.InDelta(t, 60.0, result.Refund, 0.001)

	rr = env.do(t, http.MethodPost, "/add_return", map[string]interface{}{
		"order_product_id": items[0].ID,
		"return_qty":       2,
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, http.MethodPost, "/add_return", map[string]interface{}{
		"order_product_id": items[0].ID,
		"return_qty":       0,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// quantities that do not fit the column never reach the eligibility check
	for _, qty := range []string{`18446744073709551617`, `"9223372036854775808"`, `1.5`} {
		rr = env.do(t, http.MethodPost, "/add_return",
			`{"order_product_id":"`+items[0].ID+`","return_qty":`+qty+`}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code, qty)
	}

	rr = env.do(t, http.MethodGet, "/returnable_items?order_id="+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &items)
	assert.Equal(t, 1, items[0].EligibleQty)
}
