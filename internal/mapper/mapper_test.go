package mapper_test

import (
	"testing"
	"time"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/mapper"
	"github.com/autoshop/shop-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCategories(t *testing.T) {
	lines := []domain.OfferProduct{
		testutil.OfferLine("Frane", "Placute", "P-1", 2, "150", "10"),
		testutil.OfferLine("Filtre", "Filtru ulei", "W712", 1, "45.50", "0"),
		testutil.OfferLine("Frane", "Disc", "D-1", 2, "100.10", "0"),
	}

	categories := mapper.ToCategories(lines)
	require.Len(t, categories, 2)

	frane := categories["Frane"]
	require.Len(t, frane.Products, 2)
	assert.Equal(t, "Placute", frane.Products[0].Produs)
	assert.Equal(t, "Disc", frane.Products[1].Produs)
	assert.InDelta(t, 470.20, frane.TotalPrice, 0.001)
	assert.InDelta(t, 45.50, categories["Filtre"].TotalPrice, 0.001)
}

func TestProductRowRoundTrip(t *testing.T) {
	line := testutil.OfferLine("Motor", "Curea", "CT-1", 3, "80", "5")

	back := mapper.FromProductRow("Motor", mapper.ToProductRow(&line))
	assert.Equal(t, line.Name, back.Name)
	assert.Equal(t, line.Code, back.Code)
	assert.Equal(t, line.Quantity, back.Quantity)
	assert.True(t, line.DiscountedPrice.Equal(back.DiscountedPrice))
	assert.Equal(t, "Motor", back.Category)
}

func TestOrderAmounts(t *testing.T) {
	order := &domain.Order{
		Products: []domain.OrderProduct{
			testutil.OrderLine("Disc", "D-1", 2, "100", "0", "200"),
			testutil.OrderLine("Bec", "H7", 1, "20.25", "0", "20.25"),
		},
		Payments: []domain.Payment{
			{Amount: testutil.Dec("100")},
			{Amount: testutil.Dec("50.25")},
		},
	}

	total, paid, balance := mapper.OrderAmounts(order)
	assert.Equal(t, "220.25", total.StringFixed(2))
	assert.Equal(t, "150.25", paid.StringFixed(2))
	assert.Equal(t, "70.00", balance.StringFixed(2))
}

func TestToOrderDetailDTO(t *testing.T) {
	vehicle := &domain.Vehicle{Make: "Dacia", Model: "Logan", Registration: "CJ-10-ABC"}
	order := &domain.Order{
		OrderNumber:       "CMD5",
		Date:              time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		FulfillmentStatus: domain.FulfillmentPickedUp,
		PaymentStatus:     domain.PaymentPartiallyPaid,
		Client:            &domain.Client{Name: "Maria"},
		Vehicle:           vehicle,
		Products:          []domain.OrderProduct{testutil.OrderLine("Disc", "D-1", 1, "300", "0", "300")},
		Payments:          []domain.Payment{{Amount: testutil.Dec("100")}},
	}
	order.ID = uuid.New()

	dto := mapper.ToOrderDetailDTO(order)
	assert.Equal(t, "Maria", dto.ClientName)
	assert.Equal(t, "Dacia Logan (CJ-10-ABC)", dto.Vehicle)
	assert.Equal(t, "2025-03-15", dto.OrderDate)
	assert.Equal(t, "Ridicată și plătită parțial", dto.Status)
	assert.InDelta(t, 200.0, dto.Balance, 0.001)
}

func TestVehicleLabel(t *testing.T) {
	assert.Equal(t, " ()", mapper.VehicleLabel(nil))
}

func TestToOfferDTO_NilVehicle(t *testing.T) {
	offer := &domain.Offer{OfferNumber: "O3", Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}
	dto := mapper.ToOfferDTO(offer)
	assert.Nil(t, dto.VehicleID)
	assert.Empty(t, dto.ClientName)
	assert.Equal(t, "2025-01-02", dto.Date)
	assert.Empty(t, dto.Categories)
}
