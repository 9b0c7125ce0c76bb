package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/autoshop/shop-api/internal/database"
	"github.com/autoshop/shop-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection so every query sees the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// Dec parses a decimal literal and panics on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestClient inserts a client in the given locality
func CreateTestClient(t *testing.T, db *gorm.DB, name, locality, county string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		Name:     name,
		Phone:    "0740123456",
		Address:  "Str. Principala 1",
		County:   county,
		Locality: locality,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestVehicle inserts a vehicle owned by clientID
func CreateTestVehicle(t *testing.T, db *gorm.DB, clientID uuid.UUID, brand, model, plate string) *domain.Vehicle {
	t.Helper()
	vehicle := &domain.Vehicle{
		ClientID:     clientID,
		Make:         brand,
		Model:        model,
		Year:         "2015",
		VIN:          "WVW" + uuid.NewString()[:14],
		Registration: plate,
	}
	require.NoError(t, db.Omit("Client").Create(vehicle).Error)
	return vehicle
}

// OfferLine builds an offer line priced qty × unit with discountPct off
func OfferLine(category, name, code string, qty int, unit, discountPct string) domain.OfferProduct {
	u := Dec(unit)
	d := Dec(discountPct)
	total := u.Mul(decimal.NewFromInt(int64(qty)))
	discounted := total.Mul(decimal.NewFromInt(1).Sub(d.Div(decimal.NewFromInt(100)))).Round(2)
	return domain.OfferProduct{
		Category:        category,
		Name:            name,
		Brand:           "Bosch",
		Code:            code,
		Quantity:        qty,
		UnitPrice:       u,
		TotalPrice:      total,
		DiscountPct:     d,
		DiscountedPrice: discounted,
	}
}

// CreateTestOffer inserts an offer with its lines
func CreateTestOffer(t *testing.T, db *gorm.DB, clientID uuid.UUID, vehicleID *uuid.UUID, number string, lines ...domain.OfferProduct) *domain.Offer {
	t.Helper()
	for i := range lines {
		lines[i].Position = i
	}
	offer := &domain.Offer{
		OfferNumber: number,
		ClientID:    clientID,
		VehicleID:   vehicleID,
		Date:        time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:      domain.OfferStatusPending,
		Products:    lines,
	}
	require.NoError(t, db.Omit("Client", "Vehicle").Create(offer).Error)
	return offer
}

// OrderLine builds an order line whose discounted price is price
func OrderLine(name, code string, qty int, unit, discountPct, price string) domain.OrderProduct {
	u := Dec(unit)
	return domain.OrderProduct{
		Name:            name,
		Brand:           "ATE",
		Code:            code,
		Quantity:        qty,
		UnitPrice:       u,
		TotalPrice:      u.Mul(decimal.NewFromInt(int64(qty))),
		DiscountPct:     Dec(discountPct),
		DiscountedPrice: Dec(price),
	}
}

// CreateTestOrder inserts an order with lines and one payment per paid amount.
// The payment axis is stored as given; tests that need it derived go through the services.
func CreateTestOrder(t *testing.T, db *gorm.DB, client *domain.Client, vehicleID *uuid.UUID, number string, status domain.PaymentStatus, lines []domain.OrderProduct, paid ...string) *domain.Order {
	t.Helper()
	for i := range lines {
		lines[i].Position = i
	}
	order := &domain.Order{
		OrderNumber:       number,
		ClientID:          client.ID,
		VehicleID:         vehicleID,
		Date:              time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		FulfillmentStatus: domain.FulfillmentOrdered,
		PaymentStatus:     status,
		Products:          lines,
	}
	require.NoError(t, db.Omit("Client", "Vehicle", "Payments").Create(order).Error)

	for _, amount := range paid {
		payment := &domain.Payment{
			ClientID:   client.ID,
			OrderID:    order.ID,
			Amount:     Dec(amount),
			Date:       time.Now().UTC(),
			RecordedBy: "admin",
		}
		require.NoError(t, db.Create(payment).Error)
	}
	return order
}
