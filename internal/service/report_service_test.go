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

type reportSeed struct {
	cluj, arad *domain.Client
	owing      *domain.Order
}

// seedReports: the Cluj client has a partially paid 500 order and an overpaid
// 100 order; the Arad client owes a full 1000.
func seedReports(t *testing.T, f *fixture) reportSeed {
	t.Helper()
	cluj := testutil.CreateTestClient(t, f.db, "Ion Popescu", "Cluj-Napoca", "Cluj")
	arad := testutil.CreateTestClient(t, f.db, "Radu Vlad", "Arad", "Arad")
	testutil.CreateTestClient(t, f.db, "Fara Comenzi", "Deva", "Hunedoara")
	car := testutil.CreateTestVehicle(t, f.db, arad.ID, "Skoda", "Octavia", "AR-10-XYZ")

	owing := testutil.CreateTestOrder(t, f.db, cluj, nil, "CMD1", domain.PaymentPartiallyPaid,
		[]domain.OrderProduct{testutil.OrderLine("Kit distributie", "KD", 1, "500", "0", "500")}, "200")
	testutil.CreateTestOrder(t, f.db, cluj, nil, "CMD2", domain.PaymentPaid,
		[]domain.OrderProduct{testutil.OrderLine("Filtru", "F", 1, "100", "0", "100")}, "150")
	testutil.CreateTestOrder(t, f.db, arad, &car.ID, "CMD3", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Turbina", "T", 1, "1000", "0", "1000")})

	return reportSeed{cluj: cluj, arad: arad, owing: owing}
}

func TestReportService_ClientTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := seedReports(t, f)

	_, err := f.returns.AddReturn(ctx, &domain.CreateReturnRequest{
		OrderProductID: seed.owing.Products[0].ID.String(),
		ReturnQty:      1,
	})
	require.NoError(t, err)

	totals, err := f.reports.ClientTotals(ctx, seed.cluj.ID)
	require.NoError(t, err)
	assert.Equal(t, 600.0, totals.TotalCheltuit)
	// the overpaid order does not offset the other one
	assert.Equal(t, 300.0, totals.DePlatit)
	assert.Equal(t, 500.0, totals.Sold)
	assert.Equal(t, 2, totals.TotalComenzi)
}

func TestReportService_Debts(t *testing.T) {
	f := newFixture(t)
	seedReports(t, f)

	debts, err := f.reports.Debts(context.Background())
	require.NoError(t, err)
	require.Len(t, debts, 2)

	assert.Equal(t, "Radu Vlad", debts[0].Nume)
	assert.Equal(t, 1000.0, debts[0].SumaDatorata)
	assert.Contains(t, debts[0].Vehicul, "Skoda")
	assert.Equal(t, "Str. Principala 1, Arad, Arad", debts[0].Adresa)

	assert.Equal(t, "Ion Popescu", debts[1].Nume)
	assert.Equal(t, 300.0, debts[1].SumaDatorata)
}

func TestReportService_Debts_UnknownClientStillListed(t *testing.T) {
	f := newFixture(t)
	seedReports(t, f)

	// order rows imported without their client
	missing := &domain.Client{BaseModel: domain.BaseModel{ID: uuid.New()}}
	testutil.CreateTestOrder(t, f.db, missing, nil, "CMD9", domain.PaymentUnpaid,
		[]domain.OrderProduct{testutil.OrderLine("Alternator", "AL", 1, "400", "0", "400")})

	debts, err := f.reports.Debts(context.Background())
	require.NoError(t, err)
	require.Len(t, debts, 3)

	assert.Equal(t, "N/A", debts[1].Nume)
	assert.Equal(t, "N/A", debts[1].Telefon)
	assert.Equal(t, ", , ", debts[1].Adresa)
	assert.Equal(t, 400.0, debts[1].SumaDatorata)
	assert.Equal(t, "Ion Popescu", debts[2].Nume)
}

func TestReportService_SalesReport(t *testing.T) {
	f := newFixture(t)
	seedReports(t, f)

	rows, err := f.reports.SalesReport(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.SalesReportRowDTO{Localitate: "Arad", Judet: "Arad", NrComenzi: 1, TotalVanzari: 1000}, rows[0])
	assert.Equal(t, domain.SalesReportRowDTO{Localitate: "Cluj-Napoca", Judet: "Cluj", NrComenzi: 2, TotalVanzari: 600}, rows[1])
}

func TestReportService_TopClients(t *testing.T) {
	f := newFixture(t)
	seedReports(t, f)
	ctx := context.Background()

	bySpend, err := f.reports.TopClients(ctx, "")
	require.NoError(t, err)
	require.Len(t, bySpend, 2)
	assert.Equal(t, "Radu Vlad", bySpend[0].Nume)
	assert.Equal(t, 1000.0, bySpend[0].TotalCheltuit)

	byCount, err := f.reports.TopClients(ctx, service.SortByOrderCount)
	require.NoError(t, err)
	require.Len(t, byCount, 2)
	assert.Equal(t, "Ion Popescu", byCount[0].Nume)
	assert.Equal(t, 2, byCount[0].NrComenzi)
}
