package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/ledger"
	"github.com/autoshop/shop-api/internal/mapper"
	"github.com/autoshop/shop-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SortByOrderCount is the top_clients sort key that ranks by number of orders
const SortByOrderCount = "Nr. Comenzi"

// ReportService aggregates the ledger for the dashboard screens. All sums are
// exact decimals; rounding happens once, when a row is rendered.
type ReportService struct {
	clientRepo *repository.ClientRepository
	orderRepo  *repository.OrderRepository
	logger     *zap.Logger
}

func NewReportService(clientRepo *repository.ClientRepository, orderRepo *repository.OrderRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		clientRepo: clientRepo,
		orderRepo:  orderRepo,
		logger:     logger,
	}
}

// ClientTotals sums spend, outstanding balance and refunds over a client's orders
func (s *ReportService) ClientTotals(ctx context.Context, clientID uuid.UUID) (*domain.ClientTotalsDTO, error) {
	orders, err := s.orderRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	totals := make([]decimal.Decimal, 0, len(orders))
	balances := make([]decimal.Decimal, 0, len(orders))
	var refunds []decimal.Decimal
	for i := range orders {
		total, _, balance := mapper.OrderAmounts(&orders[i])
		totals = append(totals, total)
		balances = append(balances, balance)
		for _, line := range orders[i].Products {
			for _, r := range line.Returns {
				refunds = append(refunds, r.TotalRefund)
			}
		}
	}

	return &domain.ClientTotalsDTO{
		TotalCheltuit: ledger.Float(ledger.Sum(totals)),
		DePlatit:      ledger.Float(ledger.AmountOwed(balances)),
		Sold:          ledger.Float(ledger.Sum(refunds)),
		TotalComenzi:  len(orders),
	}, nil
}

type localityKey struct {
	locality string
	county   string
}

// SalesReport groups order count and sales by the client's locality and county
func (s *ReportService) SalesReport(ctx context.Context) ([]domain.SalesReportRowDTO, error) {
	clients, orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[localityKey]int)
	sales := make(map[localityKey]decimal.Decimal)
	for i := range orders {
		client, ok := clients[orders[i].ClientID]
		if !ok {
			continue
		}
		key := localityKey{locality: client.Locality, county: client.County}
		total, _, _ := mapper.OrderAmounts(&orders[i])
		counts[key]++
		sales[key] = sales[key].Add(total)
	}

	rows := make([]domain.SalesReportRowDTO, 0, len(counts))
	for key, n := range counts {
		rows = append(rows, domain.SalesReportRowDTO{
			Localitate:   key.locality,
			Judet:        key.county,
			NrComenzi:    n,
			TotalVanzari: ledger.Float(sales[key]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Localitate != rows[j].Localitate {
			return rows[i].Localitate < rows[j].Localitate
		}
		return rows[i].Judet < rows[j].Judet
	})
	return rows, nil
}

// TopClients ranks clients with at least one order by spend, or by order count
// when sortBy is SortByOrderCount
func (s *ReportService) TopClients(ctx context.Context, sortBy string) ([]domain.TopClientDTO, error) {
	clients, orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int)
	spent := make(map[uuid.UUID]decimal.Decimal)
	for i := range orders {
		id := orders[i].ClientID
		total, _, _ := mapper.OrderAmounts(&orders[i])
		counts[id]++
		spent[id] = spent[id].Add(total)
	}

	type ranked struct {
		row   domain.TopClientDTO
		spent decimal.Decimal
	}
	list := make([]ranked, 0, len(counts))
	for id, n := range counts {
		client, ok := clients[id]
		if !ok {
			continue
		}
		list = append(list, ranked{
			row:   domain.TopClientDTO{Nume: client.Name, NrComenzi: n, TotalCheltuit: ledger.Float(spent[id])},
			spent: spent[id],
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if sortBy == SortByOrderCount && list[i].row.NrComenzi != list[j].row.NrComenzi {
			return list[i].row.NrComenzi > list[j].row.NrComenzi
		}
		if sortBy != SortByOrderCount && !list[i].spent.Equal(list[j].spent) {
			return list[i].spent.GreaterThan(list[j].spent)
		}
		return list[i].row.Nume < list[j].row.Nume
	})

	rows := make([]domain.TopClientDTO, 0, len(list))
	for _, r := range list {
		rows = append(rows, r.row)
	}
	return rows, nil
}

// unknownClient fills the name and phone of a debt whose client is missing
const unknownClient = "N/A"

// Debts lists clients owing money on unpaid or partially paid orders, largest debt first
func (s *ReportService) Debts(ctx context.Context) ([]domain.DebtDTO, error) {
	orders, err := s.orderRepo.ListOutstanding(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding orders: %w", err)
	}

	clientIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		clientIDs = append(clientIDs, o.ClientID)
	}
	clients, err := s.clientRepo.GetByIDs(ctx, clientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	type debt struct {
		owed    []decimal.Decimal
		vehicle *domain.Vehicle
	}
	debts := make(map[uuid.UUID]*debt)
	var seen []uuid.UUID
	for i := range orders {
		_, _, balance := mapper.OrderAmounts(&orders[i])
		if !balance.IsPositive() {
			continue
		}
		id := orders[i].ClientID
		d, ok := debts[id]
		if !ok {
			d = &debt{vehicle: orders[i].Vehicle}
			debts[id] = d
			seen = append(seen, id)
		}
		d.owed = append(d.owed, balance)
	}

	type ranked struct {
		row  domain.DebtDTO
		owed decimal.Decimal
	}
	list := make([]ranked, 0, len(debts))
	for _, id := range seen {
		owed := ledger.AmountOwed(debts[id].owed)
		row := domain.DebtDTO{
			Nume:         unknownClient,
			Telefon:      unknownClient,
			Adresa:       ", , ",
			SumaDatorata: ledger.Float(owed),
			Vehicul:      mapper.VehicleLabel(debts[id].vehicle),
		}
		// debts of a client row that no longer resolves are still reported
		if client, ok := clients[id]; ok {
			row.Nume = client.Name
			row.Telefon = client.Phone
			row.Adresa = fmt.Sprintf("%s, %s, %s", client.Address, client.Locality, client.County)
		}
		list = append(list, ranked{row: row, owed: owed})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].owed.GreaterThan(list[j].owed)
	})

	rows := make([]domain.DebtDTO, 0, len(list))
	for _, r := range list {
		rows = append(rows, r.row)
	}
	return rows, nil
}

func (s *ReportService) load(ctx context.Context) (map[uuid.UUID]domain.Client, []domain.Order, error) {
	clients, err := s.clientRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load clients: %w", err)
	}
	orders, err := s.orderRepo.ListWithLedger(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load orders: %w", err)
	}

	byID := make(map[uuid.UUID]domain.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}
	return byID, orders, nil
}
