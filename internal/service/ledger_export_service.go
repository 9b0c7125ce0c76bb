package service

import (
	"context"
	"fmt"
	"time"

	"github.com/autoshop/shop-api/internal/datawarehouse"
	"github.com/autoshop/shop-api/internal/domain"
	"github.com/autoshop/shop-api/internal/repository"
	"go.uber.org/zap"
)

// LedgerWriter receives exported cash movements
type LedgerWriter interface {
	ExportLedgerEntries(ctx context.Context, entries []datawarehouse.LedgerEntry) error
}

// LedgerExportResult describes one export window
type LedgerExportResult struct {
	From    time.Time `json:"from"`
	Until   time.Time `json:"until"`
	Entries int       `json:"entries"`
}

// LedgerExportService copies payments and refunds created since the last
// successful run into the accounting warehouse
type LedgerExportService struct {
	exportRepo  *repository.LedgerExportRepository
	paymentRepo *repository.PaymentRepository
	returnRepo  *repository.ReturnRepository
	writer      LedgerWriter
	logger      *zap.Logger
	now         func() time.Time
}

func NewLedgerExportService(
	exportRepo *repository.LedgerExportRepository,
	paymentRepo *repository.PaymentRepository,
	returnRepo *repository.ReturnRepository,
	writer LedgerWriter,
	logger *zap.Logger,
) *LedgerExportService {
	return &LedgerExportService{
		exportRepo:  exportRepo,
		paymentRepo: paymentRepo,
		returnRepo:  returnRepo,
		writer:      writer,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// exportOverlap reopens each window this far before the last watermark so rows
// stamped before it but committed after it are still picked up. The warehouse
// upserts on source id, so entries sent twice land once.
const exportOverlap = 5 * time.Minute

// Export pushes the window (last watermark - exportOverlap, now]. Every run is
// recorded, failed ones with their error, and only successful runs advance the
// watermark.
func (s *LedgerExportService) Export(ctx context.Context) (*LedgerExportResult, error) {
	from, err := s.exportRepo.LastSuccessfulUntil(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read export watermark: %w", err)
	}
	if !from.IsZero() {
		from = from.Add(-exportOverlap)
	}
	until := s.now()

	entries, err := s.collect(ctx, from, until)
	if err != nil {
		return nil, err
	}

	run := &domain.LedgerExport{ExportedUntil: until, Entries: len(entries)}
	exportErr := s.writer.ExportLedgerEntries(ctx, entries)
	if exportErr != nil {
		run.Error = exportErr.Error()
	} else {
		run.Success = true
	}
	if err := s.exportRepo.Create(ctx, run); err != nil {
		s.logger.Error("failed to record ledger export run", zap.Error(err))
		if exportErr == nil {
			return nil, fmt.Errorf("failed to record ledger export: %w", err)
		}
	}
	if exportErr != nil {
		return nil, fmt.Errorf("ledger export failed: %w", exportErr)
	}

	s.logger.Info("ledger exported",
		zap.Time("from", from),
		zap.Time("until", until),
		zap.Int("entries", len(entries)))
	return &LedgerExportResult{From: from, Until: until, Entries: len(entries)}, nil
}

func (s *LedgerExportService) collect(ctx context.Context, from, until time.Time) ([]datawarehouse.LedgerEntry, error) {
	payments, err := s.paymentRepo.ListCreatedBetween(ctx, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	returns, err := s.returnRepo.ListCreatedBetween(ctx, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to load returns: %w", err)
	}

	entries := make([]datawarehouse.LedgerEntry, 0, len(payments)+len(returns))
	for _, p := range payments {
		entries = append(entries, datawarehouse.LedgerEntry{
			SourceID:    p.ID,
			Kind:        datawarehouse.EntryPayment,
			OrderID:     p.OrderID,
			ClientID:    p.ClientID,
			Amount:      p.Amount,
			BookedAt:    p.Date,
			RecordedBy:  p.RecordedBy,
			Description: p.Observations,
		})
	}
	for _, r := range returns {
		entries = append(entries, datawarehouse.LedgerEntry{
			SourceID:    r.ID,
			Kind:        datawarehouse.EntryRefund,
			OrderID:     r.OrderID,
			ClientID:    r.ClientID,
			Amount:      r.TotalRefund.Neg(),
			BookedAt:    r.CreatedAt,
			Description: r.Notes,
		})
	}
	return entries, nil
}
