package jobs

import (
	"context"
	"time"

	"github.com/autoshop/shop-api/internal/service"
	"go.uber.org/zap"
)

// LedgerExportJobName is the name of the accounting warehouse export job
const LedgerExportJobName = "ledger_export"

// LedgerExporter pushes new payments and refunds to the accounting warehouse
type LedgerExporter interface {
	Export(ctx context.Context) (*service.LedgerExportResult, error)
}

// LedgerExportJob runs the warehouse export on a schedule
type LedgerExportJob struct {
	exporter LedgerExporter
	logger   *zap.Logger
	timeout  time.Duration
}

func NewLedgerExportJob(exporter LedgerExporter, logger *zap.Logger, timeout time.Duration) *LedgerExportJob {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &LedgerExportJob{
		exporter: exporter,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run is called by the scheduler. A failed run is retried on the next
// schedule from the same watermark.
func (j *LedgerExportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	result, err := j.exporter.Export(ctx)
	if err != nil {
		j.logger.Error("ledger export failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("ledger export completed",
		zap.Int("entries", result.Entries),
		zap.Time("from", result.From),
		zap.Time("until", result.Until),
		zap.Duration("duration", time.Since(start)))
}

// RegisterLedgerExportJob adds the export job to the scheduler
func RegisterLedgerExportJob(scheduler *Scheduler, exporter LedgerExporter, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewLedgerExportJob(exporter, logger, timeout)
	return scheduler.AddJob(LedgerExportJobName, cronExpr, job.Run)
}
