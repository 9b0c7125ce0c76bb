package jobs

import (
	"context"
	"time"

	"github.com/autoshop/shop-api/internal/service"
	"go.uber.org/zap"
)

// ReconcileJobName is the name of the payment status reconciliation job
const ReconcileJobName = "reconcile_order_status"

// StatusReconciler re-derives order payment statuses from the ledger
type StatusReconciler interface {
	Run(ctx context.Context) (*service.ReconcileResult, error)
}

// ReconcileJob heals orders whose stored payment status drifted from their
// lines and payments
type ReconcileJob struct {
	reconciler StatusReconciler
	logger     *zap.Logger
	timeout    time.Duration
}

func NewReconcileJob(reconciler StatusReconciler, logger *zap.Logger, timeout time.Duration) *ReconcileJob {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ReconcileJob{
		reconciler: reconciler,
		logger:     logger,
		timeout:    timeout,
	}
}

// Run is called by the scheduler
func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	result, err := j.reconciler.Run(ctx)
	if err != nil {
		j.logger.Error("order status reconciliation failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	fields := []zap.Field{
		zap.Int("checked", result.Checked),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", time.Since(start)),
	}
	if result.Updated > 0 || result.Failed > 0 {
		j.logger.Info("order status reconciliation changed orders", fields...)
		return
	}
	j.logger.Debug("order status reconciliation completed", fields...)
}

// RegisterReconcileJob adds the reconciliation job to the scheduler
func RegisterReconcileJob(scheduler *Scheduler, reconciler StatusReconciler, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewReconcileJob(reconciler, logger, timeout)
	return scheduler.AddJob(ReconcileJobName, cronExpr, job.Run)
}
