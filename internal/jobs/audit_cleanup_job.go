package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AuditCleanupJobName is the name of the audit retention job
const AuditCleanupJobName = "audit_cleanup"

// AuditCleaner deletes audit entries older than the retention window
type AuditCleaner interface {
	CleanupOldLogs(ctx context.Context, retentionDays int) (int64, error)
}

// RegisterAuditCleanupJob adds the audit retention job. Nothing is scheduled
// when retentionDays is not positive.
func RegisterAuditCleanupJob(scheduler *Scheduler, cleaner AuditCleaner, logger *zap.Logger, cronExpr string, retentionDays int) error {
	if retentionDays <= 0 {
		logger.Info("audit retention disabled; entries are kept forever")
		return nil
	}

	return scheduler.AddJob(AuditCleanupJobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		deleted, err := cleaner.CleanupOldLogs(ctx, retentionDays)
		if err != nil {
			logger.Error("audit cleanup failed", zap.Error(err))
			return
		}
		logger.Info("audit cleanup completed",
			zap.Int64("deleted", deleted),
			zap.Int("retention_days", retentionDays))
	})
}
