package tasks

import (
	"context"
	"fmt"
	"time"
)

// newLogRetentionTask creates the scheduled task that prunes request-log
// entries older than the configured retention. The audit log only needs to
// cover the rate-limit window plus whatever history operators want to keep.
func newLogRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "log_retention")
	retention := time.Duration(deps.Config.Database.LogRetentionDays) * 24 * time.Hour

	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().Add(-retention)
		log.InfoContext(ctx, "Pruning request logs", "cutoff", cutoff)

		deleted, err := deps.Store.DeleteRequestLogsBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Log retention task failed", "error", err)
			return fmt.Errorf("log retention failed: %w", err)
		}

		log.InfoContext(ctx, "Request logs pruned", "deleted", deleted)
		return nil
	}
}
