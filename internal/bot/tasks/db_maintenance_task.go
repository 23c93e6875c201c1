package tasks

import (
	"context"
	"fmt"
	"time"
)

// newDBMaintenanceTask creates the scheduled task that vacuums the user
// registry database.
func newDBMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "db_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled database maintenance")
		start := time.Now()

		err := deps.Store.RunMaintenance(ctx)

		duration := time.Since(start)
		if err != nil {
			log.ErrorContext(ctx, "Database maintenance task failed", "error", err, "duration", duration)
			return fmt.Errorf("database maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Database maintenance task completed", "duration", duration)
		return nil
	}
}
