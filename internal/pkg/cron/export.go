package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clinassign/clinassign-backend-go/internal/pkg/storage"
)

// ExportCleanup removes exported report files once they outlive the retention window.
type ExportCleanup struct {
	storage   storage.FileStorage
	prefix    string
	retention time.Duration
	now       func() time.Time
}

func NewExportCleanup(fileStorage storage.FileStorage, prefix string, retention time.Duration) *ExportCleanup {
	return &ExportCleanup{
		storage:   fileStorage,
		prefix:    prefix,
		retention: retention,
		now:       time.Now,
	}
}

// Register adds the cleanup job to scheduler, running every interval.
func (c *ExportCleanup) Register(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(Job{
		Name:       "cleanup_report_exports",
		Interval:   interval,
		RunOnStart: true,
		Fn:         func(ctx context.Context) error { _, err := c.Run(ctx); return err },
	})
}

// Run deletes expired exports and returns how many were removed.
func (c *ExportCleanup) Run(ctx context.Context) (int, error) {
	files, err := c.storage.List(ctx, c.prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list exports: %w", err)
	}

	cutoff := c.now().Add(-c.retention)
	removed := 0
	for _, f := range files {
		if !f.ModTime.Before(cutoff) {
			continue
		}
		if err := c.storage.Delete(ctx, f.Path); err != nil {
			return removed, fmt.Errorf("failed to delete export %s: %w", f.Path, err)
		}
		removed++
	}

	if removed > 0 {
		slog.Info("Expired report exports removed", "count", removed, "retention", c.retention)
	}
	return removed, nil
}
