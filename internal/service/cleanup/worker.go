package cleanup

import (
	"context"
	"log"
	"time"
)

type SearchRepository interface {
	CleanupOldSearches(ctx context.Context, olderThanDays int) (int64, error)
}

type Worker struct {
	Repo          SearchRepository
	RetentionDays int
	Interval      time.Duration
}

func NewWorker(repo SearchRepository, retentionDays int, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Worker{Repo: repo, RetentionDays: retentionDays, Interval: interval}
}

// Start runs one cleanup right away and then every Interval until ctx is
// cancelled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		w.runCleanup(ctx)

		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] Background worker stopped")
				return
			case <-ticker.C:
				w.runCleanup(ctx)
			}
		}
	}()
	log.Println("[CLEANUP] Background worker started")
}

// runCleanup executes the actual cleanup logic
func (w *Worker) runCleanup(ctx context.Context) int64 {
	if w.RetentionDays <= 0 {
		return 0
	}
	deletedCount, err := w.Repo.CleanupOldSearches(ctx, w.RetentionDays)
	if err != nil {
		log.Printf("[CLEANUP] Error cleaning up search stats: %v", err)
		return 0
	}
	if deletedCount > 0 {
		log.Printf("[CLEANUP] Removed %d search records older than %d days", deletedCount, w.RetentionDays)
	}
	return deletedCount
}
