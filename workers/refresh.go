package workers

import (
	"context"
	"log"
	"time"

	"propscout/services"
	"propscout/storage"
)

// RefreshWorker periodically re-runs saved client searches so the office sees
// fresh portal results without re-typing the inquiry.
type RefreshWorker struct {
	store    *storage.PostgresStore
	resolver *services.ResolveService
	trigger  chan struct{}
}

func NewRefreshWorker(store *storage.PostgresStore, resolver *services.ResolveService) *RefreshWorker {
	return &RefreshWorker{
		store:    store,
		resolver: resolver,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an immediate batch outside the regular interval.
func (w *RefreshWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Run starts the refresh loop. It blocks until the context is cancelled.
func (w *RefreshWorker) Run(ctx context.Context, batchSize int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Refresh worker stopping")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx, batchSize)
		case <-w.trigger:
			w.ProcessBatch(ctx, batchSize)
		}
	}
}

// ProcessBatch re-resolves the least recently run active searches. Failures
// only skip the one search; the batch keeps going.
func (w *RefreshWorker) ProcessBatch(ctx context.Context, batchSize int) {
	searches, err := w.store.GetActiveSearches(ctx, batchSize)
	if err != nil {
		log.Printf("Refresh: query error: %v", err)
		return
	}
	if len(searches) == 0 {
		return
	}

	log.Printf("Refresh: re-running %d searches", len(searches))

	for _, search := range searches {
		if ctx.Err() != nil {
			return
		}

		result, err := w.resolver.Resolve(ctx, search.RawText, services.PersistOptions{})
		if err != nil {
			log.Printf("Refresh: search %s failed: %v", search.ID, err)
			continue
		}

		if err := w.store.UpdateSearchLastRun(ctx, search.ID, time.Now()); err != nil {
			log.Printf("Warning: could not update last run for %s: %v", search.ID, err)
		}

		log.Printf("Refresh: search %s done (%d inventory, %d scraped)",
			search.ID, len(result.Inventory), len(result.Scraped))

		// Be polite to the portals between searches.
		time.Sleep(500 * time.Millisecond)
	}
}
