package provider

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// windowsFetcher is the single-activity fetch the fan-out builds on.
type windowsFetcher interface {
	FetchWindows(ctx context.Context, activityID string) (*AvailabilityPayload, error)
}

// Fetcher fans availability fetches out over a bounded worker pool. Each
// fetch is independent: a failure only excludes that activity from the
// result set, it never fails the batch.
type Fetcher struct {
	client  windowsFetcher
	workers int
	logger  *zap.Logger
}

// NewFetcher builds a bounded concurrent fetcher on top of the client.
func NewFetcher(client *Client, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, workers: client.workers, logger: logger}
}

// FetchAll retrieves availability for every activity ID, preserving input
// order among the successes.
func (f *Fetcher) FetchAll(ctx context.Context, activityIDs []string) []AvailabilityPayload {
	if len(activityIDs) == 0 {
		return nil
	}

	workers := f.workers
	if workers > len(activityIDs) {
		workers = len(activityIDs)
	}

	type indexed struct {
		index   int
		payload *AvailabilityPayload
	}

	jobs := make(chan int)
	results := make(chan indexed, len(activityIDs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				payload, err := f.client.FetchWindows(ctx, activityIDs[i])
				if err != nil {
					f.logger.Warn("availability fetch failed, excluding activity",
						zap.String("activity_id", activityIDs[i]),
						zap.Error(err))
					continue
				}
				results <- indexed{index: i, payload: payload}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range activityIDs {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()
	close(results)

	ordered := make([]*AvailabilityPayload, len(activityIDs))
	for r := range results {
		ordered[r.index] = r.payload
	}
	payloads := make([]AvailabilityPayload, 0, len(activityIDs))
	for _, p := range ordered {
		if p != nil {
			payloads = append(payloads, *p)
		}
	}
	return payloads
}
