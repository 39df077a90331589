package sources

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/alena0604/data-techniques/metrics"
	"github.com/alena0604/data-techniques/models"
)

type ItemSource interface {
	FetchItem(ctx context.Context, id int64) (models.RawItem, error)
}

// FetchResult is the outcome of a lookup that did not fail. A nil Item means the
// source has no record for ID.
type FetchResult struct {
	ID   int64
	Item models.RawItem
}

func (r FetchResult) Absent() bool {
	return r.Item == nil
}

type FetcherOptions struct {
	MaxRetries uint64
	RetryBase  time.Duration
	RetryMax   time.Duration
}

// ItemFetcher retries transient source errors with capped exponential backoff.
// Absent items are returned at once.
type ItemFetcher struct {
	logger  *slog.Logger
	source  ItemSource
	metrics *metrics.Metrics
	opts    FetcherOptions
}

func NewItemFetcher(logger *slog.Logger, source ItemSource, m *metrics.Metrics, opts FetcherOptions) *ItemFetcher {
	if opts.RetryBase <= 0 {
		opts.RetryBase = 500 * time.Millisecond
	}
	if opts.RetryMax < opts.RetryBase {
		opts.RetryMax = opts.RetryBase
	}
	return &ItemFetcher{
		logger:  logger,
		source:  source,
		metrics: m,
		opts:    opts,
	}
}

// Fetch returns a *SourceError once retries are exhausted or the failure is not transient.
func (f *ItemFetcher) Fetch(ctx context.Context, id int64) (FetchResult, error) {
	result := FetchResult{ID: id}
	attempt := 0

	b := retry.NewExponential(f.opts.RetryBase)
	b = retry.WithCappedDuration(f.opts.RetryMax, b)
	b = retry.WithMaxRetries(f.opts.MaxRetries, b)

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			f.metrics.FetchRetried()
		}

		item, err := f.source.FetchItem(ctx, id)
		if err == nil {
			result.Item = item
			return nil
		}

		var srcErr *SourceError
		if errors.As(err, &srcErr) && !srcErr.Retryable() {
			return err
		}
		f.logger.Warn("fetch item failed", "id", id, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		f.metrics.ItemFetched(metrics.OutcomeError)
		return result, err
	}

	if result.Absent() {
		f.metrics.ItemFetched(metrics.OutcomeAbsent)
		f.logger.Debug("item absent", "id", id)
		return result, nil
	}

	f.metrics.ItemFetched(metrics.OutcomeFound)
	return result, nil
}
