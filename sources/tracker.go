package sources

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/alena0604/data-techniques/metrics"
)

// Consecutive max item failures at which the tracker starts logging errors instead of warnings.
const failureAlertThreshold = 5

type MaxIDSource interface {
	FetchMaxID(ctx context.Context) (int64, error)
}

type TrackerOptions struct {
	StartID      int64 // inclusive; 0 seeds from the live max item on the first tick
	Retries      uint64
	RetryDelay   time.Duration
	MaxBatchSize int // 0 means unlimited
}

type TrackerState struct {
	Seeded              bool
	LastMaxID           int64
	ConsecutiveFailures int
}

// MaxIDTracker holds the high-water mark and hands out the next contiguous ID range.
type MaxIDTracker struct {
	logger  *slog.Logger
	source  MaxIDSource
	metrics *metrics.Metrics

	retries      uint64
	retryDelay   time.Duration
	maxBatchSize int

	// tickMu serializes NextBatch. mu guards the fields below it.
	tickMu              sync.Mutex
	mu                  sync.RWMutex
	seeded              bool
	lastMaxID           int64
	consecutiveFailures int
}

func NewMaxIDTracker(logger *slog.Logger, source MaxIDSource, m *metrics.Metrics, opts TrackerOptions) *MaxIDTracker {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	t := &MaxIDTracker{
		logger:       logger,
		source:       source,
		metrics:      m,
		retries:      opts.Retries,
		retryDelay:   opts.RetryDelay,
		maxBatchSize: opts.MaxBatchSize,
	}
	if opts.StartID > 0 {
		t.seeded = true
		t.lastMaxID = opts.StartID - 1
		logger.Info("starting from explicit item", "start_id", opts.StartID)
	}
	return t
}

// NextBatch returns the IDs created since the previous call, in ascending order.
// It never returns an error: a failed max item lookup yields an empty batch.
func (t *MaxIDTracker) NextBatch(ctx context.Context) []int64 {
	t.tickMu.Lock()
	defer t.tickMu.Unlock()

	if ctx.Err() != nil {
		return nil
	}

	t.mu.RLock()
	seeded, lastMaxID := t.seeded, t.lastMaxID
	t.mu.RUnlock()

	if !seeded {
		maxID, err := t.fetchMaxID(ctx)
		if err != nil {
			t.recordFailure(ctx, err)
			return nil
		}
		t.mu.Lock()
		t.seeded = true
		t.lastMaxID = maxID
		t.mu.Unlock()
		lastMaxID = maxID
		t.metrics.SetHighWaterMark(maxID)
		t.logger.Info("seeded from live max item", "max_id", maxID)
	}

	newMaxID, err := t.fetchMaxID(ctx)
	if err != nil {
		t.recordFailure(ctx, err)
		return nil
	}
	t.recordSuccess()

	if newMaxID <= lastMaxID {
		t.logger.Debug("no new items", "last_max_id", lastMaxID, "max_id", newMaxID)
		return nil
	}

	end := newMaxID
	if t.maxBatchSize > 0 && end-lastMaxID > int64(t.maxBatchSize) {
		end = lastMaxID + int64(t.maxBatchSize)
	}

	ids := make([]int64, 0, end-lastMaxID)
	for id := lastMaxID + 1; id <= end; id++ {
		ids = append(ids, id)
	}

	t.mu.Lock()
	t.lastMaxID = end
	t.mu.Unlock()
	t.metrics.SetHighWaterMark(end)

	t.logger.Info("fetching items", "from", lastMaxID+1, "to", end, "max_id", newMaxID, "count", len(ids))
	return ids
}

// Rewind moves the high-water mark back so nextID is handed out again by the next
// NextBatch. It never moves the mark forward.
func (t *MaxIDTracker) Rewind(nextID int64) {
	t.tickMu.Lock()
	defer t.tickMu.Unlock()

	t.mu.Lock()
	if !t.seeded || nextID-1 >= t.lastMaxID {
		t.mu.Unlock()
		return
	}
	t.lastMaxID = nextID - 1
	t.mu.Unlock()

	t.metrics.SetHighWaterMark(nextID - 1)
}

func (t *MaxIDTracker) State() TrackerState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return TrackerState{
		Seeded:              t.seeded,
		LastMaxID:           t.lastMaxID,
		ConsecutiveFailures: t.consecutiveFailures,
	}
}

func (t *MaxIDTracker) fetchMaxID(ctx context.Context) (int64, error) {
	var maxID int64
	attempt := 0
	b := retry.WithMaxRetries(t.retries, retry.NewConstant(t.retryDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		id, err := t.source.FetchMaxID(ctx)
		if err != nil {
			t.logger.Warn("fetch max item failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		maxID = id
		return nil
	})
	return maxID, err
}

// recordFailure ignores failures caused by ctx being cancelled.
func (t *MaxIDTracker) recordFailure(ctx context.Context, err error) {
	if ctx.Err() != nil {
		t.logger.Debug("max item lookup cancelled", "error", err)
		return
	}

	t.mu.Lock()
	t.consecutiveFailures++
	n := t.consecutiveFailures
	t.mu.Unlock()

	t.metrics.MaxIDFailed(n)
	if n >= failureAlertThreshold {
		t.logger.Error("max item unavailable", "consecutive_failures", n, "error", err)
		return
	}
	t.logger.Warn("max item unavailable, skipping tick", "consecutive_failures", n, "error", err)
}

func (t *MaxIDTracker) recordSuccess() {
	t.mu.Lock()
	recovered := t.consecutiveFailures > 0
	t.consecutiveFailures = 0
	t.mu.Unlock()

	if recovered {
		t.metrics.MaxIDRecovered()
		t.logger.Info("max item lookup recovered")
	}
}
