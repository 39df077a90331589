package sources

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/alena0604/data-techniques/matchers"
	"github.com/alena0604/data-techniques/metrics"
	"github.com/alena0604/data-techniques/models"
	"github.com/alena0604/data-techniques/normalizers"
	"github.com/alena0604/data-techniques/sinks"
)

const sinkWriteTimeout = 30 * time.Second

var ErrSourceUnreachable = errors.New("source unreachable")

type Fetcher interface {
	Fetch(ctx context.Context, id int64) (FetchResult, error)
}

type Enricher interface {
	Enrich(doc *models.CanonicalDocument)
}

type PipelineOptions struct {
	PollInterval           time.Duration
	Workers                int
	MaxConsecutiveFailures int // 0 keeps polling forever
	Filters                matchers.ItemTypeFilters
}

type TickStats struct {
	IDs      int
	Fetched  int
	Absent   int
	Failed   int
	Filtered int
	Emitted  int
}

type itemOutcome int

const (
	outcomeSkipped itemOutcome = iota
	outcomeFetched
	outcomeAbsent
	outcomeFailed
	outcomeFiltered
)

// HackerNewsPoller drives tracker, fetcher, normalizer and sinks on a fixed interval.
type HackerNewsPoller struct {
	logger     *slog.Logger
	tracker    *MaxIDTracker
	fetcher    Fetcher
	normalizer *normalizers.DocumentNormalizer
	enricher   Enricher
	sinks      []sinks.Sink
	metrics    *metrics.Metrics
	opts       PipelineOptions

	mu                sync.RWMutex
	lastTickAt        time.Time
	lastTickDocuments int
}

// NewHackerNewsPoller accepts a nil enricher.
func NewHackerNewsPoller(
	logger *slog.Logger,
	tracker *MaxIDTracker,
	fetcher Fetcher,
	normalizer *normalizers.DocumentNormalizer,
	enricher Enricher,
	sinkList []sinks.Sink,
	m *metrics.Metrics,
	opts PipelineOptions,
) *HackerNewsPoller {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 15 * time.Second
	}
	return &HackerNewsPoller{
		logger:     logger,
		tracker:    tracker,
		fetcher:    fetcher,
		normalizer: normalizer,
		enricher:   enricher,
		sinks:      sinkList,
		metrics:    m,
		opts:       opts,
	}
}

// StartPolling ticks once immediately and then on every interval until ctx is done.
// It returns ErrSourceUnreachable when the max item lookup keeps failing past the configured limit.
func (h *HackerNewsPoller) StartPolling(ctx context.Context) error {
	h.logger.Info("starting hacker news polling",
		"interval", h.opts.PollInterval.Seconds(),
		"workers", h.opts.Workers,
		"sinks", len(h.sinks))

	ticker := time.NewTicker(h.opts.PollInterval)
	defer ticker.Stop()

	for {
		h.Tick(ctx)

		if err := h.checkFailures(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			h.logger.Info("stopping hacker news polling")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick runs one poll cycle. Per-item failures are logged and counted, never returned.
func (h *HackerNewsPoller) Tick(ctx context.Context) TickStats {
	start := time.Now()

	ids := h.tracker.NextBatch(ctx)
	stats := TickStats{IDs: len(ids)}
	if len(ids) == 0 {
		h.finishTick(start, stats)
		return stats
	}

	// In-flight work outlives ctx so a stop lets running fetches finish or time out.
	workCtx := context.WithoutCancel(ctx)

	docs := make([]*models.CanonicalDocument, len(ids))
	outcomes := make([]itemOutcome, len(ids))

	var g errgroup.Group
	g.SetLimit(h.opts.Workers)
	scheduled := 0
	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcomes[i], docs[i] = h.processItem(workCtx, id)
			return nil
		})
		scheduled++
	}
	_ = g.Wait()

	if scheduled < len(ids) {
		h.skipRemaining(ids[scheduled:])
	}

	for _, o := range outcomes {
		switch o {
		case outcomeFetched:
			stats.Fetched++
		case outcomeAbsent:
			stats.Absent++
		case outcomeFailed:
			stats.Failed++
		case outcomeFiltered:
			stats.Filtered++
		}
	}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		h.emit(workCtx, *doc)
		stats.Emitted++
	}

	h.finishTick(start, stats)
	return stats
}

// skipRemaining hands the unscheduled IDs back to the tracker and logs where to resume.
func (h *HackerNewsPoller) skipRemaining(remaining []int64) {
	from, to := remaining[0], remaining[len(remaining)-1]
	h.tracker.Rewind(from)
	h.logger.Warn("stop requested, items not processed",
		"from", from,
		"to", to,
		"remaining", len(remaining),
		"resume", fmt.Sprintf("-start-id %d", from))
}

func (h *HackerNewsPoller) processItem(ctx context.Context, id int64) (outcome itemOutcome, doc *models.CanonicalDocument) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("item processing panicked", "id", id, "panic", fmt.Sprint(r))
			outcome, doc = outcomeFailed, nil
		}
	}()

	res, err := h.fetcher.Fetch(ctx, id)
	if err != nil {
		h.logger.Warn("skipping item", "id", id, "error", err)
		return outcomeFailed, nil
	}
	if res.Absent() {
		return outcomeAbsent, nil
	}

	item := models.ParseItem(res.Item)
	if !item.Type.Known() {
		h.logger.Debug("unrecognized item type", "id", id, "type", item.Type)
	}
	if !h.opts.Filters.Empty() && !matchers.MatchesItemType(h.opts.Filters, item.Type) {
		h.metrics.ItemFiltered()
		return outcomeFiltered, nil
	}

	normalized := h.normalizer.NormalizeItem(item)
	if h.enricher != nil {
		h.enricher.Enrich(&normalized)
	}
	return outcomeFetched, &normalized
}

func (h *HackerNewsPoller) emit(ctx context.Context, doc models.CanonicalDocument) {
	for _, sink := range h.sinks {
		writeCtx, cancel := context.WithTimeout(ctx, sinkWriteTimeout)
		err := sink.Write(writeCtx, doc)
		cancel()
		if err != nil {
			h.metrics.SinkFailed(sink.Name())
			h.logger.Error("failed to write document", "sink", sink.Name(), "article_id", doc.ArticleID, "error", errors.Wrap(err, sink.Name()))
			continue
		}
		h.metrics.DocumentWritten(sink.Name())
	}
}

func (h *HackerNewsPoller) finishTick(start time.Time, stats TickStats) {
	elapsed := time.Since(start)
	h.metrics.TickCompleted(elapsed, stats.IDs)

	h.mu.Lock()
	h.lastTickAt = start
	h.lastTickDocuments = stats.Emitted
	h.mu.Unlock()

	if stats.IDs == 0 {
		return
	}
	h.logger.Info("processed items",
		"ids", stats.IDs,
		"emitted", stats.Emitted,
		"absent", stats.Absent,
		"failed", stats.Failed,
		"filtered", stats.Filtered,
		"elapsed_ms", elapsed.Milliseconds())
}

func (h *HackerNewsPoller) checkFailures() error {
	if h.opts.MaxConsecutiveFailures <= 0 {
		return nil
	}
	n := h.tracker.State().ConsecutiveFailures
	if n < h.opts.MaxConsecutiveFailures {
		return nil
	}
	h.logger.Error("giving up on source", "consecutive_failures", n)
	return errors.Wrapf(ErrSourceUnreachable, "%d consecutive max item failures", n)
}

func (h *HackerNewsPoller) Status() models.StatusResponse {
	state := h.tracker.State()

	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.sinks))
	for _, s := range h.sinks {
		names = append(names, s.Name())
	}

	return models.StatusResponse{
		Seeded:              state.Seeded,
		LastMaxID:           state.LastMaxID,
		ConsecutiveFailures: state.ConsecutiveFailures,
		LastTickAt:          h.lastTickAt,
		LastTickDocuments:   h.lastTickDocuments,
		Sinks:               names,
	}
}
