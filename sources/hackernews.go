package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/alena0604/data-techniques/models"
)

type ErrorKind string

const (
	ErrorKindTimeout   ErrorKind = "timeout"
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindStatus    ErrorKind = "status"
	ErrorKindDecode    ErrorKind = "decode"
)

// SourceError is a failed call to the source API. It never describes an absent item.
type SourceError struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	if e.Kind == ErrorKindStatus {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient.
func (e *SourceError) Retryable() bool {
	if e.Kind != ErrorKindStatus {
		return true
	}
	switch {
	case e.StatusCode >= 500:
		return true
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	}
	return false
}

type HackerNewsClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// NewHackerNewsClient bounds every request by timeout. requestsPerSecond <= 0 disables rate limiting.
func NewHackerNewsClient(baseURL string, client *http.Client, timeout time.Duration, requestsPerSecond float64) *HackerNewsClient {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &HackerNewsClient{
		baseURL: baseURL,
		client:  client,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (c *HackerNewsClient) FetchMaxID(ctx context.Context) (int64, error) {
	var id int64
	if err := c.get(ctx, "max item", "/maxitem.json", &id); err != nil {
		return 0, err
	}
	return id, nil
}

// FetchItem returns a nil item and nil error when the source has no record for id.
func (c *HackerNewsClient) FetchItem(ctx context.Context, id int64) (models.RawItem, error) {
	var item models.RawItem
	if err := c.get(ctx, fmt.Sprintf("item %d", id), fmt.Sprintf("/item/%d.json", id), &item); err != nil {
		return nil, err
	}
	if len(item) == 0 {
		return nil, nil
	}
	return item, nil
}

func (c *HackerNewsClient) get(ctx context.Context, op, path string, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &SourceError{Op: op, Kind: classify(err), Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &SourceError{Op: op, Kind: ErrorKindTransport, Err: err}
	}
	req.Header.Set("User-Agent", "data-techniques")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &SourceError{Op: op, Kind: classify(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &SourceError{Op: op, Kind: ErrorKindStatus, StatusCode: resp.StatusCode}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(dest); err != nil {
		kind := ErrorKindDecode
		if classify(err) == ErrorKindTimeout {
			kind = ErrorKindTimeout
		}
		return &SourceError{Op: op, Kind: kind, Err: err}
	}

	return nil
}

func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}
	return ErrorKindTransport
}
