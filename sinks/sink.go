// Package sinks delivers canonical documents to downstream consumers.
package sinks

import (
	"context"

	"github.com/alena0604/data-techniques/models"
)

// Sink consumes documents one at a time. Implementations must be safe for
// sequential use from a single goroutine; the pipeline never writes concurrently.
type Sink interface {
	Name() string
	Write(ctx context.Context, doc models.CanonicalDocument) error
	Close() error
}
