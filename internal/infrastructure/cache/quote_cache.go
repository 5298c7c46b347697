// Package cache provides read-through caching for stored quotes.
package cache

import (
	"context"

	"github.com/cabinetquote/backend/internal/domain/quote"
)

// QuoteCache stores quote snapshots by ID
type QuoteCache interface {
	// Get returns the cached quote. found is false on a miss.
	Get(ctx context.Context, id string) (q *quote.Quote, found bool, err error)

	// Set stores a copy of q under its ID
	Set(ctx context.Context, q *quote.Quote) error

	// Invalidate removes the entry for id, if any
	Invalidate(ctx context.Context, id string) error

	// Close releases resources held by the cache
	Close() error
}
