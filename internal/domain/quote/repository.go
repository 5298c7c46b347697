package quote

import (
	"context"

	"github.com/cabinetquote/backend/internal/domain/shared"
)

// IDGenerator supplies globally unique tokens for new spaces and items
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator
type IDGeneratorFunc func() string

// NewID implements IDGenerator
func (f IDGeneratorFunc) NewID() string {
	return f()
}

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByID loads a quote. Returns shared.ErrNotFound if it does not exist.
	FindByID(ctx context.Context, id string) (*Quote, error)

	// FindAll lists quotes with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Quote, error)

	// Count counts quotes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create stores a new quote and assigns its ID
	Create(ctx context.Context, quote *Quote) error

	// Save replaces the stored quote with the given snapshot.
	// Returns shared.ErrNotFound if the quote does not exist.
	Save(ctx context.Context, quote *Quote) error

	// Delete removes a quote with all its spaces and items
	Delete(ctx context.Context, id string) error
}
