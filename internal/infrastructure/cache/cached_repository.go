package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/cabinetquote/backend/internal/domain/quote"
	"github.com/cabinetquote/backend/internal/domain/shared"
)

// CachedQuoteRepository decorates a QuoteRepository with a read-through cache.
// Cache failures are logged and never fail the underlying operation.
type CachedQuoteRepository struct {
	inner  quote.QuoteRepository
	cache  QuoteCache
	logger *zap.Logger
}

var _ quote.QuoteRepository = (*CachedQuoteRepository)(nil)

// NewCachedQuoteRepository wraps inner with cache
func NewCachedQuoteRepository(inner quote.QuoteRepository, cache QuoteCache, logger *zap.Logger) *CachedQuoteRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedQuoteRepository{inner: inner, cache: cache, logger: logger}
}

// FindByID serves from the cache and falls back to the repository
func (r *CachedQuoteRepository) FindByID(ctx context.Context, id string) (*quote.Quote, error) {
	cached, found, err := r.cache.Get(ctx, id)
	if err != nil {
		r.logger.Warn("quote cache read failed", zap.String("quote_id", id), zap.Error(err))
	}
	if found {
		return cached, nil
	}

	q, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, q)
	return q, nil
}

// FindAll is not cached
func (r *CachedQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	return r.inner.FindAll(ctx, filter)
}

// Count is not cached
func (r *CachedQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return r.inner.Count(ctx, filter)
}

// Create stores the quote and primes the cache
func (r *CachedQuoteRepository) Create(ctx context.Context, q *quote.Quote) error {
	if err := r.inner.Create(ctx, q); err != nil {
		return err
	}
	r.store(ctx, q)
	return nil
}

// Save drops the cached entry before and after the write. The second drop
// discards a copy a concurrent FindByID may have stored while the write was
// in flight; the next read loads the saved row. A reader that loaded the old
// row before the write and stores it after the second drop can still leave a
// stale entry until the TTL expires. Quotes are edited by one user at a time.
func (r *CachedQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	r.invalidate(ctx, q.ID)
	err := r.inner.Save(ctx, q)
	r.invalidate(ctx, q.ID)
	return err
}

// Delete removes the quote and its cache entry
func (r *CachedQuoteRepository) Delete(ctx context.Context, id string) error {
	r.invalidate(ctx, id)
	return r.inner.Delete(ctx, id)
}

func (r *CachedQuoteRepository) store(ctx context.Context, q *quote.Quote) {
	if err := r.cache.Set(ctx, q); err != nil {
		r.logger.Warn("quote cache write failed", zap.String("quote_id", q.ID), zap.Error(err))
	}
}

func (r *CachedQuoteRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Invalidate(ctx, id); err != nil {
		r.logger.Warn("quote cache invalidation failed", zap.String("quote_id", id), zap.Error(err))
	}
}
