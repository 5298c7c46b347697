package quote

import (
	"context"
	"fmt"

	"github.com/cabinetquote/backend/internal/domain/quote"
	"github.com/cabinetquote/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockQuoteRepository is a mock implementation of QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByID(ctx context.Context, id string) (*quote.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]quote.Quote), args.Error(1)
}

func (m *MockQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) Create(ctx context.Context, q *quote.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMetrics is a mock implementation of Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordSave(ctx context.Context, operation string, err error) {
	m.Called(ctx, operation, err)
}

func (m *MockMetrics) RecordAdjustmentApplied(ctx context.Context, adjType string) {
	m.Called(ctx, adjType)
}

func sequentialIDs(prefix string) quote.IDGenerator {
	n := 0
	return quote.IDGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}

// storedQuote returns a persisted quote with two spaces holding one default item each
func storedQuote() *quote.Quote {
	ids := sequentialIDs("stored")
	q := quote.New(quote.ClientInfo{ClientName: "Ada", ProjectName: "Kitchen remodel"})
	q.ID = "quote-1"
	q = quote.AddSpace(q, ids)
	q = quote.AddSpace(q, ids)
	q = quote.AddItem(q, q.Spaces[0].ID, ids)
	q = quote.AddItem(q, q.Spaces[1].ID, ids)
	return &q
}
