package quote

import (
	"context"
	"maps"
	"slices"

	"github.com/cabinetquote/backend/internal/domain/quote"
	"github.com/cabinetquote/backend/internal/domain/shared"
	"github.com/cabinetquote/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Metrics records quote lifecycle counters
type Metrics interface {
	RecordSave(ctx context.Context, operation string, err error)
	RecordAdjustmentApplied(ctx context.Context, adjType string)
}

type noopMetrics struct{}

func (noopMetrics) RecordSave(context.Context, string, error)       {}
func (noopMetrics) RecordAdjustmentApplied(context.Context, string) {}

// Option configures a QuoteService
type Option func(*QuoteService)

// WithMetrics sets the metrics recorder
func WithMetrics(m Metrics) Option {
	return func(s *QuoteService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// QuoteService handles quote editing operations. Every call loads the quote
// into a fresh session, applies one change and saves it back.
type QuoteService struct {
	repo    quote.QuoteRepository
	ids     quote.IDGenerator
	engine  *quote.Engine
	metrics Metrics
	logger  *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(
	repo quote.QuoteRepository,
	ids quote.IDGenerator,
	logger *zap.Logger,
	opts ...Option,
) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &QuoteService{
		repo:    repo,
		ids:     ids,
		engine:  quote.NewEngine(nil, ""),
		metrics: noopMetrics{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a new quote with the requested number of empty spaces
func (s *QuoteService) Create(ctx context.Context, req CreateQuoteRequest) (*QuoteResponse, error) {
	session := NewSession(s.repo, s.ids, s.engine, req.ToClientInfo())
	for i := 0; i < req.InitialSpaces; i++ {
		session.AddSpace()
	}

	if err := s.save(ctx, session, "create"); err != nil {
		return nil, err
	}

	snapshot := session.Snapshot()
	s.logger.Info("Quote created",
		zap.String("quote_id", snapshot.ID),
		zap.Int("spaces", snapshot.SpaceCount()))
	return ToQuoteResponse(snapshot, s.engine), nil
}

// GetByID retrieves a quote with its pricing summary
func (s *QuoteService) GetByID(ctx context.Context, id string) (*QuoteResponse, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToQuoteResponse(*q, s.engine), nil
}

// List retrieves a page of quotes
func (s *QuoteService) List(ctx context.Context, filter QuoteListFilter) ([]QuoteListResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	quotes, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]QuoteListResponse, len(quotes))
	for i, q := range quotes {
		result[i] = ToQuoteListResponse(q, s.engine)
	}
	return result, total, nil
}

// Delete removes a quote
func (s *QuoteService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Quote deleted", zap.String("quote_id", id))
	return nil
}

// UpdateClient sets client fields by name. Either every field is applied or none.
func (s *QuoteService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*QuoteResponse, error) {
	return s.edit(ctx, id, "update_client", func(session *Session) error {
		for _, name := range slices.Sorted(maps.Keys(req.Fields)) {
			if err := session.UpdateClientField(quote.ClientField(name), req.Fields[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddSpace appends an empty space to the quote
func (s *QuoteService) AddSpace(ctx context.Context, id string) (*QuoteResponse, error) {
	return s.edit(ctx, id, "add_space", func(session *Session) error {
		space := session.AddSpace()
		s.logger.Debug("Space added", zap.String("quote_id", id), zap.String("space_id", space.ID))
		return nil
	})
}

// UpdateSpace applies a partial update to a space. Unknown spaces are ignored.
func (s *QuoteService) UpdateSpace(ctx context.Context, id, spaceID string, req UpdateSpaceRequest) (*QuoteResponse, error) {
	return s.edit(ctx, id, "update_space", func(session *Session) error {
		session.UpdateSpace(spaceID, req.ToPatch())
		return nil
	})
}

// DeleteSpace removes a space and its items. Unknown spaces are ignored.
func (s *QuoteService) DeleteSpace(ctx context.Context, id, spaceID string) (*QuoteResponse, error) {
	return s.edit(ctx, id, "delete_space", func(session *Session) error {
		session.DeleteSpace(spaceID)
		return nil
	})
}

// AddItem appends a default cabinet item to a space. Unknown spaces are ignored.
func (s *QuoteService) AddItem(ctx context.Context, id, spaceID string) (*QuoteResponse, error) {
	return s.edit(ctx, id, "add_item", func(session *Session) error {
		if item, ok := session.AddItem(spaceID); ok {
			s.logger.Debug("Item added",
				zap.String("quote_id", id),
				zap.String("space_id", spaceID),
				zap.String("item_id", item.ID))
		}
		return nil
	})
}

// UpdateItem applies a partial update to an item. Unknown ids are ignored.
func (s *QuoteService) UpdateItem(ctx context.Context, id, spaceID, itemID string, req UpdateItemRequest) (*QuoteResponse, error) {
	return s.edit(ctx, id, "update_item", func(session *Session) error {
		session.UpdateItem(spaceID, itemID, req.ToPatch())
		return nil
	})
}

// DeleteItem removes an item from a space. Unknown ids are ignored.
func (s *QuoteService) DeleteItem(ctx context.Context, id, spaceID, itemID string) (*QuoteResponse, error) {
	return s.edit(ctx, id, "delete_item", func(session *Session) error {
		session.DeleteItem(spaceID, itemID)
		return nil
	})
}

// ApplyAdjustment commits a discount or surcharge computed from the current subtotal
func (s *QuoteService) ApplyAdjustment(ctx context.Context, id string, req AdjustmentRequest) (*QuoteResponse, error) {
	if req.Percentage == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Percentage is required")
	}
	adjType := quote.AdjustmentType(req.Type)
	resp, err := s.edit(ctx, id, "apply_adjustment", func(session *Session) error {
		return session.ApplyAdjustment(adjType, *req.Percentage)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAdjustmentApplied(ctx, adjType.String())
	s.logger.Info("Adjustment applied",
		zap.String("quote_id", id),
		zap.String("type", adjType.String()),
		zap.String("percentage", req.Percentage.String()))
	return resp, nil
}

// PreviewAdjustment returns the figures a proposed adjustment would produce.
// Nothing is saved.
func (s *QuoteService) PreviewAdjustment(ctx context.Context, id string, req AdjustmentRequest) (*SummaryResponse, error) {
	if req.Percentage == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Percentage is required")
	}
	adjType := quote.AdjustmentType(req.Type)
	if !adjType.IsValid() {
		return nil, quote.ErrInvalidAdjustmentType
	}

	session, err := OpenSession(ctx, s.repo, s.ids, s.engine, id)
	if err != nil {
		return nil, err
	}
	summary := ToSummaryResponse(session.Preview(adjType, *req.Percentage), s.engine.TaxRate())
	return &summary, nil
}

func (s *QuoteService) edit(ctx context.Context, id, operation string, fn func(*Session) error) (resp *QuoteResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", operation,
		attribute.String(telemetry.SpanAttrQuoteID, id),
		attribute.String(telemetry.SpanAttrOperation, operation),
	)
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
		} else {
			telemetry.SetOK(span)
		}
		span.End()
	}()

	session, err := OpenSession(ctx, s.repo, s.ids, s.engine, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session, operation); err != nil {
		return nil, err
	}
	return ToQuoteResponse(session.Snapshot(), s.engine), nil
}

func (s *QuoteService) save(ctx context.Context, session *Session, operation string) error {
	err := session.Save(ctx)
	s.metrics.RecordSave(ctx, operation, err)
	if err != nil {
		s.logger.Warn("Failed to save quote",
			zap.String("quote_id", session.current.ID),
			zap.String("operation", operation),
			zap.Error(err))
		return err
	}
	s.logger.Debug("Quote saved",
		zap.String("quote_id", session.current.ID),
		zap.String("operation", operation))
	return nil
}
