package quote

import (
	"context"

	"github.com/cabinetquote/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
)

// Session holds the working snapshot of one quote between load and save.
// A session is not safe for concurrent use.
type Session struct {
	repo    quote.QuoteRepository
	ids     quote.IDGenerator
	engine  *quote.Engine
	current quote.Quote
}

// OpenSession loads a quote and starts editing it. When the quote cannot be
// loaded no session is returned.
func OpenSession(ctx context.Context, repo quote.QuoteRepository, ids quote.IDGenerator, engine *quote.Engine, id string) (*Session, error) {
	q, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newSession(repo, ids, engine, *q), nil
}

// NewSession starts a session for a quote that has not been saved yet
func NewSession(repo quote.QuoteRepository, ids quote.IDGenerator, engine *quote.Engine, client quote.ClientInfo) *Session {
	return newSession(repo, ids, engine, quote.New(client))
}

func newSession(repo quote.QuoteRepository, ids quote.IDGenerator, engine *quote.Engine, q quote.Quote) *Session {
	if engine == nil {
		engine = quote.NewEngine(nil, "")
	}
	return &Session{
		repo:    repo,
		ids:     ids,
		engine:  engine,
		current: q,
	}
}

// Snapshot returns a copy of the current quote
func (s *Session) Snapshot() quote.Quote {
	return s.current.Clone()
}

// Summary returns the display figures for the current snapshot
func (s *Session) Summary() quote.Summary {
	return s.engine.Summarize(s.current)
}

// AddSpace appends a new empty space and returns it
func (s *Session) AddSpace() quote.Space {
	s.current = quote.AddSpace(s.current, s.ids)
	return s.current.Spaces[len(s.current.Spaces)-1]
}

func (s *Session) UpdateSpace(spaceID string, patch quote.SpacePatch) {
	s.current = quote.UpdateSpace(s.current, spaceID, patch)
}

func (s *Session) DeleteSpace(spaceID string) {
	s.current = quote.DeleteSpace(s.current, spaceID)
}

// AddItem appends a default item to the space. The boolean is false when
// the space does not exist.
func (s *Session) AddItem(spaceID string) (quote.CabinetItem, bool) {
	s.current = quote.AddItem(s.current, spaceID, s.ids)
	space, ok := s.current.FindSpace(spaceID)
	if !ok || len(space.Items) == 0 {
		return quote.CabinetItem{}, false
	}
	return space.Items[len(space.Items)-1], true
}

func (s *Session) UpdateItem(spaceID, itemID string, patch quote.CabinetItemPatch) {
	s.current = quote.UpdateItem(s.current, spaceID, itemID, patch)
}

func (s *Session) DeleteItem(spaceID, itemID string) {
	s.current = quote.DeleteItem(s.current, spaceID, itemID)
}

func (s *Session) UpdateClientField(field quote.ClientField, value string) error {
	next, err := quote.UpdateClientField(s.current, field, value)
	if err != nil {
		return err
	}
	s.current = next
	return nil
}

// ApplyAdjustment commits an adjustment and freezes its figures
func (s *Session) ApplyAdjustment(adjType quote.AdjustmentType, percentage decimal.Decimal) error {
	next, err := s.engine.ApplyAdjustment(s.current, adjType, percentage)
	if err != nil {
		return err
	}
	s.current = next
	return nil
}

// Preview returns the figures for a proposed adjustment without committing it
func (s *Session) Preview(adjType quote.AdjustmentType, percentage decimal.Decimal) quote.Summary {
	return s.engine.Preview(s.current, adjType, percentage)
}

// Save hands the snapshot back to the gateway. Unsaved quotes are created
// and receive their ID. On failure the snapshot is kept and a
// *SaveFailedError is returned.
func (s *Session) Save(ctx context.Context) error {
	q := s.current.Clone()
	var err error
	if q.IsPersisted() {
		err = s.repo.Save(ctx, &q)
	} else {
		err = s.repo.Create(ctx, &q)
	}
	if err != nil {
		return &SaveFailedError{QuoteID: s.current.ID, Err: err}
	}
	s.current = q
	return nil
}
