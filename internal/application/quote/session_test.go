package quote

import (
	"context"
	"errors"
	"testing"

	"github.com/cabinetquote/backend/internal/domain/quote"
	"github.com/cabinetquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOpenSession_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuoteRepository)
	repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)

	session, err := OpenSession(ctx, repo, sequentialIDs("gen"), nil, "missing")

	assert.Nil(t, session)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestSession_EditsAndSummary(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuoteRepository)
	repo.On("FindByID", ctx, "quote-1").Return(storedQuote(), nil)

	session, err := OpenSession(ctx, repo, sequentialIDs("gen"), nil, "quote-1")
	require.NoError(t, err)

	summary := session.Summary()
	assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("599.98")))

	require.NoError(t, session.ApplyAdjustment(quote.AdjustmentDiscount, decimal.NewFromInt(10)))
	summary = session.Summary()
	assert.True(t, summary.AdjustedSubtotal.Equal(decimal.RequireFromString("539.982")))
	assert.Equal(t, "70.1977", summary.Tax.Round(4).String())
	assert.Equal(t, "610.1797", summary.Total.Round(4).String())

	space := session.AddSpace()
	assert.Equal(t, "Space #3", space.Name)

	item, ok := session.AddItem(space.ID)
	require.True(t, ok)
	assert.True(t, item.Price.Equal(quote.DefaultCabinetItem.Price))

	_, ok = session.AddItem("missing")
	assert.False(t, ok)

	err = session.UpdateClientField(quote.ClientField("nickname"), "x")
	assert.ErrorIs(t, err, quote.ErrUnknownClientField)
	assert.Equal(t, "Ada", session.Snapshot().Client.ClientName)
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	session := NewSession(new(MockQuoteRepository), sequentialIDs("gen"), nil, quote.ClientInfo{})
	session.AddSpace()

	snapshot := session.Snapshot()
	snapshot.Spaces[0].Name = "changed"

	assert.Equal(t, "Space #1", session.Snapshot().Spaces[0].Name)
}

func TestSession_SaveCreatesUnsavedQuote(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuoteRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*quote.Quote")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*quote.Quote).ID = "new-id"
		}).
		Return(nil)

	session := NewSession(repo, sequentialIDs("gen"), nil, quote.ClientInfo{ClientName: "Grace"})
	require.NoError(t, session.Save(ctx))

	assert.Equal(t, "new-id", session.Snapshot().ID)
	repo.AssertExpectations(t)
}

func TestSession_SaveFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuoteRepository)
	dbErr := errors.New("connection reset")
	repo.On("FindByID", ctx, "quote-1").Return(storedQuote(), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*quote.Quote")).Return(dbErr).Once()
	repo.On("Save", ctx, mock.AnythingOfType("*quote.Quote")).Return(nil).Once()

	session, err := OpenSession(ctx, repo, sequentialIDs("gen"), nil, "quote-1")
	require.NoError(t, err)
	session.DeleteSpace(session.Snapshot().Spaces[0].ID)

	err = session.Save(ctx)
	require.Error(t, err)
	assert.True(t, IsSaveFailed(err))
	assert.ErrorIs(t, err, shared.ErrSaveFailed)
	assert.ErrorIs(t, err, dbErr)

	var saveErr *SaveFailedError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, "quote-1", saveErr.QuoteID)
	assert.Len(t, session.Snapshot().Spaces, 1, "snapshot is retained after a failed save")

	assert.NoError(t, session.Save(ctx), "retry is permitted")
	repo.AssertExpectations(t)
}
