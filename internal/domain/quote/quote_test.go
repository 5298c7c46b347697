package quote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	q := New(ClientInfo{ClientName: "Ada", ProjectName: "Loft"})

	assert.False(t, q.IsPersisted())
	assert.False(t, q.HasAdjustment())
	assert.Equal(t, 0, q.SpaceCount())
	assert.NotNil(t, q.Spaces)
	assert.Equal(t, "Loft", q.Client.ProjectName)
}

func TestAdjustmentType_IsValid(t *testing.T) {
	assert.True(t, AdjustmentDiscount.IsValid())
	assert.True(t, AdjustmentSurcharge.IsValid())
	assert.False(t, AdjustmentType("").IsValid())
	assert.False(t, AdjustmentType("Discount").IsValid())
}

func TestClientField_IsValid(t *testing.T) {
	for _, field := range AllClientFields() {
		assert.True(t, field.IsValid(), field)
	}
	assert.False(t, ClientField("clientName").IsValid())
}

func TestQuote_Counts(t *testing.T) {
	q := buildQuote(t, []string{"1", "2"}, []string{}, []string{"3"})

	assert.Equal(t, 3, q.SpaceCount())
	assert.Equal(t, 3, q.ItemCount())

	space, ok := q.FindSpace(q.Spaces[2].ID)
	require.True(t, ok)
	assert.Equal(t, 1, space.ItemCount())

	assert.True(t, space.Items[0].Price.Equal(dec(t, "3")))

	_, ok = q.FindSpace("missing")
	assert.False(t, ok)
}

func TestQuote_CloneCopiesAdjustment(t *testing.T) {
	q, err := ApplyAdjustment(buildQuote(t, []string{"10"}), AdjustmentDiscount, dec(t, "10"))
	require.NoError(t, err)

	clone := q.Clone()
	clone.Adjustment.Type = AdjustmentSurcharge

	assert.Equal(t, AdjustmentDiscount, q.Adjustment.Type)
}

func TestQuote_JSONOmitsMissingAdjustment(t *testing.T) {
	data, err := json.Marshal(New(ClientInfo{}))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "adjustment")
}
