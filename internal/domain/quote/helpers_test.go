package quote

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// sequentialIDs returns predictable IDs: id-1, id-2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return IDGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	d := dec(t, s)
	return &d
}

// buildQuote creates a quote with one space per entry in prices, each
// holding items with the given prices
func buildQuote(t *testing.T, prices ...[]string) Quote {
	t.Helper()
	ids := sequentialIDs()
	q := New(ClientInfo{ClientName: "Test Client"})
	for _, spacePrices := range prices {
		q = AddSpace(q, ids)
		space := q.Spaces[len(q.Spaces)-1]
		for _, price := range spacePrices {
			q = AddItem(q, space.ID, ids)
			items := q.Spaces[len(q.Spaces)-1].Items
			q = UpdateItem(q, space.ID, items[len(items)-1].ID, CabinetItemPatch{Price: decPtr(t, price)})
		}
	}
	return q
}
