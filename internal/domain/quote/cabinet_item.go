package quote

import (
	"github.com/shopspring/decimal"
)

// ItemDefaults holds the field values assigned to a newly added cabinet item
type ItemDefaults struct {
	Width  decimal.Decimal
	Height decimal.Decimal
	Depth  decimal.Decimal
	Price  decimal.Decimal
}

// DefaultCabinetItem is the single source of default dimensions and price for new items
var DefaultCabinetItem = ItemDefaults{
	Width:  decimal.NewFromInt(30),
	Height: decimal.NewFromInt(30),
	Depth:  decimal.NewFromInt(24),
	Price:  decimal.RequireFromString("299.99"),
}

// CabinetItem is a single priced, dimensioned line item within a space
type CabinetItem struct {
	ID     string          `json:"id"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Depth  decimal.Decimal `json:"depth"`
	Price  decimal.Decimal `json:"price"`
}

// NewCabinetItem creates an item with the default dimensions and price
func NewCabinetItem(id string) CabinetItem {
	return CabinetItem{
		ID:     id,
		Width:  DefaultCabinetItem.Width,
		Height: DefaultCabinetItem.Height,
		Depth:  DefaultCabinetItem.Depth,
		Price:  DefaultCabinetItem.Price,
	}
}

// CabinetItemPatch is a partial update for a cabinet item.
// Nil fields are left unchanged.
type CabinetItemPatch struct {
	Width  *decimal.Decimal
	Height *decimal.Decimal
	Depth  *decimal.Decimal
	Price  *decimal.Decimal
}

// IsEmpty returns true if the patch changes nothing
func (p CabinetItemPatch) IsEmpty() bool {
	return p.Width == nil && p.Height == nil && p.Depth == nil && p.Price == nil
}

// Apply returns a copy of the item with the patch fields replaced.
// The ID is never changed.
func (i CabinetItem) Apply(p CabinetItemPatch) CabinetItem {
	if p.Width != nil {
		i.Width = *p.Width
	}
	if p.Height != nil {
		i.Height = *p.Height
	}
	if p.Depth != nil {
		i.Depth = *p.Depth
	}
	if p.Price != nil {
		i.Price = *p.Price
	}
	return i
}
