package models

import (
	"github.com/shopspring/decimal"

	"github.com/cabinetquote/backend/internal/domain/quote"
)

// QuoteModel is the persistence model for the Quote aggregate root.
type QuoteModel struct {
	BaseModel
	ClientName           string              `gorm:"type:varchar(200);not null;default:'';index"`
	Email                string              `gorm:"type:varchar(200);not null;default:''"`
	Phone                string              `gorm:"type:varchar(50);not null;default:''"`
	ProjectName          string              `gorm:"type:varchar(200);not null;default:'';index"`
	InstallationAddress  string              `gorm:"type:varchar(500);not null;default:''"`
	AdjustmentType       *string             `gorm:"type:varchar(20)"`
	AdjustmentPercentage decimal.NullDecimal `gorm:"type:numeric"`
	AdjustedSubtotal     decimal.NullDecimal `gorm:"type:numeric"`
	AdjustmentTotal      decimal.NullDecimal `gorm:"type:numeric"`
	Spaces               []SpaceModel        `gorm:"-"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote.
// Spaces must already be loaded and ordered.
func (m *QuoteModel) ToDomain() *quote.Quote {
	q := &quote.Quote{
		ID: m.ID,
		Client: quote.ClientInfo{
			ClientName:          m.ClientName,
			Email:               m.Email,
			Phone:               m.Phone,
			ProjectName:         m.ProjectName,
			InstallationAddress: m.InstallationAddress,
		},
		Spaces: make([]quote.Space, len(m.Spaces)),
	}
	for i := range m.Spaces {
		q.Spaces[i] = m.Spaces[i].ToDomain()
	}
	if m.AdjustmentType != nil {
		q.Adjustment = &quote.AppliedAdjustment{
			Type:             quote.AdjustmentType(*m.AdjustmentType),
			Percentage:       m.AdjustmentPercentage.Decimal,
			AdjustedSubtotal: m.AdjustedSubtotal.Decimal,
			Total:            m.AdjustmentTotal.Decimal,
		}
	}
	return q
}

// FromDomain populates the persistence model from a domain Quote.
// Space and item positions follow slice order.
func (m *QuoteModel) FromDomain(q *quote.Quote) {
	m.ID = q.ID
	m.ClientName = q.Client.ClientName
	m.Email = q.Client.Email
	m.Phone = q.Client.Phone
	m.ProjectName = q.Client.ProjectName
	m.InstallationAddress = q.Client.InstallationAddress

	m.AdjustmentType = nil
	m.AdjustmentPercentage = decimal.NullDecimal{}
	m.AdjustedSubtotal = decimal.NullDecimal{}
	m.AdjustmentTotal = decimal.NullDecimal{}
	if adj := q.Adjustment; adj != nil {
		t := adj.Type.String()
		m.AdjustmentType = &t
		m.AdjustmentPercentage = decimal.NewNullDecimal(adj.Percentage)
		m.AdjustedSubtotal = decimal.NewNullDecimal(adj.AdjustedSubtotal)
		m.AdjustmentTotal = decimal.NewNullDecimal(adj.Total)
	}

	m.Spaces = make([]SpaceModel, len(q.Spaces))
	for i, s := range q.Spaces {
		m.Spaces[i] = SpaceModelFromDomain(q.ID, i, s)
	}
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote.
func QuoteModelFromDomain(q *quote.Quote) *QuoteModel {
	m := &QuoteModel{}
	m.FromDomain(q)
	return m
}

// ClientColumns returns the mutable quote columns for an update, including NULLs
// for a cleared adjustment.
func (m *QuoteModel) ClientColumns() map[string]any {
	return map[string]any{
		"client_name":           m.ClientName,
		"email":                 m.Email,
		"phone":                 m.Phone,
		"project_name":          m.ProjectName,
		"installation_address":  m.InstallationAddress,
		"adjustment_type":       m.AdjustmentType,
		"adjustment_percentage": m.AdjustmentPercentage,
		"adjusted_subtotal":     m.AdjustedSubtotal,
		"adjustment_total":      m.AdjustmentTotal,
	}
}

// SpaceModel is the persistence model for a Space.
type SpaceModel struct {
	QuoteID  string      `gorm:"type:varchar(64);primaryKey"`
	ID       string      `gorm:"type:varchar(64);primaryKey"`
	Name     string      `gorm:"type:varchar(200);not null"`
	Position int         `gorm:"not null"`
	Items    []ItemModel `gorm:"-"`
}

// TableName returns the table name for GORM
func (SpaceModel) TableName() string {
	return "quote_spaces"
}

// ToDomain converts the persistence model to a domain Space
func (m *SpaceModel) ToDomain() quote.Space {
	s := quote.Space{
		ID:    m.ID,
		Name:  m.Name,
		Items: make([]quote.CabinetItem, len(m.Items)),
	}
	for i := range m.Items {
		s.Items[i] = m.Items[i].ToDomain()
	}
	return s
}

// SpaceModelFromDomain creates a space row at the given position
func SpaceModelFromDomain(quoteID string, position int, s quote.Space) SpaceModel {
	m := SpaceModel{
		QuoteID:  quoteID,
		ID:       s.ID,
		Name:     s.Name,
		Position: position,
		Items:    make([]ItemModel, len(s.Items)),
	}
	for i, item := range s.Items {
		m.Items[i] = ItemModelFromDomain(quoteID, s.ID, i, item)
	}
	return m
}

// ItemModel is the persistence model for a CabinetItem.
type ItemModel struct {
	QuoteID  string          `gorm:"type:varchar(64);primaryKey"`
	SpaceID  string          `gorm:"type:varchar(64);primaryKey"`
	ID       string          `gorm:"type:varchar(64);primaryKey"`
	Width    decimal.Decimal `gorm:"type:numeric;not null"`
	Height   decimal.Decimal `gorm:"type:numeric;not null"`
	Depth    decimal.Decimal `gorm:"type:numeric;not null"`
	Price    decimal.Decimal `gorm:"type:numeric;not null"`
	Position int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "quote_items"
}

// ToDomain converts the persistence model to a domain CabinetItem
func (m *ItemModel) ToDomain() quote.CabinetItem {
	return quote.CabinetItem{
		ID:     m.ID,
		Width:  m.Width,
		Height: m.Height,
		Depth:  m.Depth,
		Price:  m.Price,
	}
}

// ItemModelFromDomain creates an item row at the given position
func ItemModelFromDomain(quoteID, spaceID string, position int, item quote.CabinetItem) ItemModel {
	return ItemModel{
		QuoteID:  quoteID,
		SpaceID:  spaceID,
		ID:       item.ID,
		Width:    item.Width,
		Height:   item.Height,
		Depth:    item.Depth,
		Price:    item.Price,
		Position: position,
	}
}
