package quote

import (
	"github.com/cabinetquote/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
)

// CreateQuoteRequest represents a request to start a new quote
type CreateQuoteRequest struct {
	ClientName          string `json:"client_name" binding:"max=200"`
	Email               string `json:"email" binding:"max=200"`
	Phone               string `json:"phone" binding:"max=50"`
	ProjectName         string `json:"project_name" binding:"max=200"`
	InstallationAddress string `json:"installation_address" binding:"max=500"`
	InitialSpaces       int    `json:"initial_spaces" binding:"min=0,max=50"`
}

// UpdateClientRequest sets client fields by name
type UpdateClientRequest struct {
	Fields map[string]string `json:"fields" binding:"required,min=1"`
}

// UpdateSpaceRequest represents a partial space update
type UpdateSpaceRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
}

// UpdateItemRequest represents a partial cabinet item update
type UpdateItemRequest struct {
	Width  *decimal.Decimal `json:"width" binding:"omitempty,gte=0"`
	Height *decimal.Decimal `json:"height" binding:"omitempty,gte=0"`
	Depth  *decimal.Decimal `json:"depth" binding:"omitempty,gte=0"`
	Price  *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
}

// AdjustmentRequest represents a discount or surcharge to apply or preview
type AdjustmentRequest struct {
	Type       string           `json:"type" binding:"required,oneof=discount surcharge"`
	Percentage *decimal.Decimal `json:"percentage" binding:"required"`
}

// QuoteListFilter represents filter options for listing quotes
type QuoteListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at client_name project_name"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ClientResponse represents client metadata in API responses
type ClientResponse struct {
	ClientName          string `json:"client_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	ProjectName         string `json:"project_name"`
	InstallationAddress string `json:"installation_address"`
}

// ItemResponse represents a cabinet item in API responses
type ItemResponse struct {
	ID     string          `json:"id"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Depth  decimal.Decimal `json:"depth"`
	Price  decimal.Decimal `json:"price"`
}

// SpaceResponse represents a space in API responses
type SpaceResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Items    []ItemResponse  `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// AdjustmentResponse represents the committed adjustment
type AdjustmentResponse struct {
	Type             string          `json:"type"`
	Percentage       decimal.Decimal `json:"percentage"`
	AdjustedSubtotal decimal.Decimal `json:"adjusted_subtotal"`
	Total            decimal.Decimal `json:"total"`
}

// SummaryResponse represents the pricing figures of a quote
type SummaryResponse struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	AdjustedSubtotal decimal.Decimal `json:"adjusted_subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	Total            decimal.Decimal `json:"total"`
}

// QuoteResponse represents a full quote in API responses
type QuoteResponse struct {
	ID         string              `json:"id"`
	Client     ClientResponse      `json:"client"`
	Spaces     []SpaceResponse     `json:"spaces"`
	Adjustment *AdjustmentResponse `json:"adjustment"`
	Summary    SummaryResponse     `json:"summary"`
}

// QuoteListResponse represents a list item for quotes
type QuoteListResponse struct {
	ID          string          `json:"id"`
	ClientName  string          `json:"client_name"`
	ProjectName string          `json:"project_name"`
	SpaceCount  int             `json:"space_count"`
	ItemCount   int             `json:"item_count"`
	Total       decimal.Decimal `json:"total"`
}

// ToClientInfo converts the request to domain client metadata
func (r CreateQuoteRequest) ToClientInfo() quote.ClientInfo {
	return quote.ClientInfo{
		ClientName:          r.ClientName,
		Email:               r.Email,
		Phone:               r.Phone,
		ProjectName:         r.ProjectName,
		InstallationAddress: r.InstallationAddress,
	}
}

// ToPatch converts the request to a domain patch
func (r UpdateSpaceRequest) ToPatch() quote.SpacePatch {
	return quote.SpacePatch{Name: r.Name}
}

// ToPatch converts the request to a domain patch
func (r UpdateItemRequest) ToPatch() quote.CabinetItemPatch {
	return quote.CabinetItemPatch{
		Width:  r.Width,
		Height: r.Height,
		Depth:  r.Depth,
		Price:  r.Price,
	}
}

// ToSummaryResponse converts pricing figures to a response
func ToSummaryResponse(s quote.Summary, taxRate decimal.Decimal) SummaryResponse {
	return SummaryResponse{
		Subtotal:         s.Subtotal,
		AdjustedSubtotal: s.AdjustedSubtotal,
		Tax:              s.Tax,
		TaxRate:          taxRate,
		Total:            s.Total,
	}
}

// ToQuoteResponse converts a domain quote to a response
func ToQuoteResponse(q quote.Quote, engine *quote.Engine) *QuoteResponse {
	spaces := make([]SpaceResponse, len(q.Spaces))
	for i, s := range q.Spaces {
		items := make([]ItemResponse, len(s.Items))
		subtotal := decimal.Zero
		for j, item := range s.Items {
			items[j] = ItemResponse{
				ID:     item.ID,
				Width:  item.Width,
				Height: item.Height,
				Depth:  item.Depth,
				Price:  item.Price,
			}
			subtotal = subtotal.Add(item.Price)
		}
		spaces[i] = SpaceResponse{ID: s.ID, Name: s.Name, Items: items, Subtotal: subtotal}
	}

	var adjustment *AdjustmentResponse
	if q.Adjustment != nil {
		adjustment = &AdjustmentResponse{
			Type:             q.Adjustment.Type.String(),
			Percentage:       q.Adjustment.Percentage,
			AdjustedSubtotal: q.Adjustment.AdjustedSubtotal,
			Total:            q.Adjustment.Total,
		}
	}

	return &QuoteResponse{
		ID: q.ID,
		Client: ClientResponse{
			ClientName:          q.Client.ClientName,
			Email:               q.Client.Email,
			Phone:               q.Client.Phone,
			ProjectName:         q.Client.ProjectName,
			InstallationAddress: q.Client.InstallationAddress,
		},
		Spaces:     spaces,
		Adjustment: adjustment,
		Summary:    ToSummaryResponse(engine.Summarize(q), engine.TaxRate()),
	}
}

// ToQuoteListResponse converts a domain quote to a list item
func ToQuoteListResponse(q quote.Quote, engine *quote.Engine) QuoteListResponse {
	return QuoteListResponse{
		ID:          q.ID,
		ClientName:  q.Client.ClientName,
		ProjectName: q.Client.ProjectName,
		SpaceCount:  q.SpaceCount(),
		ItemCount:   q.ItemCount(),
		Total:       engine.Summarize(q).Total,
	}
}
