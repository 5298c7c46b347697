package quote

import (
	"strings"

	"github.com/cabinetquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentType is the kind of percentage adjustment applied to the subtotal
type AdjustmentType string

const (
	AdjustmentDiscount  AdjustmentType = "discount"
	AdjustmentSurcharge AdjustmentType = "surcharge"
)

// IsValid checks if the type is a known adjustment type
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentDiscount, AdjustmentSurcharge:
		return true
	}
	return false
}

// String returns the string representation of AdjustmentType
func (t AdjustmentType) String() string {
	return string(t)
}

// ClientField names one client metadata field of a quote
type ClientField string

const (
	ClientFieldName                ClientField = "client_name"
	ClientFieldEmail               ClientField = "email"
	ClientFieldPhone               ClientField = "phone"
	ClientFieldProjectName         ClientField = "project_name"
	ClientFieldInstallationAddress ClientField = "installation_address"
)

// IsValid checks if the field belongs to the known client field set
func (f ClientField) IsValid() bool {
	switch f {
	case ClientFieldName, ClientFieldEmail, ClientFieldPhone, ClientFieldProjectName, ClientFieldInstallationAddress:
		return true
	}
	return false
}

// AllClientFields returns every known client field
func AllClientFields() []ClientField {
	return []ClientField{
		ClientFieldName,
		ClientFieldEmail,
		ClientFieldPhone,
		ClientFieldProjectName,
		ClientFieldInstallationAddress,
	}
}

// Quote errors
var (
	ErrUnknownClientField = shared.NewDomainError(shared.ErrInvalidInput.Code,
		"Unknown client field, expected one of: "+joinClientFields())
	ErrInvalidAdjustmentType = shared.NewDomainError(shared.ErrInvalidInput.Code,
		"Adjustment type must be discount or surcharge")
)

func joinClientFields() string {
	names := make([]string, 0, len(AllClientFields()))
	for _, f := range AllClientFields() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// ClientInfo holds free-form customer metadata. No format validation is applied.
type ClientInfo struct {
	ClientName          string `json:"client_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	ProjectName         string `json:"project_name"`
	InstallationAddress string `json:"installation_address"`
}

// Get returns the value of a client field
func (c ClientInfo) Get(field ClientField) (string, bool) {
	switch field {
	case ClientFieldName:
		return c.ClientName, true
	case ClientFieldEmail:
		return c.Email, true
	case ClientFieldPhone:
		return c.Phone, true
	case ClientFieldProjectName:
		return c.ProjectName, true
	case ClientFieldInstallationAddress:
		return c.InstallationAddress, true
	}
	return "", false
}

// With returns a copy with one field replaced
func (c ClientInfo) With(field ClientField, value string) (ClientInfo, error) {
	switch field {
	case ClientFieldName:
		c.ClientName = value
	case ClientFieldEmail:
		c.Email = value
	case ClientFieldPhone:
		c.Phone = value
	case ClientFieldProjectName:
		c.ProjectName = value
	case ClientFieldInstallationAddress:
		c.InstallationAddress = value
	default:
		return c, ErrUnknownClientField
	}
	return c, nil
}

// AppliedAdjustment is the adjustment committed by an explicit apply action.
// AdjustedSubtotal and Total are frozen at that moment and are not
// recomputed when spaces or items change afterwards.
type AppliedAdjustment struct {
	Type             AdjustmentType  `json:"type"`
	Percentage       decimal.Decimal `json:"percentage"`
	AdjustedSubtotal decimal.Decimal `json:"adjusted_subtotal"`
	Total            decimal.Decimal `json:"total"`
}

// Quote is the root aggregate for one customer proposal.
// A nil Adjustment means no adjustment was ever applied.
type Quote struct {
	ID         string             `json:"id"`
	Client     ClientInfo         `json:"client"`
	Spaces     []Space            `json:"spaces"`
	Adjustment *AppliedAdjustment `json:"adjustment,omitempty"`
}

// New creates an unsaved quote for the given client
func New(client ClientInfo) Quote {
	return Quote{
		Client: client,
		Spaces: make([]Space, 0),
	}
}

// IsPersisted returns true if the gateway has assigned an ID
func (q Quote) IsPersisted() bool {
	return q.ID != ""
}

// HasAdjustment returns true if an adjustment has been committed
func (q Quote) HasAdjustment() bool {
	return q.Adjustment != nil
}

// SpaceCount returns the number of spaces
func (q Quote) SpaceCount() int {
	return len(q.Spaces)
}

// ItemCount returns the number of items across all spaces
func (q Quote) ItemCount() int {
	count := 0
	for _, s := range q.Spaces {
		count += len(s.Items)
	}
	return count
}

// FindSpace returns the space with the given ID
func (q Quote) FindSpace(spaceID string) (Space, bool) {
	idx := q.spaceIndex(spaceID)
	if idx < 0 {
		return Space{}, false
	}
	return q.Spaces[idx], true
}

func (q Quote) spaceIndex(spaceID string) int {
	for idx := range q.Spaces {
		if q.Spaces[idx].ID == spaceID {
			return idx
		}
	}
	return -1
}

// Clone returns a deep copy that shares no mutable state with q
func (q Quote) Clone() Quote {
	spaces := make([]Space, len(q.Spaces))
	for idx, s := range q.Spaces {
		spaces[idx] = s.clone()
	}
	q.Spaces = spaces
	if q.Adjustment != nil {
		adj := *q.Adjustment
		q.Adjustment = &adj
	}
	return q
}
