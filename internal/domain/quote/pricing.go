package quote

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the fixed sales tax rate applied to the adjusted subtotal.
// Per-preset rates are served through TaxRateProvider.
var TaxRate = decimal.RequireFromString("0.13")

var hundred = decimal.NewFromInt(100)

// TaxRateProvider resolves the tax rate for a pricing preset
type TaxRateProvider interface {
	TaxRate(preset string) decimal.Decimal
}

// FixedTaxRate returns the same rate for every preset
type FixedTaxRate decimal.Decimal

// TaxRate implements TaxRateProvider
func (r FixedTaxRate) TaxRate(string) decimal.Decimal {
	return decimal.Decimal(r)
}

// Summary holds the figures shown for a quote
type Summary struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	AdjustedSubtotal decimal.Decimal `json:"adjusted_subtotal"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
}

// Engine derives pricing figures from quotes. It never modifies its inputs.
type Engine struct {
	rates  TaxRateProvider
	preset string
}

// NewEngine creates an engine that looks up the tax rate for preset
func NewEngine(rates TaxRateProvider, preset string) *Engine {
	if rates == nil {
		rates = FixedTaxRate(TaxRate)
	}
	return &Engine{rates: rates, preset: preset}
}

var defaultEngine = NewEngine(FixedTaxRate(TaxRate), "")

// ComputeSubtotal sums the price of every item in every space
func ComputeSubtotal(q Quote) decimal.Decimal {
	subtotal := decimal.Zero
	for _, s := range q.Spaces {
		for _, item := range s.Items {
			subtotal = subtotal.Add(item.Price)
		}
	}
	return subtotal
}

// ComputeAdjustedSubtotal applies a percentage discount or surcharge.
// The percentage is not clamped. An unknown type leaves the subtotal unchanged.
func ComputeAdjustedSubtotal(subtotal decimal.Decimal, adjType AdjustmentType, percentage decimal.Decimal) decimal.Decimal {
	switch adjType {
	case AdjustmentDiscount:
		return subtotal.Mul(hundred.Sub(percentage)).Div(hundred)
	case AdjustmentSurcharge:
		return subtotal.Mul(hundred.Add(percentage)).Div(hundred)
	}
	return subtotal
}

// ComputeTax returns the tax on an adjusted subtotal at the fixed TaxRate
func ComputeTax(adjustedSubtotal decimal.Decimal) decimal.Decimal {
	return defaultEngine.ComputeTax(adjustedSubtotal)
}

// ComputeTotal returns adjusted subtotal plus tax
func ComputeTotal(adjustedSubtotal, tax decimal.Decimal) decimal.Decimal {
	return adjustedSubtotal.Add(tax)
}

// ApplyAdjustment commits an adjustment computed from the current subtotal
func ApplyAdjustment(q Quote, adjType AdjustmentType, percentage decimal.Decimal) (Quote, error) {
	return defaultEngine.ApplyAdjustment(q, adjType, percentage)
}

// Summarize returns the display figures for a quote
func Summarize(q Quote) Summary {
	return defaultEngine.Summarize(q)
}

// Preview returns the figures a proposed adjustment would produce without committing it
func Preview(q Quote, adjType AdjustmentType, percentage decimal.Decimal) Summary {
	return defaultEngine.Preview(q, adjType, percentage)
}

// TaxRate returns the rate in effect for the engine's preset
func (e *Engine) TaxRate() decimal.Decimal {
	return e.rates.TaxRate(e.preset)
}

// ComputeTax returns the tax on an adjusted subtotal
func (e *Engine) ComputeTax(adjustedSubtotal decimal.Decimal) decimal.Decimal {
	return adjustedSubtotal.Mul(e.TaxRate())
}

// ApplyAdjustment returns a new quote with the adjustment and its frozen
// figures recorded. Only discount and surcharge are accepted.
func (e *Engine) ApplyAdjustment(q Quote, adjType AdjustmentType, percentage decimal.Decimal) (Quote, error) {
	if !adjType.IsValid() {
		return q, ErrInvalidAdjustmentType
	}

	adjusted := ComputeAdjustedSubtotal(ComputeSubtotal(q), adjType, percentage)
	tax := e.ComputeTax(adjusted)

	next := q.Clone()
	next.Adjustment = &AppliedAdjustment{
		Type:             adjType,
		Percentage:       percentage,
		AdjustedSubtotal: adjusted,
		Total:            ComputeTotal(adjusted, tax),
	}
	return next, nil
}

// Summarize returns the display figures. The subtotal is always live; the
// adjusted subtotal falls back to it only when nothing has been committed.
func (e *Engine) Summarize(q Quote) Summary {
	subtotal := ComputeSubtotal(q)
	adjusted := subtotal
	if q.Adjustment != nil {
		adjusted = q.Adjustment.AdjustedSubtotal
	}
	tax := e.ComputeTax(adjusted)
	return Summary{
		Subtotal:         subtotal,
		AdjustedSubtotal: adjusted,
		Tax:              tax,
		Total:            ComputeTotal(adjusted, tax),
	}
}

// Preview computes live figures for a proposed adjustment
func (e *Engine) Preview(q Quote, adjType AdjustmentType, percentage decimal.Decimal) Summary {
	subtotal := ComputeSubtotal(q)
	adjusted := ComputeAdjustedSubtotal(subtotal, adjType, percentage)
	tax := e.ComputeTax(adjusted)
	return Summary{
		Subtotal:         subtotal,
		AdjustedSubtotal: adjusted,
		Tax:              tax,
		Total:            ComputeTotal(adjusted, tax),
	}
}
