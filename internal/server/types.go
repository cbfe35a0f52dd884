package server

import (
	"github.com/rezonia/invoice-composer/internal/calc"
	"github.com/rezonia/invoice-composer/internal/currency"
	"github.com/rezonia/invoice-composer/internal/items"
	"github.com/rezonia/invoice-composer/internal/model"
)

// DocumentResponse is the full editable state
type DocumentResponse struct {
	Document model.Snapshot `json:"document"`
	Items    []ItemResponse `json:"items"`
	Progress int            `json:"progress"`
}

// ItemResponse is a line item with its identity
type ItemResponse struct {
	ID string `json:"id"`
	model.LineItem
}

// MoveRequest moves an item before another item, or to the end when Before
// is empty
type MoveRequest struct {
	Before string `json:"before"`
}

// TemplateRequest selects a presentation variant
type TemplateRequest struct {
	Template string `json:"template" binding:"required"`
}

// TemplateResponse reports the variant in effect
type TemplateResponse struct {
	Template model.Template `json:"template"`
}

// ComputeRequest is a stateless totals calculation
type ComputeRequest struct {
	Items    []model.LineItem `json:"items"`
	TaxRate  string           `json:"tax_rate"`
	Discount string           `json:"discount"`
	Currency string           `json:"currency"`
}

// TotalsResponse carries raw and formatted totals
type TotalsResponse struct {
	Totals  calc.Totals  `json:"totals"`
	Summary calc.Summary `json:"summary"`
}

// ProgressResponse is the form completion percentage
type ProgressResponse struct {
	Progress int `json:"progress"`
}

// CurrenciesResponse lists selectable currencies
type CurrenciesResponse struct {
	Currencies []CurrencyOption `json:"currencies"`
}

// CurrencyOption is a currency with its display label
type CurrencyOption struct {
	currency.Currency
	Label string `json:"label"`
}

// ShareResponse is the email link for the current invoice
type ShareResponse struct {
	Mailto  string `json:"mailto"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func itemResponses(entries []items.Entry) []ItemResponse {
	out := make([]ItemResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ItemResponse{ID: e.ID.String(), LineItem: e.Item})
	}
	return out
}

func totalsResponse(t calc.Totals) TotalsResponse {
	return TotalsResponse{Totals: t, Summary: t.Summary()}
}
