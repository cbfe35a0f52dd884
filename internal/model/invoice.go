package model

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxLogoBytes is the largest logo accepted (2 MiB)
const MaxLogoBytes = 2 * 1024 * 1024

// Display defaults. They fill empty fields at render time and are never persisted.
const (
	DefaultBusinessName  = "Your Business"
	DefaultClientName    = "Client"
	DefaultInvoiceNumber = "INV-001"
	DefaultPaymentStatus = "Pending"
	DefaultCurrency      = "$"
	DefaultDescription   = "Item"
)

// Template identifies a presentation variant of the preview
type Template string

const (
	TemplateMinimalist Template = "minimalist"
	TemplateModern     Template = "modern"
	TemplateClassic    Template = "classic"
)

// Templates lists the known presentation variants
var Templates = []Template{TemplateMinimalist, TemplateModern, TemplateClassic}

// ParseTemplate resolves a template identifier, falling back to minimalist
func ParseTemplate(s string) Template {
	t := Template(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Templates {
		if t == known {
			return t
		}
	}
	return TemplateMinimalist
}

// LineItem is one row of the items table as entered in the form.
// Quantity and UnitPrice hold raw field values; the calculator resolves them.
type LineItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

// IsBlank reports whether no field of the item has been filled in
func (li LineItem) IsBlank() bool {
	return li.Description == "" && li.Quantity == "" && li.UnitPrice == ""
}

// Party represents the seller or the buyer block
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
}

// Fields holds every free-form field of the invoice form
type Fields struct {
	Business       Party  `json:"business"`
	Client         Party  `json:"client"`
	InvoiceNumber  string `json:"invoice_number"`
	InvoiceDate    string `json:"invoice_date"`
	DueDate        string `json:"due_date"`
	DeliveryDate   string `json:"delivery_date"`
	TaxRate        string `json:"tax_rate"`
	Discount       string `json:"discount"`
	Currency       string `json:"currency"`
	PaymentStatus  string `json:"payment_status"`
	PaymentMethods string `json:"payment_methods"`
	Notes          string `json:"notes"`
}

// CurrencySymbol returns the currency symbol, defaulting to "$"
func (f Fields) CurrencySymbol() string {
	if f.Currency == "" {
		return DefaultCurrency
	}
	return f.Currency
}

// Logo is an embedded image
type Logo struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

// DataURL encodes the logo as a data URL
func (l *Logo) DataURL() string {
	if l == nil || len(l.Data) == 0 {
		return ""
	}
	mime := l.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(l.Data)
}

// ParseDataURL decodes a base64 data URL. An empty string yields a nil logo.
func ParseDataURL(s string) (*Logo, error) {
	if s == "" {
		return nil, nil
	}
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URL has no payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	return &Logo{MIME: mime, Data: data}, nil
}

// Snapshot is the complete value of all user-entered invoice data at one instant
type Snapshot struct {
	Fields
	Logo     *Logo      `json:"logo,omitempty"`
	Items    []LineItem `json:"items"`
	Template Template   `json:"template"`
}

// InvoiceNumberOr returns the invoice number or the given fallback
func (s Snapshot) InvoiceNumberOr(fallback string) string {
	if s.InvoiceNumber == "" {
		return fallback
	}
	return s.InvoiceNumber
}

// BusinessName returns the business name as displayed
func (s Snapshot) BusinessName() string {
	if s.Business.Name == "" {
		return DefaultBusinessName
	}
	return s.Business.Name
}

// ClientName returns the client name as displayed
func (s Snapshot) ClientName() string {
	if s.Client.Name == "" {
		return DefaultClientName
	}
	return s.Client.Name
}
