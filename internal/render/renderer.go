package render

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-composer/internal/calc"
	"github.com/rezonia/invoice-composer/internal/model"
)

// PlaceholderMessage replaces the preview when rendering fails
const PlaceholderMessage = "Error generating preview. Check inputs."

// DateLayout formats the invoice date default
const DateLayout = "2006-01-02"

// Columns of the items table
var Columns = []string{"Description", "Qty", "Price", "Subtotal"}

// Document is the structured preview of one snapshot
type Document struct {
	Template       model.Template `json:"template"`
	Header         Header         `json:"header"`
	Meta           Meta           `json:"meta"`
	From           PartyBlock     `json:"from"`
	To             PartyBlock     `json:"to"`
	Table          Table          `json:"table"`
	Totals         TotalsBlock    `json:"totals"`
	PaymentMethods *TextBlock     `json:"payment_methods,omitempty"`
	Notes          *TextBlock     `json:"notes,omitempty"`

	// Placeholder is set instead of the sections above when rendering failed
	Placeholder string `json:"placeholder,omitempty"`
}

// Header is the top of the document
type Header struct {
	Logo         string `json:"logo,omitempty"`
	BusinessName string `json:"business_name"`
}

// Meta holds invoice identifiers and dates
type Meta struct {
	Number   string `json:"number"`
	Status   string `json:"status"`
	Date     string `json:"date"`
	Due      string `json:"due"`
	Delivery string `json:"delivery"`
}

// PartyBlock is a labelled address block
type PartyBlock struct {
	Label string   `json:"label"`
	Lines []string `json:"lines"`
}

// Table is the items section
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Row is one accepted line item, formatted
type Row struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// TotalsBlock shows the computed amounts
type TotalsBlock struct {
	Subtotal      string `json:"subtotal"`
	TaxLabel      string `json:"tax_label"`
	Tax           string `json:"tax"`
	DiscountLabel string `json:"discount_label"`
	Discount      string `json:"discount"`
	GrandTotal    string `json:"grand_total"`
}

// TextBlock is an optional labelled paragraph
type TextBlock struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Failed reports whether the document is an error placeholder
func (d Document) Failed() bool {
	return d.Placeholder != ""
}

// Renderer builds previews. The clock supplies the invoice date shown when
// the date field is empty.
type Renderer struct {
	clock clockwork.Clock
	log   *zap.Logger
}

// Option configures the renderer
type Option func(*Renderer)

// WithClock sets the clock used for the date default
func WithClock(clock clockwork.Clock) Option {
	return func(r *Renderer) {
		r.clock = clock
	}
}

// WithLogger sets the logger used to report rendering failures
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// NewRenderer creates a renderer
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		clock: clockwork.NewRealClock(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("render")
	return r
}

// Render builds the preview of s. It never fails: any panic while building
// is logged and replaced by a placeholder document.
func (r *Renderer) Render(s model.Snapshot) (doc Document) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("preview rendering failed",
				zap.String("invoice_number", s.InvoiceNumber),
				zap.String("panic", fmt.Sprint(rec)),
			)
			doc = Document{
				Template:    model.ParseTemplate(string(s.Template)),
				Placeholder: PlaceholderMessage,
			}
		}
	}()
	return r.build(s)
}

// beforeBuild is called with every snapshot about to be rendered; tests use it
// to inject failures.
var beforeBuild func(model.Snapshot)

func (r *Renderer) build(s model.Snapshot) Document {
	if beforeBuild != nil {
		beforeBuild(s)
	}
	totals := calc.ComputeSnapshot(s)
	summary := totals.Summary()
	business := s.BusinessName()

	date := s.InvoiceDate
	if date == "" {
		date = r.clock.Now().Format(DateLayout)
	}
	status := s.PaymentStatus
	if status == "" {
		status = model.DefaultPaymentStatus
	}

	doc := Document{
		Template: model.ParseTemplate(string(s.Template)),
		Header: Header{
			Logo:         s.Logo.DataURL(),
			BusinessName: business,
		},
		Meta: Meta{
			Number:   s.InvoiceNumberOr(model.DefaultInvoiceNumber),
			Status:   status,
			Date:     date,
			Due:      s.DueDate,
			Delivery: s.DeliveryDate,
		},
		From: PartyBlock{
			Label: "From",
			Lines: []string{business, s.Business.Address, s.Business.Email, s.Business.Phone},
		},
		To: PartyBlock{
			Label: "To",
			Lines: []string{s.ClientName(), s.Client.Address, s.Client.Email},
		},
		Table: Table{
			Columns: Columns,
			Rows:    make([]Row, 0, len(totals.Lines)),
		},
		Totals: TotalsBlock{
			Subtotal:      summary.Subtotal,
			TaxLabel:      summary.TaxLabel,
			Tax:           summary.Tax,
			DiscountLabel: summary.DiscountLabel,
			Discount:      summary.Discount,
			GrandTotal:    summary.GrandTotal,
		},
	}

	for _, line := range totals.Lines {
		desc := line.Description
		if desc == "" {
			desc = model.DefaultDescription
		}
		doc.Table.Rows = append(doc.Table.Rows, Row{
			Description: desc,
			Quantity:    line.Quantity.String(),
			UnitPrice:   totals.Money(line.UnitPrice),
			Subtotal:    totals.Money(line.Amount),
		})
	}

	if s.PaymentMethods != "" {
		doc.PaymentMethods = &TextBlock{Label: "Accepted Payment Methods", Text: s.PaymentMethods}
	}
	if s.Notes != "" {
		doc.Notes = &TextBlock{Label: "Notes", Text: s.Notes}
	}
	return doc
}
