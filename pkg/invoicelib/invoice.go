// Package invoicelib provides a public API for composing invoices.
//
// It exposes the invoice types together with the calculator, the preview
// renderer, the page tiler, the draft codec and the exporters.
//
// Example usage:
//
//	s := invoicelib.Snapshot{
//	    Fields: invoicelib.Fields{InvoiceNumber: "INV-7", TaxRate: "10"},
//	    Items:  []invoicelib.LineItem{{Description: "Design", Quantity: "2", UnitPrice: "50"}},
//	}
//	totals := invoicelib.ComputeSnapshot(s)
//	fmt.Println(totals.Summary().GrandTotal) // $110.00
package invoicelib

import (
	"context"
	"io"

	"github.com/rezonia/invoice-composer/internal/calc"
	"github.com/rezonia/invoice-composer/internal/document"
	"github.com/rezonia/invoice-composer/internal/export"
	"github.com/rezonia/invoice-composer/internal/model"
	"github.com/rezonia/invoice-composer/internal/paginate"
	"github.com/rezonia/invoice-composer/internal/raster"
	"github.com/rezonia/invoice-composer/internal/render"
)

// Re-export core types for public API
type (
	Snapshot = model.Snapshot
	Fields   = model.Fields
	Party    = model.Party
	LineItem = model.LineItem
	Logo     = model.Logo
	Template = model.Template

	Totals   = calc.Totals
	Summary  = calc.Summary
	Document = render.Document
	Layout   = paginate.Layout
	Plan     = paginate.Plan
	Page     = paginate.Page
	Result   = export.Result
)

// Re-export templates
const (
	TemplateMinimalist = model.TemplateMinimalist
	TemplateModern     = model.TemplateModern
	TemplateClassic    = model.TemplateClassic
)

// A4 is the default page layout
var A4 = paginate.A4

// Re-export error types
type (
	AssetError  = model.AssetError
	DraftError  = model.DraftError
	ExportError = model.ExportError
)

// Re-export sentinel errors
var (
	ErrLogoTooLarge  = model.ErrLogoTooLarge
	ErrDraftNotFound = model.ErrDraftNotFound
)

// Compute calculates totals from raw form values
func Compute(items []LineItem, taxRatePercent, discountRatePercent, currencySymbol string) Totals {
	return calc.Compute(items, taxRatePercent, discountRatePercent, currencySymbol)
}

// ComputeSnapshot calculates the totals of a whole invoice
func ComputeSnapshot(s Snapshot) Totals {
	return calc.ComputeSnapshot(s)
}

// Render builds the structured preview of s. Rendering never fails; a
// document that could not be built carries a placeholder instead.
func Render(s Snapshot) Document {
	return render.NewRenderer().Render(s)
}

// RenderHTML renders s as a standalone HTML page
func RenderHTML(s Snapshot) ([]byte, error) {
	return render.HTML(Render(s))
}

// Tile plans how an image of width x height pixels is split over pages of
// the given layout.
func Tile(width, height int, layout Layout) (Plan, error) {
	return paginate.TileLayout(width, height, layout)
}

// Encode serializes s in the persisted draft format
func Encode(s Snapshot) ([]byte, error) {
	return document.Encode(s)
}

// Decode parses a persisted draft
func Decode(data []byte) (Snapshot, error) {
	return document.Decode(data)
}

// ExportPDF writes s as a paginated A4 PDF
func ExportPDF(ctx context.Context, s Snapshot, w io.Writer) (Result, error) {
	return newExporter().PDF(ctx, s, w)
}

// ExportPNG writes s as a single image
func ExportPNG(ctx context.Context, s Snapshot, w io.Writer) (Result, error) {
	return newExporter().PNG(ctx, s, w)
}

func newExporter() *export.Exporter {
	vp := raster.NewViewport(0)
	return export.NewExporter(render.NewRenderer(), raster.NewTextRasterizer(raster.DefaultWidth, vp), vp)
}
