package invoicelib_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-composer/pkg/invoicelib"
)

func sample() invoicelib.Snapshot {
	return invoicelib.Snapshot{
		Fields: invoicelib.Fields{
			Business:      invoicelib.Party{Name: "Acme"},
			Client:        invoicelib.Party{Name: "Globex"},
			InvoiceNumber: "INV-7",
			InvoiceDate:   "2026-10-16",
			TaxRate:       "10",
			Currency:      "$",
		},
		Items: []invoicelib.LineItem{
			{Description: "Design", Quantity: "2", UnitPrice: "50"},
		},
		Template: invoicelib.TemplateModern,
	}
}

func TestComputeSnapshot(t *testing.T) {
	totals := invoicelib.ComputeSnapshot(sample())
	assert.Equal(t, "$110.00", totals.Summary().GrandTotal)

	direct := invoicelib.Compute(sample().Items, "10", "", "$")
	assert.True(t, totals.GrandTotal.Equal(direct.GrandTotal))
}

func TestRender(t *testing.T) {
	doc := invoicelib.Render(sample())
	require.False(t, doc.Failed())
	assert.Equal(t, "Acme", doc.Header.BusinessName)
	assert.Equal(t, "INV-7", doc.Meta.Number)

	page, err := invoicelib.RenderHTML(sample())
	require.NoError(t, err)
	assert.Contains(t, string(page), "INV-7")
}

func TestEncodeDecode(t *testing.T) {
	data, err := invoicelib.Encode(sample())
	require.NoError(t, err)

	got, err := invoicelib.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestTile(t *testing.T) {
	plan, err := invoicelib.Tile(1200, 5000, invoicelib.A4)
	require.NoError(t, err)
	assert.Greater(t, len(plan.Pages), 1)
	assert.Equal(t, 5000, plan.Pages[len(plan.Pages)-1].Y1)

	_, err = invoicelib.Tile(0, 10, invoicelib.A4)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	var pdf bytes.Buffer
	res, err := invoicelib.ExportPDF(context.Background(), sample(), &pdf)
	require.NoError(t, err)
	assert.Equal(t, "invoice_INV-7.pdf", res.FileName)
	assert.Equal(t, 1, res.Pages)
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))

	var img bytes.Buffer
	res, err = invoicelib.ExportPNG(context.Background(), sample(), &img)
	require.NoError(t, err)
	assert.Equal(t, "invoice_INV-7.png", res.FileName)
	assert.NotZero(t, img.Len())
}
