package render

import (
	"fmt"
	"strings"
)

// LineKind tells a rasterizer how to space a line
type LineKind int

const (
	LineBody LineKind = iota
	LineHeading
	LineRule
	LineBlank
)

// Line is one printable line of a flattened document
type Line struct {
	Kind LineKind
	Text string
}

// Lines flattens the document into printable lines, top to bottom. The logo is
// not part of the lines; rasterizers draw it from Header.Logo.
func (d Document) Lines() []Line {
	if d.Failed() {
		return []Line{{Kind: LineBody, Text: d.Placeholder}}
	}

	var out []Line
	body := func(format string, args ...any) {
		for _, text := range strings.Split(fmt.Sprintf(format, args...), "\n") {
			out = append(out, Line{Kind: LineBody, Text: text})
		}
	}
	blank := func() { out = append(out, Line{Kind: LineBlank}) }
	rule := func() { out = append(out, Line{Kind: LineRule}) }

	out = append(out, Line{Kind: LineHeading, Text: d.Header.BusinessName})
	out = append(out, Line{Kind: LineHeading, Text: "Invoice #" + d.Meta.Number})
	body("Status: %s", d.Meta.Status)
	blank()

	for _, party := range []PartyBlock{d.From, d.To} {
		body("%s: %s", party.Label, firstOf(party.Lines))
		for _, line := range restOf(party.Lines) {
			if line != "" {
				body("%s", line)
			}
		}
		blank()
	}

	body("Date: %s", d.Meta.Date)
	body("Due: %s", d.Meta.Due)
	body("Delivery/Shipment: %s", d.Meta.Delivery)
	blank()

	rule()
	out = append(out, Line{Kind: LineBody, Text: tableRow(d.Table.Columns...)})
	rule()
	for _, row := range d.Table.Rows {
		out = append(out, Line{Kind: LineBody, Text: tableRow(row.Description, row.Quantity, row.UnitPrice, row.Subtotal)})
	}
	rule()

	body("Subtotal: %s", d.Totals.Subtotal)
	body("Tax (%s): %s", d.Totals.TaxLabel, d.Totals.Tax)
	body("Discount (%s): %s", d.Totals.DiscountLabel, d.Totals.Discount)
	out = append(out, Line{Kind: LineHeading, Text: "Grand Total: " + d.Totals.GrandTotal})

	for _, block := range []*TextBlock{d.PaymentMethods, d.Notes} {
		if block == nil {
			continue
		}
		blank()
		body("%s: %s", block.Label, block.Text)
	}
	return out
}

func tableRow(cells ...string) string {
	if len(cells) < 4 {
		return strings.Join(cells, "  ")
	}
	return fmt.Sprintf("%-28s %8s %12s %12s", clip(cells[0], 28), clip(cells[1], 8), clip(cells[2], 12), clip(cells[3], 12))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func firstOf(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func restOf(lines []string) []string {
	if len(lines) < 2 {
		return nil
	}
	return lines[1:]
}
