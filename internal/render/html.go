package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rezonia/invoice-composer/internal/model"
)

const previewHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.Meta.Number}}</title>
  <style>
    body { margin: 0; padding: 24px; color: #111827; background: #ffffff; }
    .invoice { max-width: 794px; margin: 0 auto; }
    .header { display: flex; align-items: center; gap: 12px; }
    .logo { max-height: 64px; }
    .section { margin-bottom: 16px; }
    .items-table { width: 100%; border-collapse: collapse; }
    .items-table th, .items-table td { padding: 8px; text-align: left; }
    .totals { margin-top: 12px; text-align: right; }
{{styles .Template}}
  </style>
</head>
<body>
  <div class="invoice template-{{.Template}}">
    {{if .Placeholder}}
    <p>{{.Placeholder}}</p>
    {{else}}
    <div class="header">
      {{if .Header.Logo}}<img src="{{logoURL .Header.Logo}}" class="logo">{{end}}
      <h2 class="business-name">{{.Header.BusinessName}}</h2>
    </div>
    <h3>Invoice #{{.Meta.Number}}</h3>
    <p><strong>Status:</strong> {{.Meta.Status}}</p>
    {{range $party := parties .}}
    <div class="section">
      <p><strong>{{$party.Label}}:</strong>{{range $i, $line := $party.Lines}}{{if $i}}<br>{{end}} {{$line}}{{end}}</p>
    </div>
    {{end}}
    <div class="section">
      <p><strong>Date:</strong> {{.Meta.Date}}</p>
      <p><strong>Due:</strong> {{.Meta.Due}}</p>
      <p><strong>Delivery/Shipment:</strong> {{.Meta.Delivery}}</p>
    </div>
    <table class="items-table">
      <thead>
        <tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr>
      </thead>
      <tbody>
        {{range .Table.Rows}}
        <tr>
          <td>{{.Description}}</td>
          <td>{{.Quantity}}</td>
          <td>{{.UnitPrice}}</td>
          <td>{{.Subtotal}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <div class="totals">
      <p>Subtotal: {{.Totals.Subtotal}}</p>
      <p>Tax ({{.Totals.TaxLabel}}): {{.Totals.Tax}}</p>
      <p>Discount ({{.Totals.DiscountLabel}}): {{.Totals.Discount}}</p>
      <p>Grand Total: {{.Totals.GrandTotal}}</p>
    </div>
    {{with .PaymentMethods}}<div class="payment-methods"><p><strong>{{.Label}}:</strong> {{.Text}}</p></div>{{end}}
    {{with .Notes}}<div class="notes"><p><strong>{{.Label}}:</strong> {{.Text}}</p></div>{{end}}
    {{end}}
  </div>
</body>
</html>
`

var templateStyles = map[model.Template]string{
	model.TemplateMinimalist: `    .template-minimalist { font-family: "Helvetica Neue", Arial, sans-serif; }
    .template-minimalist .items-table td { border-bottom: 1px solid #e5e7eb; }`,
	model.TemplateModern: `    .template-modern { font-family: "Inter", "Segoe UI", sans-serif; }
    .template-modern .header { border-bottom: 3px solid #2563eb; padding-bottom: 12px; }
    .template-modern .items-table th { background: #2563eb; color: #ffffff; }`,
	model.TemplateClassic: `    .template-classic { font-family: Georgia, "Times New Roman", serif; }
    .template-classic .items-table th, .template-classic .items-table td { border: 1px solid #111827; }`,
}

var previewTemplate = template.Must(template.New("preview").Funcs(template.FuncMap{
	"styles": func(t model.Template) template.CSS {
		return template.CSS(templateStyles[model.ParseTemplate(string(t))])
	},
	// Logos are data URLs produced by model.Logo; html/template would
	// otherwise replace them with #ZgotmplZ.
	"logoURL": func(s string) template.URL {
		return template.URL(s)
	},
	"parties": func(d Document) []PartyBlock {
		return []PartyBlock{d.From, d.To}
	},
}).Parse(previewHTMLTemplate))

// HTML presents the document as a standalone page styled by its template.
func HTML(d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("execute preview template: %w", err)
	}
	return buf.Bytes(), nil
}
