package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rezonia/invoice-composer/internal/model"
)

// DraftKey is the storage key of the persisted draft
const DraftKey = "proInvoiceDraft"

// draft is the persisted JSON shape. Pointer fields distinguish an absent key
// from an empty value so absent keys can default deterministically.
type draft struct {
	BusinessName    *string     `json:"businessName"`
	BusinessAddress *string     `json:"businessAddress"`
	BusinessEmail   *string     `json:"businessEmail"`
	BusinessPhone   *string     `json:"businessPhone"`
	ClientName      *string     `json:"clientName"`
	ClientAddress   *string     `json:"clientAddress"`
	ClientEmail     *string     `json:"clientEmail"`
	InvoiceNumber   *string     `json:"invoiceNumber"`
	InvoiceDate     *string     `json:"invoiceDate"`
	DueDate         *string     `json:"dueDate"`
	DeliveryDate    *string     `json:"deliveryDate"`
	TaxRate         *string     `json:"taxRate"`
	Discount        *string     `json:"discount"`
	Currency        *string     `json:"currency"`
	PaymentStatus   *string     `json:"paymentStatus"`
	PaymentMethods  *string     `json:"paymentMethods"`
	Notes           *string     `json:"notes"`
	Logo            *string     `json:"logo"`
	Template        *string     `json:"template"`
	Items           []draftItem `json:"items"`
}

type draftItem struct {
	Desc  string     `json:"desc"`
	Qty   numberText `json:"qty"`
	Price numberText `json:"price"`
}

// numberText keeps a form value as typed. It is written as a string and
// read from a string, a JSON number (kept in its literal form) or null.
type numberText string

func (n *numberText) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = numberText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("item value must be a string or a number: %w", err)
	}
	*n = numberText(num.String())
	return nil
}

// Encode serializes a snapshot into the persisted draft format
func Encode(s model.Snapshot) ([]byte, error) {
	logo := s.Logo.DataURL()
	template := string(s.Template)

	d := draft{
		BusinessName:    &s.Business.Name,
		BusinessAddress: &s.Business.Address,
		BusinessEmail:   &s.Business.Email,
		BusinessPhone:   &s.Business.Phone,
		ClientName:      &s.Client.Name,
		ClientAddress:   &s.Client.Address,
		ClientEmail:     &s.Client.Email,
		InvoiceNumber:   &s.InvoiceNumber,
		InvoiceDate:     &s.InvoiceDate,
		DueDate:         &s.DueDate,
		DeliveryDate:    &s.DeliveryDate,
		TaxRate:         &s.TaxRate,
		Discount:        &s.Discount,
		Currency:        &s.Currency,
		PaymentStatus:   &s.PaymentStatus,
		PaymentMethods:  &s.PaymentMethods,
		Notes:           &s.Notes,
		Logo:            &logo,
		Template:        &template,
		Items:           make([]draftItem, 0, len(s.Items)),
	}
	for _, item := range s.Items {
		d.Items = append(d.Items, draftItem{Desc: item.Description, Qty: numberText(item.Quantity), Price: numberText(item.UnitPrice)})
	}

	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode draft: %w", err)
	}
	return data, nil
}

// Decode parses a persisted draft. Absent keys take their defaults: currency
// "$", template minimalist, everything else empty. Malformed input returns a
// *model.DraftError.
func Decode(data []byte) (model.Snapshot, error) {
	var d draft
	if err := json.Unmarshal(data, &d); err != nil {
		return model.Snapshot{}, model.NewDraftError(DraftKey, "malformed draft", err)
	}

	logo, err := model.ParseDataURL(value(d.Logo, ""))
	if err != nil {
		return model.Snapshot{}, model.NewDraftError(DraftKey, "malformed logo", err)
	}
	if logo != nil && len(logo.Data) > model.MaxLogoBytes {
		logo = nil
	}

	s := model.Snapshot{
		Fields: model.Fields{
			Business: model.Party{
				Name:    value(d.BusinessName, ""),
				Address: value(d.BusinessAddress, ""),
				Email:   value(d.BusinessEmail, ""),
				Phone:   value(d.BusinessPhone, ""),
			},
			Client: model.Party{
				Name:    value(d.ClientName, ""),
				Address: value(d.ClientAddress, ""),
				Email:   value(d.ClientEmail, ""),
			},
			InvoiceNumber:  value(d.InvoiceNumber, ""),
			InvoiceDate:    value(d.InvoiceDate, ""),
			DueDate:        value(d.DueDate, ""),
			DeliveryDate:   value(d.DeliveryDate, ""),
			TaxRate:        value(d.TaxRate, ""),
			Discount:       value(d.Discount, ""),
			Currency:       value(d.Currency, model.DefaultCurrency),
			PaymentStatus:  value(d.PaymentStatus, ""),
			PaymentMethods: value(d.PaymentMethods, ""),
			Notes:          value(d.Notes, ""),
		},
		Logo:     logo,
		Template: model.ParseTemplate(value(d.Template, "")),
		Items:    make([]model.LineItem, 0, len(d.Items)),
	}
	for _, item := range d.Items {
		s.Items = append(s.Items, model.LineItem{Description: item.Desc, Quantity: string(item.Qty), UnitPrice: string(item.Price)})
	}
	return s, nil
}

func value(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
