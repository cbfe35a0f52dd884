// Package document owns the editable invoice form and its snapshot encoding.
package document

import (
	"bytes"

	"github.com/rezonia/invoice-composer/internal/items"
	"github.com/rezonia/invoice-composer/internal/model"
)

// Form holds the current field values, line items, logo and template.
// Form is not safe for concurrent use.
type Form struct {
	Fields   model.Fields
	Items    *items.Store
	logo     *model.Logo
	template model.Template
}

// NewForm creates a form with default values and no items
func NewForm(store *items.Store) *Form {
	return &Form{
		Fields:   model.Fields{Currency: model.DefaultCurrency},
		Items:    store,
		template: model.TemplateMinimalist,
	}
}

// Capture reads every field and the item store into one snapshot
func (f *Form) Capture() model.Snapshot {
	s := model.Snapshot{
		Fields:   f.Fields,
		Items:    f.Items.Items(),
		Template: f.template,
	}
	if f.logo != nil {
		s.Logo = &model.Logo{MIME: f.logo.MIME, Data: bytes.Clone(f.logo.Data)}
	}
	return s
}

// Restore writes all fields from s and rebuilds the item store from its item
// list, clearing existing items first.
func (f *Form) Restore(s model.Snapshot) {
	f.Fields = s.Fields

	f.logo = nil
	if s.Logo != nil && len(s.Logo.Data) > 0 && len(s.Logo.Data) <= model.MaxLogoBytes {
		f.logo = &model.Logo{MIME: s.Logo.MIME, Data: bytes.Clone(s.Logo.Data)}
	}
	f.template = model.ParseTemplate(string(s.Template))

	f.Items.Clear()
	for _, item := range s.Items {
		f.Items.Append(item)
	}
}

// SetLogo stores an uploaded logo. Uploads above MaxLogoBytes are rejected and
// the current logo is cleared.
func (f *Form) SetLogo(data []byte, mime string) error {
	if len(data) > model.MaxLogoBytes {
		f.logo = nil
		return model.NewAssetError("logo", len(data), model.MaxLogoBytes, model.ErrLogoTooLarge)
	}
	if len(data) == 0 {
		f.logo = nil
		return nil
	}
	f.logo = &model.Logo{MIME: mime, Data: bytes.Clone(data)}
	return nil
}

// ClearLogo removes the logo
func (f *Form) ClearLogo() {
	f.logo = nil
}

// HasLogo reports whether a logo is set
func (f *Form) HasLogo() bool {
	return f.logo != nil
}

// SetTemplate selects a presentation variant
func (f *Form) SetTemplate(t string) model.Template {
	f.template = model.ParseTemplate(t)
	return f.template
}

// Template returns the selected presentation variant
func (f *Form) Template() model.Template {
	return f.template
}

// Reset empties every field, drops the logo and leaves exactly one blank item.
func (f *Form) Reset() {
	f.Fields = model.Fields{Currency: model.DefaultCurrency}
	f.logo = nil
	f.Items.Clear()
	f.Items.Add()
}
