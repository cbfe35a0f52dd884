package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-composer/internal/model"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		input    string
		expected model.Template
	}{
		{"minimalist", model.TemplateMinimalist},
		{"Modern", model.TemplateModern},
		{" classic ", model.TemplateClassic},
		{"", model.TemplateMinimalist},
		{"neon", model.TemplateMinimalist},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, model.ParseTemplate(tt.input))
		})
	}
}

func TestLineItem_IsBlank(t *testing.T) {
	assert.True(t, model.LineItem{}.IsBlank())
	assert.False(t, model.LineItem{Quantity: "1"}.IsBlank())
}

func TestFields_CurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", model.Fields{}.CurrencySymbol())
	assert.Equal(t, "₦", model.Fields{Currency: "₦"}.CurrencySymbol())
}

func TestLogo_DataURLRoundTrip(t *testing.T) {
	logo := &model.Logo{MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}}

	url := logo.DataURL()
	assert.Equal(t, "data:image/png;base64,iVBORwD/", url)

	parsed, err := model.ParseDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, logo, parsed)
}

func TestLogo_DataURLEmpty(t *testing.T) {
	var logo *model.Logo
	assert.Empty(t, logo.DataURL())

	parsed, err := model.ParseDataURL("")
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseDataURL_Invalid(t *testing.T) {
	inputs := []string{
		"http://example.com/logo.png",
		"data:image/png;base64",
		"data:image/png,plain",
		"data:image/png;base64,!!!",
	}

	for _, input := range inputs {
		_, err := model.ParseDataURL(input)
		assert.Error(t, err, input)
	}
}

func TestSnapshot_DisplayDefaults(t *testing.T) {
	var s model.Snapshot
	assert.Equal(t, "Your Business", s.BusinessName())
	assert.Equal(t, "Client", s.ClientName())
	assert.Equal(t, "001", s.InvoiceNumberOr("001"))

	s.Business.Name = "Acme"
	s.Client.Name = "Globex"
	s.InvoiceNumber = "INV-42"
	assert.Equal(t, "Acme", s.BusinessName())
	assert.Equal(t, "Globex", s.ClientName())
	assert.Equal(t, "INV-42", s.InvoiceNumberOr("001"))
}

func TestAssetError(t *testing.T) {
	err := model.NewAssetError("logo", 3<<20, model.MaxLogoBytes, model.ErrLogoTooLarge)

	require.Contains(t, err.Error(), "logo")
	require.Contains(t, err.Error(), "3145728")
	require.ErrorIs(t, err, model.ErrLogoTooLarge)
}

func TestDraftError(t *testing.T) {
	cause := assert.AnError
	err := model.NewDraftError("proInvoiceDraft", "malformed JSON", cause)

	require.Contains(t, err.Error(), "proInvoiceDraft")
	require.Contains(t, err.Error(), "malformed JSON")
	require.ErrorIs(t, err, cause)

	var draftErr *model.DraftError
	require.True(t, errors.As(err, &draftErr))
}

func TestExportError(t *testing.T) {
	err := model.NewExportError("pdf", "rasterize", "canvas failed", nil)

	require.Contains(t, err.Error(), "pdf/rasterize")
	require.Contains(t, err.Error(), "canvas failed")
	require.NoError(t, errors.Unwrap(err))
}
