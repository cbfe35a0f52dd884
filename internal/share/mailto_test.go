package share_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-composer/internal/model"
	"github.com/rezonia/invoice-composer/internal/share"
)

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a b", "a%20b"},
		{"Invoice #7 & more", "Invoice%20%237%20%26%20more"},
		{"line\nbreak", "line%0Abreak"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"a+b=c/d?e", "a%2Bb%3Dc%2Fd%3Fe"},
		{"Café", "Caf%C3%A9"},
		{"₦", "%E2%82%A6"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, share.EncodeComponent(tt.in))
		})
	}
}

func TestMailto(t *testing.T) {
	s := model.Snapshot{Fields: model.Fields{
		Business:      model.Party{Name: "Acme & Sons"},
		Client:        model.Party{Name: "Globex", Email: " ap@globex.test "},
		InvoiceNumber: "INV-9",
	}}

	link := share.Mailto(s)
	assert.Equal(t,
		"mailto:ap@globex.test?subject=Invoice%20%23INV-9%20from%20Acme%20%26%20Sons"+
			"&body=Dear%20Globex%2C%0A%0APlease%20find%20your%20invoice%20attached.%20Thank%20you%20for%20your%20business!%0A%0ABest%2C%0AAcme%20%26%20Sons",
		link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, share.Subject(s), q.Get("subject"))
	assert.Equal(t, share.Body(s), q.Get("body"))
}

func TestMailto_Defaults(t *testing.T) {
	s := model.Snapshot{}
	assert.Equal(t, "Invoice #001 from Your Business", share.Subject(s))
	assert.Equal(t, "Dear Client,\n\nPlease find your invoice attached. Thank you for your business!\n\nBest,\nYour Business", share.Body(s))
	assert.Contains(t, share.Mailto(s), "mailto:?subject=")
}

func TestMailto_EscapesRecipientQuery(t *testing.T) {
	s := model.Snapshot{Fields: model.Fields{Client: model.Party{Email: "a@b.test?cc=x@y.test"}}}
	assert.Contains(t, share.Mailto(s), "mailto:a@b.test%3Fcc%3Dx@y.test?subject=")
}
