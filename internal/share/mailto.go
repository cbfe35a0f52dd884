// Package share builds email links for sending an invoice.
package share

import (
	"strings"

	"github.com/rezonia/invoice-composer/internal/model"
)

const bodyTemplate = "Dear %client%,\n\nPlease find your invoice attached. Thank you for your business!\n\nBest,\n%business%"

// Subject returns the email subject line for s
func Subject(s model.Snapshot) string {
	return "Invoice #" + s.InvoiceNumberOr("001") + " from " + s.BusinessName()
}

// Body returns the email body for s. The invoice itself is not carried by the
// link; the sender attaches the exported file.
func Body(s model.Snapshot) string {
	return strings.NewReplacer("%client%", s.ClientName(), "%business%", s.BusinessName()).Replace(bodyTemplate)
}

// Mailto returns a mailto: URI addressed to the client with the subject and
// body percent-encoded.
func Mailto(s model.Snapshot) string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(escape(strings.TrimSpace(s.Client.Email), "@,"))
	b.WriteString("?subject=")
	b.WriteString(EncodeComponent(Subject(s)))
	b.WriteString("&body=")
	b.WriteString(EncodeComponent(Body(s)))
	return b.String()
}

// EncodeComponent percent-encodes s as UTF-8, leaving only letters, digits
// and - _ . ! ~ * ' ( ) unescaped.
func EncodeComponent(s string) string {
	return escape(s, "")
}

func escape(s, keep string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) || (c < 0x80 && strings.IndexByte(keep, c) >= 0) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
