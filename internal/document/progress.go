package document

import "github.com/rezonia/invoice-composer/internal/model"

// progressSections is the number of form sections the progress bar measures.
// Nine checks count toward it, so a complete form is capped at 100.
const progressSections = 8

// Progress returns the form completion percentage in [0, 100]
func Progress(s model.Snapshot) int {
	checks := []bool{
		s.Business.Name != "",
		s.Client.Name != "",
		s.InvoiceNumber != "",
		len(s.Items) > 0,
		s.TaxRate != "" || s.Discount != "",
		s.Logo != nil,
		s.DeliveryDate != "",
		s.PaymentMethods != "",
		s.Notes != "",
	}

	completed := 0
	for _, done := range checks {
		if done {
			completed++
		}
	}
	return min(100, completed*100/progressSections)
}
