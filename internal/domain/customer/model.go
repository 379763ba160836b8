package customer

import (
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
)

// Customer represents the customer domain model. Only the fields the
// invoicing core depends on are modeled here; contact management lives in
// the surrounding application.
type Customer struct {
	ID     string `json:"id"`
	Number string `json:"number,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	// VATID is the buyer's VAT identification number (USt-IdNr.), required
	// for reverse-charge invoices.
	VATID   string `json:"vat_id,omitempty"`
	Country string `json:"country,omitempty"`
	types.BaseModel
}

func (c *Customer) Validate() error {
	if c.Name == "" {
		return ierr.NewError("customer name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
