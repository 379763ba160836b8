package dto

import (
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/validator"
)

// CreateCorrectionRequest represents the request payload for issuing a
// Storno (correction) invoice for a finalized invoice
type CreateCorrectionRequest struct {
	// invoice_id is the finalized invoice to correct
	InvoiceID string `json:"invoice_id" validate:"required"`

	// reason documents why the invoice is corrected; required for the
	// audit trail
	Reason string `json:"reason" validate:"required"`
}

func (r *CreateCorrectionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Reason == "" {
		return ierr.NewError("correction reason is required").
			WithHint("Provide a reason describing why the invoice is corrected").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CorrectionResponse pairs the newly created correction invoice with the
// updated original
type CorrectionResponse struct {
	Correction *InvoiceResponse `json:"correction"`
	Original   *InvoiceResponse `json:"original"`
}
