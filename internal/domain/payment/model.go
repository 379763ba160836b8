package payment

import (
	"time"

	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/shopspring/decimal"
)

// Payment represents a payment recorded against an invoice
type Payment struct {
	ID            string                  `json:"id"`
	InvoiceID     string                  `json:"invoice_id"`
	Amount        decimal.Decimal         `json:"amount"`
	Currency      string                  `json:"currency"`
	PaymentDate   time.Time               `json:"payment_date"`
	PaymentStatus types.PaymentStatus     `json:"payment_status"`
	PaymentMethod types.PaymentMethodType `json:"payment_method"`
	Reference     string                  `json:"reference,omitempty"`
	Metadata      types.Metadata          `json:"metadata,omitempty"`
	types.BaseModel
}

func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			Mark(ierr.ErrValidation)
	}

	if !p.Amount.IsPositive() {
		return ierr.NewError("payment amount must be positive").
			WithReportableDetails(map[string]any{
				"amount": p.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if err := p.PaymentStatus.Validate(); err != nil {
		return err
	}

	if err := p.PaymentMethod.Validate(); err != nil {
		return err
	}

	return nil
}
