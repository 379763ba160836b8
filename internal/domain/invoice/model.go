package invoice

import (
	"time"

	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model
type Invoice struct {
	ID         string              `json:"id"`
	Number     *string             `json:"number"`
	CustomerID string              `json:"customer_id"`
	Type       types.InvoiceType   `json:"type"`
	Status     types.InvoiceStatus `json:"status"`
	VATRegime  types.VATRegime     `json:"vat_regime"`
	Currency   string              `json:"currency"`

	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	// ExemptionNote is the legal note for VAT-exempt regimes, e.g. "§19 UStG"
	ExemptionNote string `json:"exemption_note,omitempty"`

	IssueDate          time.Time  `json:"issue_date"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	ServiceDate        *time.Time `json:"service_date,omitempty"`
	ServicePeriodStart *time.Time `json:"service_period_start,omitempty"`
	ServicePeriodEnd   *time.Time `json:"service_period_end,omitempty"`

	SentAt      *time.Time `json:"sent_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// ReminderLevel is the current dunning escalation (0 = none, 5 = Inkasso);
	// ReminderFee is the cumulative fee charged across escalations.
	ReminderLevel  int             `json:"reminder_level"`
	ReminderFee    decimal.Decimal `json:"reminder_fee"`
	LastReminderAt *time.Time      `json:"last_reminder_at,omitempty"`

	// Skonto terms are a disclosed early-payment offer; they are never
	// applied automatically during payment reconciliation.
	SkontoPercent *decimal.Decimal `json:"skonto_percent,omitempty"`
	SkontoDays    *int             `json:"skonto_days,omitempty"`

	IsCorrection         bool    `json:"is_correction"`
	CorrectionReason     string  `json:"correction_reason,omitempty"`
	CorrectsInvoiceID    *string `json:"corrects_invoice_id,omitempty"`
	CorrectedByInvoiceID *string `json:"corrected_by_invoice_id,omitempty"`

	// SequenceNumber is the position of a partial (Abschlag) invoice within
	// its sequence, 1-20. Nil for all other invoice types.
	SequenceNumber *int `json:"sequence_number,omitempty"`

	Items    []*InvoiceItem `json:"items,omitempty"`
	Metadata types.Metadata `json:"metadata,omitempty"`
	Version  int            `json:"version"`
	types.BaseModel
}

// GetRemainingAmount returns total plus cumulative reminder fees minus the
// given paid amount. Negative results indicate an overpayment and are
// surfaced, never clamped.
func (i *Invoice) GetRemainingAmount(paid decimal.Decimal) decimal.Decimal {
	return i.Total.Add(i.ReminderFee).Sub(paid)
}

// IsCorrected reports whether a correction invoice has been issued against
// this invoice.
func (i *Invoice) IsCorrected() bool {
	return types.FromNillableString(i.CorrectedByInvoiceID) != ""
}

func (i *Invoice) Validate() error {
	if err := i.Type.Validate(); err != nil {
		return err
	}
	if err := i.Status.Validate(); err != nil {
		return err
	}
	if err := i.VATRegime.Validate(); err != nil {
		return err
	}

	if i.ReminderLevel < 0 || i.ReminderLevel > types.ReminderLevelMax {
		return ierr.NewError("invalid reminder level").
			WithHintf("reminder level must be between 0 and %d", types.ReminderLevelMax).
			WithReportableDetails(map[string]any{
				"reminder_level": i.ReminderLevel,
			}).
			Mark(ierr.ErrValidation)
	}

	if i.ReminderFee.IsNegative() {
		return ierr.NewError("reminder fee must be non-negative").
			Mark(ierr.ErrValidation)
	}

	if !types.RoundAmount(i.Subtotal.Add(i.TaxAmount)).Equal(types.RoundAmount(i.Total)) {
		return ierr.NewError("invoice totals do not reconcile").
			WithHint("total must equal subtotal plus tax amount").
			WithReportableDetails(map[string]any{
				"subtotal":   i.Subtotal.String(),
				"tax_amount": i.TaxAmount.String(),
				"total":      i.Total.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if i.VATRegime.IsExempt() && !i.TaxAmount.IsZero() {
		return ierr.NewError("tax amount must be zero for exempt vat regime").
			WithReportableDetails(map[string]any{
				"vat_regime": i.VATRegime,
				"tax_amount": i.TaxAmount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if i.SequenceNumber != nil {
		if i.Type != types.InvoiceTypeAbschlag {
			return ierr.NewError("sequence number is only valid for partial invoices").
				Mark(ierr.ErrValidation)
		}
		if *i.SequenceNumber < types.AbschlagSequenceMin || *i.SequenceNumber > types.AbschlagSequenceMax {
			return ierr.NewError("invalid partial invoice sequence number").
				WithHintf("sequence number must be between %d and %d",
					types.AbschlagSequenceMin, types.AbschlagSequenceMax).
				Mark(ierr.ErrValidation)
		}
	}

	if i.SkontoPercent != nil {
		if i.SkontoPercent.IsNegative() || i.SkontoPercent.GreaterThan(decimal.NewFromInt(100)) {
			return ierr.NewError("skonto percent must be between 0 and 100").
				Mark(ierr.ErrValidation)
		}
		if i.SkontoDays == nil || *i.SkontoDays <= 0 {
			return ierr.NewError("skonto days must be positive when skonto percent is set").
				Mark(ierr.ErrValidation)
		}
	}

	// back references are mutually exclusive: an invoice either corrects
	// another one or has been corrected, never both
	if i.CorrectsInvoiceID != nil && i.CorrectedByInvoiceID != nil {
		return ierr.NewError("corrects_invoice_id and corrected_by_invoice_id are mutually exclusive").
			Mark(ierr.ErrValidation)
	}

	if i.IsCorrection {
		if i.CorrectsInvoiceID == nil || *i.CorrectsInvoiceID == "" {
			return ierr.NewError("correction invoice must reference the corrected invoice").
				Mark(ierr.ErrValidation)
		}
		if i.CorrectionReason == "" {
			return ierr.NewError("correction reason must not be empty").
				Mark(ierr.ErrValidation)
		}
	}

	if i.ServicePeriodStart != nil && i.ServicePeriodEnd != nil {
		if i.ServicePeriodEnd.Before(*i.ServicePeriodStart) {
			return ierr.NewError("service period end must be after service period start").
				Mark(ierr.ErrValidation)
		}
	}

	for _, item := range i.Items {
		if item.Currency != i.Currency {
			return ierr.NewError("item currency must match invoice currency").
				WithReportableDetails(map[string]any{
					"invoice_currency": i.Currency,
					"item_currency":    item.Currency,
				}).
				Mark(ierr.ErrValidation)
		}
		if err := item.Validate(i.IsCorrection); err != nil {
			return err
		}
	}

	return nil
}
