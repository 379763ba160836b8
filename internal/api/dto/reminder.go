package dto

import (
	"time"

	"github.com/fakturo/fakturo/internal/domain/reminder"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/fakturo/fakturo/internal/validator"
	"github.com/shopspring/decimal"
)

// AdvanceReminderRequest represents the request payload for escalating the
// dunning level of an overdue invoice
type AdvanceReminderRequest struct {
	// invoice_id is the overdue invoice to escalate
	InvoiceID string `json:"invoice_id" validate:"required"`

	// as_of overrides the reference time used for the overdue-days
	// calculation; defaults to now
	AsOf *time.Time `json:"as_of,omitempty"`
}

func (r *AdvanceReminderRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ReminderResponse represents the outcome of a dunning escalation
type ReminderResponse struct {
	InvoiceID   string          `json:"invoice_id"`
	Level       int             `json:"level"`
	DaysOverdue int             `json:"days_overdue"`
	FeeCharged  decimal.Decimal `json:"fee_charged"`
	TotalFees   decimal.Decimal `json:"total_fees"`
	SentAt      time.Time       `json:"sent_at"`
}

// NewReminderResponse creates a reminder response from a history entry
func NewReminderResponse(entry *reminder.ReminderEntry, totalFees decimal.Decimal) *ReminderResponse {
	return &ReminderResponse{
		InvoiceID:   entry.InvoiceID,
		Level:       entry.Level,
		DaysOverdue: entry.DaysOverdue,
		FeeCharged:  entry.FeeCharged,
		TotalFees:   totalFees,
		SentAt:      entry.SentAt,
	}
}

// ListRemindersResponse represents the dunning history of one invoice
type ListRemindersResponse struct {
	Items []*reminder.ReminderEntry `json:"items"`
}

// RecordEmailRequest represents the request payload for logging an invoice
// email dispatch
type RecordEmailRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject" validate:"required"`

	// status records whether the dispatch succeeded; defaults to sent
	Status types.EmailStatus `json:"status,omitempty"`
}

func (r *RecordEmailRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Status != "" {
		if err := r.Status.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("Email status must be sent or failed").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
