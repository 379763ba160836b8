package reminder

import (
	"time"

	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/shopspring/decimal"
)

// ReminderEntry is one record in the append-only dunning history of an
// invoice: which level was sent, when, how many days overdue the invoice
// was, and the fee charged for this escalation.
type ReminderEntry struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Level       int             `json:"level"`
	SentAt      time.Time       `json:"sent_at"`
	DaysOverdue int             `json:"days_overdue"`
	FeeCharged  decimal.Decimal `json:"fee_charged"`
	types.BaseModel
}

func (e *ReminderEntry) Validate() error {
	if e.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			Mark(ierr.ErrValidation)
	}
	if e.Level < 1 || e.Level > types.ReminderLevelMax {
		return ierr.NewError("invalid reminder level").
			WithHintf("reminder level must be between 1 and %d", types.ReminderLevelMax).
			Mark(ierr.ErrValidation)
	}
	if e.FeeCharged.IsNegative() {
		return ierr.NewError("fee charged must be non-negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}
