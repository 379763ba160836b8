package auditlog

import (
	"time"

	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
)

// AuditLogEntry is one immutable record of a financially meaningful
// mutation. Entries are the system's GoBD compliance record and are never
// updated or deleted.
type AuditLogEntry struct {
	ID        string              `json:"id"`
	InvoiceID string              `json:"invoice_id"`
	Action    types.AuditAction   `json:"action"`
	OldStatus types.InvoiceStatus `json:"old_status,omitempty"`
	NewStatus types.InvoiceStatus `json:"new_status,omitempty"`
	Changes   types.FieldChanges  `json:"changes,omitempty"`
	UserID    string              `json:"user_id"`
	IPAddress string              `json:"ip_address,omitempty"`
	CompanyID string              `json:"company_id"`
	CreatedAt time.Time           `json:"created_at"`
}

func (e *AuditLogEntry) Validate() error {
	if e.InvoiceID == "" {
		return ierr.NewError("invoice_id is required").
			Mark(ierr.ErrValidation)
	}
	if err := e.Action.Validate(); err != nil {
		return err
	}
	return nil
}

// EmailLogEntry records a delegated email delivery attempt. Delivery itself
// happens outside the core; only the attempt and its outcome are recorded
// here.
type EmailLogEntry struct {
	ID        string            `json:"id"`
	InvoiceID string            `json:"invoice_id"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Status    types.EmailStatus `json:"status"`
	CompanyID string            `json:"company_id"`
	CreatedAt time.Time         `json:"created_at"`
}

func (e *EmailLogEntry) Validate() error {
	if e.Recipient == "" {
		return ierr.NewError("recipient is required").
			Mark(ierr.ErrValidation)
	}
	return e.Status.Validate()
}
