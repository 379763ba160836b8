package types

import (
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/samber/lo"
)

// AuditAction classifies a financially meaningful mutation recorded in the
// audit log.
type AuditAction string

const (
	AuditActionCreated       AuditAction = "created"
	AuditActionUpdated       AuditAction = "updated"
	AuditActionStatusChanged AuditAction = "status_changed"
	AuditActionSent          AuditAction = "sent"
	AuditActionPaid          AuditAction = "paid"
	AuditActionCorrected     AuditAction = "corrected"
)

func (a AuditAction) String() string {
	return string(a)
}

func (a AuditAction) Validate() error {
	allowed := []AuditAction{
		AuditActionCreated,
		AuditActionUpdated,
		AuditActionStatusChanged,
		AuditActionSent,
		AuditActionPaid,
		AuditActionCorrected,
	}
	if !lo.Contains(allowed, a) {
		return ierr.NewError("invalid audit action").
			WithHint("Please provide a valid audit action").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// EmailStatus records the outcome of a delegated email delivery attempt
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

func (s EmailStatus) Validate() error {
	allowed := []EmailStatus{
		EmailStatusSent,
		EmailStatusFailed,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid email status").
			WithHint("Please provide a valid email status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FieldChange captures a single before/after value pair in an audit entry
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// FieldChanges maps changed field names to their before/after values
type FieldChanges map[string]FieldChange
