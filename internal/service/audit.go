package service

import (
	"context"
	"time"

	"github.com/fakturo/fakturo/internal/domain/auditlog"
	"github.com/fakturo/fakturo/internal/types"
)

// auditRecorder appends audit log entries for financially meaningful
// mutations. It is shared by the invoice, correction, payment and reminder
// services so every entry carries the same actor and tenant attribution.
type auditRecorder struct {
	ServiceParams
}

func newAuditRecorder(params ServiceParams) *auditRecorder {
	return &auditRecorder{ServiceParams: params}
}

// record appends one audit entry. Audit failures abort the surrounding
// operation: a financial mutation without its audit record must not commit.
func (a *auditRecorder) record(
	ctx context.Context,
	invoiceID string,
	action types.AuditAction,
	oldStatus, newStatus types.InvoiceStatus,
	changes types.FieldChanges,
) error {
	entry := &auditlog.AuditLogEntry{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_ENTRY),
		InvoiceID: invoiceID,
		Action:    action,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Changes:   changes,
		UserID:    types.GetUserID(ctx),
		IPAddress: types.GetIPAddress(ctx),
		CompanyID: types.GetCompanyID(ctx),
		CreatedAt: time.Now().UTC(),
	}

	if err := a.AuditLogRepo.Append(ctx, entry); err != nil {
		a.Logger.Errorw("failed to append audit log entry",
			"invoice_id", invoiceID,
			"action", action,
			"error", err)
		return err
	}
	return nil
}
