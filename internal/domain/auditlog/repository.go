package auditlog

import "context"

// Repository provides append-only access to the audit log. There is
// deliberately no update or delete operation.
type Repository interface {
	Append(ctx context.Context, entry *AuditLogEntry) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*AuditLogEntry, error)
}

// EmailLogRepository provides append-only access to the email log
type EmailLogRepository interface {
	Append(ctx context.Context, entry *EmailLogEntry) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*EmailLogEntry, error)
}
