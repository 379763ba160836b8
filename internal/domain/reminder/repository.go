package reminder

import "context"

// Repository provides access to the reminder history. The history is
// append-only, mirroring the audit log: there is deliberately no update or
// delete operation.
type Repository interface {
	Append(ctx context.Context, entry *ReminderEntry) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]*ReminderEntry, error)
}
