package invoice

import (
	"context"

	"github.com/fakturo/fakturo/internal/types"
)

// Repository provides access to invoice storage. Implementations must scope
// every operation to the tenant company in the context.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	// CreateWithItems persists the invoice and its line items atomically
	CreateWithItems(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	// Update persists the invoice using optimistic locking on Version; a
	// stale version fails with a concurrency conflict.
	Update(ctx context.Context, inv *Invoice) error
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
	// SetCorrectedBy atomically sets corrected_by_invoice_id if and only if
	// it is currently unset (compare-and-swap). A second attempt fails with
	// an already-corrected error.
	SetCorrectedBy(ctx context.Context, id string, correctionInvoiceID string) error
}
