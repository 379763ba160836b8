package testutil

import (
	"context"
	"sync"

	"github.com/fakturo/fakturo/internal/domain/invoice"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
	// mu serializes the read-modify-write critical sections (optimistic
	// version check, corrected-by compare-and-swap) the way row locks would
	mu sync.Mutex
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

// copyInvoice returns a deep copy so callers never share state with the store
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}

	cp := *inv
	if inv.Items != nil {
		cp.Items = make([]*invoice.InvoiceItem, len(inv.Items))
		for i, item := range inv.Items {
			itemCopy := *item
			cp.Items[i] = &itemCopy
		}
	}
	cp.Metadata = inv.Metadata.Copy()
	return &cp
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) CreateWithItems(ctx context.Context, inv *invoice.Invoice) error {
	// the in-memory store holds items inline, so this is plain Create
	return s.Create(ctx, inv)
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("invoice %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.InMemoryStore.Get(ctx, inv.ID)
	if err != nil {
		return err
	}
	if stored.Version != inv.Version {
		return ierr.NewError("invoice version conflict").
			WithReportableDetails(map[string]any{
				"invoice_id":       inv.ID,
				"expected_version": inv.Version,
				"stored_version":   stored.Version,
			}).
			Mark(ierr.ErrConcurrencyConflict)
	}

	inv.Version++
	return s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) SetCorrectedBy(ctx context.Context, id string, correctionInvoiceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return err
	}
	if stored.IsCorrected() {
		return ierr.NewError("invoice already corrected").
			WithReportableDetails(map[string]any{
				"invoice_id":              id,
				"corrected_by_invoice_id": lo.FromPtr(stored.CorrectedByInvoiceID),
			}).
			Mark(ierr.ErrAlreadyCorrected)
	}

	stored.CorrectedByInvoiceID = &correctionInvoiceID
	return s.InMemoryStore.Update(ctx, id, stored)
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok {
		return true
	}

	if !CheckCompanyFilter(ctx, inv.CompanyID) {
		return false
	}
	if len(f.InvoiceIDs) > 0 && !lo.Contains(f.InvoiceIDs, inv.ID) {
		return false
	}
	if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
		return false
	}
	if f.InvoiceType != "" && inv.Type != f.InvoiceType {
		return false
	}
	if len(f.InvoiceStatus) > 0 && !lo.Contains(f.InvoiceStatus, inv.Status) {
		return false
	}
	if f.VATRegime != "" && inv.VATRegime != f.VATRegime {
		return false
	}
	if f.DueBefore != nil {
		if inv.DueDate == nil || !inv.DueDate.Before(*f.DueBefore) {
			return false
		}
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && inv.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && inv.CreatedAt.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func invoiceSortFn(i, j *invoice.Invoice) bool {
	return i.CreatedAt.After(j.CreatedAt)
}
