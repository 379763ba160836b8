package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/fakturo/fakturo/internal/domain/auditlog"
	ierr "github.com/fakturo/fakturo/internal/errors"
)

// InMemoryAuditLogStore implements auditlog.Repository. Entries are only
// ever appended, matching the append-only contract of the repository.
type InMemoryAuditLogStore struct {
	mu      sync.RWMutex
	entries []*auditlog.AuditLogEntry
}

// NewInMemoryAuditLogStore creates a new in-memory audit log store
func NewInMemoryAuditLogStore() *InMemoryAuditLogStore {
	return &InMemoryAuditLogStore{}
}

func (s *InMemoryAuditLogStore) Append(ctx context.Context, entry *auditlog.AuditLogEntry) error {
	if entry == nil {
		return ierr.NewError("audit log entry cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *InMemoryAuditLogStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*auditlog.AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*auditlog.AuditLogEntry
	for _, entry := range s.entries {
		if entry.InvoiceID != invoiceID {
			continue
		}
		if !CheckCompanyFilter(ctx, entry.CompanyID) {
			continue
		}
		cp := *entry
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Clear removes all entries from the store
func (s *InMemoryAuditLogStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// InMemoryEmailLogStore implements auditlog.EmailLogRepository
type InMemoryEmailLogStore struct {
	mu      sync.RWMutex
	entries []*auditlog.EmailLogEntry
}

// NewInMemoryEmailLogStore creates a new in-memory email log store
func NewInMemoryEmailLogStore() *InMemoryEmailLogStore {
	return &InMemoryEmailLogStore{}
}

func (s *InMemoryEmailLogStore) Append(ctx context.Context, entry *auditlog.EmailLogEntry) error {
	if entry == nil {
		return ierr.NewError("email log entry cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *InMemoryEmailLogStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*auditlog.EmailLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*auditlog.EmailLogEntry
	for _, entry := range s.entries {
		if entry.InvoiceID != invoiceID {
			continue
		}
		if !CheckCompanyFilter(ctx, entry.CompanyID) {
			continue
		}
		cp := *entry
		result = append(result, &cp)
	}
	return result, nil
}

// Clear removes all entries from the store
func (s *InMemoryEmailLogStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
