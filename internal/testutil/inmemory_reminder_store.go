package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/fakturo/fakturo/internal/domain/reminder"
	ierr "github.com/fakturo/fakturo/internal/errors"
)

// InMemoryReminderStore implements reminder.Repository
type InMemoryReminderStore struct {
	mu      sync.RWMutex
	entries []*reminder.ReminderEntry
}

// NewInMemoryReminderStore creates a new in-memory reminder history store
func NewInMemoryReminderStore() *InMemoryReminderStore {
	return &InMemoryReminderStore{}
}

func (s *InMemoryReminderStore) Append(ctx context.Context, entry *reminder.ReminderEntry) error {
	if entry == nil {
		return ierr.NewError("reminder entry cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *InMemoryReminderStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*reminder.ReminderEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*reminder.ReminderEntry
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
		return result[i].Level < result[j].Level
	})
	return result, nil
}

// Clear removes all entries from the store
func (s *InMemoryReminderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
