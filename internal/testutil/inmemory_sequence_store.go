package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fakturo/fakturo/internal/domain/numbering"
	ierr "github.com/fakturo/fakturo/internal/errors"
	"github.com/fakturo/fakturo/internal/types"
)

// InMemorySequenceStore implements numbering.Repository. The increment path
// mimics a row-locked read-modify-write: the mutex makes the version check
// and write atomic, so concurrent increments against the same snapshot
// conflict exactly like they would against a transactional store.
type InMemorySequenceStore struct {
	mu        sync.Mutex
	sequences map[string]*numbering.NumberSequence
}

// NewInMemorySequenceStore creates a new in-memory number sequence store
func NewInMemorySequenceStore() *InMemorySequenceStore {
	return &InMemorySequenceStore{
		sequences: make(map[string]*numbering.NumberSequence),
	}
}

func sequenceKey(companyID string, documentType types.DocumentType) string {
	return fmt.Sprintf("%s/%s", companyID, documentType)
}

func copySequence(seq *numbering.NumberSequence) *numbering.NumberSequence {
	cp := *seq
	return &cp
}

func (s *InMemorySequenceStore) GetOrCreate(ctx context.Context, documentType types.DocumentType, format string) (*numbering.NumberSequence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	companyID := types.GetCompanyID(ctx)
	key := sequenceKey(companyID, documentType)

	if seq, exists := s.sequences[key]; exists {
		return copySequence(seq), nil
	}

	now := time.Now().UTC()
	seq := &numbering.NumberSequence{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SEQUENCE),
		CompanyID:    companyID,
		DocumentType: documentType,
		Format:       format,
		NextCounter:  1,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.sequences[key] = seq
	return copySequence(seq), nil
}

func (s *InMemorySequenceStore) Increment(ctx context.Context, seq *numbering.NumberSequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sequenceKey(seq.CompanyID, seq.DocumentType)
	stored, exists := s.sequences[key]
	if !exists {
		return ierr.NewError("number sequence not found").
			WithReportableDetails(map[string]any{
				"document_type": seq.DocumentType,
			}).
			Mark(ierr.ErrNotFound)
	}

	if stored.Version != seq.Version {
		return ierr.NewError("number sequence version conflict").
			WithReportableDetails(map[string]any{
				"document_type":    seq.DocumentType,
				"expected_version": seq.Version,
				"stored_version":   stored.Version,
			}).
			Mark(ierr.ErrConcurrencyConflict)
	}

	stored.NextCounter++
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

// Clear removes all sequences from the store
func (s *InMemorySequenceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences = make(map[string]*numbering.NumberSequence)
}
