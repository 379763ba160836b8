package numbering

import (
	"context"

	"github.com/fakturo/fakturo/internal/types"
)

// Repository provides access to number sequence storage. The increment path
// must behave like a row-locked transactional read-modify-write: two
// concurrent callers must never both succeed against the same sequence
// state.
type Repository interface {
	// GetOrCreate returns the sequence for the tenant in context and the
	// given document type, creating it with the format template and a
	// counter of 1 if it does not exist yet.
	GetOrCreate(ctx context.Context, documentType types.DocumentType, format string) (*NumberSequence, error)
	// Increment advances the counter using compare-and-swap on Version.
	// A stale version fails with a concurrency conflict.
	Increment(ctx context.Context, seq *NumberSequence) error
}
