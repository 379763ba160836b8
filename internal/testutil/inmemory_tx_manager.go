package testutil

import (
	"context"

	"github.com/fakturo/fakturo/internal/storage"
)

// InMemoryTxManager implements storage.TxManager for tests. The in-memory
// stores apply writes immediately, so fn runs without rollback support;
// tests that exercise rollback semantics assert on the error path instead.
type InMemoryTxManager struct{}

// NewInMemoryTxManager creates a pass-through transaction manager
func NewInMemoryTxManager() storage.TxManager {
	return &InMemoryTxManager{}
}

func (m *InMemoryTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
