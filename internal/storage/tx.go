package storage

import "context"

// TxManager wraps multi-repository mutations in a transaction. If fn
// returns an error the entire mutation rolls back; partial application
// (e.g. a Storno invoice created without the original marked cancelled) is
// a correctness violation.
//
// Implementations backed by a relational store are expected to provide
// row-level locking for the duration of fn, so concurrent payment writes
// never observe a stale remaining balance.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
