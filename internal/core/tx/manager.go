// Package tx holds the transaction contracts the domain services depend
// on. The postgres implementation lives in infrastructure/storage.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction. Purchases,
// order receipts and stock adjustments go through it so the document
// write and its ledger entries commit or roll back together.
type Manager interface {
	// RunInTransaction begins a transaction, runs fn with it carried in
	// the context, and commits unless fn returns an error. When the
	// context already carries a transaction the call nests via a
	// savepoint instead of opening a new one.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager adds read-only transactions for report queries that
// need a consistent snapshot without taking write locks.
type ReadOnlyManager interface {
	Manager

	// ReadOnly runs fn in a read-only transaction; writes inside fn fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
