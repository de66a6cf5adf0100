// Package ledger provides the append-only stock ledger: every change to an
// item's on-hand quantity is recorded as an immutable entry, so the current
// stock of any item can always be re-derived from history.
package ledger

import (
	"context"
	"time"

	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
)

// Filter narrows ledger queries.
type Filter struct {
	// ItemID restricts entries to one item
	ItemID *id.ID

	// From/To bound entry creation time (inclusive)
	From *time.Time
	To   *time.Time

	// ChangeType restricts to one entry kind
	ChangeType *entity.ChangeType

	// Pagination
	Limit  int
	Offset int
}

// Repository defines the interface for stock ledger persistence.
// The ledger is append-only: no update or delete operations exist.
type Repository interface {
	// Append inserts a new ledger entry.
	Append(ctx context.Context, entry *entity.StockEntry) error

	// List retrieves entries matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*entity.StockEntry, error)

	// SumByItem returns the sum of deltas for an item.
	SumByItem(ctx context.Context, itemID id.ID) (int, error)

	// CountByItem returns the number of entries for an item.
	CountByItem(ctx context.Context, itemID id.ID) (int64, error)
}
