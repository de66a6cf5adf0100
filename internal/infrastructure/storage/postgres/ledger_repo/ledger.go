// Package ledger_repo provides the PostgreSQL implementation of the stock ledger.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/ledger"
	"bookstock/internal/infrastructure/storage/postgres"
)

const ledgerTable = "reg_stock_ledger"

// LedgerRepo implements ledger.Repository. The table is append-only:
// no UPDATE or DELETE statements exist here.
type LedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ ledger.Repository = (*LedgerRepo)(nil)

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts a new ledger entry.
func (r *LedgerRepo) Append(ctx context.Context, entry *entity.StockEntry) error {
	q := r.builder.Insert(ledgerTable).
		Columns("id", "item_id", "delta", "change_type", "reason", "created_at").
		Values(entry.ID, entry.ItemID, entry.Delta, entry.ChangeType, entry.Reason, entry.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}

// List retrieves entries matching the filter, newest first.
func (r *LedgerRepo) List(ctx context.Context, f ledger.Filter) ([]*entity.StockEntry, error) {
	q := r.builder.Select("id", "item_id", "delta", "change_type", "reason", "created_at").
		From(ledgerTable)

	if f.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *f.ItemID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	if f.ChangeType != nil {
		q = q.Where(squirrel.Eq{"change_type": *f.ChangeType})
	}

	q = q.OrderBy("created_at DESC", "id DESC")

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*entity.StockEntry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}

	return entries, nil
}

// SumByItem returns the sum of deltas for an item.
func (r *LedgerRepo) SumByItem(ctx context.Context, itemID id.ID) (int, error) {
	sql := `SELECT COALESCE(SUM(delta), 0) FROM reg_stock_ledger WHERE item_id = $1`

	var sum int
	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, itemID).Scan(&sum)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}

	return sum, nil
}

// CountByItem returns the number of entries for an item.
func (r *LedgerRepo) CountByItem(ctx context.Context, itemID id.ID) (int64, error) {
	sql := `SELECT COUNT(*) FROM reg_stock_ledger WHERE item_id = $1`

	var count int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, itemID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ledger: %w", err)
	}

	return count, nil
}
