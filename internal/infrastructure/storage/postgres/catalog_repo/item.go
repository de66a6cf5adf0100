package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			itemTable,
			postgres.ExtractDBColumns[item.Item](),
			func() *item.Item { return &item.Item{} },
		),
	}
}

// AdjustStock atomically applies delta to stock quantity. The WHERE guard
// refuses any change that would drive the quantity negative, so concurrent
// adjustments can never oversell. This must be a single conditional UPDATE,
// never a read-then-write.
func (r *ItemRepo) AdjustStock(ctx context.Context, itemID id.ID, delta int) error {
	sql := `
		UPDATE cat_items
		SET stock_quantity = stock_quantity + $2,
		    version = version + 1
		WHERE id = $1 AND stock_quantity + $2 >= 0
	`

	querier := r.querier(ctx)
	result, err := querier.Exec(ctx, sql, itemID, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	// Guard rejected or item is missing. Read current stock to tell which.
	var available int
	err = querier.QueryRow(ctx, "SELECT stock_quantity FROM cat_items WHERE id = $1", itemID).Scan(&available)
	if err == pgx.ErrNoRows {
		return apperror.NewNotFound(itemTable, itemID.String())
	}
	if err != nil {
		return fmt.Errorf("read stock: %w", err)
	}

	return apperror.NewInsufficientStock(itemID.String(), -delta, available)
}

// FindLowStock retrieves items with stock at or below their minimum.
func (r *ItemRepo) FindLowStock(ctx context.Context, f domain.ListFilter) (domain.ListResult[*item.Item], error) {
	result := domain.ListResult[*item.Item]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Expr("stock_quantity <= min_stock")).
		OrderBy("stock_quantity ASC", "name ASC")

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	var items []*item.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return result, fmt.Errorf("find low stock: %w", err)
	}
	result.Items = items
	result.TotalCount = int64(len(items))

	return result, nil
}
