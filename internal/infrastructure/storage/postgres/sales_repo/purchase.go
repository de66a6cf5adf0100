// Package sales_repo provides the PostgreSQL implementation of purchase persistence.
package sales_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/sales"
	"bookstock/internal/infrastructure/storage/postgres"
)

const purchaseTable = "doc_purchases"

// PurchaseRepo implements sales.Repository.
type PurchaseRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

var _ sales.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[sales.Purchase](),
	}
}

func (r *PurchaseRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *PurchaseRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(purchaseTable)
}

// Create inserts a new purchase.
func (r *PurchaseRepo) Create(ctx context.Context, p *sales.Purchase) error {
	data := postgres.StructToMap(p)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(purchaseTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	return nil
}

// GetByID retrieves a purchase by ID.
func (r *PurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (*sales.Purchase, error) {
	p := &sales.Purchase{}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": purchaseID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", purchaseID.String())
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	return p, nil
}

// GetByReceipt retrieves a purchase by receipt number.
func (r *PurchaseRepo) GetByReceipt(ctx context.Context, receipt string) (*sales.Purchase, error) {
	p := &sales.Purchase{}

	q := r.baseSelect().
		Where(squirrel.Eq{"receipt_number": receipt}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", receipt)
		}
		return nil, fmt.Errorf("get purchase by receipt: %w", err)
	}

	return p, nil
}

// Update persists a modified purchase. The caller bumps the version before
// calling, so the optimistic check matches against version-1.
func (r *PurchaseRepo) Update(ctx context.Context, p *sales.Purchase) error {
	data := postgres.StructToMap(p)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "created_at" || col == "created_by" {
			continue
		}
		if col == "version" || col == "updated_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Update(purchaseTable).
		SetMap(filteredData).
		Set("version", p.Version).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("purchase", p.ID)
	}

	return nil
}

// Delete removes the purchase row. Ledger entries stay in place.
func (r *PurchaseRepo) Delete(ctx context.Context, purchaseID id.ID) error {
	q := r.builder().
		Delete(purchaseTable).
		Where(squirrel.Eq{"id": purchaseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase", purchaseID.String())
	}

	return nil
}

func (r *PurchaseRepo) applyFilter(q squirrel.SelectBuilder, f sales.PurchaseFilter) squirrel.SelectBuilder {
	if f.StudentID != nil {
		q = q.Where(squirrel.Eq{"student_id": *f.StudentID})
	}
	if f.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *f.ItemID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *f.To})
	}
	return q
}

// List retrieves purchases matching the filter, newest first.
func (r *PurchaseRepo) List(ctx context.Context, f sales.PurchaseFilter) ([]*sales.Purchase, error) {
	q := r.applyFilter(r.baseSelect(), f).
		OrderBy("created_at DESC", "id DESC")

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

	var purchases []*sales.Purchase
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &purchases, sql, args...); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	return purchases, nil
}

// Count returns the number of purchases matching the filter.
func (r *PurchaseRepo) Count(ctx context.Context, f sales.PurchaseFilter) (int64, error) {
	q := r.applyFilter(r.builder().Select("COUNT(*)").From(purchaseTable), f)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}

	return count, nil
}
