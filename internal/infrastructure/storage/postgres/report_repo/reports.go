// Package report_repo provides the PostgreSQL row projections for the report engine.
// Joins are LEFT so rows with missing references still appear with empty names.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bookstock/internal/domain/reports"
	"bookstock/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func (r *ReportRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func timeBound(q squirrel.SelectBuilder, col string, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{col: *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{col: *to})
	}
	return q
}

// PurchaseRows fetches purchases joined with items and students.
func (r *ReportRepo) PurchaseRows(ctx context.Context, from, to *time.Time) ([]reports.PurchaseRow, error) {
	q := r.builder().
		Select(
			"p.id AS purchase_id",
			"p.student_id",
			"COALESCE(s.name, '') AS student_name",
			"p.item_id",
			"COALESCE(i.name, '') AS item_name",
			"COALESCE(i.class_level, '') AS class_level",
			"COALESCE(i.subject, '') AS subject",
			"p.quantity",
			"p.unit_price",
			"COALESCE(i.unit_cost, 0) AS unit_cost",
			"p.total_amount",
			"p.created_at",
		).
		From("doc_purchases p").
		LeftJoin("cat_items i ON i.id = p.item_id").
		LeftJoin("cat_students s ON s.id = p.student_id")

	q = timeBound(q, "p.created_at", from, to)
	q = q.OrderBy("p.created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.PurchaseRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("purchase rows: %w", err)
	}

	return rows, nil
}

// ItemRows fetches the inventory projection of all live items.
func (r *ReportRepo) ItemRows(ctx context.Context) ([]reports.ItemRow, error) {
	q := r.builder().
		Select(
			"id AS item_id",
			"name",
			"class_level",
			"subject",
			"supplier_name",
			"unit_price",
			"stock_quantity",
			"min_stock",
		).
		From("cat_items").
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.ItemRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("item rows: %w", err)
	}

	return rows, nil
}

// SupplierRows fetches all live suppliers.
func (r *ReportRepo) SupplierRows(ctx context.Context) ([]reports.SupplierRow, error) {
	q := r.builder().
		Select("id AS supplier_id", "name").
		From("cat_suppliers").
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.SupplierRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("supplier rows: %w", err)
	}

	return rows, nil
}

// SupplyOrderRows fetches the reporting projection of supply orders.
func (r *ReportRepo) SupplyOrderRows(ctx context.Context, from, to *time.Time) ([]reports.SupplyOrderRow, error) {
	q := r.builder().
		Select("id AS order_id", "supplier_id", "status", "total_amount", "ordered_at").
		From("doc_supply_orders")

	q = timeBound(q, "ordered_at", from, to)
	q = q.OrderBy("ordered_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.SupplyOrderRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("supply order rows: %w", err)
	}

	return rows, nil
}

// PaymentRows fetches the reporting projection of supplier payments.
func (r *ReportRepo) PaymentRows(ctx context.Context, from, to *time.Time) ([]reports.PaymentRow, error) {
	q := r.builder().
		Select("supplier_id", "amount", "paid_at").
		From("doc_supplier_payments")

	q = timeBound(q, "paid_at", from, to)
	q = q.OrderBy("paid_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.PaymentRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("payment rows: %w", err)
	}

	return rows, nil
}

// StudentRows fetches all live students.
func (r *ReportRepo) StudentRows(ctx context.Context) ([]reports.StudentRow, error) {
	q := r.builder().
		Select("id AS student_id", "name", "class_level").
		From("cat_students").
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.StudentRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("student rows: %w", err)
	}

	return rows, nil
}
