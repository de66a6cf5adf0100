// Package procurement_repo provides the PostgreSQL implementation of
// supply order and supplier payment persistence.
package procurement_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/procurement"
	"bookstock/internal/infrastructure/storage/postgres"
)

const (
	orderTable   = "doc_supply_orders"
	lineTable    = "doc_supply_order_lines"
	paymentTable = "doc_supplier_payments"
)

// ProcurementRepo implements procurement.Repository.
type ProcurementRepo struct {
	txManager *postgres.TxManager
	orderCols []string
}

var _ procurement.Repository = (*ProcurementRepo)(nil)

// NewProcurementRepo creates a new procurement repository.
func NewProcurementRepo(txManager *postgres.TxManager) *ProcurementRepo {
	return &ProcurementRepo{
		txManager: txManager,
		orderCols: postgres.ExtractDBColumns[procurement.SupplyOrder](),
	}
}

func (r *ProcurementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// CreateOrder inserts an order with its lines.
func (r *ProcurementRepo) CreateOrder(ctx context.Context, order *procurement.SupplyOrder) error {
	data := postgres.StructToMap(order)

	filteredData := make(map[string]any, len(r.orderCols))
	for _, col := range r.orderCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(orderTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(order.Lines) == 0 {
		return nil
	}

	lineQ := r.builder().Insert(lineTable).
		Columns("id", "order_id", "item_id", "quantity", "unit_cost")
	for _, line := range order.Lines {
		lineQ = lineQ.Values(line.ID, line.OrderID, line.ItemID, line.Quantity, line.UnitCost)
	}

	lineSQL, lineArgs, err := lineQ.ToSql()
	if err != nil {
		return fmt.Errorf("build lines insert: %w", err)
	}

	if _, err := querier.Exec(ctx, lineSQL, lineArgs...); err != nil {
		return fmt.Errorf("insert order lines: %w", err)
	}

	return nil
}

// GetOrder retrieves an order with lines.
func (r *ProcurementRepo) GetOrder(ctx context.Context, orderID id.ID) (*procurement.SupplyOrder, error) {
	order := &procurement.SupplyOrder{}

	q := r.builder().
		Select(r.orderCols...).
		From(orderTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supply_order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	lines, err := r.loadLines(ctx, []id.ID{orderID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[orderID]

	return order, nil
}

// UpdateOrderStatus transitions an order. The caller bumps the version
// before calling, so the optimistic check matches against version-1.
func (r *ProcurementRepo) UpdateOrderStatus(ctx context.Context, order *procurement.SupplyOrder) error {
	q := r.builder().
		Update(orderTable).
		Set("status", order.Status).
		Set("received_at", order.ReceivedAt).
		Set("version", order.Version).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": order.ID}).
		Where(squirrel.Eq{"version": order.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("supply_order", order.ID)
	}

	return nil
}

// ListOrders retrieves orders matching the filter, newest first.
func (r *ProcurementRepo) ListOrders(ctx context.Context, f procurement.OrderFilter) ([]*procurement.SupplyOrder, error) {
	q := r.builder().
		Select(r.orderCols...).
		From(orderTable)

	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"ordered_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"ordered_at": *f.To})
	}

	q = q.OrderBy("ordered_at DESC", "id DESC")

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

	var orders []*procurement.SupplyOrder
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]id.ID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Lines = lines[o.ID]
	}

	return orders, nil
}

// loadLines fetches lines for the given orders, grouped by order ID.
func (r *ProcurementRepo) loadLines(ctx context.Context, orderIDs []id.ID) (map[id.ID][]procurement.SupplyOrderLine, error) {
	q := r.builder().
		Select("id", "order_id", "item_id", "quantity", "unit_cost").
		From(lineTable).
		Where(squirrel.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var lines []procurement.SupplyOrderLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}

	grouped := make(map[id.ID][]procurement.SupplyOrderLine, len(orderIDs))
	for _, line := range lines {
		grouped[line.OrderID] = append(grouped[line.OrderID], line)
	}

	return grouped, nil
}

// CreatePayment records a supplier payment.
func (r *ProcurementRepo) CreatePayment(ctx context.Context, payment *procurement.SupplierPayment) error {
	q := r.builder().Insert(paymentTable).
		Columns("id", "supplier_id", "amount", "paid_at", "method", "reference").
		Values(payment.ID, payment.SupplierID, payment.Amount, payment.PaidAt, payment.Method, payment.Reference)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// ListPayments retrieves payments matching the filter, newest first.
func (r *ProcurementRepo) ListPayments(ctx context.Context, f procurement.PaymentFilter) ([]*procurement.SupplierPayment, error) {
	q := r.builder().
		Select("id", "supplier_id", "amount", "paid_at", "method", "reference").
		From(paymentTable)

	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"paid_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"paid_at": *f.To})
	}

	q = q.OrderBy("paid_at DESC", "id DESC")

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

	var payments []*procurement.SupplierPayment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return payments, nil
}
