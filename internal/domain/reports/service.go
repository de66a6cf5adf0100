package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
)

// Service generates reports by aggregating repository row projections.
// Keeping the math in Go (rather than SQL) keeps every figure testable
// against in-memory data and avoids double counting across groupings:
// each grouping is derived from the same single row fetch.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return apperror.NewValidation("from must not be after to").
			WithDetail("from", from).
			WithDetail("to", to)
	}
	return nil
}

// Sales generates the sales report for a period.
func (s *Service) Sales(ctx context.Context, filter SalesFilter) (*SalesReport, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	rows, err := s.repo.PurchaseRows(ctx, filter.From, filter.To)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("sales rows: %w", err))
	}

	report := &SalesReport{
		From:              filter.From,
		To:                filter.To,
		TotalSales:        types.Zero(),
		TotalProfit:       types.Zero(),
		AverageOrderValue: types.Zero(),
		ByItem:            []SalesByItem{},
		ByStudent:         []SalesByStudent{},
		ByMonth:           []SalesByMonth{},
	}

	byItem := map[id.ID]*SalesByItem{}
	byStudent := map[id.ID]*SalesByStudent{}
	byMonth := map[string]*SalesByMonth{}

	for _, row := range rows {
		if filter.ClassLevel != "" && row.ClassLevel != filter.ClassLevel {
			continue
		}
		if filter.Subject != "" && row.Subject != filter.Subject {
			continue
		}
		if filter.StudentID != nil && row.StudentID != *filter.StudentID {
			continue
		}

		qty := types.NewMoneyFromInt(int64(row.Quantity))
		profit := row.UnitPrice.Sub(row.UnitCost).Mul(qty)

		report.TotalSales = report.TotalSales.Add(row.TotalAmount)
		report.TotalQuantity += row.Quantity
		report.TotalProfit = report.TotalProfit.Add(profit)
		report.PurchaseCount++

		item, ok := byItem[row.ItemID]
		if !ok {
			item = &SalesByItem{
				ItemID:   row.ItemID,
				ItemName: row.ItemName,
				Revenue:  types.Zero(),
				Profit:   types.Zero(),
			}
			byItem[row.ItemID] = item
		}
		item.Quantity += row.Quantity
		item.Revenue = item.Revenue.Add(row.TotalAmount)
		item.Profit = item.Profit.Add(profit)

		st, ok := byStudent[row.StudentID]
		if !ok {
			st = &SalesByStudent{
				StudentID:   row.StudentID,
				StudentName: row.StudentName,
				Revenue:     types.Zero(),
			}
			byStudent[row.StudentID] = st
		}
		st.Quantity += row.Quantity
		st.Revenue = st.Revenue.Add(row.TotalAmount)
		st.PurchaseCount++

		key := row.CreatedAt.UTC().Format("2006-01")
		month, ok := byMonth[key]
		if !ok {
			month = &SalesByMonth{Month: key, Revenue: types.Zero(), Profit: types.Zero()}
			byMonth[key] = month
		}
		month.Quantity += row.Quantity
		month.Revenue = month.Revenue.Add(row.TotalAmount)
		month.Profit = month.Profit.Add(profit)
		month.PurchaseCount++
	}

	if report.PurchaseCount > 0 {
		report.AverageOrderValue = report.TotalSales.
			Div(types.NewMoneyFromInt(int64(report.PurchaseCount))).Round(2)
	}

	for _, v := range byItem {
		report.ByItem = append(report.ByItem, *v)
	}
	sort.Slice(report.ByItem, func(i, j int) bool {
		if !report.ByItem[i].Revenue.Equal(report.ByItem[j].Revenue) {
			return report.ByItem[i].Revenue.GreaterThan(report.ByItem[j].Revenue)
		}
		return report.ByItem[i].ItemName < report.ByItem[j].ItemName
	})

	for _, v := range byStudent {
		report.ByStudent = append(report.ByStudent, *v)
	}
	sort.Slice(report.ByStudent, func(i, j int) bool {
		if !report.ByStudent[i].Revenue.Equal(report.ByStudent[j].Revenue) {
			return report.ByStudent[i].Revenue.GreaterThan(report.ByStudent[j].Revenue)
		}
		return report.ByStudent[i].StudentName < report.ByStudent[j].StudentName
	})

	for _, v := range byMonth {
		report.ByMonth = append(report.ByMonth, *v)
	}
	// chronological: YYYY-MM keys sort lexically
	sort.Slice(report.ByMonth, func(i, j int) bool {
		return report.ByMonth[i].Month < report.ByMonth[j].Month
	})

	return report, nil
}

// Inventory generates the current-stock snapshot report.
func (s *Service) Inventory(ctx context.Context, filter InventoryFilter) (*InventoryReport, error) {
	rows, err := s.repo.ItemRows(ctx)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("item rows: %w", err))
	}

	report := &InventoryReport{
		TotalValue:      types.Zero(),
		LowStockItems:   []InventoryItem{},
		OutOfStockItems: []InventoryItem{},
		ByClassLevel:    []InventoryGroup{},
		BySubject:       []InventoryGroup{},
	}

	byClass := map[string]*InventoryGroup{}
	bySubject := map[string]*InventoryGroup{}

	for _, row := range rows {
		if filter.ClassLevel != "" && row.ClassLevel != filter.ClassLevel {
			continue
		}
		if filter.Subject != "" && row.Subject != filter.Subject {
			continue
		}
		if filter.SupplierName != "" && row.SupplierName != filter.SupplierName {
			continue
		}

		value := row.UnitPrice.Mul(types.NewMoneyFromInt(int64(row.StockQuantity)))

		report.TotalItems++
		report.TotalStock += row.StockQuantity
		report.TotalValue = report.TotalValue.Add(value)

		flagged := InventoryItem{
			ItemID:        row.ItemID,
			ItemName:      row.Name,
			StockQuantity: row.StockQuantity,
			MinStock:      row.MinStock,
		}
		// An out-of-stock item is also low on stock, so it shows up
		// in both lists.
		if row.StockQuantity <= LowStockThreshold {
			report.LowStockCount++
			report.LowStockItems = append(report.LowStockItems, flagged)
		}
		if row.StockQuantity == 0 {
			report.OutOfStockCount++
			report.OutOfStockItems = append(report.OutOfStockItems, flagged)
		}

		addToGroup(byClass, row.ClassLevel, row.StockQuantity, value)
		addToGroup(bySubject, row.Subject, row.StockQuantity, value)
	}

	for _, g := range byClass {
		report.ByClassLevel = append(report.ByClassLevel, *g)
	}
	sort.Slice(report.ByClassLevel, func(i, j int) bool {
		return report.ByClassLevel[i].Key < report.ByClassLevel[j].Key
	})

	for _, g := range bySubject {
		report.BySubject = append(report.BySubject, *g)
	}
	sort.Slice(report.BySubject, func(i, j int) bool {
		return report.BySubject[i].Key < report.BySubject[j].Key
	})

	sort.Slice(report.LowStockItems, func(i, j int) bool {
		return report.LowStockItems[i].ItemName < report.LowStockItems[j].ItemName
	})
	sort.Slice(report.OutOfStockItems, func(i, j int) bool {
		return report.OutOfStockItems[i].ItemName < report.OutOfStockItems[j].ItemName
	})

	return report, nil
}

func addToGroup(groups map[string]*InventoryGroup, key string, stock int, value types.Money) {
	group, ok := groups[key]
	if !ok {
		group = &InventoryGroup{Key: key, TotalValue: types.Zero()}
		groups[key] = group
	}
	group.ItemCount++
	group.TotalStock += stock
	group.TotalValue = group.TotalValue.Add(value)
}

// Suppliers generates per-supplier order and payment aggregates.
func (s *Service) Suppliers(ctx context.Context, filter SupplierFilter) (*SupplierReport, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	suppliers, err := s.repo.SupplierRows(ctx)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("supplier rows: %w", err))
	}
	orders, err := s.repo.SupplyOrderRows(ctx, filter.From, filter.To)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("order rows: %w", err))
	}
	payments, err := s.repo.PaymentRows(ctx, filter.From, filter.To)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("payment rows: %w", err))
	}

	summaries := make(map[id.ID]*SupplierSummary, len(suppliers))
	for _, sup := range suppliers {
		summaries[sup.SupplierID] = &SupplierSummary{
			SupplierID:      sup.SupplierID,
			Name:            sup.Name,
			TotalOrderValue: types.Zero(),
			TotalPaid:       types.Zero(),
			Outstanding:     types.Zero(),
		}
	}

	for _, order := range orders {
		summary, ok := summaries[order.SupplierID]
		if !ok {
			// order references a deleted supplier; contribute nothing
			continue
		}
		summary.TotalOrders++
		if order.Status == "received" {
			summary.ReceivedOrders++
		}
		// Pending orders are committed liability too; only cancelled
		// ones carry no value.
		if order.Status != "cancelled" {
			summary.TotalOrderValue = summary.TotalOrderValue.Add(order.TotalAmount)
		}
	}

	for _, payment := range payments {
		if summary, ok := summaries[payment.SupplierID]; ok {
			summary.TotalPaid = summary.TotalPaid.Add(payment.Amount)
		}
	}

	report := &SupplierReport{Suppliers: make([]SupplierSummary, 0, len(summaries))}
	for _, summary := range summaries {
		summary.Outstanding = summary.TotalOrderValue.Sub(summary.TotalPaid)
		if summary.TotalOrders > 0 {
			rate := float64(summary.ReceivedOrders) / float64(summary.TotalOrders) * 100
			summary.OnTimeRate = math.Round(rate*100) / 100
		}
		summary.Rating = supplierRating(summary.OnTimeRate)
		report.Suppliers = append(report.Suppliers, *summary)
	}

	sort.Slice(report.Suppliers, func(i, j int) bool {
		return report.Suppliers[i].Name < report.Suppliers[j].Name
	})

	return report, nil
}

// supplierRating maps the on-time rate to a [3.5, 5.0] score with one
// decimal. Placeholder heuristic until real delivery metrics exist.
func supplierRating(onTimeRate float64) float64 {
	rating := 3.5 + onTimeRate/100*1.5
	if rating > 5 {
		rating = 5
	}
	return math.Round(rating*10) / 10
}

// Finance generates the profit and loss summary for a period.
func (s *Service) Finance(ctx context.Context, filter FinanceFilter) (*FinanceReport, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	purchases, err := s.repo.PurchaseRows(ctx, filter.From, filter.To)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("purchase rows: %w", err))
	}
	orders, err := s.repo.SupplyOrderRows(ctx, filter.From, filter.To)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("order rows: %w", err))
	}

	report := &FinanceReport{
		Revenue:           types.Zero(),
		COGS:              types.Zero(),
		OperatingExpenses: types.Zero(),
		Expenses:          []ExpenseLine{},
	}

	for _, row := range purchases {
		report.Revenue = report.Revenue.Add(row.TotalAmount)
		report.COGS = report.COGS.Add(
			row.UnitCost.Mul(types.NewMoneyFromInt(int64(row.Quantity))))
	}

	for _, order := range orders {
		if order.Status == "received" {
			report.OperatingExpenses = report.OperatingExpenses.Add(order.TotalAmount)
		}
	}

	report.GrossProfit = report.Revenue.Sub(report.COGS)
	report.NetProfit = report.GrossProfit.Sub(report.OperatingExpenses)
	report.ProfitMargin = types.Percent(report.NetProfit, report.Revenue).InexactFloat64()

	for _, line := range []ExpenseLine{
		{Category: "cost_of_goods_sold", Amount: report.COGS},
		{Category: "supply_orders", Amount: report.OperatingExpenses},
	} {
		if line.Amount.IsZero() {
			continue
		}
		line.PercentOfRevenue = types.Percent(line.Amount, report.Revenue).InexactFloat64()
		report.Expenses = append(report.Expenses, line)
	}

	return report, nil
}

// Students generates the per-student activity report.
func (s *Service) Students(ctx context.Context, filter StudentFilter) (*StudentsReport, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	students, err := s.repo.StudentRows(ctx)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("student rows: %w", err))
	}
	purchases, err := s.repo.PurchaseRows(ctx, filter.From, filter.To)
	if err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("purchase rows: %w", err))
	}

	report := &StudentsReport{
		Students:     []StudentActivity{},
		ByClassLevel: []StudentGroup{},
	}

	activity := map[id.ID]*StudentActivity{}
	for _, st := range students {
		if filter.ClassLevel != "" && st.ClassLevel != filter.ClassLevel {
			continue
		}
		activity[st.StudentID] = &StudentActivity{
			StudentID:  st.StudentID,
			Name:       st.Name,
			ClassLevel: st.ClassLevel,
			TotalSpent: types.Zero(),
		}
	}
	report.TotalStudents = len(activity)

	for _, row := range purchases {
		st, ok := activity[row.StudentID]
		if !ok {
			continue
		}
		st.TotalSpent = st.TotalSpent.Add(row.TotalAmount)
		st.TotalBooks += row.Quantity
		st.PurchaseCount++
	}

	byClass := map[string]*StudentGroup{}
	for _, st := range activity {
		if st.PurchaseCount > 0 {
			report.ActiveStudents++
		}
		report.Students = append(report.Students, *st)

		group, ok := byClass[st.ClassLevel]
		if !ok {
			group = &StudentGroup{ClassLevel: st.ClassLevel, TotalSpent: types.Zero()}
			byClass[st.ClassLevel] = group
		}
		group.StudentCount++
		group.TotalSpent = group.TotalSpent.Add(st.TotalSpent)
	}

	sort.Slice(report.Students, func(i, j int) bool {
		if !report.Students[i].TotalSpent.Equal(report.Students[j].TotalSpent) {
			return report.Students[i].TotalSpent.GreaterThan(report.Students[j].TotalSpent)
		}
		return report.Students[i].Name < report.Students[j].Name
	})

	for _, g := range byClass {
		report.ByClassLevel = append(report.ByClassLevel, *g)
	}
	sort.Slice(report.ByClassLevel, func(i, j int) bool {
		return report.ByClassLevel[i].ClassLevel < report.ByClassLevel[j].ClassLevel
	})

	return report, nil
}
