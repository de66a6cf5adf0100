// Package reports provides on-demand reporting over sales, inventory,
// suppliers, finance and student activity. Reports are pure reads: they
// take no locks and never mutate state.
package reports

import (
	"time"

	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
)

// LowStockThreshold is the store policy for flagging low stock.
const LowStockThreshold = 10

// --- Sales report ---

// SalesFilter bounds and narrows the sales report.
type SalesFilter struct {
	From *time.Time
	To   *time.Time

	ClassLevel string
	Subject    string
	StudentID  *id.ID
}

// SalesReport aggregates purchases over a period.
type SalesReport struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	TotalSales        types.Money `json:"totalSales"`
	TotalQuantity     int         `json:"totalQuantity"`
	TotalProfit       types.Money `json:"totalProfit"`
	PurchaseCount     int         `json:"purchaseCount"`
	AverageOrderValue types.Money `json:"averageOrderValue"`

	ByItem    []SalesByItem    `json:"byItem"`
	ByStudent []SalesByStudent `json:"byStudent"`
	ByMonth   []SalesByMonth   `json:"byMonth"`
}

// SalesByItem is the per-item grouping of the sales report.
type SalesByItem struct {
	ItemID   id.ID       `json:"itemId"`
	ItemName string      `json:"itemName"`
	Quantity int         `json:"quantity"`
	Revenue  types.Money `json:"revenue"`
	Profit   types.Money `json:"profit"`
}

// SalesByStudent is the per-student grouping of the sales report.
type SalesByStudent struct {
	StudentID     id.ID       `json:"studentId"`
	StudentName   string      `json:"studentName"`
	Quantity      int         `json:"quantity"`
	Revenue       types.Money `json:"revenue"`
	PurchaseCount int         `json:"purchaseCount"`
}

// SalesByMonth is the calendar-month grouping, chronological by key.
type SalesByMonth struct {
	Month         string      `json:"month"` // YYYY-MM
	Quantity      int         `json:"quantity"`
	Revenue       types.Money `json:"revenue"`
	Profit        types.Money `json:"profit"`
	PurchaseCount int         `json:"purchaseCount"`
}

// --- Inventory report ---

// InventoryFilter narrows the inventory report.
type InventoryFilter struct {
	ClassLevel   string
	Subject      string
	SupplierName string
}

// InventoryReport is the current-stock snapshot.
type InventoryReport struct {
	TotalItems int         `json:"totalItems"`
	TotalStock int         `json:"totalStock"`
	TotalValue types.Money `json:"totalValue"`

	LowStockCount   int `json:"lowStockCount"`
	OutOfStockCount int `json:"outOfStockCount"`

	LowStockItems   []InventoryItem  `json:"lowStockItems"`
	OutOfStockItems []InventoryItem  `json:"outOfStockItems"`
	ByClassLevel    []InventoryGroup `json:"byClassLevel"`
	BySubject       []InventoryGroup `json:"bySubject"`
}

// InventoryItem is one flagged item in the inventory report.
type InventoryItem struct {
	ItemID        id.ID  `json:"itemId"`
	ItemName      string `json:"itemName"`
	StockQuantity int    `json:"stockQuantity"`
	MinStock      int    `json:"minStock"`
}

// InventoryGroup aggregates stock by a dimension value.
type InventoryGroup struct {
	Key        string      `json:"key"`
	ItemCount  int         `json:"itemCount"`
	TotalStock int         `json:"totalStock"`
	TotalValue types.Money `json:"totalValue"`
}

// --- Supplier report ---

// SupplierFilter bounds the supplier report.
type SupplierFilter struct {
	From *time.Time
	To   *time.Time
}

// SupplierReport aggregates orders and payments per supplier.
type SupplierReport struct {
	Suppliers []SupplierSummary `json:"suppliers"`
}

// SupplierSummary is one supplier's aggregated row.
type SupplierSummary struct {
	SupplierID id.ID  `json:"supplierId"`
	Name       string `json:"name"`

	TotalOrders     int         `json:"totalOrders"`
	ReceivedOrders  int         `json:"receivedOrders"`
	TotalOrderValue types.Money `json:"totalOrderValue"`
	TotalPaid       types.Money `json:"totalPaid"`
	Outstanding     types.Money `json:"outstanding"`

	// OnTimeRate is received orders as a percentage of all orders
	OnTimeRate float64 `json:"onTimeRate"`

	// Rating is a heuristic score in [0,5] derived from OnTimeRate.
	// Placeholder until real delivery metrics exist.
	Rating float64 `json:"rating"`
}

// --- Finance report ---

// FinanceFilter bounds the finance report.
type FinanceFilter struct {
	From *time.Time
	To   *time.Time
}

// FinanceReport is the profit and loss summary for a period.
type FinanceReport struct {
	Revenue           types.Money `json:"revenue"`
	COGS              types.Money `json:"cogs"`
	GrossProfit       types.Money `json:"grossProfit"`
	OperatingExpenses types.Money `json:"operatingExpenses"`
	NetProfit         types.Money `json:"netProfit"`

	// ProfitMargin is net profit as a percentage of revenue
	ProfitMargin float64 `json:"profitMargin"`

	Expenses []ExpenseLine `json:"expenses"`
}

// ExpenseLine is one non-zero expense category.
type ExpenseLine struct {
	Category         string      `json:"category"`
	Amount           types.Money `json:"amount"`
	PercentOfRevenue float64     `json:"percentOfRevenue"`
}

// --- Students report ---

// StudentFilter bounds and narrows the student activity report.
type StudentFilter struct {
	From *time.Time
	To   *time.Time

	ClassLevel string
}

// StudentsReport aggregates purchase activity per student.
type StudentsReport struct {
	TotalStudents  int `json:"totalStudents"`
	ActiveStudents int `json:"activeStudents"`

	Students     []StudentActivity `json:"students"`
	ByClassLevel []StudentGroup    `json:"byClassLevel"`
}

// StudentActivity is one student's aggregated purchases.
type StudentActivity struct {
	StudentID     id.ID       `json:"studentId"`
	Name          string      `json:"name"`
	ClassLevel    string      `json:"classLevel"`
	TotalSpent    types.Money `json:"totalSpent"`
	TotalBooks    int         `json:"totalBooks"`
	PurchaseCount int         `json:"purchaseCount"`
}

// StudentGroup aggregates activity by class level.
type StudentGroup struct {
	ClassLevel   string      `json:"classLevel"`
	StudentCount int         `json:"studentCount"`
	TotalSpent   types.Money `json:"totalSpent"`
}
