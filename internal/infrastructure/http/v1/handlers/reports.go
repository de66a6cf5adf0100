package handlers

import (
	"github.com/gin-gonic/gin"

	"bookstock/internal/domain/reports"
)

// ReportHandler serves the reporting endpoints.
type ReportHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportHandler creates the report handler.
func NewReportHandler(base *BaseHandler, service *reports.Service) *ReportHandler {
	return &ReportHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Sales handles GET /reports/sales.
func (h *ReportHandler) Sales(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, err := parseTimeRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	filter := reports.SalesFilter{
		From:       from,
		To:         to,
		ClassLevel: c.Query("classLevel"),
		Subject:    c.Query("subject"),
	}

	studentID, err := parseOptionalID(c, "studentId")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.StudentID = studentID

	report, err := h.service.Sales(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Inventory handles GET /reports/inventory.
func (h *ReportHandler) Inventory(c *gin.Context) {
	ctx := c.Request.Context()

	filter := reports.InventoryFilter{
		ClassLevel:   c.Query("classLevel"),
		Subject:      c.Query("subject"),
		SupplierName: c.Query("supplierName"),
	}

	report, err := h.service.Inventory(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Suppliers handles GET /reports/suppliers.
func (h *ReportHandler) Suppliers(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, err := parseTimeRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.Suppliers(ctx, reports.SupplierFilter{From: from, To: to})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Finance handles GET /reports/finance.
func (h *ReportHandler) Finance(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, err := parseTimeRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.Finance(ctx, reports.FinanceFilter{From: from, To: to})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Students handles GET /reports/students.
func (h *ReportHandler) Students(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, err := parseTimeRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.Students(ctx, reports.StudentFilter{
		From:       from,
		To:         to,
		ClassLevel: c.Query("classLevel"),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}
