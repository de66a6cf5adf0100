package handlers

import (
	"github.com/gin-gonic/gin"

	"bookstock/internal/domain/procurement"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// SupplyOrderHandler serves supply order and supplier payment endpoints.
type SupplyOrderHandler struct {
	*BaseHandler
	service *procurement.Service
}

// NewSupplyOrderHandler creates the supply order handler.
func NewSupplyOrderHandler(base *BaseHandler, service *procurement.Service) *SupplyOrderHandler {
	return &SupplyOrderHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /supply-orders.
func (h *SupplyOrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSupplyOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	params, err := req.ToParams()
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.service.CreateOrder(ctx, params)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, order)
}

// Get handles GET /supply-orders/:id.
func (h *SupplyOrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.GetOrder(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// List handles GET /supply-orders with filters.
func (h *SupplyOrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := procurement.OrderFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	supplierID, err := parseOptionalID(c, "supplierId")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.SupplierID = supplierID

	if val := c.Query("status"); val != "" {
		status := procurement.OrderStatus(val)
		filter.Status = &status
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.From = from
	filter.To = to

	orders, err := h.service.ListOrders(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      orders,
		TotalCount: int64(len(orders)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Receive handles POST /supply-orders/:id/receive.
// Posts each line into stock and marks the order received.
func (h *SupplyOrderHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.ReceiveOrder(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// Cancel handles POST /supply-orders/:id/cancel.
func (h *SupplyOrderHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.service.CancelOrder(ctx, orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// RecordPayment handles POST /supplier-payments.
func (h *SupplyOrderHandler) RecordPayment(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	params, err := req.ToParams()
	if err != nil {
		h.Error(c, err)
		return
	}

	payment, err := h.service.RecordPayment(ctx, params)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, payment)
}

// ListPayments handles GET /supplier-payments.
func (h *SupplyOrderHandler) ListPayments(c *gin.Context) {
	ctx := c.Request.Context()

	filter := procurement.PaymentFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	supplierID, err := parseOptionalID(c, "supplierId")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.SupplierID = supplierID

	from, to, err := parseTimeRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.From = from
	filter.To = to

	payments, err := h.service.ListPayments(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      payments,
		TotalCount: int64(len(payments)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}
