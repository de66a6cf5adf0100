package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/sales"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler serves student purchase endpoints.
type PurchaseHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewPurchaseHandler creates the purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *sales.Service) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /purchases.
func (h *PurchaseHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	params, err := req.ToParams()
	if err != nil {
		h.Error(c, err)
		return
	}

	purchase, err := h.service.CreatePurchase(ctx, params)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedData(c, purchase)
}

// Get handles GET /purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	purchase, err := h.service.GetPurchase(ctx, purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, purchase)
}

// List handles GET /purchases with filters.
func (h *PurchaseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := sales.PurchaseFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	studentID, err := parseOptionalID(c, "studentId")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.StudentID = studentID

	itemID, err := parseOptionalID(c, "itemId")
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.ItemID = itemID

	from, to, err := parseTimeRange(c)
	if err != nil {
		h.Error(c, err)
		return
	}
	filter.From = from
	filter.To = to

	purchases, err := h.service.ListPurchases(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      purchases,
		TotalCount: int64(len(purchases)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Update handles PUT /purchases/:id.
func (h *PurchaseHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	params, err := req.ToParams(purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	purchase, err := h.service.UpdatePurchase(ctx, params)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, purchase)
}

// Delete handles DELETE /purchases/:id. Restores stock.
func (h *PurchaseHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePurchase(ctx, purchaseID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// parseOptionalID reads a query parameter as an ID. Absent means nil.
func parseOptionalID(c *gin.Context, key string) (*id.ID, error) {
	val := c.Query(key)
	if val == "" {
		return nil, nil
	}
	parsed, err := id.Parse(val)
	if err != nil {
		return nil, apperror.NewValidation("invalid " + key + " format")
	}
	return &parsed, nil
}

// parseTimeRange reads from/to query parameters as RFC3339 timestamps.
func parseTimeRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if val := c.Query("from"); val != "" {
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return nil, nil, apperror.NewValidation("invalid from timestamp (RFC3339 expected)")
		}
		from = &t
	}
	if val := c.Query("to"); val != "" {
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return nil, nil, apperror.NewValidation("invalid to timestamp (RFC3339 expected)")
		}
		to = &t
	}
	return from, to, nil
}
