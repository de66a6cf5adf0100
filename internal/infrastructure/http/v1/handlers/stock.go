package handlers

import (
	"github.com/gin-gonic/gin"

	"bookstock/internal/core/entity"
	"bookstock/internal/domain/ledger"
	"bookstock/internal/domain/sales"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// StockHandler serves stock adjustment and ledger endpoints.
type StockHandler struct {
	*BaseHandler
	sales  *sales.Service
	ledger *ledger.Service
}

// NewStockHandler creates the stock handler.
func NewStockHandler(base *BaseHandler, salesService *sales.Service, ledgerService *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		sales:       salesService,
		ledger:      ledgerService,
	}
}

// Adjust handles POST /stock/adjust for manual corrections.
func (h *StockHandler) Adjust(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	params, err := req.ToParams()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.sales.AdjustStock(ctx, params); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock adjusted")
}

// Ledger handles GET /stock/ledger with filters.
func (h *StockHandler) Ledger(c *gin.Context) {
	ctx := c.Request.Context()

	filter := ledger.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

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

	if val := c.Query("changeType"); val != "" {
		ct := entity.ChangeType(val)
		filter.ChangeType = &ct
	}

	entries, err := h.ledger.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      entries,
		TotalCount: int64(len(entries)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Reconcile handles GET /stock/reconcile/:itemId.
func (h *StockHandler) Reconcile(c *gin.Context) {
	ctx := c.Request.Context()

	itemID, ok := h.ParseID(c, "itemId")
	if !ok {
		return
	}

	result, err := h.ledger.Reconcile(ctx, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
