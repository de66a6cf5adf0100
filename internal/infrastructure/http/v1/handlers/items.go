package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstock/internal/domain"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// ItemHandler extends the generic catalog handler with item-specific routes.
type ItemHandler struct {
	*CatalogHandler[*item.Item, dto.CreateItemRequest, dto.UpdateItemRequest]
	service *item.Service
}

// NewItemHandler creates the item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	catalog := NewCatalogHandler(base, CatalogHandlerConfig[*item.Item, dto.CreateItemRequest, dto.UpdateItemRequest]{
		Service:    service.CatalogService,
		EntityName: "item",
		MapCreateDTO: func(req dto.CreateItemRequest) *item.Item {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateItemRequest, existing *item.Item) *item.Item {
			req.ApplyTo(existing)
			return existing
		},
	})

	return &ItemHandler{
		CatalogHandler: catalog,
		service:        service,
	}
}

// LowStock handles GET /items/low-stock.
func (h *ItemHandler) LowStock(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.DefaultListFilter()
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)

	result, err := h.service.FindLowStock(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
