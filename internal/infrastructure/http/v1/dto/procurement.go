package dto

import (
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/procurement"
)

// OrderLineRequest is one item position on a new supply order.
type OrderLineRequest struct {
	ItemID   string      `json:"itemId" binding:"required"`
	Quantity int         `json:"quantity" binding:"required"`
	UnitCost types.Money `json:"unitCost"`
}

// CreateSupplyOrderRequest for placing a supply order.
type CreateSupplyOrderRequest struct {
	SupplierID string             `json:"supplierId" binding:"required"`
	ExpectedAt *time.Time         `json:"expectedAt"`
	Lines      []OrderLineRequest `json:"lines" binding:"required"`
}

// ToParams converts the request to service parameters.
func (r CreateSupplyOrderRequest) ToParams() (procurement.CreateOrderParams, error) {
	supplierID, err := id.Parse(r.SupplierID)
	if err != nil {
		return procurement.CreateOrderParams{}, apperror.NewValidation("invalid supplierId format")
	}

	lines := make([]procurement.OrderLineParams, 0, len(r.Lines))
	for i, line := range r.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			return procurement.CreateOrderParams{}, apperror.NewValidation("invalid line itemId format").
				WithDetail("line", i)
		}
		lines = append(lines, procurement.OrderLineParams{
			ItemID:   itemID,
			Quantity: line.Quantity,
			UnitCost: line.UnitCost,
		})
	}

	return procurement.CreateOrderParams{
		SupplierID: supplierID,
		ExpectedAt: r.ExpectedAt,
		Lines:      lines,
	}, nil
}

// RecordPaymentRequest for recording a supplier payment.
type RecordPaymentRequest struct {
	SupplierID string      `json:"supplierId" binding:"required"`
	Amount     types.Money `json:"amount"`
	Method     string      `json:"method"`
	Reference  string      `json:"reference"`
	PaidAt     *time.Time  `json:"paidAt"`
}

// ToParams converts the request to service parameters.
func (r RecordPaymentRequest) ToParams() (procurement.RecordPaymentParams, error) {
	supplierID, err := id.Parse(r.SupplierID)
	if err != nil {
		return procurement.RecordPaymentParams{}, apperror.NewValidation("invalid supplierId format")
	}
	return procurement.RecordPaymentParams{
		SupplierID: supplierID,
		Amount:     r.Amount,
		Method:     r.Method,
		Reference:  r.Reference,
		PaidAt:     r.PaidAt,
	}, nil
}
