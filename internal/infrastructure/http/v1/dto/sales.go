package dto

import (
	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/sales"
)

// CreatePurchaseRequest for registering a sale.
type CreatePurchaseRequest struct {
	StudentID string       `json:"studentId" binding:"required"`
	ItemID    string       `json:"itemId" binding:"required"`
	Quantity  int          `json:"quantity" binding:"required"`
	UnitPrice *types.Money `json:"unitPrice"`
}

// ToParams converts the request to service parameters.
func (r CreatePurchaseRequest) ToParams() (sales.CreatePurchaseParams, error) {
	studentID, err := id.Parse(r.StudentID)
	if err != nil {
		return sales.CreatePurchaseParams{}, apperror.NewValidation("invalid studentId format")
	}
	itemID, err := id.Parse(r.ItemID)
	if err != nil {
		return sales.CreatePurchaseParams{}, apperror.NewValidation("invalid itemId format")
	}
	return sales.CreatePurchaseParams{
		StudentID: studentID,
		ItemID:    itemID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}, nil
}

// UpdatePurchaseRequest for modifying a sale. Nil fields keep current values.
type UpdatePurchaseRequest struct {
	ItemID    *string      `json:"itemId"`
	Quantity  *int         `json:"quantity"`
	UnitPrice *types.Money `json:"unitPrice"`
}

// ToParams converts the request to service parameters.
func (r UpdatePurchaseRequest) ToParams(purchaseID id.ID) (sales.UpdatePurchaseParams, error) {
	params := sales.UpdatePurchaseParams{
		ID:        purchaseID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}
	if r.ItemID != nil {
		itemID, err := id.Parse(*r.ItemID)
		if err != nil {
			return params, apperror.NewValidation("invalid itemId format")
		}
		params.ItemID = &itemID
	}
	return params, nil
}

// AdjustStockRequest for manual stock corrections.
type AdjustStockRequest struct {
	ItemID     string `json:"itemId" binding:"required"`
	Delta      int    `json:"delta" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
	ChangeType string `json:"changeType"`
}

// ToParams converts the request to service parameters.
func (r AdjustStockRequest) ToParams() (sales.AdjustStockParams, error) {
	itemID, err := id.Parse(r.ItemID)
	if err != nil {
		return sales.AdjustStockParams{}, apperror.NewValidation("invalid itemId format")
	}
	return sales.AdjustStockParams{
		ItemID:     itemID,
		Delta:      r.Delta,
		Reason:     r.Reason,
		ChangeType: entity.ChangeType(r.ChangeType),
	}, nil
}
