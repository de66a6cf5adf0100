package sales

import (
	"context"
	"fmt"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/numerator"
	"bookstock/internal/core/tx"
	"bookstock/pkg/logger"
)

// ChangeRecorder records purchase lifecycle changes to the audit log.
// Recording is best effort and never fails the business operation.
type ChangeRecorder interface {
	Record(ctx context.Context, entityType, entityID, action string, payload any)
}

// Service is the transaction manager for purchases. Every stock-affecting
// operation runs inside a database transaction and pairs the stock change
// with a ledger entry, so stock and ledger can never diverge.
type Service struct {
	purchases Repository
	items     ItemStore
	students  StudentChecker
	ledger    LedgerAppender
	txManager tx.Manager
	numerator numerator.Generator
	audit     ChangeRecorder
}

// NewService creates a new sales service. audit may be nil.
func NewService(
	purchases Repository,
	items ItemStore,
	students StudentChecker,
	ledgerSvc LedgerAppender,
	txManager tx.Manager,
	gen numerator.Generator,
	audit ChangeRecorder,
) *Service {
	return &Service{
		purchases: purchases,
		items:     items,
		students:  students,
		ledger:    ledgerSvc,
		txManager: txManager,
		numerator: gen,
		audit:     audit,
	}
}

// CreatePurchase sells quantity units of an item to a student.
//
// The receipt number is allocated before the transaction opens: an aborted
// purchase consumes its number (gaps are acceptable, reuse is not). Inside
// the transaction the purchase row, the OUT ledger entry and the stock
// decrement commit together or not at all. The decrement is a conditional
// update, so concurrent purchases can never oversell.
func (s *Service) CreatePurchase(ctx context.Context, params CreatePurchaseParams) (*Purchase, error) {
	if err := s.validateCreate(params); err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, params.ItemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", params.ItemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	// Pre-check before anything is written. The conditional update inside
	// the transaction is the real guard.
	if it.StockQuantity < params.Quantity {
		return nil, apperror.NewInsufficientStock(params.ItemID.String(), params.Quantity, it.StockQuantity)
	}

	exists, err := s.students.Exists(ctx, params.StudentID)
	if err != nil {
		return nil, fmt.Errorf("check student: %w", err)
	}
	if !exists {
		return nil, apperror.NewNotFound("student", params.StudentID.String())
	}

	receipt, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixReceipt), nil, time.Now())
	if err != nil {
		return nil, apperror.NewAllocation(numerator.PrefixReceipt, err)
	}

	price := it.UnitPrice
	if params.UnitPrice != nil {
		price = *params.UnitPrice
	}

	p := &Purchase{
		BaseDocument:  entity.NewBaseDocument(),
		StudentID:     params.StudentID,
		ItemID:        params.ItemID,
		Quantity:      params.Quantity,
		UnitPrice:     price,
		ReceiptNumber: receipt,
	}
	p.recalcTotal()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.purchases.Create(ctx, p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}

		entry := entity.NewStockEntry(p.ItemID, -p.Quantity, entity.ChangeTypeOut, receipt)
		if err := s.ledger.Append(ctx, entry); err != nil {
			return err
		}

		return s.items.AdjustStock(ctx, p.ItemID, -p.Quantity)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, p.ID, "create", p)
	logger.Info(ctx, "purchase created",
		"purchase_id", p.ID.String(),
		"receipt", receipt,
		"item_id", p.ItemID.String(),
		"quantity", p.Quantity,
	)

	return p, nil
}

// UpdatePurchase modifies quantity, unit price or item of a purchase.
// A lost optimistic-lock race is retried once before being surfaced.
func (s *Service) UpdatePurchase(ctx context.Context, params UpdatePurchaseParams) (*Purchase, error) {
	p, err := s.updatePurchaseOnce(ctx, params)
	if apperror.IsConcurrentModification(err) {
		logger.Warn(ctx, "purchase update lost version race, retrying",
			"purchase_id", params.ID.String())
		p, err = s.updatePurchaseOnce(ctx, params)
	}
	return p, err
}

func (s *Service) updatePurchaseOnce(ctx context.Context, params UpdatePurchaseParams) (*Purchase, error) {
	p, err := s.purchases.GetByID(ctx, params.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase", params.ID.String())
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	oldItemID := p.ItemID
	oldQty := p.Quantity

	newItemID := oldItemID
	if params.ItemID != nil {
		newItemID = *params.ItemID
	}
	newQty := oldQty
	if params.Quantity != nil {
		newQty = *params.Quantity
	}
	if newQty <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", newQty)
	}

	newPrice := p.UnitPrice
	if params.UnitPrice != nil {
		newPrice = *params.UnitPrice
	}
	if newPrice.IsNegative() {
		return nil, apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unit_price")
	}

	itemChanged := newItemID != oldItemID
	if itemChanged {
		if _, err := s.items.GetByID(ctx, newItemID); err != nil {
			if apperror.IsNotFound(err) {
				return nil, apperror.NewNotFound("item", newItemID.String())
			}
			return nil, fmt.Errorf("get item: %w", err)
		}
	}

	p.ItemID = newItemID
	p.Quantity = newQty
	p.UnitPrice = newPrice
	p.recalcTotal()
	p.Touch()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if itemChanged {
			// Return the full old quantity to the old item, then take the
			// new quantity from the new item (guarded).
			returned := entity.NewStockEntry(oldItemID, oldQty, entity.ChangeTypeAdjust, "adjust:"+p.ReceiptNumber)
			if err := s.ledger.Append(ctx, returned); err != nil {
				return err
			}
			if err := s.items.AdjustStock(ctx, oldItemID, oldQty); err != nil {
				return err
			}

			taken := entity.NewStockEntry(newItemID, -newQty, entity.ChangeTypeAdjust, "adjust:"+p.ReceiptNumber)
			if err := s.ledger.Append(ctx, taken); err != nil {
				return err
			}
			if err := s.items.AdjustStock(ctx, newItemID, -newQty); err != nil {
				return err
			}
		} else if diff := oldQty - newQty; diff != 0 {
			// Single compensating entry: positive diff returns stock,
			// negative diff takes more (guarded).
			entry := entity.NewStockEntry(oldItemID, diff, entity.ChangeTypeAdjust, "adjust:"+p.ReceiptNumber)
			if err := s.ledger.Append(ctx, entry); err != nil {
				return err
			}
			if err := s.items.AdjustStock(ctx, oldItemID, diff); err != nil {
				return err
			}
		}

		return s.purchases.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, p.ID, "update", p)
	logger.Info(ctx, "purchase updated",
		"purchase_id", p.ID.String(),
		"receipt", p.ReceiptNumber,
		"quantity", newQty,
	)

	return p, nil
}

// DeletePurchase cancels a purchase: stock is returned via an IN reversal
// entry and the purchase row is removed. Ledger history stays.
func (s *Service) DeletePurchase(ctx context.Context, purchaseID id.ID) error {
	p, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("purchase", purchaseID.String())
		}
		return fmt.Errorf("get purchase: %w", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		entry := entity.NewStockEntry(p.ItemID, p.Quantity, entity.ChangeTypeIn, "reversal:"+p.ReceiptNumber)
		if err := s.ledger.Append(ctx, entry); err != nil {
			return err
		}
		if err := s.items.AdjustStock(ctx, p.ItemID, p.Quantity); err != nil {
			return err
		}
		return s.purchases.Delete(ctx, purchaseID)
	})
	if err != nil {
		return err
	}

	s.record(ctx, p.ID, "delete", p)
	logger.Info(ctx, "purchase deleted",
		"purchase_id", p.ID.String(),
		"receipt", p.ReceiptNumber,
	)

	return nil
}

// AdjustStock records a manual correction or supply posting. The resulting
// stock must stay non-negative; the conditional update enforces this.
func (s *Service) AdjustStock(ctx context.Context, params AdjustStockParams) error {
	if id.IsNil(params.ItemID) {
		return apperror.NewValidation("item_id is required").
			WithDetail("field", "item_id")
	}
	if params.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}

	changeType := params.ChangeType
	if changeType == "" {
		changeType = entity.ChangeTypeAdjust
	}

	if _, err := s.items.GetByID(ctx, params.ItemID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("item", params.ItemID.String())
		}
		return fmt.Errorf("get item: %w", err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		entry := entity.NewStockEntry(params.ItemID, params.Delta, changeType, params.Reason)
		if err := s.ledger.Append(ctx, entry); err != nil {
			return err
		}
		return s.items.AdjustStock(ctx, params.ItemID, params.Delta)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock adjusted",
		"item_id", params.ItemID.String(),
		"delta", params.Delta,
		"change_type", string(changeType),
		"reason", params.Reason,
	)

	return nil
}

// GetPurchase retrieves a purchase by ID.
func (s *Service) GetPurchase(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	p, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase", purchaseID.String())
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// ListPurchases retrieves purchases matching the filter, newest first.
func (s *Service) ListPurchases(ctx context.Context, filter PurchaseFilter) ([]*Purchase, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperror.NewValidation("from must not be after to")
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.purchases.List(ctx, filter)
}

func (s *Service) validateCreate(params CreatePurchaseParams) error {
	if id.IsNil(params.StudentID) {
		return apperror.NewValidation("student_id is required").
			WithDetail("field", "student_id")
	}
	if id.IsNil(params.ItemID) {
		return apperror.NewValidation("item_id is required").
			WithDetail("field", "item_id")
	}
	if params.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", params.Quantity)
	}
	if params.UnitPrice != nil && params.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unit_price")
	}
	return nil
}

func (s *Service) record(ctx context.Context, entityID id.ID, action string, payload any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, "purchase", entityID.String(), action, payload)
}
