package ledger

import (
	"context"
	"fmt"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/pkg/logger"
)

// ReconcileResult compares the ledger against the stored stock quantity.
type ReconcileResult struct {
	ItemID        id.ID `json:"itemId"`
	LedgerSum     int   `json:"ledgerSum"`
	StockQuantity int   `json:"stockQuantity"`
	Drift         int   `json:"drift"`
	InSync        bool  `json:"inSync"`
}

// ItemReader is the slice of the item repository the ledger needs.
type ItemReader interface {
	GetByID(ctx context.Context, id id.ID) (*item.Item, error)
}

// Service provides append and query operations over the stock ledger.
type Service struct {
	repo  Repository
	items ItemReader
}

// NewService creates a new ledger service.
func NewService(repo Repository, items ItemReader) *Service {
	return &Service{
		repo:  repo,
		items: items,
	}
}

// Append validates and persists a ledger entry.
// Entries are immutable once written.
func (s *Service) Append(ctx context.Context, entry *entity.StockEntry) error {
	if entry == nil {
		return apperror.NewValidation("entry is required")
	}
	if err := entry.Validate(ctx); err != nil {
		return err
	}
	if entry.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// List retrieves ledger entries matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]*entity.StockEntry, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperror.NewValidation("from must not be after to").
			WithDetail("from", filter.From).
			WithDetail("to", filter.To)
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// Reconcile sums the ledger for an item and compares it against the
// stored stock quantity. Drift indicates a bug or out-of-band mutation:
// items start at zero stock and every change goes through the ledger,
// so the two figures must agree.
func (s *Service) Reconcile(ctx context.Context, itemID id.ID) (*ReconcileResult, error) {
	it, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	sum, err := s.repo.SumByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}

	result := &ReconcileResult{
		ItemID:        itemID,
		LedgerSum:     sum,
		StockQuantity: it.StockQuantity,
		Drift:         it.StockQuantity - sum,
		InSync:        it.StockQuantity == sum,
	}

	if !result.InSync {
		logger.Warn(ctx, "stock ledger drift detected",
			"item_id", itemID.String(),
			"ledger_sum", sum,
			"stock_quantity", it.StockQuantity,
			"drift", result.Drift,
		)
	}

	return result, nil
}
