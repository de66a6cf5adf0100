package entity

import (
	"context"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
)

// ChangeType classifies a stock ledger entry.
type ChangeType string

const (
	// ChangeTypeIn records stock received (restock, purchase reversal).
	ChangeTypeIn ChangeType = "IN"
	// ChangeTypeOut records stock sold or issued.
	ChangeTypeOut ChangeType = "OUT"
	// ChangeTypeAdjust records a manual correction or recount.
	ChangeTypeAdjust ChangeType = "ADJUST"
)

// Valid reports whether the change type is one of the known values.
func (ct ChangeType) Valid() bool {
	switch ct {
	case ChangeTypeIn, ChangeTypeOut, ChangeTypeAdjust:
		return true
	}
	return false
}

// StockEntry is a single immutable row in the stock ledger.
// Entries are append-only: they are never updated or deleted,
// corrections are recorded as new ADJUST entries.
type StockEntry struct {
	ID         id.ID      `db:"id" json:"id"`
	ItemID     id.ID      `db:"item_id" json:"itemId"`
	Delta      int        `db:"delta" json:"delta"`
	ChangeType ChangeType `db:"change_type" json:"changeType"`
	Reason     string     `db:"reason" json:"reason"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// NewStockEntry creates a ledger entry with generated ID and timestamp.
func NewStockEntry(itemID id.ID, delta int, changeType ChangeType, reason string) *StockEntry {
	return &StockEntry{
		ID:         id.New(),
		ItemID:     itemID,
		Delta:      delta,
		ChangeType: changeType,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (e *StockEntry) Validate(ctx context.Context) error {
	if id.IsNil(e.ItemID) {
		return apperror.NewValidation("item_id is required").
			WithDetail("field", "item_id")
	}

	if !e.ChangeType.Valid() {
		return apperror.NewValidation("unknown change type").
			WithDetail("field", "change_type").
			WithDetail("value", string(e.ChangeType))
	}

	// Sign must agree with the change type. ADJUST may go either way
	// but a zero delta records nothing and is rejected.
	switch {
	case e.Delta == 0:
		return apperror.NewValidation("delta must be non-zero").
			WithDetail("field", "delta")
	case e.ChangeType == ChangeTypeIn && e.Delta < 0:
		return apperror.NewValidation("IN entry requires positive delta").
			WithDetail("delta", e.Delta)
	case e.ChangeType == ChangeTypeOut && e.Delta > 0:
		return apperror.NewValidation("OUT entry requires negative delta").
			WithDetail("delta", e.Delta)
	}

	return nil
}
