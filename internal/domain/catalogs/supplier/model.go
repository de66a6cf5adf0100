// Package supplier provides the supplier catalog.
package supplier

import (
	"context"

	"bookstock/internal/core/entity"
)

// Supplier represents a vendor supplying goods to the bookstore.
type Supplier struct {
	entity.Catalog

	ContactName string `db:"contact_name" json:"contactName,omitempty"`
	Phone       string `db:"phone" json:"phone,omitempty"`
	Email       string `db:"email" json:"email,omitempty"`
	Address     string `db:"address" json:"address,omitempty"`
}

// New creates a new Supplier.
func New(code, name string) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	return s.Catalog.Validate(ctx)
}
