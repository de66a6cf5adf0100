// Package student provides the student catalog.
package student

import (
	"context"

	"bookstock/internal/core/entity"
)

// Student represents a registered student who purchases from the bookstore.
type Student struct {
	entity.Catalog

	// ClassLevel the student is enrolled in (e.g., "Grade 5")
	ClassLevel string `db:"class_level" json:"classLevel"`

	// GuardianName is the parent or guardian contact name
	GuardianName string `db:"guardian_name" json:"guardianName,omitempty"`

	// GuardianPhone is the guardian contact phone
	GuardianPhone string `db:"guardian_phone" json:"guardianPhone,omitempty"`

	// Email for receipts and notifications
	Email string `db:"email" json:"email,omitempty"`
}

// New creates a new Student.
func New(code, name, classLevel string) *Student {
	return &Student{
		Catalog:    entity.NewCatalog(code, name),
		ClassLevel: classLevel,
	}
}

// Validate implements entity.Validatable interface.
func (s *Student) Validate(ctx context.Context) error {
	return s.Catalog.Validate(ctx)
}
