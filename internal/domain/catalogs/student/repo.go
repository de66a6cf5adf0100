package student

import (
	"bookstock/internal/domain"
)

// Repository defines the interface for Student persistence.
type Repository interface {
	domain.CatalogRepository[*Student]
}
