package item

import (
	"context"
	"fmt"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/numerator"
	"bookstock/internal/core/tx"
	"bookstock/internal/domain"
)

// CodePrefix for auto-generated item codes (BK-YYYY-NNNNN).
const CodePrefix = "BK"

// Service provides business logic for the Item catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Item]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Item service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "item",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks.
func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	if it.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(CodePrefix), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
		return nil
	}

	exists, err := s.repo.ExistsByCode(ctx, it.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("item", "code", it.Code)
	}
	return nil
}

// FindLowStock retrieves items with stock at or below their minimum.
func (s *Service) FindLowStock(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.FindLowStock(ctx, filter)
}
