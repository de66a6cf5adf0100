package supplier

import (
	"context"
	"fmt"
	"time"

	"bookstock/internal/core/numerator"
	"bookstock/internal/core/tx"
	"bookstock/internal/domain"
)

// CodePrefix for auto-generated supplier codes.
const CodePrefix = "SP"

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Supplier service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "supplier",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, sp *Supplier) error {
	if sp.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(CodePrefix), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		sp.Code = code
	}
	return nil
}

// FindByName retrieves a supplier by exact display name.
func (s *Service) FindByName(ctx context.Context, name string) (*Supplier, error) {
	return s.repo.FindByName(ctx, name)
}
