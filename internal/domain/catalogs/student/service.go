package student

import (
	"context"
	"fmt"
	"time"

	"bookstock/internal/core/numerator"
	"bookstock/internal/core/tx"
	"bookstock/internal/domain"
)

// CodePrefix for auto-generated student codes.
const CodePrefix = "ST"

// Service provides business logic for the Student catalog.
type Service struct {
	*domain.CatalogService[*Student]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Student service.
func NewService(repo Repository, txManager tx.Manager, gen numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Student]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "student",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, st *Student) error {
	if st.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(CodePrefix), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		st.Code = code
	}
	return nil
}
