package tax

import (
	"context"
	"fmt"

	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
)

// ErrTaxCodeNotFound indicates a missing tax code.
var ErrTaxCodeNotFound = fmt.Errorf("tax code: %w", shared.ErrNotFound)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]TaxCode, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (TaxCode, error) {
	if id <= 0 {
		return TaxCode{}, fmt.Errorf("%w: tax code id", shared.ErrInvalidID)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, tc TaxCode) (TaxCode, error) {
	if err := s.validate(tc); err != nil {
		return TaxCode{}, err
	}
	return s.repo.Create(ctx, tc)
}

func (s *Service) Update(ctx context.Context, id int64, tc TaxCode) error {
	if id <= 0 {
		return fmt.Errorf("%w: tax code id", shared.ErrInvalidID)
	}
	if err := s.validate(tc); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, tc)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: tax code id", shared.ErrInvalidID)
	}
	return s.repo.Deactivate(ctx, id)
}
