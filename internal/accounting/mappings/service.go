package mappings

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Resolve(ctx context.Context, module, key string) (AccountMapping, error) {
	return s.repo.Get(ctx, module, key)
}

func (s *Service) List(ctx context.Context) ([]MappingDetail, error) {
	return s.repo.List(ctx)
}

func (s *Service) Set(ctx context.Context, mapping AccountMapping) (AccountMapping, error) {
	if strings.TrimSpace(mapping.Module) == "" || strings.TrimSpace(mapping.Key) == "" {
		return AccountMapping{}, errors.New("accounting: module and key required")
	}
	if mapping.AccountID <= 0 {
		return AccountMapping{}, errors.New("accounting: account id required")
	}
	return s.repo.Set(ctx, mapping)
}
