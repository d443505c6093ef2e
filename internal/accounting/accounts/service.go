package accounts

import (
	"context"
	"errors"
	"strings"

	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/cache"
)

// Service reads the chart of accounts through a versioned cache. The
// chart changes rarely and is read on every posting, so List results
// are cached until a mutation bumps the namespace version.
type Service struct {
	repo  Repository
	cache *cache.JSONCache
}

func NewService(repo Repository, jc *cache.JSONCache) *Service {
	return &Service{repo: repo, cache: jc}
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	key, err := s.cache.Key(ctx, "list")
	if err != nil {
		return s.repo.List(ctx)
	}
	var accounts []Account
	if err := s.cache.FetchJSON(ctx, key, &accounts, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx)
	}); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (Account, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) Create(ctx context.Context, account Account) (Account, error) {
	if err := validateAccount(account); err != nil {
		return Account{}, err
	}
	if account.NormalBalance == "" {
		account.NormalBalance = DefaultNormalBalance(account.Type)
	}
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return Account{}, err
	}
	_ = s.cache.Bump(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, account Account) (Account, error) {
	if strings.TrimSpace(account.Name) == "" {
		return Account{}, errors.New("accounts: name is required")
	}
	if err := s.repo.Update(ctx, id, account); err != nil {
		return Account{}, err
	}
	_ = s.cache.Bump(ctx)
	return s.repo.Get(ctx, id)
}

func validateAccount(account Account) error {
	if strings.TrimSpace(account.Code) == "" {
		return errors.New("accounts: code is required")
	}
	if strings.TrimSpace(account.Name) == "" {
		return errors.New("accounts: name is required")
	}
	switch account.Type {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
	default:
		return errors.New("accounts: unknown account type")
	}
	switch account.NormalBalance {
	case "", NormalBalanceDebit, NormalBalanceCredit:
	default:
		return errors.New("accounts: unknown normal balance")
	}
	return nil
}
