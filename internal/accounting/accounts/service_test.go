package accounts

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/cache"
)

type countingRepo struct {
	byID      map[int64]Account
	listCalls int
	nextID    int64
}

func newCountingRepo(seed ...Account) *countingRepo {
	repo := &countingRepo{byID: make(map[int64]Account)}
	for _, a := range seed {
		repo.byID[a.ID] = a
		if a.ID > repo.nextID {
			repo.nextID = a.ID
		}
	}
	return repo
}

func (r *countingRepo) List(ctx context.Context) ([]Account, error) {
	r.listCalls++
	out := make([]Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *countingRepo) ListIDs(ctx context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *countingRepo) Get(ctx context.Context, id int64) (Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return Account{}, shared.ErrAccountNotFound
	}
	return a, nil
}

func (r *countingRepo) GetByCode(ctx context.Context, code string) (Account, error) {
	for _, a := range r.byID {
		if a.Code == code {
			return a, nil
		}
	}
	return Account{}, shared.ErrAccountNotFound
}

func (r *countingRepo) Create(ctx context.Context, account Account) (Account, error) {
	r.nextID++
	account.ID = r.nextID
	r.byID[account.ID] = account
	return account, nil
}

func (r *countingRepo) Update(ctx context.Context, id int64, account Account) error {
	current, ok := r.byID[id]
	if !ok {
		return shared.ErrAccountNotFound
	}
	current.Name = account.Name
	current.IsActive = account.IsActive
	r.byID[id] = current
	return nil
}

func newCachedService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, cache.NewJSONCache(client, "coa", time.Minute))
}

func TestListCachesUntilMutation(t *testing.T) {
	repo := newCountingRepo(Account{
		ID: 1, Code: "1200", Name: "Bank", Type: AccountTypeAsset,
		NormalBalance: NormalBalanceDebit, IsActive: true,
	})
	svc := newCachedService(t, repo)
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, repo.listCalls)

	// Second read is served from cache.
	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)

	// A mutation bumps the namespace version and forces a reload.
	_, err = svc.Create(ctx, Account{Code: "5000", Name: "Purchases", Type: AccountTypeExpense})
	require.NoError(t, err)

	reloaded, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 2)
	require.Equal(t, 2, repo.listCalls)
}

func TestListRoundTripsDecimalBalances(t *testing.T) {
	repo := newCountingRepo(Account{
		ID: 21, Code: "2100", Name: "Sundry creditors", Type: AccountTypeLiability,
		NormalBalance: NormalBalanceCredit, CurrentBalance: decimal.RequireFromString("1180.00"), IsActive: true,
	})
	svc := newCachedService(t, repo)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)

	// Cached read decodes back through JSON.
	cached, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	require.Equal(t, "1180.00", cached[0].CurrentBalance.StringFixed(2))
	require.Equal(t, 1, repo.listCalls)
}

func TestListWorksWithoutRedis(t *testing.T) {
	repo := newCountingRepo(Account{
		ID: 1, Code: "1200", Name: "Bank", Type: AccountTypeAsset,
		NormalBalance: NormalBalanceDebit, IsActive: true,
	})
	svc := NewService(repo, cache.NewJSONCache(nil, "coa", time.Minute))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		out, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, out, 1)
	}
	// Without a cache every read goes to the repository.
	require.Equal(t, 2, repo.listCalls)
}

func TestCreateDefaultsNormalBalance(t *testing.T) {
	repo := newCountingRepo()
	svc := newCachedService(t, repo)
	ctx := context.Background()

	expense, err := svc.Create(ctx, Account{Code: "5000", Name: "Purchases", Type: AccountTypeExpense})
	require.NoError(t, err)
	require.Equal(t, NormalBalanceDebit, expense.NormalBalance)

	liability, err := svc.Create(ctx, Account{Code: "2100", Name: "Sundry creditors", Type: AccountTypeLiability})
	require.NoError(t, err)
	require.Equal(t, NormalBalanceCredit, liability.NormalBalance)
}

func TestCreateValidation(t *testing.T) {
	svc := newCachedService(t, newCountingRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Account{Name: "No code", Type: AccountTypeAsset})
	require.ErrorContains(t, err, "code is required")

	_, err = svc.Create(ctx, Account{Code: "1000", Type: AccountTypeAsset})
	require.ErrorContains(t, err, "name is required")

	_, err = svc.Create(ctx, Account{Code: "1000", Name: "Mystery", Type: AccountType("OTHER")})
	require.ErrorContains(t, err, "unknown account type")

	_, err = svc.Create(ctx, Account{Code: "1000", Name: "Bank", Type: AccountTypeAsset, NormalBalance: NormalBalance("SIDEWAYS")})
	require.ErrorContains(t, err, "unknown normal balance")
}

func TestUpdateRequiresName(t *testing.T) {
	repo := newCountingRepo(Account{
		ID: 1, Code: "1200", Name: "Bank", Type: AccountTypeAsset,
		NormalBalance: NormalBalanceDebit, IsActive: true,
	})
	svc := newCachedService(t, repo)
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, Account{Name: "  "})
	require.ErrorContains(t, err, "name is required")

	updated, err := svc.Update(ctx, 1, Account{Name: "Bank current account", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, "Bank current account", updated.Name)
}
