package reports

import (
	"context"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TrialBalance builds the grouped trial balance for the window. With no
// window it covers the full ledger history.
func (s *Service) TrialBalance(ctx context.Context, from, to *time.Time) (TrialBalance, error) {
	activity, err := s.repo.AccountActivity(ctx, from, to)
	if err != nil {
		return TrialBalance{}, err
	}
	tb := BuildTrialBalance(activity)
	tb.From = from
	tb.To = to
	return tb, nil
}
