package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/ledger"
	jobmetrics "github.com/bahikhata-erp/bahikhata-erp/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const defaultIntegrityParallelism = 4

// LedgerIntegrityJob replays every active account's ledger and flags
// balances that drifted from the stored running totals. Drift means a
// write bypassed the poster; the job reports, it never repairs.
type LedgerIntegrityJob struct {
	Accounts accounts.Repository
	Ledger   *ledger.Service
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	clock    func() time.Time
}

// NewLedgerIntegrityJob initialises the integrity scan handler.
func NewLedgerIntegrityJob(accountsRepo accounts.Repository, ledgerSvc *ledger.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{
		Accounts: accountsRepo,
		Ledger:   ledgerSvc,
		Logger:   logger,
		Metrics:  metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one integrity scan.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil {
		return errors.New("ledger integrity: handler not configured")
	}
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	parallel := payload.MaxParallel
	if parallel <= 0 {
		parallel = defaultIntegrityParallelism
	}

	start := j.now()
	tracker := j.metrics().Track(TaskLedgerIntegrity)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting ledger integrity scan", slog.Int("parallel", parallel))

	ids, err := j.Accounts.ListIDs(ctx)
	if err != nil {
		resultErr = err
		logger.Error("listing accounts failed", slog.Any("error", err))
		return resultErr
	}

	var mu sync.Mutex
	var drifted []ledger.VerifyResult
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			result, err := j.Ledger.Verify(gctx, id)
			if err != nil {
				return err
			}
			if !result.Consistent {
				mu.Lock()
				drifted = append(drifted, result)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		resultErr = err
		logger.Error("scan failed", slog.Any("error", err))
		return resultErr
	}

	for _, d := range drifted {
		logger.Warn("ledger drift detected",
			slog.Int64("account_id", d.AccountID),
			slog.String("account_code", d.AccountCode),
			slog.String("computed", d.ComputedBalance.String()),
			slog.String("stored", d.StoredBalance.String()),
			slog.Int64("first_mismatch_id", d.FirstMismatchID),
		)
		j.metrics().AddLedgerDrift(d.AccountID, 1)
	}

	logger.Info("completed ledger integrity scan",
		slog.Int("accounts", len(ids)),
		slog.Int("drifted", len(drifted)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *LedgerIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLedgerIntegrity))
	}
	return slog.Default().With(slog.String("job", TaskLedgerIntegrity))
}

func (j *LedgerIntegrityJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *LedgerIntegrityJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
