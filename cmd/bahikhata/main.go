package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/journals"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/ledger"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/mappings"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/reports"
	"github.com/bahikhata-erp/bahikhata-erp/internal/ap"
	"github.com/bahikhata-erp/bahikhata-erp/internal/app"
	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/suppliers"
	"github.com/bahikhata-erp/bahikhata-erp/internal/observability"
	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/cache"
	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/db"
	"github.com/bahikhata-erp/bahikhata-erp/internal/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/tax"
	"github.com/bahikhata-erp/bahikhata-erp/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, account cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	coaCache := cache.NewJSONCache(redisClient, "coa", cfg.AccountsCacheTTL)

	suppliersRepo := suppliers.NewRepository(pool)
	suppliersService := suppliers.NewService(suppliersRepo)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService)

	taxRepo := tax.NewRepository(pool)
	taxService := tax.NewService(taxRepo)
	taxHandler := tax.NewHandler(logger, taxService)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo, coaCache)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	mappingsRepo := mappings.NewRepository(pool)
	mappingsService := mappings.NewService(mappingsRepo)
	mappingsHandler := mappings.NewHandler(logger, mappingsService)

	journalsRepo := journals.NewRepository(pool)
	poster := journals.NewPoster(journalsRepo, logger)
	journalsHandler := journals.NewHandler(logger, poster)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(ledgerRepo, accountsRepo)
	ledgerHandler := ledger.NewHandler(logger, ledgerService)

	reportsRepo := reports.NewRepository(pool)
	reportsService := reports.NewService(reportsRepo)
	reportsHandler := reports.NewHandler(logger, reportsService)

	idempotencyStore := shared.NewIdempotencyStore(pool)
	entryBuilder := ap.NewEntryBuilder(mappingsService)
	apRepo := ap.NewRepository(pool)
	apService := ap.NewService(apRepo, suppliersRepo, taxService, entryBuilder, poster, idempotencyStore, cfg.GSTHomeState, logger)
	apHandler := ap.NewHandler(logger, apService)

	metrics := observability.NewMetrics()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SuppliersHandler: suppliersHandler,
		TaxHandler:       taxHandler,
		AccountsHandler:  accountsHandler,
		MappingsHandler:  mappingsHandler,
		JournalsHandler:  journalsHandler,
		LedgerHandler:    ledgerHandler,
		ReportsHandler:   reportsHandler,
		APHandler:        apHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
