package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/accounts"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/journals"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/ledger"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/mappings"
	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/reports"
	"github.com/bahikhata-erp/bahikhata-erp/internal/ap"
	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/suppliers"
	"github.com/bahikhata-erp/bahikhata-erp/internal/observability"
	"github.com/bahikhata-erp/bahikhata-erp/internal/tax"
	"github.com/bahikhata-erp/bahikhata-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	SuppliersHandler *suppliers.Handler
	TaxHandler       *tax.Handler
	AccountsHandler  *accounts.Handler
	MappingsHandler  *mappings.Handler
	JournalsHandler  *journals.Handler
	LedgerHandler    *ledger.Handler
	ReportsHandler   *reports.Handler
	APHandler        *ap.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with the full API surface.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if params.SuppliersHandler != nil {
			r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		}
		if params.TaxHandler != nil {
			r.Route("/tax-codes", params.TaxHandler.MountRoutes)
		}
		if params.AccountsHandler != nil {
			r.Mount("/accounts", accounts.Routes(params.AccountsHandler))
		}
		if params.MappingsHandler != nil {
			r.Mount("/account-mappings", mappings.Routes(params.MappingsHandler))
		}
		if params.JournalsHandler != nil {
			r.Mount("/journals", journals.Routes(params.JournalsHandler))
		}
		if params.LedgerHandler != nil {
			r.Mount("/ledger", ledger.Routes(params.LedgerHandler))
		}
		if params.ReportsHandler != nil {
			r.Mount("/reports", reports.Routes(params.ReportsHandler))
		}
		if params.APHandler != nil {
			r.Mount("/bills", ap.BillRoutes(params.APHandler))
			r.Mount("/debit-notes", ap.DebitNoteRoutes(params.APHandler))
			r.Mount("/payments", ap.PaymentRoutes(params.APHandler))
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
