package journals

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/httpx"
)

// Handler serves read-only journal browsing. Entries are created by the
// document modules, never through this API.
type Handler struct {
	logger *slog.Logger
	poster *Poster
}

func NewHandler(logger *slog.Logger, poster *Poster) *Handler {
	return &Handler{logger: logger, poster: poster}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{SourceModule: q.Get("source_module")}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filters.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}
	if from, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		filters.To = &to
	}
	entries, total, err := h.poster.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list journals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"journal_entries": entries, "total": total})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "journal id must be numeric")
		return
	}
	entry, err := h.poster.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}
