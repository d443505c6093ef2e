package reports

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/trial-balance", h.TrialBalance)
	return r
}
