package ledger

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/accounts/{id}", h.Statement)
	r.Get("/accounts/{id}/verify", h.Verify)
	return r
}
