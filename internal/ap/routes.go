package ap

import "github.com/go-chi/chi/v5"

func BillRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListBills)
	r.Post("/", h.CreateBill)
	r.Get("/aging", h.Aging)
	r.Get("/{id}", h.ShowBill)
	r.Post("/{id}/post", h.PostBill)
	r.Post("/{id}/void", h.VoidBill)
	return r
}

func DebitNoteRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListDebitNotes)
	r.Post("/", h.CreateDebitNote)
	r.Get("/{id}", h.ShowDebitNote)
	r.Post("/{id}/post", h.PostDebitNote)
	r.Post("/{id}/apply", h.ApplyDebitNote)
	r.Post("/{id}/void", h.VoidDebitNote)
	return r
}

func PaymentRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPayments)
	r.Post("/", h.CreatePayment)
	r.Get("/{id}", h.ShowPayment)
	return r
}
