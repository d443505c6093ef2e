package ap

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	mdshared "github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/suppliers"
	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/httpx"
	idem "github.com/bahikhata-erp/bahikhata-erp/internal/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/tax"
)

const dateLayout = "2006-01-02"

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type billLineForm struct {
	Description string          `json:"description" validate:"required,max=200"`
	AccountID   *int64          `json:"account_id" validate:"omitempty,gt=0"`
	TaxCodeID   *int64          `json:"tax_code_id" validate:"omitempty,gt=0"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

type billForm struct {
	SupplierID int64          `json:"supplier_id" validate:"required,gt=0"`
	BillDate   string         `json:"bill_date" validate:"required,datetime=2006-01-02"`
	DueDate    string         `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Interstate *bool          `json:"interstate"`
	Memo       string         `json:"memo" validate:"max=500"`
	Lines      []billLineForm `json:"lines" validate:"required,min=1,dive"`
}

type debitNoteForm struct {
	SupplierID int64          `json:"supplier_id" validate:"required,gt=0"`
	BillID     *int64         `json:"bill_id" validate:"omitempty,gt=0"`
	NoteDate   string         `json:"note_date" validate:"required,datetime=2006-01-02"`
	Interstate *bool          `json:"interstate"`
	Reason     string         `json:"reason" validate:"required,max=500"`
	Lines      []billLineForm `json:"lines" validate:"required,min=1,dive"`
}

type paymentForm struct {
	BillID      int64           `json:"bill_id" validate:"required,gt=0"`
	PaymentDate string          `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	TDSAmount   decimal.Decimal `json:"tds_amount"`
	Method      string          `json:"method" validate:"omitempty,oneof=BANK CASH UPI CHEQUE"`
	Reference   string          `json:"reference" validate:"max=100"`
	Memo        string          `json:"memo" validate:"max=500"`
}

type applyNoteForm struct {
	BillID int64 `json:"bill_id" validate:"required,gt=0"`
}

func lineInputs(forms []billLineForm) []LineInput {
	lines := make([]LineInput, len(forms))
	for i, f := range forms {
		lines[i] = LineInput{
			Description: f.Description,
			AccountID:   f.AccountID,
			TaxCodeID:   f.TaxCodeID,
			Quantity:    f.Quantity,
			UnitPrice:   f.UnitPrice,
			DiscountPct: f.DiscountPct,
		}
	}
	return lines
}

// parseDate assumes the validator already checked the layout.
func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, _ := time.Parse(dateLayout, value)
	return t
}

func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	filters := mdshared.FiltersFromQuery(r.URL.Query())
	bills, total, err := h.service.ListBills(r.Context(), filters)
	if err != nil {
		h.logger.Error("list bills", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bills": bills, "total": total})
}

func (h *Handler) ShowBill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bill id must be numeric")
		return
	}
	bill, err := h.service.GetBill(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bill)
}

func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var form billForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	bill, err := h.service.CreateBill(r.Context(), CreateBillInput{
		SupplierID: form.SupplierID,
		BillDate:   parseDate(form.BillDate),
		DueDate:    parseDate(form.DueDate),
		Interstate: form.Interstate,
		Memo:       form.Memo,
		Lines:      lineInputs(form.Lines),
	})
	if err != nil {
		h.logger.Error("create bill", slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, bill)
}

func (h *Handler) PostBill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bill id must be numeric")
		return
	}
	bill, entry, err := h.service.PostBill(r.Context(), id)
	if err != nil {
		h.logger.Error("post bill", slog.Int64("bill_id", id), slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bill": bill, "journal_entry": entry})
}

func (h *Handler) VoidBill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bill id must be numeric")
		return
	}
	bill, err := h.service.VoidBill(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bill)
}

func (h *Handler) Aging(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "as_of must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}
	buckets, err := h.service.Aging(r.Context(), asOf)
	if err != nil {
		h.logger.Error("ap aging", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"as_of": asOf.Format(dateLayout), "aging": buckets})
}

func (h *Handler) ListDebitNotes(w http.ResponseWriter, r *http.Request) {
	filters := mdshared.FiltersFromQuery(r.URL.Query())
	notes, total, err := h.service.ListDebitNotes(r.Context(), filters)
	if err != nil {
		h.logger.Error("list debit notes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"debit_notes": notes, "total": total})
}

func (h *Handler) ShowDebitNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "debit note id must be numeric")
		return
	}
	note, err := h.service.GetDebitNote(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, note)
}

func (h *Handler) CreateDebitNote(w http.ResponseWriter, r *http.Request) {
	var form debitNoteForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	note, err := h.service.CreateDebitNote(r.Context(), CreateDebitNoteInput{
		SupplierID: form.SupplierID,
		BillID:     form.BillID,
		NoteDate:   parseDate(form.NoteDate),
		Interstate: form.Interstate,
		Reason:     form.Reason,
		Lines:      lineInputs(form.Lines),
	})
	if err != nil {
		h.logger.Error("create debit note", slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, note)
}

func (h *Handler) PostDebitNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "debit note id must be numeric")
		return
	}
	note, entry, err := h.service.PostDebitNote(r.Context(), id)
	if err != nil {
		h.logger.Error("post debit note", slog.Int64("note_id", id), slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"debit_note": note, "journal_entry": entry})
}

func (h *Handler) ApplyDebitNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "debit note id must be numeric")
		return
	}
	var form applyNoteForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	note, bill, err := h.service.ApplyDebitNote(r.Context(), ApplyDebitNoteInput{
		NoteID: id,
		BillID: form.BillID,
	})
	if err != nil {
		h.logger.Error("apply debit note", slog.Int64("note_id", id), slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"debit_note": note, "bill": bill})
}

func (h *Handler) VoidDebitNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "debit note id must be numeric")
		return
	}
	note, err := h.service.VoidDebitNote(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, note)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	filters := mdshared.FiltersFromQuery(r.URL.Query())
	payments, total, err := h.service.ListPayments(r.Context(), filters)
	if err != nil {
		h.logger.Error("list payments", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"payments": payments, "total": total})
}

func (h *Handler) ShowPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "payment id must be numeric")
		return
	}
	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payment)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var form paymentForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	payment, err := h.service.RegisterPayment(r.Context(), RegisterPaymentInput{
		BillID:         form.BillID,
		PaymentDate:    parseDate(form.PaymentDate),
		Amount:         form.Amount,
		TDSAmount:      form.TDSAmount,
		Method:         form.Method,
		Reference:      form.Reference,
		Memo:           form.Memo,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.logger.Error("register payment", slog.Int64("bill_id", form.BillID), slog.Any("error", err))
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBillNotFound), errors.Is(err, ErrNoteNotFound), errors.Is(err, ErrPaymentNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, suppliers.ErrSupplierNotFound), errors.Is(err, tax.ErrTaxCodeNotFound):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Reference", err.Error())
	case errors.Is(err, idem.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Duplicate Request", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
