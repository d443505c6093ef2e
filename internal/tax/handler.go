package tax

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
	"github.com/bahikhata-erp/bahikhata-erp/internal/platform/httpx"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

type taxCodeForm struct {
	Code     string           `json:"code" validate:"required,max=20"`
	Name     string           `json:"name" validate:"required,max=120"`
	Rate     decimal.Decimal  `json:"rate" validate:"required"`
	CGSTRate *decimal.Decimal `json:"cgst_rate"`
	SGSTRate *decimal.Decimal `json:"sgst_rate"`
	IGSTRate *decimal.Decimal `json:"igst_rate"`
	CessRate decimal.Decimal  `json:"cess_rate"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromQuery(r.URL.Query())
	codes, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list tax codes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tax_codes": codes, "total": total})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "tax code id must be numeric")
		return
	}
	tc, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tc)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var form taxCodeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	tc, err := h.service.Create(r.Context(), TaxCode{
		Code:     form.Code,
		Name:     form.Name,
		Rate:     form.Rate,
		CGSTRate: form.CGSTRate,
		SGSTRate: form.SGSTRate,
		IGSTRate: form.IGSTRate,
		CessRate: form.CessRate,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "tax code id must be numeric")
		return
	}
	var form taxCodeForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	err = h.service.Update(r.Context(), id, TaxCode{
		Code:     form.Code,
		Name:     form.Name,
		Rate:     form.Rate,
		CGSTRate: form.CGSTRate,
		SGSTRate: form.SGSTRate,
		IGSTRate: form.IGSTRate,
		CessRate: form.CessRate,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "tax code id must be numeric")
		return
	}
	if err := h.service.Deactivate(r.Context(), id); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTaxCodeNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrDuplicate), errors.Is(err, shared.ErrInvalidID):
		httpx.RespondError(w, err)
	default:
		h.logger.Error("tax handler", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
