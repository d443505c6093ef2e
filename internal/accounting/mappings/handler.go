package mappings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
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

type mappingForm struct {
	Module    string `json:"module" validate:"required,max=20"`
	Key       string `json:"key" validate:"required,max=60"`
	AccountID int64  `json:"account_id" validate:"required,gt=0"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list mappings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"mappings": details})
}

func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var form mappingForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	saved, err := h.service.Set(r.Context(), AccountMapping{
		Module:    form.Module,
		Key:       form.Key,
		AccountID: form.AccountID,
	})
	if err != nil {
		if errors.Is(err, shared.ErrAccountNotFound) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Reference", err.Error())
			return
		}
		h.logger.Error("set mapping", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, saved)
}
