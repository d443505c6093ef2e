package httpx

import (
	"errors"
	"net/http"

	acct "github.com/bahikhata-erp/bahikhata-erp/internal/accounting/shared"
	mdshared "github.com/bahikhata-erp/bahikhata-erp/internal/masterdata/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Posting-engine errors carry fixed statuses: state conflicts and
// transient serialization failures answer 409, configuration and
// overpayment problems answer 422, and a builder imbalance is a server
// fault because it can only come from a calculator defect.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mdshared.ErrNotFound), errors.Is(err, acct.ErrJournalNotFound), errors.Is(err, acct.ErrAccountNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, mdshared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, mdshared.ErrInvalidID):
		Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
	case errors.Is(err, mdshared.ErrValidation), errors.Is(err, acct.ErrTooFewLines):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, acct.ErrAlreadyPosted), errors.Is(err, acct.ErrNotPosted), errors.Is(err, acct.ErrInvalidTransition):
		Problem(w, http.StatusConflict, "Illegal Document State", err.Error())
	case errors.Is(err, acct.ErrSerializationConflict):
		w.Header().Set("Retry-After", "1")
		Problem(w, http.StatusConflict, "Transient Conflict", "the operation hit a concurrent update, retry with the same input")
	case errors.Is(err, acct.ErrOverpayment):
		Problem(w, http.StatusUnprocessableEntity, "Overpayment", err.Error())
	case errors.Is(err, acct.ErrAccountNotConfigured):
		Problem(w, http.StatusUnprocessableEntity, "Posting Not Configured", err.Error())
	case errors.Is(err, acct.ErrUnbalancedEntry):
		Problem(w, http.StatusInternalServerError, "Posting Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
