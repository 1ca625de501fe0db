package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	financeErrors "github.com/sebuszqo/FinanceDRE/internal/finance/errors"
	logger "github.com/sebuszqo/FinanceDRE/internal/log"
)

type RespondJSONFunc func(w http.ResponseWriter, status int, payload interface{})

type RespondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func RespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}

	RespondJSON(w, status, payload)
}

// respondServiceError maps a service error onto its HTTP status. Anything
// unexpected is logged and answered with fallback.
func respondServiceError(w http.ResponseWriter, r *http.Request, respondError RespondErrorFunc, err error, fallback string) {
	log := logger.FromContext(r.Context())

	var validationErrors *financeErrors.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
	case financeErrors.IsValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, financeErrors.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, financeErrors.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, financeErrors.ErrForbidden):
		respondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, financeErrors.ErrCategoryNameTaken):
		respondError(w, http.StatusConflict, "Category name already exists")
	case errors.Is(err, financeErrors.ErrCategoryInUse):
		respondError(w, http.StatusConflict, "Category is still used by transactions")
	case errors.Is(err, financeErrors.ErrStoreUnavailable):
		log.Warn("Store unavailable", logger.FieldError, err)
		respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
	case financeErrors.IsIntegrityError(err):
		log.Error("Data integrity violation", logger.FieldError, err)
		respondError(w, http.StatusInternalServerError, fallback)
	default:
		log.Error(fallback, logger.FieldError, err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
