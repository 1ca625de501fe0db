package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
	"github.com/sebuszqo/FinanceDRE/internal/user"
)

type StatementServiceInterface interface {
	GetIncomeStatement(ctx context.Context, userID int64, from, to time.Time) (*domain.IncomeStatement, error)
}

type StatementHandler struct {
	service      StatementServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewStatementHandler(
	service StatementServiceInterface,
	respondJSON RespondJSONFunc,
	respondError RespondErrorFunc,
) *StatementHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &StatementHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// dateOrDefault parses a query bound; an absent or malformed value yields def.
func dateOrDefault(value string, def time.Time) time.Time {
	if value == "" {
		return def
	}
	date, err := domain.ParseDate(value)
	if err != nil {
		return def
	}
	return date
}

// GetIncomeStatement answers GET /dre?from=&to= with the statement itself as
// the response body.
func (h *StatementHandler) GetIncomeStatement(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()
	from := dateOrDefault(query.Get("from"), domain.StatementStart)
	to := dateOrDefault(query.Get("to"), domain.StatementEnd)

	statement, err := h.service.GetIncomeStatement(r.Context(), userID, from, to)
	if err != nil {
		respondServiceError(w, r, h.respondError, err, "Failed to compute income statement")
		return
	}
	h.respondJSON(w, http.StatusOK, statement)
}
