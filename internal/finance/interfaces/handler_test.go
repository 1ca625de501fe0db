package interfaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sebuszqo/FinanceDRE/internal/finance/application"
	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinanceDRE/internal/finance/errors"
	"github.com/sebuszqo/FinanceDRE/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceDRE/internal/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	mux          *http.ServeMux
	categories   *infrastructure.MockCategoryRepository
	transactions *infrastructure.MockTransactionRepository
}

func newTestServer() *testServer {
	categories := infrastructure.NewMockCategoryRepository(
		domain.Category{ID: 1, Name: "Vendas", Type: domain.CategoryTypeRevenue},
		domain.Category{ID: 2, Name: "CMV", Type: domain.CategoryTypeCost},
		domain.Category{ID: 3, Name: "Aluguel", Type: domain.CategoryTypeExpense},
	)
	transactions := infrastructure.NewMockTransactionRepository(categories)

	categoryService := application.NewCategoryService(categories)
	categoryHandler := NewCategoryHandler(categoryService, RespondJSON, RespondError)
	transactionHandler := NewTransactionHandler(application.NewTransactionService(transactions, categoryService), RespondJSON, RespondError)
	statementHandler := NewStatementHandler(application.NewStatementService(transactions), RespondJSON, RespondError)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", categoryHandler.GetCategories)
	mux.HandleFunc("POST /categories", categoryHandler.CreateCategory)
	mux.HandleFunc("PUT /categories/{id}", categoryHandler.UpdateCategory)
	mux.HandleFunc("DELETE /categories/{id}", categoryHandler.DeleteCategory)
	mux.HandleFunc("GET /transactions", transactionHandler.GetUserTransactions)
	mux.HandleFunc("POST /transactions", transactionHandler.CreateTransaction)
	mux.HandleFunc("PUT /transactions/{id}", transactionHandler.UpdateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", transactionHandler.DeleteTransaction)
	mux.HandleFunc("GET /dre", statementHandler.GetIncomeStatement)
	return &testServer{mux: mux, categories: categories, transactions: transactions}
}

func (s *testServer) do(t *testing.T, userID int64, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != 0 {
		req = req.WithContext(user.NewContext(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestCategories_CRUD(t *testing.T) {
	s := newTestServer()

	w := s.do(t, 1, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 3)
	assert.Equal(t, "Aluguel", data[0].(map[string]interface{})["name"])

	w = s.do(t, 1, http.MethodPost, "/categories", map[string]string{"name": "Juros", "type": "EXPENSE"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), created["id"])

	w = s.do(t, 1, http.MethodPost, "/categories", map[string]string{"name": "Juros", "type": "EXPENSE"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, 1, http.MethodPost, "/categories", map[string]string{"name": "Juros 2", "type": "OTHER"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{"Type must be 'REVENUE', 'COST' or 'EXPENSE'"}, decode(t, w)["errors"])

	w = s.do(t, 1, http.MethodPut, "/categories/4", map[string]string{"name": "Juros", "type": "COST"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "COST", decode(t, w)["data"].(map[string]interface{})["type"])

	w = s.do(t, 1, http.MethodPut, "/categories/99", map[string]string{"name": "X", "type": "COST"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, 1, http.MethodPut, "/categories/abc", map[string]string{"name": "X", "type": "COST"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, 1, http.MethodDelete, "/categories/4", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, 1, http.MethodDelete, "/categories/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactions_CreateListUpdateDelete(t *testing.T) {
	s := newTestServer()

	w := s.do(t, 1, http.MethodPost, "/transactions", map[string]interface{}{
		"categoryId": 1, "date": "2024-01-10", "description": "Venda", "amount": 1000,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "1000", created["amount"])
	assert.Equal(t, float64(1), created["userId"])
	assert.NotNil(t, created["category"])

	w = s.do(t, 1, http.MethodPost, "/transactions", map[string]interface{}{
		"categoryId": 1, "date": "2024-02-10T12:00:00Z", "description": "Venda 2", "amount": "10.50",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, 1, http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["data"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, "Venda 2", list[0].(map[string]interface{})["description"])

	w = s.do(t, 2, http.MethodPut, "/transactions/1", map[string]interface{}{"amount": 5})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, 1, http.MethodPut, "/transactions/42", map[string]interface{}{"amount": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, 1, http.MethodPut, "/transactions/1", map[string]interface{}{"amount": 5, "description": "Venda ajustada"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "5", updated["amount"])
	assert.Equal(t, "Venda ajustada", updated["description"])

	w = s.do(t, 2, http.MethodDelete, "/transactions/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, 1, http.MethodDelete, "/transactions/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, 1, http.MethodDelete, "/transactions/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTransactions_CreateValidation(t *testing.T) {
	s := newTestServer()

	w := s.do(t, 1, http.MethodPost, "/transactions", map[string]interface{}{
		"categoryId": 1, "date": "10/01/2024", "description": "Venda",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{
		"Date must be YYYY-MM-DD or an ISO-8601 date-time",
		"Amount is required",
	}, decode(t, w)["errors"])

	w = s.do(t, 1, http.MethodPost, "/transactions", map[string]interface{}{
		"categoryId": 77, "date": "2024-01-10", "description": "Venda", "amount": 1,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category", decode(t, w)["message"])

	w = s.do(t, 0, http.MethodPost, "/transactions", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, 1, http.MethodPost, "/transactions", map[string]interface{}{
		"categoryId": 1, "date": "2024-01-10", "description": "Venda", "amount": "10000000000000",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []interface{}{
		"Amount must be less than 1000000000000 in absolute value",
	}, decode(t, w)["errors"])
	assert.Empty(t, s.transactions.Transactions)

	w = s.do(t, 1, http.MethodPost, "/transactions", map[string]interface{}{
		"categoryId": 1, "date": "2024-01-15T10:00:00", "description": "Venda", "amount": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, s.transactions.Transactions[0].Date.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)))
}

func TestUpdateTransaction_AmountOutOfRange(t *testing.T) {
	s := newTestServer()
	s.transactions.Transactions = []domain.Transaction{
		{ID: 1, UserID: 1, CategoryID: 1, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local), Description: "Venda", Amount: decimal.NewFromInt(10)},
	}

	w := s.do(t, 1, http.MethodPut, "/transactions/1", map[string]interface{}{"amount": "-1000000000000"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, s.transactions.Transactions[0].Amount.Equal(decimal.NewFromInt(10)))
}

func TestDeleteCategory_InUse(t *testing.T) {
	s := newTestServer()
	s.categories.Err = financeErrors.ErrCategoryInUse

	w := s.do(t, 1, http.MethodDelete, "/categories/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStatement_Example(t *testing.T) {
	s := newTestServer()
	s.transactions.Transactions = []domain.Transaction{
		{ID: 1, UserID: 1, CategoryID: 1, Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(1000)},
		{ID: 2, UserID: 1, CategoryID: 2, Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(400)},
		{ID: 3, UserID: 1, CategoryID: 3, Date: time.Date(2024, 1, 7, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(200)},
		{ID: 4, UserID: 2, CategoryID: 1, Date: time.Date(2024, 1, 7, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(9999)},
	}

	w := s.do(t, 1, http.MethodGet, "/dre?from=2024-01-01&to=2024-01-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()

	var statement struct {
		Totals    map[string]string `json:"totals"`
		Breakdown map[string]string `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal([]byte(first), &statement))
	assert.Equal(t, map[string]string{
		"receitaBruta": "1000",
		"custo":        "400",
		"lucroBruto":   "600",
		"despesa":      "200",
		"resultado":    "400",
	}, statement.Totals)
	assert.Equal(t, map[string]string{"REVENUE": "1000", "COST": "400", "EXPENSE": "200"}, statement.Breakdown)

	w = s.do(t, 1, http.MethodGet, "/dre?from=2024-01-01&to=2024-01-31", nil)
	assert.Equal(t, first, w.Body.String())
}

func TestStatement_LocalDateTimeBounds(t *testing.T) {
	s := newTestServer()
	s.transactions.Transactions = []domain.Transaction{
		{ID: 1, UserID: 1, CategoryID: 1, Date: time.Date(2020, 1, 5, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(10)},
		{ID: 2, UserID: 1, CategoryID: 1, Date: time.Date(2024, 6, 5, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(5)},
	}

	for _, from := range []string{"2024-01-15T10:00:00", "2024-01-15T10:00"} {
		w := s.do(t, 1, http.MethodGet, "/dre?from="+from, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var statement struct {
			Period struct {
				From time.Time `json:"from"`
			} `json:"period"`
			Totals map[string]string `json:"totals"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&statement))
		assert.True(t, statement.Period.From.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)), from)
		assert.Equal(t, "5", statement.Totals["resultado"], from)
	}
}

func TestStatement_MalformedDatesFallBackToDefaults(t *testing.T) {
	s := newTestServer()
	s.transactions.Transactions = []domain.Transaction{
		{ID: 1, UserID: 1, CategoryID: 1, Date: time.Date(1999, 1, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(10)},
	}

	w := s.do(t, 1, http.MethodGet, "/dre?from=yesterday&to=later", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var statement struct {
		Period struct {
			From time.Time `json:"from"`
			To   time.Time `json:"to"`
		} `json:"period"`
		Totals map[string]string `json:"totals"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&statement))
	assert.True(t, statement.Period.From.Equal(domain.StatementStart))
	assert.True(t, statement.Period.To.Equal(domain.StatementEnd))
	assert.Equal(t, "10", statement.Totals["resultado"])
}

func TestStatement_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"store unavailable", financeErrors.StoreError("find statement entries", errors.New("dial tcp: refused")), http.StatusServiceUnavailable},
		{"integrity violation", &financeErrors.IntegrityError{TransactionID: 3, Msg: "unknown category type"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.transactions.Err = tt.err

			w := s.do(t, 1, http.MethodGet, "/dre", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "error", decode(t, w)["status"])
		})
	}
}

func TestStatement_Unauthorized(t *testing.T) {
	s := newTestServer()
	w := s.do(t, 0, http.MethodGet, "/dre", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
