package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebuszqo/FinanceDRE/internal/auth"
	"github.com/sebuszqo/FinanceDRE/internal/finance/application"
	"github.com/sebuszqo/FinanceDRE/internal/finance/domain"
	"github.com/sebuszqo/FinanceDRE/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceDRE/internal/finance/interfaces"
	logger "github.com/sebuszqo/FinanceDRE/internal/log"
	"github.com/sebuszqo/FinanceDRE/internal/user"
)

type fakeHealth struct {
	status string
}

func (f fakeHealth) Health(context.Context) map[string]string {
	return map[string]string{"status": f.status}
}

func newTestServer(t *testing.T, opts ServerOptions, health HealthChecker) *httptest.Server {
	t.Helper()
	userService := user.NewUserService(user.NewMockRepository())
	authService := auth.NewAuthService(userService, auth.NewJWTManager("test-secret", time.Hour))

	categories := infrastructure.NewMockCategoryRepository()
	transactions := infrastructure.NewMockTransactionRepository(categories)
	categoryService := application.NewCategoryService(categories)
	_, err := categoryService.SeedDefaultCategories(context.Background())
	require.NoError(t, err)

	server := NewServer(
		auth.NewHandler(authService),
		authService,
		user.NewHandler(userService),
		interfaces.NewCategoryHandler(categoryService, interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewTransactionHandler(application.NewTransactionService(transactions, categoryService), interfaces.RespondJSON, interfaces.RespondError),
		interfaces.NewStatementHandler(application.NewStatementService(transactions), interfaces.RespondJSON, interfaces.RespondError),
		health,
		opts,
		logger.Discard(),
	)
	server.RegisterRoutes()
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return res, decoded
}

func TestServer_EndToEnd(t *testing.T) {
	ts := newTestServer(t, ServerOptions{Env: "test", AllowedOrigins: []string{"*"}}, fakeHealth{status: "up"})

	res, body := call(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]string{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	token := body["token"].(string)
	assert.NotEmpty(t, res.Header.Get(logger.RequestIDHeader))

	res, _ = call(t, http.MethodGet, ts.URL+"/dre", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body = call(t, http.MethodGet, ts.URL+"/categories", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	categoryIDs := map[string]float64{}
	for _, c := range body["data"].([]interface{}) {
		category := c.(map[string]interface{})
		categoryIDs[category["name"].(string)] = category["id"].(float64)
	}
	require.Len(t, categoryIDs, len(application.DefaultCategories))

	for _, tx := range []struct {
		category string
		amount   string
	}{
		{"Vendas", "1000"},
		{"CMV", "400"},
		{"Despesas Administrativas", "200"},
	} {
		res, _ = call(t, http.MethodPost, ts.URL+"/transactions", token, map[string]interface{}{
			"categoryId":  categoryIDs[tx.category],
			"date":        "2024-03-10",
			"description": tx.category,
			"amount":      tx.amount,
		})
		require.Equal(t, http.StatusCreated, res.StatusCode)
	}

	res, body = call(t, http.MethodGet, ts.URL+"/dre?from=2024-03-01&to=2024-03-31", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	totals := body["totals"].(map[string]interface{})
	assert.Equal(t, "1000", totals["receitaBruta"])
	assert.Equal(t, "600", totals["lucroBruto"])
	assert.Equal(t, "400", totals["resultado"])

	res, body = call(t, http.MethodGet, ts.URL+"/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ana@example.com", body["data"].(map[string]interface{})["email"])
}

func TestServer_HealthAndRoot(t *testing.T) {
	ts := newTestServer(t, ServerOptions{Env: "test", AllowedOrigins: []string{"*"}}, fakeHealth{status: "up"})

	res, body := call(t, http.MethodGet, ts.URL+"/health", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "test", body["env"])

	res, body = call(t, http.MethodGet, ts.URL+"/", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["ok"])

	res, _ = call(t, http.MethodGet, ts.URL+"/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	down := newTestServer(t, ServerOptions{Env: "test"}, fakeHealth{status: "down"})
	res, body = call(t, http.MethodGet, down.URL+"/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, false, body["ok"])
}

func TestServer_StaticAndCORS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte(`{"app":"dre"}`), 0o644))
	ts := newTestServer(t, ServerOptions{Env: "test", StaticDir: dir, AllowedOrigins: []string{"https://app.example.com"}}, fakeHealth{status: "up"})

	res, body := call(t, http.MethodGet, ts.URL+"/index.json", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "dre", body["app"])

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/dre", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	preflight, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	preflight.Body.Close()
	assert.Equal(t, "https://app.example.com", preflight.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_StatementIsByteIdentical(t *testing.T) {
	ts := newTestServer(t, ServerOptions{Env: "test", AllowedOrigins: []string{"*"}}, fakeHealth{status: "up"})
	_, body := call(t, http.MethodPost, ts.URL+"/auth/register", "", map[string]string{
		"name": "Bia", "email": "bia@example.com", "password": "secret1",
	})
	token := body["token"].(string)

	fetch := func() string {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/dre", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "bearer "+token)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		raw, err := io.ReadAll(res.Body)
		require.NoError(t, err)
		return string(raw)
	}
	first := fetch()
	assert.Equal(t, first, fetch())

	var statement domain.IncomeStatement
	require.NoError(t, json.Unmarshal([]byte(first), &statement))
	assert.True(t, statement.Totals.Resultado.IsZero())
}
