package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/sebuszqo/FinanceDRE/internal/auth"
	"github.com/sebuszqo/FinanceDRE/internal/finance/interfaces"
	logger "github.com/sebuszqo/FinanceDRE/internal/log"
	"github.com/sebuszqo/FinanceDRE/internal/user"
)

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router             *http.ServeMux
	authHandler        *auth.Handler
	authService        auth.Service
	userHandler        *user.Handler
	categoryHandler    *interfaces.CategoryHandler
	transactionHandler *interfaces.TransactionHandler
	statementHandler   *interfaces.StatementHandler
	health             HealthChecker
	env                string
	staticDir          string
	allowedOrigins     []string
	logger             *logger.Logger
	startedAt          time.Time
}

type ServerOptions struct {
	Env            string
	StaticDir      string
	AllowedOrigins []string
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	categoryHandler *interfaces.CategoryHandler,
	transactionHandler *interfaces.TransactionHandler,
	statementHandler *interfaces.StatementHandler,
	health HealthChecker,
	opts ServerOptions,
	log *logger.Logger,
) *Server {
	return &Server{
		router:             http.NewServeMux(),
		authHandler:        authHandler,
		authService:        authService,
		userHandler:        userHandler,
		categoryHandler:    categoryHandler,
		transactionHandler: transactionHandler,
		statementHandler:   statementHandler,
		health:             health,
		env:                opts.Env,
		staticDir:          opts.StaticDir,
		allowedOrigins:     opts.AllowedOrigins,
		logger:             log,
		startedAt:          time.Now(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	interfaces.RespondError(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	db := s.health.Health(r.Context())
	status := http.StatusOK
	if db["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	interfaces.RespondJSON(w, status, map[string]interface{}{
		"ok":       status == http.StatusOK,
		"uptime":   time.Since(s.startedAt).Seconds(),
		"env":      s.env,
		"database": db,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		notFoundHandler(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return s.authService.JWTAccessTokenMiddleware()(h)
}

func (s *Server) RegisterRoutes() {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.HandleRegister)
	mux.HandleFunc("POST /auth/login", s.authHandler.HandleLogin)

	// Protected routes
	mux.Handle("GET /me", s.protected(s.userHandler.HandleGetUserProfile))

	mux.Handle("GET /categories", s.protected(s.categoryHandler.GetCategories))
	mux.Handle("POST /categories", s.protected(s.categoryHandler.CreateCategory))
	mux.Handle("PUT /categories/{id}", s.protected(s.categoryHandler.UpdateCategory))
	mux.Handle("DELETE /categories/{id}", s.protected(s.categoryHandler.DeleteCategory))

	mux.Handle("GET /transactions", s.protected(s.transactionHandler.GetUserTransactions))
	mux.Handle("POST /transactions", s.protected(s.transactionHandler.CreateTransaction))
	mux.Handle("PUT /transactions/{id}", s.protected(s.transactionHandler.UpdateTransaction))
	mux.Handle("DELETE /transactions/{id}", s.protected(s.transactionHandler.DeleteTransaction))

	mux.Handle("GET /dre", s.protected(s.statementHandler.GetIncomeStatement))

	if s.staticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
	} else {
		mux.HandleFunc("/", s.handleRoot)
	}

	s.router = mux
}

// Handler wraps the router with CORS and request logging.
func (s *Server) Handler() http.Handler {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders:   []string{logger.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return logger.Middleware(s.logger)(corsHandler(s.router))
}
