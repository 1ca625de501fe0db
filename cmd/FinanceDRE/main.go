package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/sebuszqo/FinanceDRE/internal/auth"
	"github.com/sebuszqo/FinanceDRE/internal/config"
	database "github.com/sebuszqo/FinanceDRE/internal/db"
	"github.com/sebuszqo/FinanceDRE/internal/finance/application"
	"github.com/sebuszqo/FinanceDRE/internal/finance/infrastructure"
	"github.com/sebuszqo/FinanceDRE/internal/finance/interfaces"
	logger "github.com/sebuszqo/FinanceDRE/internal/log"
	"github.com/sebuszqo/FinanceDRE/internal/user"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: "server",
	})
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("Missing configuration, update to start server", logger.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", logger.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		log.Info("Running database migrations")
		if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
			return err
		}
	}

	dbService, err := database.NewDBService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer dbService.Close()

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo)
	userHandler := user.NewHandler(userService)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := auth.NewAuthService(userService, jwtManager)
	authHandler := auth.NewHandler(authService)

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)

	categoryService := application.NewCategoryService(categoryRepo)
	transactionService := application.NewTransactionService(transactionRepo, categoryService)
	statementService := application.NewStatementService(transactionRepo)

	if cfg.SeedCategories {
		seeded, err := categoryService.SeedDefaultCategories(ctx)
		if err != nil {
			return err
		}
		log.Info("Default categories seeded", "count", seeded)
	}

	categoryHandler := interfaces.NewCategoryHandler(categoryService, interfaces.RespondJSON, interfaces.RespondError)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, interfaces.RespondJSON, interfaces.RespondError)
	statementHandler := interfaces.NewStatementHandler(statementService, interfaces.RespondJSON, interfaces.RespondError)

	server := NewServer(authHandler, authService, userHandler, categoryHandler, transactionHandler, statementHandler,
		dbService, ServerOptions{
			Env:            cfg.Env,
			StaticDir:      cfg.StaticDir,
			AllowedOrigins: cfg.AllowedOrigins,
		}, log)
	server.RegisterRoutes()

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.Handler(),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
