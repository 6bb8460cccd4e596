package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corebanking/ledger/internal/config"
	"github.com/corebanking/ledger/internal/events"
	"github.com/corebanking/ledger/internal/events/kafka"
	"github.com/corebanking/ledger/internal/handler"
	"github.com/corebanking/ledger/internal/logging"
	"github.com/corebanking/ledger/internal/middleware"
	"github.com/corebanking/ledger/internal/repository"
	"github.com/corebanking/ledger/internal/service"
	"github.com/corebanking/ledger/internal/service/ledger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("ledger-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
		slog.Info("transaction events enabled", "brokers", cfg.KafkaBrokers)
	}

	customerRepo := repository.NewCustomerRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	customerSvc := service.NewCustomerService(customerRepo)
	accountSvc := service.NewAccountService(accountRepo, customerRepo)
	ledgerSvc := ledger.NewService(accountRepo, transactionRepo, db, publisher)

	customerHandler := handler.NewCustomerHandler(customerSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	ledgerHandler := handler.NewLedgerHandler(ledgerSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("POST /api/v1/customers", customerHandler.Create)
	mux.HandleFunc("GET /api/v1/customers", customerHandler.List)
	mux.HandleFunc("POST /api/v1/accounts", accountHandler.Create)
	mux.HandleFunc("GET /api/v1/accounts", accountHandler.List)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/deposit", ledgerHandler.Deposit)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/withdraw", ledgerHandler.Withdraw)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/transfer", ledgerHandler.Transfer)
	mux.HandleFunc("GET /api/v1/accounts/{id}/transactions", ledgerHandler.ListTransactions)

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}

	var lastErr error
	for i := range 30 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		cancel()
		if err == nil {
			return db, nil
		}
		lastErr = err
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", lastErr)
}
