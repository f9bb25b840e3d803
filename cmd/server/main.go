package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/config"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/database"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/history"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/logger"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/scheduler"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/version"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/yahoo"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.Init(cfg.LogLevel)
	log.Info("starting stock trading simulator", "version", version.Version)

	if cfg.Auth.InternalAPIKey == "" {
		log.Warn("INTERNAL_API_KEY is not set, internal endpoints will reject every request")
	}

	// Open database connection
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
		return err
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("connected to database", "path", cfg.Database.Path)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	closePriceRepo := repository.NewClosePriceRepository(db)

	yahooClient := yahoo.NewFinanceClient()

	// Create services
	priceService := service.NewPriceService(
		closePriceRepo,
		holdingRepo,
		yahooClient,
		cfg.Prices.CacheTTL,
		cfg.Prices.FetchConcurrency,
	)
	reconstructor := history.NewReconstructor(
		priceService,
		history.WithLogger(log),
		history.WithFetchConcurrency(cfg.Prices.FetchConcurrency),
	)
	services := api.Services{
		System:    service.NewSystemService(db),
		User:      service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Trade:     service.NewTradeService(db, userRepo, holdingRepo, transactionRepo),
		Portfolio: service.NewPortfolioService(userRepo, holdingRepo, transactionRepo, reconstructor),
		Price:     priceService,
		Market:    service.NewMarketService(yahooClient),
	}

	refreshScheduler, err := scheduler.New(cfg.Prices.RefreshSchedule, priceService)
	if err != nil {
		return err
	}
	refreshScheduler.Start()
	log.Info("price refresh scheduled", "schedule", cfg.Prices.RefreshSchedule, "next", refreshScheduler.Next())

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(services, cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		refreshScheduler.Stop(context.Background())
		return err
	case <-quit:
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	refreshScheduler.Stop(ctx)
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server exited")
	return nil
}
