package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"tradejoy/configs"
	delivery "tradejoy/internal/delivery/http"
	"tradejoy/internal/domain"
	"tradejoy/internal/service"
	"tradejoy/internal/storage"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "business").Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg(".env file not found, using environment variables")
	}

	cfg := configs.Load()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := storage.NewDatabase(cfg.Business.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}

	transactionStore := storage.NewTransactionStore(db)
	profileStore := storage.NewProfileStore(db)
	milestoneStore := storage.NewMilestoneStore(db)

	businessService := service.NewBusinessService(transactionStore, profileStore, milestoneStore, logger)

	if err := seedDemoData(context.Background(), businessService, transactionStore); err != nil {
		logger.Warn().Err(err).Msg("demo seed failed")
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	handler := delivery.NewBusinessHandler(businessService, logger)
	handler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Business.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("business ledger listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server exited")
}

// seedDemoData gives the demo user a few starter transactions so the
// dashboard is not empty on first boot. Runs only when the demo ledger
// has no rows.
func seedDemoData(ctx context.Context, svc *service.BusinessService, store domain.TransactionRepository) error {
	count, err := store.CountByUser(ctx, delivery.DefaultUserID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	samples := []domain.Transaction{
		{Kind: domain.KindSale, Amount: 150, Description: "Vegetables Sale", Category: domain.CategoryProductSale, Timestamp: now.Add(-2 * time.Hour)},
		{Kind: domain.KindExpense, Amount: 50, Description: "Transport Cost", Category: domain.CategoryTransport, Timestamp: now.Add(-3 * time.Hour)},
		{Kind: domain.KindSale, Amount: 200, Description: "Service Charge", Category: domain.CategoryService, Timestamp: now.Add(-4 * time.Hour)},
	}
	for i := range samples {
		samples[i].UserID = delivery.DefaultUserID
		samples[i].Date = samples[i].Timestamp.Format(domain.DateLayout)
		if err := svc.AddTransaction(ctx, &samples[i]); err != nil {
			return err
		}
	}
	return nil
}
