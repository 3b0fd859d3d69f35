package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"tradejoy/configs"
	"tradejoy/internal/database"
	delivery "tradejoy/internal/delivery/http"
	"tradejoy/internal/infra"
	"tradejoy/internal/repository"
	"tradejoy/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "broker").Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg(".env file not found, using environment variables")
	}

	cfg := configs.Load()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	if cfg.Broker.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx := context.Background()

	db, err := infra.NewDatabase(ctx, cfg.Broker.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	userRepo := repository.NewUserRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	quotes := service.NewQuoteService(cfg.Quotes.BaseURL)
	broker := service.NewBrokerService(userRepo, portfolioRepo, tradeRepo, watchlistRepo, quotes, logger)

	e := echo.New()
	e.HideBanner = true

	delivery.SetupRoutes(e, &delivery.RouterConfig{
		AuthHandler:   delivery.NewAuthHandler(userRepo, logger),
		BrokerHandler: delivery.NewBrokerHandler(broker, quotes, logger),
	})

	addr := fmt.Sprintf(":%s", cfg.Broker.Port)
	go func() {
		logger.Info().Str("addr", addr).Msg("broker listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server exited")
}
