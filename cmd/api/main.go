package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/quangvu-go/pricehub/configs"
	"github.com/quangvu-go/pricehub/internal/aggregator"
	"github.com/quangvu-go/pricehub/internal/drivers"
	"github.com/quangvu-go/pricehub/internal/drivers/binance"
	"github.com/quangvu-go/pricehub/internal/drivers/huobi"
	"github.com/quangvu-go/pricehub/internal/events"
	"github.com/quangvu-go/pricehub/internal/gateway"
	"github.com/quangvu-go/pricehub/internal/handler"
	"github.com/quangvu-go/pricehub/internal/repository"
	"github.com/quangvu-go/pricehub/internal/router"
	"github.com/quangvu-go/pricehub/internal/service"
	"github.com/quangvu-go/pricehub/pkg/faulttolerance"
)

func main() {
	cfg := configs.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before serving")
	flag.Parse()

	if *migrateFlag {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatalf("Failed to get sql.DB: %v", err)
		}
		if err := goose.SetDialect("postgres"); err != nil {
			logger.Fatalf("Goose: failed to set dialect: %v", err)
		}
		logger.Info("Running database migrations...")
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			logger.Fatalf("Goose migration failed: %v", err)
		}
	}

	quoteRepo := repository.NewGormQuoteRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	walletRepo := repository.NewGormWalletRepository(db)
	tradeRepo := repository.NewGormTradeRepository(db)

	sources := []drivers.Source{
		binance.NewClient(cfg.Sources.BinanceURL, cfg.Sources.FetchTimeout, cfg.Sources.RequestsPerSecond, logger),
		huobi.NewClient(cfg.Sources.HuobiURL, cfg.Sources.FetchTimeout, cfg.Sources.RequestsPerSecond, logger),
	}

	retryCfg := faulttolerance.RetryConfig{
		MaxAttempts: cfg.Resilience.RetryMaxAttempts,
		BaseDelay:   cfg.Resilience.RetryBaseDelay,
	}
	breakerCfg := faulttolerance.CircuitBreakerConfig{
		MaxFailures: cfg.Resilience.BreakerMaxFailures,
		Cooldown:    cfg.Resilience.BreakerCooldown,
	}
	fetchGateway := gateway.New(sources, quoteRepo, retryCfg, breakerCfg, logger)

	priceAggregator := aggregator.New(sources, fetchGateway, quoteRepo,
		cfg.Aggregation.SupportedSymbols, cfg.Aggregation.Interval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go priceAggregator.Run(ctx)

	var tradeEvents service.TradeEventPublisher
	if cfg.Kafka.Broker != "" {
		producer, err := events.NewTradeProducer(cfg.Kafka.Broker, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Errorf("Trade event publishing disabled, Kafka unavailable: %v", err)
		} else {
			defer producer.Close()
			tradeEvents = producer
		}
	}

	tradeService := service.NewTradeService(userRepo, quoteRepo, tradeRepo, walletRepo,
		tradeEvents, cfg.Aggregation.QuoteCurrency,
		cfg.Settlement.MaxAttempts, cfg.Settlement.RetryBaseDelay, logger)
	priceService := service.NewPriceService(quoteRepo, logger)
	walletService := service.NewWalletService(walletRepo, logger)

	apiRouter := router.NewRouter(&router.Config{
		TradeHandler:  handler.NewTradeHandler(tradeService, logger),
		PriceHandler:  handler.NewPriceHandler(priceService, logger),
		WalletHandler: handler.NewWalletHandler(walletService, logger),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: apiRouter,
	}

	go func() {
		logger.Infof("HTTP API listening on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown failed: %v", err)
	}
}
