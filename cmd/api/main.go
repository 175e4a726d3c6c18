package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/charuprabha111/sweet-shop-management/internal/auth"
	"github.com/charuprabha111/sweet-shop-management/internal/config"
	"github.com/charuprabha111/sweet-shop-management/internal/httpx"
	kafkax "github.com/charuprabha111/sweet-shop-management/internal/kafka"
	"github.com/charuprabha111/sweet-shop-management/internal/logging"
	"github.com/charuprabha111/sweet-shop-management/internal/postgres"
	"github.com/charuprabha111/sweet-shop-management/internal/redisx"
	"github.com/charuprabha111/sweet-shop-management/internal/sweets"
	"github.com/charuprabha111/sweet-shop-management/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer (optional)
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, sweets.TopicStockChanged, 1024, logger)
		prod.Start(ctx)
	}

	// Auth
	tokens := &auth.TokenManager{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	}
	authSvc := &auth.Service{
		Logger:  logger,
		Users:   &users.PGStore{DB: db},
		Tokens:  tokens,
		Refresh: &auth.RedisRefreshStore{Client: rdb},
	}

	// Sweets
	sweetSvc := &sweets.Service{
		Store:       &sweets.PGStore{DB: db},
		Gate:        auth.NewGate(),
		Events:      prod,
		Logger:      logger,
		ServiceName: cfg.ServiceName,
	}

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.AuthHandler{Service: authSvc, Logger: logger}).Register(router)
	(&httpx.SweetsHandler{Service: sweetSvc, Tokens: tokens, Logger: logger}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // close inbox -> flush & close writer
		prod.WaitClosed()
	}
}
