package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/ecommerce-analytics/internal/analytics"
	"github.com/jcmexdev/ecommerce-analytics/internal/cache"
	"github.com/jcmexdev/ecommerce-analytics/internal/checkout"
	"github.com/jcmexdev/ecommerce-analytics/internal/config"
	"github.com/jcmexdev/ecommerce-analytics/internal/coordinator"
	"github.com/jcmexdev/ecommerce-analytics/internal/httpx"
	"github.com/jcmexdev/ecommerce-analytics/internal/store/sqlite"
	"github.com/jcmexdev/ecommerce-analytics/internal/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	customers := sqlite.NewCustomerStore(db)
	products := sqlite.NewProductStore(db)
	orders := sqlite.NewOrderStore(db)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	engine := analytics.NewService(customers, products, orders)
	queries := coordinator.New(engine, cache.NewRedisCache(redisClient), cfg.CacheTTL)
	placement := checkout.NewService(customers, products, orders, queries, queries)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpx.NewRouter(httpx.NewHandler(queries, placement)),
	}

	go func() {
		slog.Info("http server running", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}
