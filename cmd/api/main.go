package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/blumenwerk/shop-backend/api/controllers"
	"github.com/blumenwerk/shop-backend/api/routes"
	checkoutsvc "github.com/blumenwerk/shop-backend/internal/checkout"
	"github.com/blumenwerk/shop-backend/pkg/config"
	"github.com/blumenwerk/shop-backend/pkg/logger"
	"github.com/blumenwerk/shop-backend/pkg/metrics"
	"github.com/blumenwerk/shop-backend/pkg/redis"
	pkgstripe "github.com/blumenwerk/shop-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	gateway, err := checkoutsvc.NewStripeGateway(stripeClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build payment gateway", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(promRegistry)

	checkoutService, err := checkoutsvc.NewService(cfg.Checkout, gateway, checkoutMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	var (
		idempotencyStore redis.IdempotencyStore
		redisPinger      controllers.Pinger
	)
	if cfg.Redis.Enabled() {
		redisClient, redisErr := redis.New(context.Background(), cfg.Redis)
		if redisErr != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", redisErr)
			os.Exit(1)
		}
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				logg.Error(context.Background(), "error closing redis", closeErr)
			}
		}()
		idempotencyStore = redisClient
		redisPinger = redisClient
	} else {
		logg.Warn(context.Background(), "redis disabled, checkout idempotency replay is off")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, checkoutService, idempotencyStore, redisPinger, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
