package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tieredpricing-backend/api/routes"
	"github.com/angelmondragon/tieredpricing-backend/internal/cart"
	"github.com/angelmondragon/tieredpricing-backend/internal/tiers"
	"github.com/angelmondragon/tieredpricing-backend/internal/variants"
	"github.com/angelmondragon/tieredpricing-backend/pkg/config"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/metrics"
	"github.com/angelmondragon/tieredpricing-backend/pkg/migrate"
	"github.com/angelmondragon/tieredpricing-backend/pkg/redis"
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	recorder := metrics.NewPricingMetrics(prometheus.DefaultRegisterer)
	variantRepo := variants.NewRepository(dbClient.DB())
	reader, err := variants.NewReader(variantRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create price view reader", err)
		os.Exit(1)
	}

	deps := routes.Deps{
		DBPinger:   dbClient,
		Gatherer:   prometheus.DefaultGatherer,
		Metrics:    recorder,
		PriceViews: reader,
	}
	var invalidator variants.Invalidator

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()

		cached, err := variants.NewCachedReader(reader, redisClient, cfg.Pricing.PreviewCacheTTL, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create cached price view reader", err)
			os.Exit(1)
		}
		deps.RedisPinger = redisClient
		deps.IdempotencyStore = redisClient
		deps.PriceViews = cached
		invalidator = cached
	} else {
		logg.Warn(context.Background(), "redis disabled: idempotency keys and preview caching are off")
	}

	deps.TierService, err = tiers.NewService(variantRepo, dbClient, invalidator, recorder, logg, tiers.Options{
		Policy:           cfg.Pricing.WritePolicy,
		StrictValidation: cfg.Pricing.StrictValidation,
		DefaultCurrency:  cfg.Pricing.DefaultCurrency,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create tier service", err)
		os.Exit(1)
	}

	deps.CartService, err = cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, variantRepo, recorder, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"write_policy": string(cfg.Pricing.WritePolicy),
		"strict":       cfg.Pricing.StrictValidation,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
