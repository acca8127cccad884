package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/tieredpricing-backend/internal/tiers"
	"github.com/angelmondragon/tieredpricing-backend/internal/variants"
	"github.com/angelmondragon/tieredpricing-backend/pkg/config"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "schema", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	// no cache invalidation here: the api's preview cache expires on its own TTL
	tierService, err := tiers.NewService(variants.NewRepository(dbClient.DB()), dbClient, nil, nil, logg, tiers.Options{
		Policy:           cfg.Pricing.WritePolicy,
		StrictValidation: cfg.Pricing.StrictValidation,
		DefaultCurrency:  cfg.Pricing.DefaultCurrency,
	})
	requireResource(ctx, logg, "tier service", err)

	seeder, err := NewSeeder(SeederParams{
		DB:       dbClient,
		Tiers:    tierService,
		Logger:   logg,
		Currency: cfg.Pricing.DefaultCurrency,
	})
	requireResource(ctx, logg, "seeder", err)

	product, err := seeder.Run(ctx)
	if err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
	fmt.Println("seeded product:", product.ID)
	for _, id := range variantIDs(product) {
		fmt.Println("  variant:", id)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
