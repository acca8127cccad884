package controllers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/tieredpricing-backend/api/responses"
	"github.com/angelmondragon/tieredpricing-backend/pkg/config"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TieredPricing-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and, when configured, Redis in parallel.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TieredPricing-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok"}
		if redisP != nil {
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "disabled"
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if dbP == nil {
				return pkgerrors.New(pkgerrors.CodeDependency, "database not configured")
			}
			if err := dbP.Ping(gctx); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable")
			}
			return nil
		})
		if redisP != nil {
			g.Go(func() error {
				if err := redisP.Ping(gctx); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable")
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
