package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/tieredpricing-backend/api/controllers"
	"github.com/angelmondragon/tieredpricing-backend/api/middleware"
	"github.com/angelmondragon/tieredpricing-backend/internal/cart"
	"github.com/angelmondragon/tieredpricing-backend/internal/tiers"
	"github.com/angelmondragon/tieredpricing-backend/internal/variants"
	"github.com/angelmondragon/tieredpricing-backend/pkg/config"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/metrics"
	"github.com/angelmondragon/tieredpricing-backend/pkg/redis"
)

// Deps carries what the router wires into handlers. Redis-backed fields may
// be nil when Redis is disabled.
type Deps struct {
	DBPinger         db.Pinger
	RedisPinger      redis.Pinger
	IdempotencyStore redis.IdempotencyStore
	Gatherer         prometheus.Gatherer
	Metrics          *metrics.PricingMetrics
	TierService      tiers.Service
	CartService      cart.Service
	PriceViews       variants.PriceViewLoader
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))
		r.Post("/set-tiered-prices", controllers.AdminSetTieredPrices(deps.TierService, logg))
		r.Get("/products/{productId}/tiered-prices", controllers.AdminProductTieredPrices(deps.TierService, logg))
	})

	r.Route("/store", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))
		r.Route("/carts", func(r chi.Router) {
			r.Post("/", controllers.StoreCreateCart(deps.CartService, logg))
			r.Get("/{cartId}", controllers.StoreGetCart(deps.CartService, logg))
			r.Post("/{cartId}/line-items-tiered", controllers.StoreAddTieredLineItem(deps.CartService, logg))
		})
		r.Get("/variants/{variantId}/price-preview", controllers.StoreVariantPricePreview(deps.PriceViews, deps.Metrics, cfg.Pricing.DefaultCurrency, logg))
	})

	return r
}
