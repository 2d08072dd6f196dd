package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulseautomarket/desking-backend/api/controllers"
	"github.com/pulseautomarket/desking-backend/api/middleware"
	"github.com/pulseautomarket/desking-backend/internal/deals"
	"github.com/pulseautomarket/desking-backend/internal/desking"
	"github.com/pulseautomarket/desking-backend/internal/vehicles"
	"github.com/pulseautomarket/desking-backend/pkg/config"
	"github.com/pulseautomarket/desking-backend/pkg/db"
	"github.com/pulseautomarket/desking-backend/pkg/logger"
	"github.com/pulseautomarket/desking-backend/pkg/metrics"
	pkgredis "github.com/pulseautomarket/desking-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DBPinger     db.Pinger
	Redis        *pkgredis.Client
	HTTPMetrics  *metrics.HTTPMetrics
	Gatherer     prometheus.Gatherer
	DealsService deals.Service
	Vehicles     vehicles.Service
	Pricer       *desking.Pricer
	Taxes        desking.TaxTable
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	quotePolicy := middleware.NewRateLimitPolicy("quotes", time.Minute, 120)

	// Typed-nil guard: a nil *redis.Client stuffed straight into the
	// middleware interfaces would defeat their nil checks.
	var idemStore pkgredis.IdempotencyStore
	var redisPinger pkgredis.Pinger
	var limiter interface {
		FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	}
	if deps.Redis != nil {
		idemStore = deps.Redis
		redisPinger = deps.Redis
		limiter = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPinger))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/quotes", func(r chi.Router) {
			r.Use(middleware.RateLimit(quotePolicy, limiter, logg))
			r.Get("/taxes", controllers.TaxQuote(deps.Taxes, logg))
			r.Post("/payment", controllers.PaymentQuote(cfg.Desking.DefaultTermMonths, logg))
			r.Post("/lease", controllers.LeaseQuote(logg))
			r.Post("/grid", controllers.GridQuote(logg))
			r.Post("/fi-menu", controllers.FIMenuQuote(deps.Pricer, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.VehicleList(deps.Vehicles, logg))
			r.Post("/", controllers.VehicleCreate(deps.Vehicles, logg))
			r.Get("/{vehicleID}", controllers.VehicleDetail(deps.Vehicles, logg))
			r.Put("/{vehicleID}/price", controllers.VehicleUpdatePrice(deps.Vehicles, logg))
		})

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", controllers.DealList(deps.DealsService, logg))
			r.Post("/", controllers.DealCreate(deps.DealsService, logg))
			r.Get("/stats", controllers.DealerStats(deps.DealsService, logg))

			r.Route("/{dealID}", func(r chi.Router) {
				r.Get("/", controllers.DealDetail(deps.DealsService, logg))
				r.Patch("/", controllers.DealUpdate(deps.DealsService, logg))
				r.Put("/finance", controllers.DealAttachFinance(deps.DealsService, logg))
				r.Put("/lease", controllers.DealAttachLease(deps.DealsService, logg))
				r.Delete("/terms", controllers.DealClearTerms(deps.DealsService, logg))
				r.Put("/products", controllers.DealSelectProducts(deps.DealsService, logg))
				r.With(middleware.RequireApprover(logg)).Post("/status", controllers.DealUpdateStatus(deps.DealsService, logg))
				r.Get("/proposal", controllers.DealProposal(deps.DealsService, logg))
			})
		})
	})

	return r
}
