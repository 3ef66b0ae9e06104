package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blumenwerk/shop-backend/api/controllers"
	checkoutcontrollers "github.com/blumenwerk/shop-backend/api/controllers/checkout"
	"github.com/blumenwerk/shop-backend/api/middleware"
	checkoutsvc "github.com/blumenwerk/shop-backend/internal/checkout"
	"github.com/blumenwerk/shop-backend/pkg/config"
	"github.com/blumenwerk/shop-backend/pkg/logger"
	"github.com/blumenwerk/shop-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	checkoutService checkoutsvc.Service,
	idempotencyStore redis.IdempotencyStore,
	redisPinger controllers.Pinger,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.Origins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.Idempotency(idempotencyStore, "checkout", logg)).
		Post("/checkout", checkoutcontrollers.CreateSession(checkoutService, logg))

	return r
}
