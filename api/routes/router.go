package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/livan116/shopcart-backend/api/controllers"
	"github.com/livan116/shopcart-backend/api/middleware"
	"github.com/livan116/shopcart-backend/internal/auth"
	"github.com/livan116/shopcart-backend/internal/cart"
	"github.com/livan116/shopcart-backend/internal/catalog"
	"github.com/livan116/shopcart-backend/pkg/auth/session"
	"github.com/livan116/shopcart-backend/pkg/config"
	"github.com/livan116/shopcart-backend/pkg/logger"
	"github.com/livan116/shopcart-backend/pkg/metrics"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	SessionChecker  session.AccessSessionChecker
	AuthService     auth.Service
	CartService     cart.Service
	CatalogService  catalog.Service
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer
	Pingers         map[string]controllers.Pinger
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", controllers.AuthSignup(deps.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).
			Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(deps.CatalogService, logg))
		r.Get("/{productId}", controllers.ProductsGet(deps.CatalogService, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Get("/", controllers.CartGet(deps.CartService, logg))
		r.Post("/add", controllers.CartAdd(deps.CartService, logg))
		r.Put("/update/{productId}", controllers.CartUpdate(deps.CartService, logg))
		r.Delete("/remove/{productId}", controllers.CartRemove(deps.CartService, logg))
	})

	return r
}
