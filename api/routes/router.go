package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stocktrail/stocktrail-backend/api/controllers"
	"github.com/stocktrail/stocktrail-backend/api/middleware"
	authsvc "github.com/stocktrail/stocktrail-backend/internal/auth"
	categorysvc "github.com/stocktrail/stocktrail-backend/internal/categories"
	inventorysvc "github.com/stocktrail/stocktrail-backend/internal/inventory"
	usersvc "github.com/stocktrail/stocktrail-backend/internal/users"
	"github.com/stocktrail/stocktrail-backend/pkg/auth/session"
	"github.com/stocktrail/stocktrail-backend/pkg/config"
	"github.com/stocktrail/stocktrail-backend/pkg/db"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/metrics"
	"github.com/stocktrail/stocktrail-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	promGatherer prometheus.Gatherer,
	authService authsvc.Service,
	userService usersvc.Service,
	categoryService categorysvc.Service,
	inventoryService inventorysvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	tokenPolicy := middleware.NewAuthRateLimitPolicy(
		"token",
		cfg.AuthRateLimit.TokenWindow,
		cfg.AuthRateLimit.TokenIPLimit,
		cfg.AuthRateLimit.TokenUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		0,
	)

	var redisPinger redis.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisPinger, logg))
	})

	if promGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/token", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(tokenPolicy, redisClient, logg)).Post("/", controllers.ObtainToken(authService, logg))
			r.Post("/refresh", controllers.RefreshToken(authService, logg))
			r.Post("/revoke", controllers.RevokeToken(authService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			// Registration is the only open resource endpoint.
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/", controllers.RegisterUser(userService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, sessions, logg))
				r.Get("/", controllers.ListUsers(userService, logg))
				r.Get("/{id}", controllers.GetUser(userService, logg))
				r.Patch("/{id}", controllers.UpdateUser(userService, logg))
				r.Delete("/{id}", controllers.DeleteUser(userService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.ListCategories(categoryService, logg))
				r.Post("/", controllers.CreateCategory(categoryService, logg))
				r.Get("/{id}", controllers.GetCategory(categoryService, logg))
				r.Patch("/{id}", controllers.UpdateCategory(categoryService, logg))
				r.Delete("/{id}", controllers.DeleteCategory(categoryService, logg))
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.ListItems(inventoryService, logg))
				r.Post("/", controllers.CreateItem(inventoryService, logg))
				r.Get("/{id}", controllers.GetItem(inventoryService, logg))
				r.Patch("/{id}", controllers.UpdateItem(inventoryService, logg))
				r.Delete("/{id}", controllers.DeleteItem(inventoryService, logg))
				r.Post("/{id}/adjust_stock", controllers.AdjustStock(inventoryService, logg))
				r.Get("/{id}/history", controllers.ItemHistory(inventoryService, logg))
			})

			r.Get("/changes", controllers.ListChanges(inventoryService, logg))
		})
	})

	return r
}
