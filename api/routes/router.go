package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amazingstor/backend/api/controllers"
	cartcontrollers "github.com/amazingstor/backend/api/controllers/cart"
	reportcontrollers "github.com/amazingstor/backend/api/controllers/reports"
	"github.com/amazingstor/backend/api/middleware"
	"github.com/amazingstor/backend/internal/cart"
	"github.com/amazingstor/backend/internal/reports"
	"github.com/amazingstor/backend/pkg/config"
	"github.com/amazingstor/backend/pkg/db"
	"github.com/amazingstor/backend/pkg/logger"
	"github.com/amazingstor/backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	cartService cart.Service,
	reportsService reports.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Post("/items", cartcontrollers.CartUpsert(cartService, logg))
		})

		r.Get("/reports/cart-sums", reportcontrollers.CartSums(reportsService, logg))
	})

	return r
}
