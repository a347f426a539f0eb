package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carlothq/carlot-backend/api/controllers"
	"github.com/carlothq/carlot-backend/api/middleware"
	"github.com/carlothq/carlot-backend/internal/catalog"
	"github.com/carlothq/carlot-backend/internal/identity"
	"github.com/carlothq/carlot-backend/internal/purchases"
	pkgAuth "github.com/carlothq/carlot-backend/pkg/auth"
	"github.com/carlothq/carlot-backend/pkg/config"
	"github.com/carlothq/carlot-backend/pkg/enums"
	"github.com/carlothq/carlot-backend/pkg/logger"
	"github.com/carlothq/carlot-backend/pkg/metrics"
	"github.com/carlothq/carlot-backend/pkg/pagination"
)

type tokenParser interface {
	Parse(token string) (*pkgAuth.Claims, error)
}

type sessionValidator interface {
	Validate(ctx context.Context, tokenID string) (string, error)
}

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

type pinger interface {
	Ping(context.Context) error
}

// Deps bundles everything the router needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Engine          *catalog.Engine
	IdentityService identity.Service
	PurchaseService purchases.Service
	TokenParser     tokenParser
	Sessions        sessionValidator
	RateLimits      rateLimiterStore
	Metrics         *metrics.Metrics
	DBPinger        pinger
	RedisPinger     pinger
}

// NewRouter mounts the full HTTP surface. Catalog reads are public; catalog
// writes require an authenticated admin, purchases an authenticated caller.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.Metrics),
	)

	defaults := pagination.Params{
		Page:  1,
		Limit: cfg.Catalog.DefaultLimit,
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authRequired := middleware.Auth(deps.TokenParser, deps.Sessions, logg)
	adminOnly := middleware.RequireRole(enums.RoleAdmin, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimits, logg)).
			Post("/register", controllers.AuthRegister(deps.IdentityService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimits, logg)).
			Post("/login", controllers.AuthLogin(deps.IdentityService, logg))

		r.Group(func(r chi.Router) {
			r.Use(authRequired)
			r.Post("/logout", controllers.AuthLogout(deps.IdentityService, logg))
			r.Get("/me", controllers.AuthMe(deps.IdentityService, logg))
		})
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/", controllers.CatalogList(deps.Engine, defaults, logg))
		r.Get("/{carId}", controllers.CatalogGet(deps.Engine, logg))

		r.Group(func(r chi.Router) {
			r.Use(authRequired, adminOnly)
			r.Post("/", controllers.CatalogCreate(deps.Engine, logg))
			r.Put("/{carId}", controllers.CatalogUpdate(deps.Engine, logg))
			r.Delete("/{carId}", controllers.CatalogDelete(deps.Engine, logg))
			r.Post("/bulk-delete", controllers.CatalogBulkDelete(deps.Engine, logg))
		})

		r.With(authRequired).Post("/{carId}/purchase", controllers.PurchaseCar(deps.PurchaseService, logg))
	})

	r.With(authRequired).Get("/purchases", controllers.ListPurchases(deps.PurchaseService, logg))

	return r
}
