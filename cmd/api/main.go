package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/carlothq/carlot-backend/api/routes"
	"github.com/carlothq/carlot-backend/internal/catalog"
	"github.com/carlothq/carlot-backend/internal/identity"
	"github.com/carlothq/carlot-backend/internal/purchases"
	pkgAuth "github.com/carlothq/carlot-backend/pkg/auth"
	"github.com/carlothq/carlot-backend/pkg/auth/session"
	"github.com/carlothq/carlot-backend/pkg/config"
	"github.com/carlothq/carlot-backend/pkg/db"
	"github.com/carlothq/carlot-backend/pkg/logger"
	"github.com/carlothq/carlot-backend/pkg/metrics"
	"github.com/carlothq/carlot-backend/pkg/migrate"
	"github.com/carlothq/carlot-backend/pkg/redis"
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
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	m := metrics.New("carlot")

	engine := catalog.NewEngine(
		catalog.WithPersistence(catalog.NewRepository(dbClient.DB())),
		catalog.WithSizeGauge(m.CatalogSize),
	)
	if err := engine.Load(ctx, cfg.Catalog.SeedWhenEmpty); err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	tokenIssuer, err := pkgAuth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create token issuer", err)
		os.Exit(1)
	}
	sessionManager := session.NewManager(redisClient, cfg.JWT.SessionTTL())

	identityService, err := identity.NewService(identity.ServiceParams{
		UserRepo:       identity.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		TokenIssuer:    tokenIssuer,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create identity service", err)
		os.Exit(1)
	}

	purchaseService, err := purchases.NewService(purchases.ServiceParams{
		Engine:    engine,
		Repo:      purchases.NewRepository(dbClient.DB()),
		Completed: m.PurchasesTotal,
	})
	if err != nil {
		logg.Error(ctx, "failed to create purchase service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		Engine:          engine,
		IdentityService: identityService,
		PurchaseService: purchaseService,
		TokenParser:     tokenIssuer,
		Sessions:        sessionManager,
		RateLimits:      redisClient,
		Metrics:         m,
		DBPinger:        dbClient,
		RedisPinger:     redisClient,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	closeErr := server.Shutdown(shutdownCtx)
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(startCtx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(startCtx, "shutdown complete")
}
