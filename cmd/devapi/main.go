package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/storefront-labs/storefront/internal/api/http"
	"github.com/storefront-labs/storefront/internal/api/http/handlers"
	"github.com/storefront-labs/storefront/internal/auth"
	"github.com/storefront-labs/storefront/internal/config"
	"github.com/storefront-labs/storefront/internal/observability"
	"github.com/storefront-labs/storefront/internal/persistence"
	"github.com/storefront-labs/storefront/internal/repository"
	"github.com/storefront-labs/storefront/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, "storefront-devapi")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	deps := map[string]handlers.Pinger{}
	var users repository.UserRepository
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		users = repository.NewUserRepository(pool)
		deps["postgres"] = pg
	} else {
		users = repository.NewMemoryUserRepository()
	}
	catalog := repository.NewMemoryCatalogRepository()

	authService := service.NewAuthService(cfg.Auth, users)
	if cfg.API.Seed {
		if err := service.SeedFixtures(ctx, authService, catalog, logger); err != nil {
			logger.Fatal("failed to seed fixtures", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics("storefront_devapi")
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		BasePath:       cfg.API.BasePath,
		Health:         handlers.NewHealthHandler("storefront-devapi", cfg.App.Version, deps),
		Users:          handlers.NewUsersHandler(authService),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Buyer:          handlers.NewBuyerHandler(catalog),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
		LoginLimiter:   httptransport.NewLoginLimiter(cfg.API.LoginRatePerMinute),
	})

	go func() {
		if err := app.Listen(cfg.API.DevAddr); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
