package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/storefront-labs/storefront/internal/api/http"
	"github.com/storefront-labs/storefront/internal/api/http/handlers"
	"github.com/storefront-labs/storefront/internal/apiclient"
	"github.com/storefront-labs/storefront/internal/config"
	"github.com/storefront-labs/storefront/internal/gate"
	"github.com/storefront-labs/storefront/internal/nav"
	"github.com/storefront-labs/storefront/internal/notify"
	"github.com/storefront-labs/storefront/internal/observability"
	"github.com/storefront-labs/storefront/internal/persistence"
	"github.com/storefront-labs/storefront/internal/role"
	"github.com/storefront-labs/storefront/internal/service"
	"github.com/storefront-labs/storefront/internal/session"
	"github.com/storefront-labs/storefront/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics("storefront")
	deps := map[string]handlers.Pinger{}

	var area session.Area
	switch cfg.Session.Backend {
	case "redis":
		redis, err := persistence.NewRedis(context.Background(), cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		redisArea := redis.SessionArea(cfg.Session, logger)
		defer redisArea.Close()
		area = redisArea
		deps["redis"] = redis
	default:
		area = session.NewMemoryBus().Area()
	}

	notifier, err := notify.New(area, session.KeysFor(cfg.Session.KeyPrefix), logger)
	if err != nil {
		logger.Fatal("failed to watch session area", zap.Error(err))
	}
	defer notifier.Close()

	store := session.NewStore(area, notifier, session.StoreOptions{
		KeyPrefix: cfg.Session.KeyPrefix,
		Logger:    logger,
		Metrics:   metrics,
	})
	observer := role.NewObserver(store, notifier, logger)
	defer observer.Close()

	var shell *web.Shell
	paths := gate.Paths{Login: cfg.Routes.Login, Home: cfg.Routes.Home, Admin: cfg.Routes.Admin}
	policy := apiclient.DefaultPolicy(cfg.API.BasePath, cfg.API.SessionLookupPath, cfg.API.CartPath)
	transport := &apiclient.Transport{
		Base:      http.DefaultTransport,
		Session:   store,
		Signals:   notifier,
		Navigator: nav.Func(func(path string) {
			if shell != nil {
				shell.Navigate(path)
			}
		}),
		Policy:    policy,
		LoginPath: paths.Login,
		Logger:    logger,
		Metrics:   metrics,
	}
	api := apiclient.NewClient(apiclient.Options{
		BaseURL:  cfg.API.BaseURL,
		BasePath: cfg.API.BasePath,
		Timeout:  cfg.App.RequestTimeout(),
	}, transport, policy)
	sessions := service.NewSessionService(api, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if user, ok, err := sessions.Restore(ctx); err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			logger.Info("stored session expired")
		} else {
			logger.Warn("unable to restore session", zap.Error(err))
		}
	} else if ok {
		logger.Info("session restored", zap.String("user_id", user.ID), zap.Stringer("role", user.Role))
	}

	shell = web.NewShell(web.Dependencies{
		Observer: observer,
		Sessions: sessions,
		API:      api,
		Paths:    paths,
		Metrics:  metrics,
		Logger:   logger,
	})
	defer shell.Close()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	shell.RegisterRoutes(app, handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps))

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
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
