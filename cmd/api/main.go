package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/event-staffing-service/internal/api/http"
	"github.com/spec-kit/event-staffing-service/internal/api/http/handlers"
	"github.com/spec-kit/event-staffing-service/internal/auth"
	"github.com/spec-kit/event-staffing-service/internal/blob"
	"github.com/spec-kit/event-staffing-service/internal/config"
	"github.com/spec-kit/event-staffing-service/internal/events"
	"github.com/spec-kit/event-staffing-service/internal/observability"
	"github.com/spec-kit/event-staffing-service/internal/persistence"
	"github.com/spec-kit/event-staffing-service/internal/repository"
	"github.com/spec-kit/event-staffing-service/internal/service"
	"github.com/spec-kit/event-staffing-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var blobStore blob.Store
	if cfg.Blob.Endpoint != "" {
		blobStore = blob.NewHTTPStore(cfg.Blob.Endpoint, cfg.Blob.Token)
	} else {
		logger.Warn("no blob endpoint configured, using in-memory object store")
		blobStore = blob.NewMemoryStore()
	}

	store := repository.NewStore(pg.PoolHandle())
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	service.NewAuditService(dispatcher, logger, metrics)

	templates := service.NewTemplateService(store, redis.Client, logger)
	images := service.NewImageReplacer(blobStore, logger)
	reconciler := service.NewStaffingReconciler(cfg.Auth.BcryptCost)

	eventSvc := service.NewEventService(service.EventDependencies{
		Store:      store,
		Images:     images,
		Templates:  templates,
		Reconciler: reconciler,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	donationSvc := service.NewDonationService(store, templates, dispatcher)
	accountSvc := service.NewAccountService(store, cfg.Auth.BcryptCost)
	authSvc := service.NewAuthService(*cfg, store.Users())
	cleanupSvc := service.NewCleanupService(store, logger)

	authMiddleware := auth.NewAuthMiddleware(authSvc.TokenManager(), store.Users())

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 8 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Events:         handlers.NewEventsHandler(eventSvc, templates),
		Donations:      handlers.NewDonationsHandler(donationSvc),
		Accounts:       handlers.NewAccountsHandler(authSvc, accountSvc),
		AuthMiddleware: authMiddleware,
	})

	if cfg.Cleanup.Enabled {
		worker.StartCleanupWorker(ctx, cleanupSvc, cfg.Cleanup.Interval(), logger)
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
