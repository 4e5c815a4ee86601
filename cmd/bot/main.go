package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/admin"
	httptransport "github.com/quickstop/cafebot/internal/api/http"
	"github.com/quickstop/cafebot/internal/api/http/handlers"
	"github.com/quickstop/cafebot/internal/auth"
	"github.com/quickstop/cafebot/internal/config"
	"github.com/quickstop/cafebot/internal/dialogue"
	"github.com/quickstop/cafebot/internal/events"
	"github.com/quickstop/cafebot/internal/notify"
	"github.com/quickstop/cafebot/internal/observability"
	"github.com/quickstop/cafebot/internal/service"
	"github.com/quickstop/cafebot/internal/storage"
	"github.com/quickstop/cafebot/internal/wasender"
	"github.com/quickstop/cafebot/internal/worker"
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

	repo, closeRepo, err := newRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}
	defer closeRepo()

	sender := wasender.NewClient(cfg.Wasender, logger)
	notifier := notify.NewNotifier(sender, cfg.Staff.Numbers, logger)
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(dispatcher, notifier, logger)
	worker.StartNotificationWorker(notificationService)

	engine := dialogue.NewEngine(dialogue.Dependencies{
		Sender:      sender,
		Dispatcher:  dispatcher,
		Logger:      logger,
		AgentPolicy: cfg.Bot.AgentPolicy,
	})
	interpreter := admin.NewInterpreter(sender, dispatcher, logger)

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		Repo:        repo,
		Engine:      engine,
		Interpreter: interpreter,
		Sender:      sender,
		Staff:       cfg.Staff.Numbers,
		Logger:      logger,
	})
	adminService := service.NewAdminService(repo, sender, dispatcher, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Webhook:          handlers.NewWebhookHandler(intakeService),
		Admin:            handlers.NewAdminHandler(adminService),
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics),
		SecretMiddleware: auth.NewSecretMiddleware(cfg.Staff.AdminKey),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func newRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		store := storage.NewRedis(cfg.Redis, logger)
		return store, store.Close, nil
	case config.StoreDriverPostgres:
		store, err := storage.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return storage.NewFile(cfg.Store.FilePath), func() {}, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
