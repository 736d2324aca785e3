package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/oncall-service/internal/api/http"
	"github.com/spec-kit/oncall-service/internal/api/http/handlers"
	"github.com/spec-kit/oncall-service/internal/auth"
	"github.com/spec-kit/oncall-service/internal/config"
	"github.com/spec-kit/oncall-service/internal/events"
	"github.com/spec-kit/oncall-service/internal/observability"
	"github.com/spec-kit/oncall-service/internal/persistence"
	"github.com/spec-kit/oncall-service/internal/repository"
	"github.com/spec-kit/oncall-service/internal/service"
	"github.com/spec-kit/oncall-service/internal/worker"
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

	pool := pg.PoolHandle()
	operatorRepo := repository.NewOperatorRepository(pool)
	escalationRepo := repository.NewEscalationRepository(pool)
	weekRepo := repository.NewRotationWeekRepository(pool)
	overrideRepo := repository.NewDayOverrideRepository(pool)
	swapRepo := repository.NewSwapRequestRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		OperatorRepo: operatorRepo,
	})
	operatorService := service.NewOperatorService(service.OperatorDependencies{
		OperatorRepo:   operatorRepo,
		EscalationRepo: escalationRepo,
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	dutyService := service.NewDutyService(service.DutyDependencies{
		WeekRepo:     weekRepo,
		OverrideRepo: overrideRepo,
	})
	swapService := service.NewSwapService(cfg.Rotation, service.SwapDependencies{
		SwapRepo:       swapRepo,
		WeekRepo:       weekRepo,
		OperatorRepo:   operatorRepo,
		EscalationRepo: escalationRepo,
		Dispatcher:     dispatcher,
	})
	plannerService := service.NewPlannerService(cfg.Rotation, service.PlannerDependencies{
		WeekRepo:     weekRepo,
		OperatorRepo: operatorRepo,
		Dispatcher:   dispatcher,
	})
	calendarService := service.NewCalendarService(service.CalendarDependencies{
		WeekRepo:     weekRepo,
		OverrideRepo: overrideRepo,
		OperatorRepo: operatorRepo,
	})
	overrideService := service.NewOverrideService(service.OverrideDependencies{
		OverrideRepo:   overrideRepo,
		WeekRepo:       weekRepo,
		OperatorRepo:   operatorRepo,
		EscalationRepo: escalationRepo,
		Dispatcher:     dispatcher,
	})
	exportService := service.NewExportService(calendarService, logger)

	dutyCache := service.NewDutyCache(redis.Client, cfg.Rotation.DutyCacheTTL(), logger)
	dutyCache.RegisterInvalidation(dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	horizonWorker := worker.NewHorizonWorker(plannerService, dispatcher, logger, cfg.Rotation)
	if err := horizonWorker.Start(); err != nil {
		logger.Fatal("failed to start horizon worker", zap.Error(err))
	}
	defer horizonWorker.Stop()

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), operatorRepo, escalationRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		OnCall:         handlers.NewOnCallHandler(dutyService, dutyCache),
		Calendar:       handlers.NewCalendarHandler(calendarService, exportService),
		Swaps:          handlers.NewSwapsHandler(swapService),
		Overrides:      handlers.NewOverridesHandler(overrideService),
		Operators:      handlers.NewOperatorsHandler(operatorService),
		Rotation:       handlers.NewRotationHandler(plannerService),
		AuthMiddleware: authMiddleware,
	})

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
