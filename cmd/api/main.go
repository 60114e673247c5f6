package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bizops-service/internal/api/http"
	"github.com/spec-kit/bizops-service/internal/api/http/handlers"
	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/config"
	"github.com/spec-kit/bizops-service/internal/events"
	"github.com/spec-kit/bizops-service/internal/observability"
	"github.com/spec-kit/bizops-service/internal/persistence"
	"github.com/spec-kit/bizops-service/internal/repository"
	"github.com/spec-kit/bizops-service/internal/service"
	"github.com/spec-kit/bizops-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	supplierRepo := repository.NewSupplierRepository(pool)
	lotRepo := repository.NewLotRepository(pool)
	saleRepo := repository.NewSaleRepository(pool)
	movementRepo := repository.NewStockMovementRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	txRunner := persistence.NewTxRunner(pool)
	allocator := service.NewSequenceAllocator(sequenceRepo)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	throttle := persistence.NewLoginThrottle(redis, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Throttle:          throttle,
	})
	userService := service.NewUserService(*cfg, userRepo)
	employeeService := service.NewEmployeeService(employeeRepo, userRepo)
	clientService := service.NewClientService(clientRepo)
	projectService := service.NewProjectService(projectRepo, taskRepo, clientRepo, userRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, clientRepo, allocator, txRunner, dispatcher, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, clientRepo)
	productService := service.NewProductService(productRepo, movementRepo, allocator)
	supplierService := service.NewSupplierService(supplierRepo)
	lotService := service.NewLotService(lotRepo, productRepo, supplierRepo, allocator, txRunner, dispatcher, logger)
	saleService := service.NewSaleService(saleRepo, productRepo, clientRepo, allocator, txRunner, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	access := auth.NewAccessChecker()
	access.Register(auth.ResourceProject, func(ctx context.Context, identity auth.Identity, resourceID int64) (bool, error) {
		managed, err := projectRepo.IsManagedBy(ctx, resourceID, identity.ID)
		if err != nil {
			return false, err
		}
		if managed {
			return true, nil
		}
		return taskRepo.HasAssigneeInProject(ctx, resourceID, identity.ID)
	})
	access.Register(auth.ResourceInvoice, func(ctx context.Context, identity auth.Identity, resourceID int64) (bool, error) {
		return invoiceRepo.IsCreatedBy(ctx, resourceID, identity.ID)
	})
	access.Register(auth.ResourceClient, func(ctx context.Context, identity auth.Identity, resourceID int64) (bool, error) {
		return true, nil
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.IsDevelopment())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Employees:      handlers.NewEmployeesHandler(employeeService),
		Clients:        handlers.NewClientsHandler(clientService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Invoices:       handlers.NewInvoicesHandler(invoiceService),
		Subscriptions:  handlers.NewSubscriptionsHandler(subscriptionService),
		Products:       handlers.NewProductsHandler(productService),
		Suppliers:      handlers.NewSuppliersHandler(supplierService),
		Lots:           handlers.NewLotsHandler(lotService),
		Sales:          handlers.NewSalesHandler(saleService),
		AuthMiddleware: authMiddleware,
		Access:         access,
		UploadsDir:     cfg.Uploads.Dir,
		UploadsPrefix:  cfg.Uploads.URLPrefix,
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
