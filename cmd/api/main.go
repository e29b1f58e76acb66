package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-inventory-crm/internal/config"
	"go-inventory-crm/internal/handler"
	"go-inventory-crm/internal/logger"
	"go-inventory-crm/internal/middleware"
	"go-inventory-crm/internal/repository"
	"go-inventory-crm/internal/service"
	"go-inventory-crm/internal/ws"
	"go-inventory-crm/pkg/database"
	"go-inventory-crm/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Config + logging
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()

	// 2. Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	if err := database.Migrate(db); err != nil {
		return err
	}
	sqlxDB, err := database.SQLX(db)
	if err != nil {
		return err
	}

	// 3. WebSocket hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	wsHub := ws.NewHub()
	go wsHub.Run(hubCtx)

	// 4. Dependency injection
	uow := database.NewUnitOfWork(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	stockInRepo := repository.NewStockInRepo(db)
	orderRepo := repository.NewSaleOrderRepo(db)
	maintenanceRepo := repository.NewMaintenanceRepo(db)
	adminRepo := repository.NewAdminUserRepo(db)
	reportRepo := repository.NewReportRepo(sqlxDB)
	dashRepo := repository.NewDashboardRepo(db)

	issuer := jwt.NewIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour, cfg.JWT.Issuer)
	authService := service.NewAuthService(adminRepo, issuer, cfg.Admin.DefaultPassword)
	catalogService := service.NewCatalogService(productRepo, wsHub)
	invService := service.NewInventoryService(uow, productRepo, stockInRepo, reportRepo, wsHub)
	salesService := service.NewSalesService(uow, productRepo, customerRepo, orderRepo, reportRepo, wsHub)
	customerService := service.NewCustomerService(customerRepo, wsHub)
	maintenanceService := service.NewMaintenanceService(uow, customerRepo, productRepo, maintenanceRepo, reportRepo, wsHub)
	dashService := service.NewDashboardService(dashRepo)

	// 5. Default accounts, once, before the listener opens
	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	err = authService.EnsureDefaultAccounts(bootCtx)
	cancelBoot()
	if err != nil {
		return fmt.Errorf("seed default accounts: %w", err)
	}

	handlers := &handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Inventory:   handler.NewInventoryHandler(catalogService, invService),
		Customer:    handler.NewCustomerHandler(customerService),
		Sales:       handler.NewSalesHandler(salesService),
		Maintenance: handler.NewMaintenanceHandler(maintenanceService),
		Dashboard:   handler.NewDashboardHandler(dashService),
	}

	// 6. Optional login rate limiting
	var loginLimit fiber.Handler
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		loginLimit = middleware.RateLimit(middleware.NewRedisCounter(rdb), middleware.RateLimitRule{
			Prefix:      strings.TrimSuffix(cfg.Redis.Prefix, ":") + ":login",
			Window:      time.Duration(cfg.LoginRate.WindowSeconds) * time.Second,
			MaxRequests: cfg.LoginRate.MaxAttempts,
		})
		logger.Infow("login_rate_limit_enabled", "addr", cfg.Redis.Addr, "max_attempts", cfg.LoginRate.MaxAttempts)
	}

	// 7. Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	handler.RegisterRoutes(app, handlers, handler.RouteOptions{
		Tokens:     authService,
		LoginLimit: loginLimit,
		Hub:        wsHub,
	})

	// 8. Graceful shutdown
	listenErr := make(chan error, 1)
	go func() {
		logger.Infow("server_starting", "addr", cfg.Server.Addr())
		listenErr <- app.Listen(cfg.Server.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	logger.Infow("server_shutting_down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Errorw("server_forced_shutdown", "error", err)
	}
	logger.Infow("server_exited")
	return nil
}
