package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/application/service"
	"github.com/sangkips/pos-console/internal/config"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/internal/infrastructure/database"
	"github.com/sangkips/pos-console/internal/infrastructure/posapi"
	"github.com/sangkips/pos-console/internal/infrastructure/repository"
	"github.com/sangkips/pos-console/internal/presentation/http/handler"
	"github.com/sangkips/pos-console/internal/presentation/http/middleware"
	"github.com/sangkips/pos-console/internal/presentation/http/routes"
	"github.com/sangkips/pos-console/pkg/printer"
	"github.com/sangkips/pos-console/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Repositories
	sessionRepo := repository.NewSessionRepository(db, utils.NewSealer(cfg.Session.Secret))
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	jwtManager := utils.NewJWTManager(cfg.Session.Secret, cfg.Session.TTL, cfg.App.Name)

	// POS backend
	client := posapi.New(posapi.Config{
		BaseURL: cfg.PosAPI.BaseURL,
		Timeout: cfg.PosAPI.Timeout,
	}, nil, logger.Named("posapi"))

	// Receipt printer
	receiptPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
		Timeout: cfg.Printer.Timeout,
	})
	if err != nil {
		logger.Warn("printer disabled", zap.Error(err))
		receiptPrinter, _ = printer.New(printer.Config{Type: printer.TypeNone})
	}

	// Services
	catalog := service.NewCatalogService(service.NewCatalogBackend(client), cfg.Catalog.CacheTTL)
	receiptService := service.NewReceiptService(receiptPrinter, client.Orders, catalog, service.ReceiptConfig{
		StoreName: cfg.Printer.StoreName,
		Address:   cfg.Printer.StoreAddress,
		Phone:     cfg.Printer.StorePhone,
		TaxID:     cfg.Printer.StoreTaxID,
		Footer:    cfg.Printer.Footer,
		Currency:  cfg.Sale.Currency,
		Width:     cfg.Printer.Width,
	}, logger.Named("receipt"))

	completion, ok := enum.ParseCompletionType(cfg.Sale.DefaultCompletion)
	if !ok {
		logger.Warn("unknown default completion type, using PICKUP", zap.String("value", cfg.Sale.DefaultCompletion))
		completion = enum.CompletionTypePickup
	}
	saleService := service.NewSaleService(client.Orders, catalog, client.Customers, receiptService,
		service.SaleConfig{DefaultCompletion: completion}, logger.Named("sale"))

	authService := service.NewAuthService(client.Auth, sessionRepo, jwtManager, saleService,
		cfg.Session.RefreshSkew, logger.Named("auth"))
	shiftService := service.NewShiftService(client.Shifts)
	tableService := service.NewTableService(client.Tables, client.TableOrders, client.Orders, catalog, logger.Named("tables"))
	settingsService := service.NewSettingsService(client.Settings, cfg.Sale.Currency)
	orderHistory := service.NewOrderHistory(client.Orders)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Sale:     handler.NewSaleHandler(saleService),
		Order:    handler.NewOrderHandler(orderHistory),
		Shift:    handler.NewShiftHandler(shiftService),
		Table:    handler.NewTableHandler(tableService),
		Printer:  handler.NewPrinterHandler(receiptService),
		Settings: handler.NewSettingsHandler(settingsService),

		Products:       handler.NewCrudHandler(service.NewAdminService[entity.Product](client.Products, catalog.Invalidate), "Products"),
		Categories:     handler.NewCrudHandler(service.NewAdminService[entity.Category](client.Categories, nil), "Categories"),
		Subcategories:  handler.NewCrudHandler(service.NewAdminService[entity.Subcategory](client.Subcategories, nil), "Subcategories"),
		Taxes:          handler.NewCrudHandler(service.NewAdminService[entity.Tax](client.Taxes, catalog.Invalidate), "Taxes"),
		PaymentMethods: handler.NewCrudHandler(service.NewAdminService[entity.PaymentMethod](client.PaymentMethods, catalog.Invalidate), "Payment methods"),
		Tables:         handler.NewCrudHandler(service.NewAdminService[entity.Table](client.Tables, nil), "Tables"),
		Customers:      handler.NewCrudHandler(service.NewAdminService[entity.Customer](client.Customers, nil), "Customers"),
		Branches:       handler.NewCrudHandler(service.NewAdminService[entity.Branch](client.Branches, nil), "Branches"),
	}

	rateLimiter := middleware.NewSessionRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond(),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Sessions:        authService,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          logger.Named("http"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runCleanup(ctx, cfg.Session.CleanupInterval, authService, idempotencyRepo, logger)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("pos_api", cfg.PosAPI.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.App.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger.With(zap.String("service", cfg.App.Name))
}

// runCleanup removes expired console sessions and idempotency keys
func runCleanup(ctx context.Context, every time.Duration, auth *service.AuthService, keys domainRepo.IdempotencyRepository, logger *zap.Logger) {
	if every <= 0 {
		every = 15 * time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := auth.CleanupExpired(ctx); err != nil {
				logger.Warn("session cleanup failed", zap.Error(err))
			}
			if err := keys.DeleteExpired(ctx); err != nil {
				logger.Warn("idempotency key cleanup failed", zap.Error(err))
			}
		}
	}
}
