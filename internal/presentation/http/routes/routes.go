package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-console/internal/config"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-console/internal/domain/repository"
	"github.com/sangkips/pos-console/internal/presentation/http/handler"
	"github.com/sangkips/pos-console/internal/presentation/http/middleware"
	"github.com/sangkips/pos-console/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Sale     *handler.SaleHandler
	Order    *handler.OrderHandler
	Shift    *handler.ShiftHandler
	Table    *handler.TableHandler
	Printer  *handler.PrinterHandler
	Settings *handler.SettingsHandler

	Products       *handler.CrudHandler[entity.Product]
	Categories     *handler.CrudHandler[entity.Category]
	Subcategories  *handler.CrudHandler[entity.Subcategory]
	Taxes          *handler.CrudHandler[entity.Tax]
	PaymentMethods *handler.CrudHandler[entity.PaymentMethod]
	Tables         *handler.CrudHandler[entity.Table]
	Customers      *handler.CrudHandler[entity.Customer]
	Branches       *handler.CrudHandler[entity.Branch]
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Sessions        middleware.SessionRestorer
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.SessionRateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.Use(middleware.LocaleMiddleware(deps.Cfg.App.Locale))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewSessionRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond(),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
	}

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h, rateLimiter)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Sessions))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers, rl *middleware.SessionRateLimiter) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", rl.Middleware(), h.Auth.Login)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	})

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/session", h.Auth.Session)
	protected.GET("/auth/me", h.Auth.Me)

	registerSaleRoutes(protected, h, idempotency)
	registerOrderRoutes(protected, h)
	registerShiftRoutes(protected, h)
	registerTableRoutes(protected, h, idempotency)
	registerCatalogRoutes(protected, h)
	registerAdminRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	sale := protected.Group("/sale")
	sale.Use(middleware.RequireRole(enum.RoleCashier, enum.RoleAdmin))
	{
		sale.GET("", h.Sale.Get)
		sale.DELETE("", h.Sale.Clear)
		sale.POST("/items", h.Sale.AddItem)
		sale.PATCH("/items/:productId", h.Sale.UpdateQuantity)
		sale.DELETE("/items/:productId", h.Sale.RemoveItem)
		sale.PUT("/customer", h.Sale.SelectCustomer)
		sale.PUT("/payment-method", h.Sale.SelectPaymentMethod)
		sale.PUT("/discount", h.Sale.SetDiscount)
		sale.GET("/tip-options", h.Sale.TipOptions)
		sale.PUT("/tip", h.Sale.SetTip)
		// Payment replays its stored response for a repeated Idempotency-Key
		sale.POST("/payment", middleware.IdempotencyRequired(), idempotency, h.Sale.ProcessPayment)
		sale.POST("/load", h.Sale.LoadOrder)
		sale.POST("/cancel", h.Sale.CancelOrder)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
	}
}

func registerShiftRoutes(protected *gin.RouterGroup, h *Handlers) {
	shifts := protected.Group("/shifts")
	shifts.Use(middleware.RequireRole(enum.RoleCashier, enum.RoleAdmin))
	{
		shifts.GET("/active", h.Shift.Active)
		shifts.POST("/start", h.Shift.Start)
		shifts.POST("/end", h.Shift.End)
	}
}

func registerTableRoutes(protected *gin.RouterGroup, h *Handlers, idempotency gin.HandlerFunc) {
	waiter := protected.Group("/waiter")
	waiter.Use(middleware.RequireRole(enum.RoleWaiter, enum.RoleAdmin))
	{
		waiter.GET("/tables", h.Table.List)
		waiter.GET("/tables/available", h.Table.Available)
		waiter.GET("/table-orders", h.Table.OpenOrders)
		waiter.POST("/table-orders", h.Table.Seat)
		waiter.GET("/table-orders/:id", h.Table.GetOrder)
		waiter.POST("/table-orders/:id/orders", idempotency, h.Table.CreateOrder)
		waiter.POST("/table-orders/:id/close", h.Table.Close)
	}
}

// Catalog reads are open to every console role; the sale and waiter views
// need them.
func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	h.Products.RegisterRead(protected.Group("/products"), false)
	h.Categories.RegisterRead(protected.Group("/categories"), false)
	h.Subcategories.RegisterRead(protected.Group("/subcategories"), false)
	h.Taxes.RegisterRead(protected.Group("/taxes"), false)
	h.PaymentMethods.RegisterRead(protected.Group("/payment-methods"), false)
	h.Customers.RegisterRead(protected.Group("/customers"), true)
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("")
	admin.Use(middleware.RequireRole(enum.RoleAdmin))
	{
		h.Products.RegisterWrite(admin.Group("/products"))
		h.Categories.RegisterWrite(admin.Group("/categories"))
		h.Subcategories.RegisterWrite(admin.Group("/subcategories"))
		h.Taxes.RegisterWrite(admin.Group("/taxes"))
		h.PaymentMethods.RegisterWrite(admin.Group("/payment-methods"))
		h.Customers.RegisterWrite(admin.Group("/customers"))

		tables := admin.Group("/tables")
		h.Tables.RegisterRead(tables, false)
		h.Tables.RegisterWrite(tables)

		branches := admin.Group("/branches")
		h.Branches.RegisterRead(branches, false)
		h.Branches.RegisterWrite(branches)

		admin.GET("/settings", h.Settings.GetSettings)
		admin.PUT("/settings", h.Settings.UpdateSettings)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt", h.Printer.PrintReceipt)
	}
}
