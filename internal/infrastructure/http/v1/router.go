package v1

import (
	"github.com/gin-gonic/gin"

	"bookstock/internal/core/numerator"
	"bookstock/internal/domain/auth"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/catalogs/student"
	"bookstock/internal/domain/catalogs/supplier"
	"bookstock/internal/domain/ledger"
	"bookstock/internal/domain/procurement"
	"bookstock/internal/domain/reports"
	"bookstock/internal/domain/sales"
	"bookstock/internal/infrastructure/http/v1/handlers"
	"bookstock/internal/infrastructure/http/v1/middleware"
	"bookstock/internal/infrastructure/storage/postgres"
	"bookstock/internal/infrastructure/storage/postgres/catalog_repo"
	"bookstock/internal/infrastructure/storage/postgres/ledger_repo"
	"bookstock/internal/infrastructure/storage/postgres/procurement_repo"
	"bookstock/internal/infrastructure/storage/postgres/report_repo"
	"bookstock/internal/infrastructure/storage/postgres/sales_repo"
	"bookstock/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager runs repository operations in transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator

	// Audit records entity changes. May be nil.
	Audit *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		registerAuthRoutes(apiV1, cfg)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerEntityRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	authGroup := rg.Group("/auth")
	authGroup.POST("/login", authHandler.Login)

	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
	protectedAuth.GET("/me", authHandler.Me)
	protectedAuth.POST("/register", middleware.RequireAdmin(), authHandler.Register)
}

// registerEntityRoutes wires repositories, services and handlers for the
// business endpoints. Repos share the single TxManager, so any of them can
// join a transaction opened by a service.
func registerEntityRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// Catalog repos are shared: sales and procurement check existence
	// through the same instances the CRUD endpoints use.
	itemRepo := catalog_repo.NewItemRepo(cfg.TxManager)
	studentRepo := catalog_repo.NewStudentRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)

	itemService := item.NewService(itemRepo, cfg.TxManager, cfg.Numerator)
	studentService := student.NewService(studentRepo, cfg.TxManager, cfg.Numerator)
	supplierService := supplier.NewService(supplierRepo, cfg.TxManager, cfg.Numerator)

	ledgerRepo := ledger_repo.NewLedgerRepo(cfg.TxManager)
	ledgerService := ledger.NewService(ledgerRepo, itemRepo)

	purchaseRepo := sales_repo.NewPurchaseRepo(cfg.TxManager)
	var recorder sales.ChangeRecorder
	if cfg.Audit != nil {
		recorder = cfg.Audit
	}
	salesService := sales.NewService(
		purchaseRepo, itemRepo, studentRepo, ledgerService,
		cfg.TxManager, cfg.Numerator, recorder,
	)

	procurementRepo := procurement_repo.NewProcurementRepo(cfg.TxManager)
	procurementService := procurement.NewService(
		procurementRepo, supplierRepo, salesService,
		cfg.TxManager, cfg.Numerator,
	)

	reportService := reports.NewService(report_repo.NewReportRepo(cfg.TxManager))

	// --- Catalogs ---
	itemHandler := handlers.NewItemHandler(baseHandler, itemService)
	itemsGroup := rg.Group("/items")
	itemsGroup.GET("/low-stock", itemHandler.LowStock)
	RegisterCatalogRoutes(itemsGroup, itemHandler)

	RegisterCatalogRoutes(rg.Group("/students"), handlers.NewStudentHandler(baseHandler, studentService))
	RegisterCatalogRoutes(rg.Group("/suppliers"), handlers.NewSupplierHandler(baseHandler, supplierService))

	// --- Purchases ---
	purchaseHandler := handlers.NewPurchaseHandler(baseHandler, salesService)
	purchasesGroup := rg.Group("/purchases")
	{
		purchasesGroup.GET("", purchaseHandler.List)
		purchasesGroup.POST("", purchaseHandler.Create)
		purchasesGroup.GET("/:id", purchaseHandler.Get)
		purchasesGroup.PUT("/:id", purchaseHandler.Update)
		purchasesGroup.DELETE("/:id", purchaseHandler.Delete)
	}

	// --- Stock ---
	stockHandler := handlers.NewStockHandler(baseHandler, salesService, ledgerService)
	stockGroup := rg.Group("/stock")
	{
		stockGroup.POST("/adjust", stockHandler.Adjust)
		stockGroup.GET("/ledger", stockHandler.Ledger)
		stockGroup.GET("/reconcile/:itemId", stockHandler.Reconcile)
	}

	// --- Supply orders and payments ---
	supplyOrderHandler := handlers.NewSupplyOrderHandler(baseHandler, procurementService)
	ordersGroup := rg.Group("/supply-orders")
	{
		ordersGroup.GET("", supplyOrderHandler.List)
		ordersGroup.POST("", supplyOrderHandler.Create)
		ordersGroup.GET("/:id", supplyOrderHandler.Get)
		ordersGroup.POST("/:id/receive", supplyOrderHandler.Receive)
		ordersGroup.POST("/:id/cancel", supplyOrderHandler.Cancel)
	}
	paymentsGroup := rg.Group("/supplier-payments")
	{
		paymentsGroup.GET("", supplyOrderHandler.ListPayments)
		paymentsGroup.POST("", supplyOrderHandler.RecordPayment)
	}

	// --- Reports ---
	reportHandler := handlers.NewReportHandler(baseHandler, reportService)
	reportsGroup := rg.Group("/reports")
	{
		reportsGroup.GET("/sales", reportHandler.Sales)
		reportsGroup.GET("/inventory", reportHandler.Inventory)
		reportsGroup.GET("/suppliers", reportHandler.Suppliers)
		reportsGroup.GET("/finance", reportHandler.Finance)
		reportsGroup.GET("/students", reportHandler.Students)
	}
}
