package router

import (
	"time"

	"depotpos/internal/config"
	"depotpos/internal/handler"
	"depotpos/internal/middleware"
	"depotpos/internal/repository"
	"depotpos/internal/service"
	"depotpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Domain))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, movementRepo, rdb)
	customerSvc := service.NewCustomerService(customerRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, customerRepo, movementRepo, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, productRepo, movementRepo)
	deliverySvc := service.NewDeliveryService(deliveryRepo, productRepo, movementRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	dashboardSvc := service.NewDashboardService(dashboardRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	deliveriesH := handler.NewDeliveriesHandler(deliverySvc)
	invoicesH := handler.NewInvoicesHandler(invoiceRepo, saleRepo)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	tenantMW := middleware.RequireTenantMatch()
	anyRole := middleware.RequireRole("seller", "manager", "admin")
	managerUp := middleware.RequireRole("manager", "admin")
	adminOnly := middleware.RequireRole("admin")

	api := r.Group("/", jwtMW)
	{
		// Sales — every seller can record and collect
		api.POST("/directeSale", anyRole, salesH.CreateDirectSale)
		api.GET("/directeSale/:id", anyRole, salesH.GetSale)
		api.PATCH("/directeSale/:id/payment", anyRole, salesH.ApplyCreditPayment)
		api.GET("/directeSale/tenant/:tenantId", anyRole, tenantMW, salesH.ListSalesByTenant)
		api.GET("/directeSale/paginate/tenant/:tenantId", anyRole, tenantMW, salesH.PaginateSales)

		// Deliveries
		api.GET("/delivery/deliverie/:id", anyRole, deliveriesH.GetDelivery)
		api.PATCH("/delivery/:id", anyRole, deliveriesH.UpdateDelivery)
		api.GET("/delivery/tenant/:tenantId", anyRole, tenantMW, deliveriesH.ListDeliveriesByTenant)

		// Orders
		api.GET("/order/:id", anyRole, ordersH.GetOrder)
		api.PATCH("/order/completed/:id", anyRole, ordersH.CompleteOrder)
		api.GET("/order/tenant/:tenantId", anyRole, tenantMW, ordersH.ListOrdersByTenant)

		// Products — reads for everyone, writes for manager and admin
		api.GET("/product/tenant/:tenantId", anyRole, tenantMW, productsH.ListProductsByTenant)
		api.GET("/product/:id", anyRole, productsH.GetProduct)
		products := api.Group("/product", managerUp)
		{
			products.POST("", productsH.CreateProduct)
			products.PATCH("/:id", productsH.UpdateProduct)
			products.PATCH("/:id/stock", productsH.AdjustStock)
			products.DELETE("/:id", productsH.DeleteProduct)
		}

		// Customers
		api.GET("/customer/tenant/:tenantId", anyRole, tenantMW, customersH.ListCustomersByTenant)
		api.GET("/customer/:id", anyRole, customersH.GetCustomer)
		api.POST("/customer", anyRole, customersH.CreateCustomer)
		api.PATCH("/customer/:id", anyRole, customersH.UpdateCustomer)
		api.DELETE("/customer/:id", managerUp, customersH.DeleteCustomer)

		// Categories — manager and admin write, all read
		api.GET("/category/tenant/:tenantId", anyRole, tenantMW, categoriesH.ListCategoriesByTenant)
		api.POST("/category", managerUp, categoriesH.CreateCategory)
		api.DELETE("/category/:id", managerUp, categoriesH.DeleteCategory)

		// Suppliers — manager and admin only
		api.GET("/supplier/tenant/:tenantId", managerUp, tenantMW, suppliersH.ListSuppliersByTenant)
		api.POST("/supplier", managerUp, suppliersH.CreateSupplier)
		api.DELETE("/supplier/:id", managerUp, suppliersH.DeleteSupplier)

		// Invoices (receipts)
		api.GET("/invoice/sale/:saleId", anyRole, invoicesH.ListBySale)
		api.GET("/invoice/:id/pdf", anyRole, invoicesH.GetPDF)

		// Dashboard — manager and admin
		api.GET("/dashboard/tenant/:tenantId", managerUp, tenantMW, dashboardH.DailySummary)

		// User administration — admin only
		users := api.Group("/auth/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PATCH("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
