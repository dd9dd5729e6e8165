package router

import (
	"fmt"
	"time"

	"stockroom/internal/config"
	_ "stockroom/internal/docs"
	"stockroom/internal/handler"
	"stockroom/internal/infra"
	"stockroom/internal/middleware"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/service"
	"stockroom/internal/web"
	"stockroom/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer, mailCB *infra.CircuitBreaker) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates(cfg.BusinessName)
	if err != nil {
		return nil, fmt.Errorf("router: parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// Receipts are only queued when there is a mail relay to deliver them.
	var receipts service.ReceiptQueue
	if mailer.Enabled() {
		receipts = worker.NewDispatcher(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, movementRepo, rdb)
	supplierSvc := service.NewSupplierService(supplierRepo, productRepo, rdb)
	saleSvc := service.NewSaleService(saleRepo, productRepo, movementRepo, receipts, rdb, cfg.BusinessName)
	dashboardSvc := service.NewDashboardService(productRepo, saleRepo, supplierRepo, rdb,
		time.Duration(cfg.DashboardCacheSeconds)*time.Second)
	exportSvc := service.NewExportService(productRepo, saleRepo, dashboardSvc, cfg.BusinessName)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cookie := middleware.SessionCookie{Name: cfg.SessionCookie, Secure: cfg.IsProduction()}
	authH := handler.NewAuthHandler(authSvc, cookie)
	productH := handler.NewProductHandler(productSvc, supplierSvc)
	supplierH := handler.NewSupplierHandler(supplierSvc)
	saleH := handler.NewSaleHandler(saleSvc, productSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	exportH := handler.NewExportHandler(exportSvc, productSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.StaticFS("/static", web.Static())
	r.GET("/health", handler.Health(db, rdb, mailer, mailCB))
	r.GET("/api", handler.APIIndex)
	r.NoRoute(handler.NotFound)

	public := r.Group("", middleware.OptionalAuth(cfg.JWTSecret, cookie))
	{
		public.GET("/", handler.Home)
		public.GET("/login", authH.LoginPage)
		public.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		public.GET("/logout", authH.Logout)
		public.POST("/logout", authH.Logout)
	}
	r.POST("/api/auth/login", middleware.LoginRateLimiter(), authH.APILogin)

	// Protected routes
	admin := middleware.RequireRole(model.RoleAdmin)
	app := r.Group("", middleware.JWTAuth(cfg.JWTSecret, cookie))
	{
		app.GET("/dashboard", dashboardH.Page)
		app.GET("/profile", authH.Profile)
		app.GET("/settings", authH.Settings)
		app.POST("/profile/update-password", authH.UpdatePassword)

		products := app.Group("/products")
		{
			products.GET("", productH.List)
			products.POST("", productH.Save)
			products.GET("/new", productH.New)
			products.GET("/edit/:id", productH.Edit)
			products.GET("/view/:id", productH.View)
			products.GET("/view/:id/pdf", exportH.ProductPDF())
			products.POST("/delete/:id", admin, productH.Delete)
			products.GET("/low-stock", productH.LowStock)
			products.GET("/out-of-stock", productH.OutOfStock)
			products.GET("/reports", productH.Reports)
			products.GET("/generate-sku", productH.GenerateSKU)
			products.POST("/:id/adjust-stock", productH.AdjustStock)
		}

		suppliers := app.Group("/suppliers")
		{
			suppliers.GET("", supplierH.List)
			suppliers.POST("", supplierH.Save)
			suppliers.GET("/new", supplierH.New)
			suppliers.GET("/edit/:id", supplierH.Edit)
			suppliers.GET("/view/:id", supplierH.View)
			suppliers.POST("/delete/:id", admin, supplierH.Delete)
			suppliers.POST("/toggle/:id", supplierH.Toggle)
		}

		sales := app.Group("/sales")
		{
			sales.GET("", saleH.List)
			sales.POST("", saleH.Save)
			sales.GET("/new", saleH.New)
			sales.GET("/view/:id", saleH.View)
			sales.POST("/delete/:id", admin, saleH.Delete)
			sales.GET("/:id/pdf", saleH.Receipt)
		}

		exports := app.Group("/export")
		{
			exports.GET("/products/excel", exportH.ProductsExcel())
			exports.GET("/sales/excel", exportH.SalesExcel())
			exports.GET("/reports/excel", exportH.ReportExcel())
			exports.GET("/products/pdf", exportH.ProductsPDF())
		}
		app.POST("/import/products/excel", admin, exportH.ImportProducts)

		api := app.Group("/api")
		{
			api.GET("/dashboard/charts", dashboardH.Charts)
			api.GET("/dashboard/summary", dashboardH.Summary)
			api.GET("/products", productH.APIList)
			api.GET("/products/:id", productH.APIGet)
			api.GET("/products/sku/:sku", productH.APIBySKU)
			api.GET("/suppliers", supplierH.APIList)
			api.GET("/sales", saleH.APIList)
			api.POST("/sales", saleH.APICreate)
			api.GET("/movements", admin, productH.Movements)
			api.GET("/users", admin, authH.ListUsers)
			api.POST("/users", admin, authH.CreateUser)
		}
	}

	// Swagger UI, outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}
