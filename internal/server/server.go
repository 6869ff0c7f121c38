// Package server wires repositories, services and handlers into a Fiber app.
package server

import (
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/config"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/handler"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/metrics"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/middleware"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/policy"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/repository"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/service"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/internal/ws"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/jwt"
	"github.com/Rioagustianf/POS-SAJIWA--sub000/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type Options struct {
	Config  *config.Config
	DB      *gorm.DB
	Log     *logger.Logger
	Metrics *metrics.Metrics
	Hub     *ws.Hub
}

// New builds the HTTP application. The caller owns the hub's Run loop.
func New(opts Options) *fiber.App {
	cfg, db, log := opts.Config, opts.DB, opts.Log

	// Repositories
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// Services
	signer := jwt.NewSigner(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)
	authService := service.NewAuthService(db, userRepo, auditRepo, signer, opts.Metrics, log)
	invService := service.NewInventoryService(productRepo, txRepo, auditRepo, db, opts.Hub, opts.Metrics, log)
	userService := service.NewUserService(db, userRepo, roleRepo, auditRepo, log)
	auditService := service.NewAuditService(auditRepo)
	cleanupService := service.NewCleanupService(db, txRepo, auditRepo, productRepo, userRepo, opts.Metrics, log)
	reportService := service.NewReportService(db, txRepo, auditRepo, cfg.App.RestaurantName, opts.Metrics, log)
	uploadService := service.NewUploadService(service.UploadConfig{
		Dir:       cfg.Upload.Dir,
		MaxBytes:  cfg.Upload.MaxBytes,
		PublicURL: cfg.Upload.PublicURL,
	}, opts.Metrics, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, handler.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	})
	invHandler := handler.NewInventoryHandler(invService, reportService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	auditHandler := handler.NewAuditHandler(auditService)
	cleanupHandler := handler.NewCleanupHandler(cleanupService)
	reportHandler := handler.NewReportHandler(reportService)
	uploadHandler := handler.NewUploadHandler(uploadService)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: handler.ErrorHandler(log),
		BodyLimit:    int(cfg.Upload.MaxBytes) + 1024*1024,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: log.Writer()}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowCredentials: true,
	}))
	if opts.Metrics != nil {
		app.Use(metrics.HTTPMetricsMiddleware(opts.Metrics, log))
		app.Get("/metrics", opts.Metrics.Handler())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "database": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "up", "wsClients": opts.Hub.ClientCount()})
	})
	app.Static(cfg.Upload.PublicURL, cfg.Upload.Dir)

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(authService, cfg.Session.CookieName))
	require := middleware.RequirePermission

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Products
	protected.Get("/products", require(policy.ProductView), invHandler.GetProducts)
	protected.Get("/products/:id", require(policy.ProductView), invHandler.GetProduct)
	protected.Post("/products", require(policy.ProductCreate), invHandler.CreateProduct)
	protected.Put("/products/:id", require(policy.ProductUpdate), invHandler.UpdateProduct)
	protected.Delete("/products/:id", require(policy.ProductDelete), invHandler.DeleteProduct)

	// Transactions
	protected.Get("/transactions", require(policy.TransactionView), invHandler.GetTransactions)
	protected.Get("/transactions/:id", require(policy.TransactionView), invHandler.GetTransaction)
	protected.Get("/transactions/:id/receipt", require(policy.TransactionView), invHandler.GetReceipt)
	protected.Post("/transactions", require(policy.TransactionPost), invHandler.CreateTransaction)
	protected.Delete("/transactions/:id", require(policy.TransactionVoid), invHandler.CancelTransaction)

	// Users and roles
	protected.Get("/users", require(policy.UserView), userHandler.GetUsers)
	protected.Get("/users/:id", require(policy.UserView), userHandler.GetUser)
	protected.Post("/users", require(policy.UserCreate), userHandler.CreateUser)
	protected.Put("/users/:id", require(policy.UserUpdate), userHandler.UpdateUser)
	protected.Delete("/users/:id", require(policy.UserDelete), userHandler.DeleteUser)
	protected.Get("/roles", require(policy.UserView), roleHandler.GetRoles)

	// Back office
	protected.Get("/audit-logs", require(policy.AuditView), auditHandler.GetAuditLogs)
	protected.Post("/data-cleanup", require(policy.DataCleanup), cleanupHandler.Cleanup)
	protected.Get("/reports/sales", require(policy.ReportView), reportHandler.GetSalesReport)
	protected.Get("/reports/sales/export", require(policy.ReportView), reportHandler.ExportSalesReport)
	protected.Get("/dashboard/stats", require(policy.DashboardView), reportHandler.GetDashboardStats)
	protected.Post("/upload", require(policy.UploadImage), uploadHandler.UploadProductImage)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		opts.Hub.Register <- c
		defer func() { opts.Hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	return app
}
