package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rehbar-pk/directory-api/database"
	"github.com/rehbar-pk/directory-api/handlers"
	admin_handlers "github.com/rehbar-pk/directory-api/handlers/admin"
	auth_handlers "github.com/rehbar-pk/directory-api/handlers/auth"
	inquiry_handlers "github.com/rehbar-pk/directory-api/handlers/inquiry"
	institute_handlers "github.com/rehbar-pk/directory-api/handlers/institute"
	shop_handlers "github.com/rehbar-pk/directory-api/handlers/shop"
	"github.com/rehbar-pk/directory-api/services"
	"github.com/rehbar-pk/directory-api/utils"
	"github.com/rehbar-pk/directory-api/utils/auth"
	"github.com/rehbar-pk/directory-api/utils/cache"
	"github.com/rehbar-pk/directory-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, emailService *services.EmailService) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "rehbar-directory-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	// Initialize brute force protection
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Initialize auth middleware with DB for blacklist checking
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Initialize handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, emailService)
	instituteHandler := institute_handlers.NewInstituteHandler(db)
	shopHandler := shop_handlers.NewShopHandler(db)
	approvalHandler := admin_handlers.NewApprovalHandler(db, emailService)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Post("/verify-email", authHandler.VerifyEmail)
	authGroup.Get("/verify-email", authHandler.VerifyEmail)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)
	authGroup.Post("/resend-verification", authMiddleware.Required(), authHandler.ResendVerification)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Institute routes. Reads use optional auth so owners and admins see
	// their own pending listings in the same endpoints.
	institutes := api.Group("/institutes")
	institutes.Get("/", authMiddleware.Optional(), instituteHandler.ListInstitutes)
	institutes.Get("/mine", authMiddleware.Required(), instituteHandler.MyInstitutes)
	institutes.Get("/:id", authMiddleware.Optional(), instituteHandler.GetInstitute)
	institutes.Post("/", authMiddleware.Required(), instituteHandler.CreateInstitute)
	institutes.Put("/:id", authMiddleware.Required(), instituteHandler.UpdateInstitute)
	institutes.Delete("/:id", authMiddleware.Required(), instituteHandler.DeleteInstitute)

	// Shop routes, same visibility rules as institutes
	shops := api.Group("/shops")
	shops.Get("/", authMiddleware.Optional(), shopHandler.ListShops)
	shops.Get("/mine", authMiddleware.Required(), shopHandler.MyShops)
	shops.Get("/:id", authMiddleware.Optional(), shopHandler.GetShop)
	shops.Post("/", authMiddleware.Required(), shopHandler.CreateShop)
	shops.Put("/:id", authMiddleware.Required(), shopHandler.UpdateShop)
	shops.Delete("/:id", authMiddleware.Required(), shopHandler.DeleteShop)

	// Contact inquiries (public submit, admin management)
	inquiries := api.Group("/inquiries")
	inquiries.Post("/", utils.MakeHTTPHandleFunc(inquiry_handlers.AddInquiryHandler, store))
	inquiries.Get("/", authMiddleware.RequireAdmin(), utils.MakeHTTPHandleFunc(inquiry_handlers.GetAllInquiries, store))
	inquiries.Put("/:id", authMiddleware.RequireAdmin(), utils.MakeHTTPHandleFunc(inquiry_handlers.UpdateInquiryHandler, store))
	inquiries.Delete("/:id", authMiddleware.RequireAdmin(), utils.MakeHTTPHandleFunc(inquiry_handlers.DeleteInquiryHandler, store))

	// Admin routes
	admin := api.Group("/admin", authMiddleware.RequireAdmin())

	// Approval queue
	admin.Get("/approvals", approvalHandler.ListPending)
	admin.Post("/approvals/institutes/:id/approve", middleware.AdminAuditLog(db, "institute_approve", "institutes"), approvalHandler.ApproveInstitute)
	admin.Post("/approvals/institutes/:id/reject", middleware.AdminAuditLog(db, "institute_reject", "institutes"), approvalHandler.RejectInstitute)
	admin.Post("/approvals/shops/:id/approve", middleware.AdminAuditLog(db, "shop_approve", "shops"), approvalHandler.ApproveShop)
	admin.Post("/approvals/shops/:id/reject", middleware.AdminAuditLog(db, "shop_reject", "shops"), approvalHandler.RejectShop)

	// Admin User Management
	admin.Get("/users", func(c *fiber.Ctx) error { return admin_handlers.ListUsers(c, store) })
	admin.Get("/users/:id", func(c *fiber.Ctx) error { return admin_handlers.GetUser(c, store) })
	admin.Put("/users/:id", middleware.AdminAuditLog(db, "user_update", "users"), func(c *fiber.Ctx) error { return admin_handlers.UpdateUser(c, store) })
	admin.Delete("/users/:id", middleware.AdminAuditLog(db, "user_delete", "users"), func(c *fiber.Ctx) error { return admin_handlers.DeleteUser(c, store) })

	// Admin Audit Logs
	admin.Get("/audit", func(c *fiber.Ctx) error { return admin_handlers.ListAuditLogs(c, store) })
	admin.Get("/audit/:id", func(c *fiber.Ctx) error { return admin_handlers.GetAuditLog(c, store) })

	// Admin Settings Management
	admin.Get("/settings", func(c *fiber.Ctx) error { return admin_handlers.ListSettings(c, store) })
	admin.Get("/settings/:key", func(c *fiber.Ctx) error { return admin_handlers.GetSetting(c, store) })
	admin.Put("/settings/:key", middleware.AdminAuditLog(db, "setting_update", "settings"), func(c *fiber.Ctx) error { return admin_handlers.UpdateSetting(c, store) })
	admin.Delete("/settings/:key", middleware.AdminAuditLog(db, "setting_delete", "settings"), func(c *fiber.Ctx) error { return admin_handlers.DeleteSetting(c, store) })

	// Admin directory statistics
	admin.Get("/stats", func(c *fiber.Ctx) error { return admin_handlers.GetDirectoryStats(c, store) })
}
