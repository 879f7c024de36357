package main

import (
	"context"
	"log"

	authhandlers "github.com/architect/blog-api/internal/auth/handlers"
	authmodels "github.com/architect/blog-api/internal/auth/models"
	"github.com/architect/blog-api/internal/common/database"
	"github.com/architect/blog-api/internal/common/mail"
	"github.com/architect/blog-api/internal/common/metrics"
	"github.com/architect/blog-api/internal/common/middleware"
	"github.com/architect/blog-api/internal/common/storage"
	posthandlers "github.com/architect/blog-api/internal/posts/handlers"
	postmodels "github.com/architect/blog-api/internal/posts/models"
	"github.com/architect/blog-api/internal/rbac"
	rbacmodels "github.com/architect/blog-api/internal/rbac/models"
	userhandlers "github.com/architect/blog-api/internal/users/handlers"
	"github.com/architect/blog-api/internal/verification"
	verifyhandlers "github.com/architect/blog-api/internal/verification/handlers"
	"github.com/architect/blog-api/pkg/config"
	"github.com/architect/blog-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	middleware.SetEnv(cfg.Server.Env)
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database (SQLite for development, PostgreSQL for production)
	if err := database.InitWithType(cfg.Database.Type, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(
		&authmodels.User{},
		&authmodels.AccessToken{},
		&rbacmodels.Role{},
		&rbacmodels.Permission{},
		&rbacmodels.UserRole{},
		&postmodels.Post{},
	); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	// Seed the role/permission catalog. Idempotent by natural key.
	if err := rbac.Seed(database.DB); err != nil {
		log.Fatalf("Failed to seed role catalog: %v", err)
	}

	store, err := storage.NewS3Store(context.Background(), storage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	mailer := mail.NewLogTransport(logger.L(), cfg.Mail.FromAddress)
	verifier := verification.NewService(cfg.App.Key, mailer, cfg.App.BaseURL)

	authHandler := authhandlers.NewHandler(store, verifier, mailer)
	verifyHandler := verifyhandlers.NewHandler(verifier)
	userHandler := userhandlers.NewHandler(store)
	postHandler := posthandlers.NewHandler(store)

	collector := metrics.NewCollector()
	loginLimiter := middleware.NewRateLimiter(30)
	defer loginLimiter.Stop()

	// Create Gin engine
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.ErrorHandler())
	router.Use(collector.Middleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", collector.Handler())

	api := router.Group("/api")
	{
		// Public routes
		api.POST("/register", loginLimiter.Middleware(), authHandler.Register)
		api.POST("/login", loginLimiter.Middleware(), authHandler.Login)

		// Email verification (signed link) - no auth required
		api.GET("/email/verify/:id/:proof", verifyHandler.Verify)

		// Routes requiring authentication only
		authed := api.Group("", middleware.AuthRequired())
		{
			authed.GET("/user", userHandler.Current)
			authed.POST("/logout", authHandler.Logout)
			authed.POST("/email/resend", verifyHandler.Resend)
			authed.GET("/email/status", verifyHandler.Status)
		}

		// Routes requiring authentication AND email verification
		verified := api.Group("", middleware.AuthRequired(), middleware.VerifiedRequired())
		{
			verified.GET("/profile", userHandler.Profile)
			verified.PUT("/users/:id/role", userHandler.ChangeRole)

			posts := verified.Group("/posts")
			{
				posts.GET("", postHandler.List)
				posts.POST("", postHandler.Create)
				posts.GET("/:id", postHandler.Get)
				posts.PUT("/:id", postHandler.Update)
				posts.DELETE("/:id", postHandler.Delete)
				posts.DELETE("/:id/force", postHandler.ForceDelete)
				posts.PUT("/:id/publishOrArchive", postHandler.ChangeStatus)
			}
		}
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.L().Sugar().Infof("listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
