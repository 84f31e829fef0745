package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"basurahub/database"
	"basurahub/internal/config"
	"basurahub/internal/http-api/handler"
	"basurahub/internal/http-api/middleware"
	"basurahub/internal/http-api/repository"
	"basurahub/internal/http-api/service"
	"basurahub/internal/ratelimit"
	"basurahub/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// the cache is advisory; a missing or unreachable redis only disables it
	cache, err := database.ConnectRedis(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, schedule caching disabled", "error", err)
		cache = nil
	}

	blobs, err := newBlobStore(cfg)
	if err != nil {
		logger.Error("storage initialization failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	submissionService := service.NewSubmissionService(submissionRepo, notificationService, blobs, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, userRepo, cache, cfg.CacheTTL, logger)
	locationService := service.NewLocationService(locationRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.AccessTokenTTL)
	wasteHandler := handler.NewWasteHandler(submissionService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	locationHandler := handler.NewLocationHandler(locationService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.StorageBackend == "local" {
		r.Static("/uploads", cfg.UploadDir)
	}

	loginLimiter := ratelimit.NewClientLimiter(cfg.LoginRateWindow, cfg.LoginRateBurst)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", middleware.LoginRateLimit(loginLimiter), authHandler.Register)
		auth.POST("/login", middleware.LoginRateLimit(loginLimiter), authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/logout", middleware.AuthMiddleware(authService), authHandler.Logout)
		auth.GET("/me", middleware.AuthMiddleware(authService), authHandler.Me)

		waste := api.Group("/waste", middleware.AuthMiddleware(authService))
		wasteHandler.RegisterRoutes(waste)

		notifications := api.Group("/notifications", middleware.AuthMiddleware(authService))
		notificationHandler.RegisterRoutes(notifications)

		schedules := api.Group("/schedules", middleware.AuthMiddleware(authService))
		scheduleHandler.RegisterRoutes(schedules)

		locations := api.Group("/locations", middleware.AuthMiddleware(authService))
		locationHandler.RegisterRoutes(locations)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting api server", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func newBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageBackend == "cloudinary" {
		return storage.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	}
	return storage.NewLocalStore(cfg.UploadDir)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
