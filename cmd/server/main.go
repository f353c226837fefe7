package main

import (
	"github.com/Solomon-mithra/CRM-backend/internal/handler"
	"github.com/Solomon-mithra/CRM-backend/internal/middleware"
	"github.com/Solomon-mithra/CRM-backend/internal/repository"
	"github.com/Solomon-mithra/CRM-backend/pkg/config"
	"github.com/Solomon-mithra/CRM-backend/pkg/database"
	"github.com/Solomon-mithra/CRM-backend/pkg/jwtutil"
	"github.com/Solomon-mithra/CRM-backend/pkg/logger"
	"github.com/Solomon-mithra/CRM-backend/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables.
	// A missing signing key aborts startup here.
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting CRM backend...", cfg.LogConfig()...)

	// Initialize database and run migrations
	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility from the immutable startup configuration
	jwtUtil := jwtutil.New(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Wire repositories and handlers
	db := database.GetDB()
	accounts := repository.NewAccountDirectory(db)
	leads := repository.NewLeadRepository(db)
	activities := repository.NewActivityLog(db)
	dashboard := repository.NewDashboardAggregator(db)

	authHandler := handler.NewAuthHandler(accounts, jwtUtil)
	leadHandler := handler.NewLeadHandler(leads, activities)
	activityHandler := handler.NewActivityHandler(activities, leads)
	dashboardHandler := handler.NewDashboardHandler(dashboard)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
	}))
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.RequestLogger())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/", handler.Root)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	api := e.Group("/api")

	// Registration and login don't require a token
	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	// Protected routes - all require a valid bearer token
	auth := middleware.AuthMiddleware(jwtUtil)
	users.GET("/me", authHandler.Me, auth)

	leadRoutes := api.Group("/leads", auth)
	leadRoutes.POST("", leadHandler.Create)
	leadRoutes.GET("", leadHandler.List)
	leadRoutes.GET("/:id", leadHandler.Get)
	leadRoutes.PUT("/:id", leadHandler.Update)
	leadRoutes.DELETE("/:id", leadHandler.Delete)
	leadRoutes.POST("/:id/activities", activityHandler.Create)
	leadRoutes.GET("/:id/activities", activityHandler.List)

	dashboardRoutes := api.Group("/dashboard", auth)
	dashboardRoutes.GET("/statistics", dashboardHandler.Statistics)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
