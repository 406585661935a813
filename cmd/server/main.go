package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/family-hub/internal/api/handlers"
	"github.com/stitts-dev/family-hub/internal/api/middleware"
	"github.com/stitts-dev/family-hub/internal/config"
	"github.com/stitts-dev/family-hub/internal/database"
	"github.com/stitts-dev/family-hub/internal/logger"
	"github.com/stitts-dev/family-hub/internal/models"
	"github.com/stitts-dev/family-hub/internal/providers"
	"github.com/stitts-dev/family-hub/internal/services"
	ws "github.com/stitts-dev/family-hub/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logger with service context
	structuredLogger := logger.InitLogger("info", cfg.IsDevelopment())
	logger.WithComponent("main").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
	}).Info("Starting family-hub service")

	// Setup Gin mode
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logger.WithComponent("main").Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.CalendarEvent{}); err != nil {
		logger.WithComponent("main").Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithComponent("main").Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithComponent("main").Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient, structuredLogger)
	circuitBreakerService := services.NewCircuitBreakerService(
		cfg.CircuitBreakerThreshold,
		cfg.ExternalAPITimeout,
		structuredLogger,
	)

	// Initialize the MLB stats API provider
	statsClient := providers.NewStatsAPIClient(
		cfg.MLBAPIBaseURL,
		cfg.SeasonStart,
		structuredLogger,
		providers.WithCache(cacheService),
		providers.WithBreaker(circuitBreakerService),
		providers.WithHTTPClient(&http.Client{Timeout: cfg.ExternalAPITimeout}),
	)

	// Initialize the team aggregator and its change-notification hub
	aggregator := services.NewTeamAggregator(statsClient, structuredLogger)
	hub := ws.NewSnapshotHub(structuredLogger)
	go hub.Run()
	go hub.Watch(aggregator.Subscribe())

	// Initialize the calendar service
	calendarService := services.NewCalendarService(db, structuredLogger)

	// Background snapshot refresh for the active team
	refresher := services.NewSnapshotRefresher(aggregator, cfg.SnapshotRefreshSchedule, structuredLogger)
	if cfg.EnableBackgroundJobs {
		if err := refresher.Start(); err != nil {
			logger.WithComponent("main").Fatalf("Failed to start snapshot refresher: %v", err)
		}
		defer refresher.Stop()
	}

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.CORS(cfg.CorsOrigins), middleware.RequestLogger(structuredLogger))

	// Initialize handlers
	mlbHandler := handlers.NewMLBHandler(statsClient, aggregator, structuredLogger)
	calendarHandler := handlers.NewCalendarHandler(calendarService, structuredLogger)
	healthHandler := handlers.NewHealthHandler(db, redisClient, refresher, circuitBreakerService, structuredLogger)

	// Setup API routes
	apiV1 := router.Group("/api/v1")
	{
		// MLB dashboard endpoints
		apiV1.GET("/mlb/teams", mlbHandler.ListTeams)
		apiV1.POST("/mlb/teams/:teamId/select", mlbHandler.SelectTeam)
		apiV1.GET("/mlb/snapshot", mlbHandler.GetSnapshot)
		apiV1.POST("/mlb/players/:playerId/select", mlbHandler.SelectPlayer)
		apiV1.DELETE("/mlb/players/selected", mlbHandler.ClearPlayer)
		apiV1.GET("/mlb/teams/:teamId/players/:playerId/last-five", mlbHandler.GetLastFiveGames)

		// Calendar reads are open to the family; writes require a
		// session and an allow-listed email.
		apiV1.GET("/calendar/events", calendarHandler.ListEvents)
		apiV1.GET("/calendar/events/:id", calendarHandler.GetEvent)

		protected := apiV1.Group("")
		protected.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.AllowListRequired(cfg.AllowedEmails))
		{
			protected.POST("/calendar/events", calendarHandler.CreateEvent)
			protected.PUT("/calendar/events/:id", calendarHandler.UpdateEvent)
			protected.DELETE("/calendar/events/:id", calendarHandler.DeleteEvent)
		}
	}

	// Snapshot change notifications
	router.GET("/ws", hub.HandleConnection)

	// Health check endpoints
	router.GET("/health", healthHandler.GetHealth)
	router.HEAD("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)
	router.HEAD("/ready", healthHandler.GetReady)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.WithComponent("main").WithField("port", cfg.Port).Info("family-hub service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithComponent("main").Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithComponent("main").Info("Shutting down family-hub service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithComponent("main").Fatalf("family-hub service forced to shutdown: %v", err)
	}

	logger.WithComponent("main").Info("family-hub service exited")
}
