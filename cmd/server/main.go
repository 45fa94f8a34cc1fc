package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/priceapp/backoffice/config"
	"github.com/priceapp/backoffice/internal/database"
	"github.com/priceapp/backoffice/internal/handlers"
	"github.com/priceapp/backoffice/internal/inventory"
	"github.com/priceapp/backoffice/internal/middleware"
	"github.com/priceapp/backoffice/internal/printqueue"
	"github.com/priceapp/backoffice/internal/priceupdate"
	"github.com/priceapp/backoffice/internal/session"
	"github.com/priceapp/backoffice/internal/sweepers"
	"github.com/priceapp/backoffice/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting back-office service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()

	cleanup, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	if err := database.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to ensure schema")
	}

	store := inventory.NewStore(database.Pool())
	if err := store.SeedTags(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed tag catalog")
	}

	sessions := session.NewManager()
	builder := printqueue.NewBuilder(store, sessions)
	matcher := priceupdate.NewMatcher(store)
	handlers.Init(store, builder, matcher, sessions)

	sweeper := sweepers.NewStagingSweeper(
		database.Pool(), sessions, logger,
		cfg.Session.SweepInterval, cfg.Session.TTL,
	)
	go sweeper.Start(ctx)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	admin.Use(middleware.AdminRateLimitMiddleware(5, 10))
	{
		admin.POST("/cleanup/staging", handlers.CleanupStaging)
		admin.GET("/db/stats", handlers.DatabaseStats)
	}

	api := router.Group("/")
	api.Use(middleware.RateLimitMiddleware())
	api.Use(middleware.SessionMiddleware(sessions, cfg.Session.CookieName, cfg.Session.TTL))
	{
		queue := api.Group("/queue")
		{
			queue.GET("", handlers.GetQueue)
			queue.POST("/scan", handlers.ScanTag)
			queue.POST("/manual", handlers.ManualTag)
			queue.POST("/reset", handlers.ResetQueue)
		}

		api.GET("/sheets", handlers.GetSheets)
		api.GET("/tags", handlers.ListTagTemplates)
		api.GET("/references", handlers.ListReferences)

		updates := api.Group("/updates")
		{
			updates.GET("", handlers.ListUpdates)
			updates.POST("/text", handlers.UpdateText)
			updates.POST("/file", handlers.UpdateFile)
			updates.POST("/confirm", handlers.ConfirmUpdates)
		}

		missing := api.Group("/missing")
		{
			missing.GET("", handlers.ListMissing)
			missing.POST("/resolve", handlers.ResolveMissing)
		}

		api.GET("/products", handlers.ListProducts)
		api.POST("/products", handlers.CreateProduct)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := cleanup(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shut down telemetry")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "priceapp-backoffice").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
