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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rezapp/marketplace-service/config"
	_ "github.com/rezapp/marketplace-service/docs"
	"github.com/rezapp/marketplace-service/internal/actions"
	"github.com/rezapp/marketplace-service/internal/api"
	"github.com/rezapp/marketplace-service/internal/clickspool"
	"github.com/rezapp/marketplace-service/internal/database"
	"github.com/rezapp/marketplace-service/internal/handlers"
	"github.com/rezapp/marketplace-service/internal/httpx"
	"github.com/rezapp/marketplace-service/internal/httpx/ratelimit"
	"github.com/rezapp/marketplace-service/internal/middleware"
	"github.com/rezapp/marketplace-service/internal/section"
	"github.com/rezapp/marketplace-service/internal/telemetry"
	"github.com/rezapp/marketplace-service/internal/token"
)

// @title Marketplace Aggregation Service API
// @version 1.0
// @description Aggregated mall and cash-store screen data with cached snapshots, brand search and click tracking.
// @BasePath /
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting marketplace aggregation service")

	ctx := context.Background()

	cleanup := telemetry.MustInit(ctx, telemetry.GetConfigFromEnv())
	defer cleanup(ctx)

	tokens, err := token.NewStore(cfg.Upstream.TokenDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open token store")
	}

	rlConfig := ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoffMs:  cfg.RateLimit.InitialBackoffMs,
		MaxBackoffMs:      cfg.RateLimit.MaxBackoffMs,
	}
	upstream := httpx.NewClient(rlConfig, tokens, *logger)
	if cfg.Upstream.Timeout > 0 {
		upstream.SetTimeout(cfg.Upstream.Timeout)
	}
	client := api.NewClient(upstream, cfg.Upstream.BaseURL, *logger)

	mall := section.NewMall(client, section.Options{CacheTTL: cfg.Cache.MallTTL, Logger: *logger})
	cashStore := section.NewCashStore(client, section.Options{CacheTTL: cfg.Cache.CashStoreTTL, Logger: *logger})
	defer mall.Close()
	defer cashStore.Close()

	// The click spool is optional: without a database, failed clicks are
	// dropped after logging instead of retried.
	var spool *clickspool.Spool
	var sweeper *clickspool.Sweeper
	if dbURL := config.GetDatabaseURL(); dbURL != "" {
		if err := database.Connect(ctx, dbURL, database.Settings{
			MaxConns:        cfg.Database.MaxConnections,
			MinConns:        cfg.Database.MinConnections,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		}); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()
		logger.Info().Msg("Database connected")

		spool, err = clickspool.NewSpool(ctx, database.Pool(), *logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize click spool")
		}

		forward := func(ctx context.Context, kind string, event api.ClickEvent) error {
			if kind == "affiliate" {
				return client.TrackAffiliateClick(ctx, event)
			}
			return client.TrackBrandClick(ctx, event)
		}
		sweeper = clickspool.NewSweeper(spool, forward, *logger, cfg.Spool.SweepInterval)
		go sweeper.Start(ctx)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, click spool disabled")
	}

	var tracker *actions.Tracker
	if spool != nil {
		tracker = actions.NewTracker(client, spool, *logger)
	} else {
		tracker = actions.NewTracker(client, nil, *logger)
	}

	h := handlers.New(mall, cashStore, client, tracker, *logger)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware())
	{
		v1.GET("/screens/:screen", h.GetScreen)
		v1.POST("/screens/:screen/more", h.LoadMore)
		v1.GET("/search", h.SearchBrands)
		v1.GET("/coupons", h.ListCoupons)
		v1.POST("/clicks", h.TrackClick)
	}

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.Auth.InternalAPIKey))
	internal.Use(middleware.ServiceRateLimitMiddleware(50, 100))
	{
		internal.GET("/health", h.HealthCheck)
		internal.POST("/screens/:screen/refresh", h.RefreshScreen)
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
	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
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

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "marketplace-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

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
