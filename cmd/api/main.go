package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "buildings-api/docs"
	"buildings-api/internal/architect"
	"buildings-api/internal/config"
	"buildings-api/internal/database"
	"buildings-api/internal/handler"
	"buildings-api/internal/logger"
	"buildings-api/internal/metrics"
	"buildings-api/internal/middleware"
	"buildings-api/internal/normalize"
	"buildings-api/internal/repository"
	"buildings-api/internal/search"
	"buildings-api/internal/service"
	"buildings-api/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := logger.Setup(os.Stdout, config.LogLevel, config.LogPretty)

	// Database connection
	conn, err := database.Connect(context.Background(), config.DBSource, config.DBConnectAttempts, config.DBConnectInterval, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	if err := database.RunMigrations(config.DBSource); err != nil {
		log.Fatal().Err(err).Msg("cannot run migrations")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Initialize layers
	repo := repository.NewRepository(conn)

	resolver := architect.NewResolver(repo, architect.ParseGeneration(config.ArchitectSchema), logger)
	normalizer := normalize.New(resolver, collector, logger)
	orchestrator := search.NewOrchestrator(repo, normalizer, collector, logger, config.NearbyDefaultRadius)

	opts := service.Options{
		DefaultLimit:        config.SearchDefaultLimit,
		MaxLimit:            config.SearchMaxLimit,
		SuggestionLimit:     config.SuggestionLimit,
		NearbyDefaultRadius: config.NearbyDefaultRadius,
		PopularSearchWindow: config.PopularSearchWindow,
	}
	buildingService := service.NewBuildingService(repo, orchestrator, normalizer, opts, logger)
	architectService := service.NewArchitectService(repo, orchestrator, opts)

	limits := handler.Limits{DefaultLimit: config.SearchDefaultLimit, MaxLimit: config.SearchMaxLimit}
	buildingHandler := handler.NewBuildingHandler(buildingService, limits)
	architectHandler := handler.NewArchitectHandler(architectService, limits)

	tracker := session.NewTracker(config.SearchDedupWindow)
	tracker.Start(config.SearchDedupWindow)
	defer tracker.Stop()

	limiter := middleware.NewRateLimiter(middleware.PerMinute(config.RateLimitPerMinute, config.RateLimitBurst), logger)
	defer limiter.Stop()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(logger, collector))

	r.GET("/metrics", gin.WrapH(metrics.Handler(registry)))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/", middleware.Session(tracker), limiter.Middleware())
	handler.RegisterRoutes(api, buildingHandler, architectHandler)

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", config.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
