package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnTengye/carrierdiscounts/config"
	"github.com/AnTengye/carrierdiscounts/handler"
	"github.com/AnTengye/carrierdiscounts/middleware"
	"github.com/AnTengye/carrierdiscounts/pkg/logger"
	"github.com/AnTengye/carrierdiscounts/service"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := os.Getenv("DISCOUNTS_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	source, err := service.NewWorkbookSource(&cfg.Workbook)
	if err != nil {
		slog.Error("failed to initialize workbook source", "error", err)
		os.Exit(1)
	}
	slog.Info("configuration loaded", "workbook", source.Describe(), "strict_spend_units", cfg.Query.StrictUnits())

	// A missing workbook is reported per request, so the server still starts.
	if err := source.Check(context.Background()); err != nil {
		slog.Warn("workbook not reachable at startup", "error", err)
	}

	discountSvc := service.NewDiscountService(source, &cfg.Query)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS())
	router.Use(middleware.NoCache())
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics())
		router.GET(cfg.Metrics.Path, middleware.MetricsHandler())
	}
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	handler.Register(router,
		handler.NewDiscountHandler(discountSvc),
		handler.NewHealthHandler(discountSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
