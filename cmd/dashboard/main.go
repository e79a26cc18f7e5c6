package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/client"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/events"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting food dashboard",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"food_api", cfg.API.BaseURL,
		"log_level", cfg.LogLevel,
	)

	api := client.New(client.Options{
		BaseURL:   cfg.API.BaseURL,
		APIKey:    cfg.API.Key,
		Timeout:   time.Duration(cfg.API.Timeout) * time.Second,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, log)

	bus := events.NewBus()
	dash := dashboard.New(api, log, bus)

	// A failed load is shown on the page; the server still starts
	ctx := context.Background()
	if err := dash.Mount(ctx); err != nil {
		log.Error("initial food load failed", "error", err)
	} else {
		log.Info("foods loaded", "count", len(dash.View().Foods))
	}

	router, err := handlers.NewRouter(dash, bus, handlers.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         log,
	})
	if err != nil {
		log.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully", "event_subscribers", bus.SubscriberCount())
}
