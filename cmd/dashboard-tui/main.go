package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/client"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/internal/tui"
	"github.com/Lixing-Zhang/kart-challenge/food-dashboard/pkg/logger"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to LOG_FILE or nowhere
	var out io.Writer = io.Discard
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log := logger.NewText(out, cfg.LogLevel)

	api := client.New(client.Options{
		BaseURL:   cfg.API.BaseURL,
		APIKey:    cfg.API.Key,
		Timeout:   time.Duration(cfg.API.Timeout) * time.Second,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, log)
	dash := dashboard.New(api, log, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting food dashboard tui", "food_api", cfg.API.BaseURL)

	p := tea.NewProgram(tui.New(ctx, dash), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error("tui exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
