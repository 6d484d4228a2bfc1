package main

import (
	"context"
	"log/slog"
	"os"

	configloader "github.com/campuskit/recarchive/external/config"
	recordingimpl "github.com/campuskit/recarchive/external/recording"
	"github.com/campuskit/recarchive/internal/config"
	"github.com/campuskit/recarchive/internal/pipeline"
	"github.com/samber/do/v2"
)

func main() {
	cfg := mustLoadConfig()
	initLogger(cfg)

	injector := do.New()
	do.ProvideValue(injector, cfg)
	recordingimpl.RegisterDI(injector)
	pipeline.RegisterDI(injector)

	sweeper, err := do.Invoke[*pipeline.Sweeper](injector)
	if err != nil {
		slog.Error("failed to build sweeper", "error", err)
		os.Exit(1)
	}

	trashed, err := sweeper.Run(context.Background())
	if err != nil {
		slog.Error("sweep run failed", "error", err)
		os.Exit(1)
	}
	slog.Info("sweep complete", "trashed", trashed, "dry_run", cfg.SweepDryRun)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}
