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

	downloader, err := do.Invoke[*pipeline.Downloader](injector)
	if err != nil {
		slog.Error("failed to build downloader", "error", err)
		os.Exit(1)
	}

	saved, err := downloader.Run(context.Background())
	if err != nil {
		slog.Error("download run failed", "error", err)
		os.Exit(1)
	}
	slog.Info("download complete", "files", len(saved), "dir", cfg.DownloadDir)
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
