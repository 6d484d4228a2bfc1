package main

import (
	"context"
	"log/slog"
	"os"

	configloader "github.com/campuskit/recarchive/external/config"
	storageimpl "github.com/campuskit/recarchive/external/storage"
	"github.com/campuskit/recarchive/internal/config"
	"github.com/campuskit/recarchive/internal/pipeline"
	"github.com/samber/do/v2"
)

func main() {
	cfg := mustLoadConfig()
	initLogger(cfg)

	injector := do.New()
	do.ProvideValue(injector, cfg)
	storageimpl.RegisterDI(injector)
	pipeline.RegisterDI(injector)

	uploader, err := do.Invoke[*pipeline.Uploader](injector)
	if err != nil {
		slog.Error("failed to build uploader", "error", err)
		os.Exit(1)
	}

	uploaded, err := uploader.Run(context.Background())
	if err != nil {
		slog.Error("upload run failed", "error", err)
		os.Exit(1)
	}
	slog.Info("upload complete", "files", len(uploaded), "folder", cfg.UploadFolderName)
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
