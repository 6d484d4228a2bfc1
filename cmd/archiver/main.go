package main

import (
	"context"
	"log/slog"
	"os"

	configloader "github.com/campuskit/recarchive/external/config"
	recordingimpl "github.com/campuskit/recarchive/external/recording"
	storageimpl "github.com/campuskit/recarchive/external/storage"
	"github.com/campuskit/recarchive/internal/config"
	"github.com/campuskit/recarchive/internal/pipeline"
	"github.com/samber/do/v2"
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	injector := setupDI(cfg)
	runArchive(injector)
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

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	recordingimpl.RegisterDI(injector)
	storageimpl.RegisterDI(injector)
	pipeline.RegisterDI(injector)

	return injector
}

func runArchive(injector do.Injector) {
	archiver, err := do.Invoke[*pipeline.Archiver](injector)
	if err != nil {
		slog.Error("failed to build archiver", "error", err)
		os.Exit(1)
	}

	res, err := archiver.Run(context.Background())
	if err != nil {
		slog.Error("archive run failed", "error", err)
		os.Exit(1)
	}
	slog.Info("archive run complete",
		"uploaded", len(res.UploadedFileIDs),
		"deleted", res.Deleted,
		"skipped", res.Skipped,
		"failures", len(res.Failures))
}
