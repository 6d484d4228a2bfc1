package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/campuskit/recarchive/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                   string  `env:"ENV" envDefault:"production"`
	ZoomClientID          string  `env:"ZOOM_CLIENT_ID,required"`
	ZoomClientSecret      string  `env:"ZOOM_CLIENT_SECRET,required"`
	ZoomAccountID         string  `env:"ZOOM_ACCOUNT_ID,required"`
	ZoomAPIURL            string  `env:"ZOOM_API_URL" envDefault:"https://api.zoom.us/v2"`
	ZoomUserID            string  `env:"ZOOM_USER_ID" envDefault:"me"`
	RecordingsFrom        string  `env:"RECORDINGS_FROM" envDefault:"2024-12-01"`
	ArchiveTimezone       string  `env:"ARCHIVE_TIMEZONE" envDefault:"America/Los_Angeles"`
	DeleteThresholdMB     float64 `env:"DELETE_THRESHOLD_MB" envDefault:"2"`
	UploadThresholdMB     float64 `env:"UPLOAD_THRESHOLD_MB" envDefault:"20"`
	DownloadMinSizeMB     float64 `env:"DOWNLOAD_MIN_SIZE_MB" envDefault:"20"`
	DownloadDir           string  `env:"DOWNLOAD_DIR" envDefault:"zoom_recordings"`
	UploadSourceDir       string  `env:"UPLOAD_SOURCE_DIR" envDefault:"zoom_recordings"`
	UploadFolderName      string  `env:"UPLOAD_FOLDER_NAME" envDefault:"zoom_recordings"`
	GoogleTokenFile       string  `env:"GOOGLE_TOKEN_FILE" envDefault:"token.json"`
	GoogleCredentialsFile string  `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"credentials.json"`
	SweepDryRun           bool    `env:"SWEEP_DRY_RUN" envDefault:"false"`
}

func Load() (*internalconfig.Config, error) {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                   raw.Env,
		ZoomClientID:          raw.ZoomClientID,
		ZoomClientSecret:      raw.ZoomClientSecret,
		ZoomAccountID:         raw.ZoomAccountID,
		ZoomAPIURL:            raw.ZoomAPIURL,
		ZoomUserID:            raw.ZoomUserID,
		RecordingsFrom:        raw.RecordingsFrom,
		ArchiveTimezone:       raw.ArchiveTimezone,
		DeleteThresholdMB:     raw.DeleteThresholdMB,
		UploadThresholdMB:     raw.UploadThresholdMB,
		DownloadMinSizeMB:     raw.DownloadMinSizeMB,
		DownloadDir:           raw.DownloadDir,
		UploadSourceDir:       raw.UploadSourceDir,
		UploadFolderName:      raw.UploadFolderName,
		GoogleTokenFile:       raw.GoogleTokenFile,
		GoogleCredentialsFile: raw.GoogleCredentialsFile,
		SweepDryRun:           raw.SweepDryRun,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
