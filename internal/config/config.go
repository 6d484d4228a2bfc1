package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env                   string
	ZoomClientID          string
	ZoomClientSecret      string
	ZoomAccountID         string
	ZoomAPIURL            string
	ZoomUserID            string
	RecordingsFrom        string
	ArchiveTimezone       string
	DeleteThresholdMB     float64
	UploadThresholdMB     float64
	DownloadMinSizeMB     float64
	DownloadDir           string
	UploadSourceDir       string
	UploadFolderName      string
	GoogleTokenFile       string
	GoogleCredentialsFile string
	SweepDryRun           bool
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if _, err := time.LoadLocation(c.ArchiveTimezone); err != nil {
		return fmt.Errorf("ARCHIVE_TIMEZONE is invalid: %w", err)
	}
	if _, err := time.Parse(time.DateOnly, c.RecordingsFrom); err != nil {
		return fmt.Errorf("RECORDINGS_FROM must be yyyy-mm-dd: %w", err)
	}
	if c.DeleteThresholdMB <= 0 {
		return fmt.Errorf("DELETE_THRESHOLD_MB must be positive, got %g", c.DeleteThresholdMB)
	}
	if c.UploadThresholdMB <= 0 {
		return fmt.Errorf("UPLOAD_THRESHOLD_MB must be positive, got %g", c.UploadThresholdMB)
	}
	if c.DeleteThresholdMB >= c.UploadThresholdMB {
		return fmt.Errorf("DELETE_THRESHOLD_MB (%g) must be below UPLOAD_THRESHOLD_MB (%g)", c.DeleteThresholdMB, c.UploadThresholdMB)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "ZOOM_CLIENT_ID", value: c.ZoomClientID},
		{name: "ZOOM_CLIENT_SECRET", value: c.ZoomClientSecret},
		{name: "ZOOM_ACCOUNT_ID", value: c.ZoomAccountID},
		{name: "ZOOM_USER_ID", value: c.ZoomUserID},
		{name: "ARCHIVE_TIMEZONE", value: c.ArchiveTimezone},
		{name: "GOOGLE_TOKEN_FILE", value: c.GoogleTokenFile},
	}
}

// RecordingsFromDate is only meaningful after Validate has passed.
func (c *Config) RecordingsFromDate() time.Time {
	t, _ := time.Parse(time.DateOnly, c.RecordingsFrom)
	return t
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
