package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/campuskit/recarchive/internal/recording"
)

// DownloaderOptions configure one download-to-disk run.
type DownloaderOptions struct {
	UserID    string
	From      time.Time
	To        time.Time
	MinSizeMB float64
	Dir       string
}

// Downloader saves recordings at or above the size floor into a local
// directory, one file at a time.
type Downloader struct {
	source recording.Source
	opts   DownloaderOptions
}

func NewDownloader(source recording.Source, opts DownloaderOptions) *Downloader {
	return &Downloader{source: source, opts: opts}
}

// Run returns the paths of the files it saved.
func (d *Downloader) Run(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(d.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create download dir: %w", err)
	}
	meetings, err := d.source.ListRecordings(ctx, d.opts.UserID, d.opts.From, d.opts.To)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}

	var saved []string
	fails := &failureList{}
	for _, meeting := range meetings {
		for _, file := range meeting.RecordingFiles {
			if file.SizeMB() < d.opts.MinSizeMB {
				continue
			}
			filename := fmt.Sprintf("%s_%s.%s", meeting.ID, file.ID, file.FileType)
			path := filepath.Join(d.opts.Dir, filename)
			if !fails.attempt(filename, FailureDownload, func() error {
				content, err := d.source.Download(ctx, file.DownloadURL)
				if err != nil {
					return err
				}
				return os.WriteFile(path, content, 0o644)
			}) {
				continue
			}
			saved = append(saved, path)
			slog.Info("downloaded recording", "file", filename, "size_mb", fmt.Sprintf("%.2f", file.SizeMB()))
		}
	}
	fails.summarize()
	return saved, nil
}
