package pipeline

import (
	"time"

	"github.com/campuskit/recarchive/internal/config"
	"github.com/campuskit/recarchive/internal/recording"
	"github.com/campuskit/recarchive/internal/schedule"
	"github.com/campuskit/recarchive/internal/storage"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Archiver, error) {
		cfg := do.MustInvoke[*config.Config](i)
		source := do.MustInvoke[recording.Source](i)
		store := do.MustInvoke[storage.Store](i)
		loc, err := time.LoadLocation(cfg.ArchiveTimezone)
		if err != nil {
			return nil, err
		}
		from, to := listingWindow(cfg)
		return NewArchiver(source, store, schedule.NewMatcher(schedule.DefaultTable()), ArchiverOptions{
			UserID:            cfg.ZoomUserID,
			From:              from,
			To:                to,
			DeleteThresholdMB: cfg.DeleteThresholdMB,
			UploadThresholdMB: cfg.UploadThresholdMB,
			Location:          loc,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*Downloader, error) {
		cfg := do.MustInvoke[*config.Config](i)
		source := do.MustInvoke[recording.Source](i)
		from, to := listingWindow(cfg)
		return NewDownloader(source, DownloaderOptions{
			UserID:    cfg.ZoomUserID,
			From:      from,
			To:        to,
			MinSizeMB: cfg.DownloadMinSizeMB,
			Dir:       cfg.DownloadDir,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*Sweeper, error) {
		cfg := do.MustInvoke[*config.Config](i)
		source := do.MustInvoke[recording.Source](i)
		from, to := listingWindow(cfg)
		return NewSweeper(source, SweeperOptions{
			UserID:      cfg.ZoomUserID,
			From:        from,
			To:          to,
			ThresholdMB: cfg.DeleteThresholdMB,
			DryRun:      cfg.SweepDryRun,
		}), nil
	})

	do.Provide(injector, func(i do.Injector) (*Uploader, error) {
		cfg := do.MustInvoke[*config.Config](i)
		store := do.MustInvoke[storage.Store](i)
		return NewUploader(store, UploaderOptions{
			SourceDir:  cfg.UploadSourceDir,
			FolderName: cfg.UploadFolderName,
		}), nil
	})
}

// listingWindow spans the configured term start through tomorrow, so
// today's recordings are always inside the upper bound.
func listingWindow(cfg *config.Config) (time.Time, time.Time) {
	return cfg.RecordingsFromDate(), time.Now().AddDate(0, 0, 1)
}
