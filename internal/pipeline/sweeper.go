package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuskit/recarchive/internal/recording"
)

// SweeperOptions configure one sweep of near-empty recordings.
type SweeperOptions struct {
	UserID      string
	From        time.Time
	To          time.Time
	ThresholdMB float64
	DryRun      bool
}

// Sweeper trashes meetings whose first recording file is below the
// size threshold. Only the first file is probed.
type Sweeper struct {
	source recording.Source
	opts   SweeperOptions
}

func NewSweeper(source recording.Source, opts SweeperOptions) *Sweeper {
	return &Sweeper{source: source, opts: opts}
}

// Run returns how many meetings were trashed (or would have been, in
// dry-run mode).
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	meetings, err := s.source.ListRecordings(ctx, s.opts.UserID, s.opts.From, s.opts.To)
	if err != nil {
		return 0, fmt.Errorf("list recordings: %w", err)
	}

	trashed := 0
	fails := &failureList{}
	for _, meeting := range meetings {
		if len(meeting.RecordingFiles) == 0 {
			continue
		}
		first := meeting.RecordingFiles[0]
		slog.Info("inspecting meeting", "meeting_id", meeting.ID, "size_mb", fmt.Sprintf("%.2f", first.SizeMB()))
		if first.SizeMB() >= s.opts.ThresholdMB {
			continue
		}
		slog.Info("meeting below threshold", "meeting_id", meeting.ID, "topic", meeting.Topic,
			"start_time", meeting.StartTime, "timezone", meeting.Timezone)
		if s.opts.DryRun {
			trashed++
			continue
		}
		if fails.attempt(meeting.Topic, FailureUnexpected, func() error {
			return s.source.DeleteRecording(ctx, meeting.ID)
		}) {
			trashed++
		}
	}
	fails.summarize()
	return trashed, nil
}
