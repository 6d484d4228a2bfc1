package recording

import (
	"context"
	"time"
)

const bytesPerMB = 1024 * 1024

// Meeting is one cloud-recorded meeting with its recording artifacts.
// A zero StartTime means the provider reported none.
type Meeting struct {
	ID             string
	Topic          string
	StartTime      time.Time
	Timezone       string
	RecordingFiles []RecordingFile
}

func (m Meeting) HasStartTime() bool {
	return !m.StartTime.IsZero()
}

// RecordingFile sizes are held in bytes; convert with SizeMB only for
// threshold comparisons.
type RecordingFile struct {
	MeetingID   string
	ID          string
	FileType    string
	FileSize    int64
	DownloadURL string
}

func (f RecordingFile) SizeMB() float64 {
	return float64(f.FileSize) / bytesPerMB
}

type Source interface {
	ListRecordings(ctx context.Context, userID string, from, to time.Time) ([]Meeting, error)
	ParticipantCount(ctx context.Context, meetingID string) (int, error)
	DeleteRecording(ctx context.Context, meetingID string) error
	Download(ctx context.Context, downloadURL string) ([]byte, error)
}
