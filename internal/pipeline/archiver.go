package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campuskit/recarchive/internal/recording"
	"github.com/campuskit/recarchive/internal/schedule"
	"github.com/campuskit/recarchive/internal/storage"
)

const (
	yearFolderLayout   = "2006 courses"
	monthFolderLayout  = "January Courses"
	filenameTimeLayout = "2006-01-02 15:04:05-07:00"

	// DefaultCourseFolder is the bucket for meetings no course claims.
	DefaultCourseFolder = "Others"
)

// ArchiverOptions configure one archive run.
type ArchiverOptions struct {
	UserID            string
	From              time.Time
	To                time.Time
	DeleteThresholdMB float64
	UploadThresholdMB float64
	Location          *time.Location
}

// Archiver fetches cloud recordings and dispositions each one: trashes
// near-empty recordings, uploads large ones into the provisioned
// year/month/course folder chain, and skips the sizes in between.
type Archiver struct {
	source  recording.Source
	store   storage.Store
	prov    *storage.Provisioner
	matcher *schedule.Matcher
	opts    ArchiverOptions
}

// Result aggregates one run. Per-item failures are collected, never
// propagated.
type Result struct {
	UploadedFileIDs []string
	Deleted         int
	Skipped         int
	Failures        []Failure
}

func NewArchiver(source recording.Source, store storage.Store, matcher *schedule.Matcher, opts ArchiverOptions) *Archiver {
	return &Archiver{
		source:  source,
		store:   store,
		prov:    storage.NewProvisioner(store),
		matcher: matcher,
		opts:    opts,
	}
}

func (a *Archiver) Run(ctx context.Context) (*Result, error) {
	meetings, err := a.source.ListRecordings(ctx, a.opts.UserID, a.opts.From, a.opts.To)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	slog.Info("fetched recordings", "meetings", len(meetings), "from", a.opts.From.Format(time.DateOnly), "to", a.opts.To.Format(time.DateOnly))

	res := &Result{}
	fails := &failureList{}
	for _, meeting := range meetings {
		a.processMeeting(ctx, meeting, res, fails)
	}
	res.Failures = fails.failures
	fails.summarize()
	return res, nil
}

func (a *Archiver) processMeeting(ctx context.Context, meeting recording.Meeting, res *Result, fails *failureList) {
	if !meeting.HasStartTime() {
		slog.Warn("meeting has no start time, skipping", "meeting_id", meeting.ID)
		res.Skipped++
		return
	}
	localized := meeting.StartTime.In(a.opts.Location)

	count, err := a.source.ParticipantCount(ctx, meeting.ID)
	if err != nil {
		slog.Warn("participant count unavailable", "meeting_id", meeting.ID, "error", err)
	}
	slog.Info("processing meeting", "meeting_id", meeting.ID, "topic", meeting.Topic, "participants", count)

	courseFolder, ok := a.matcher.Match(localized, meeting.Topic)
	if !ok {
		courseFolder = DefaultCourseFolder
	}
	leafID, err := a.prov.EnsurePath(ctx, localized.Format(yearFolderLayout), localized.Format(monthFolderLayout), courseFolder)
	if err != nil {
		fails.record(meeting.Topic, FailureUnexpected, err)
		return
	}

	for i, file := range meeting.RecordingFiles {
		// Only the first file decides the trash disposition; a trivial
		// first recording condemns the whole meeting.
		if i == 0 && file.SizeMB() < a.opts.DeleteThresholdMB {
			slog.Info("recording below delete threshold, trashing meeting",
				"meeting_id", meeting.ID, "topic", meeting.Topic, "size_mb", file.SizeMB())
			if fails.attempt(meeting.Topic, FailureUnexpected, func() error {
				return a.source.DeleteRecording(ctx, meeting.ID)
			}) {
				res.Deleted++
			}
			return
		}
		if file.SizeMB() < a.opts.UploadThresholdMB {
			continue
		}
		a.transferFile(ctx, meeting, localized, file, courseFolder, leafID, res, fails)
	}
}

func (a *Archiver) transferFile(ctx context.Context, meeting recording.Meeting, localized time.Time, file recording.RecordingFile, courseFolder, leafID string, res *Result, fails *failureList) {
	filename := fmt.Sprintf("%s_%s_%s.%s", meeting.Topic, file.FileType, localized.Format(filenameTimeLayout), file.FileType)

	var content []byte
	if !fails.attempt(filename, FailureDownload, func() error {
		var err error
		content, err = a.source.Download(ctx, file.DownloadURL)
		return err
	}) {
		return
	}

	var fileID string
	if !fails.attempt(filename, FailureUpload, func() error {
		var err error
		fileID, err = a.store.CreateFile(ctx, filename, leafID, mimeTypeFor(file.FileType), bytes.NewReader(content))
		return err
	}) {
		return
	}

	res.UploadedFileIDs = append(res.UploadedFileIDs, fileID)
	slog.Info("uploaded recording", "file", filename, "course_folder", courseFolder, "size_mb", fmt.Sprintf("%.2f", file.SizeMB()))
}
