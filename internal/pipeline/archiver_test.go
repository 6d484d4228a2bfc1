package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/campuskit/recarchive/internal/recording"
	"github.com/campuskit/recarchive/internal/schedule"
	"github.com/campuskit/recarchive/internal/storage"
)

type fakeSource struct {
	meetings     []recording.Meeting
	participants map[string]int
	downloads    map[string][]byte
	downloadErrs map[string]error
	deleted      []string
	deleteErr    error
}

func (s *fakeSource) ListRecordings(_ context.Context, _ string, _, _ time.Time) ([]recording.Meeting, error) {
	return s.meetings, nil
}

func (s *fakeSource) ParticipantCount(_ context.Context, meetingID string) (int, error) {
	return s.participants[meetingID], nil
}

func (s *fakeSource) DeleteRecording(_ context.Context, meetingID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, meetingID)
	return nil
}

func (s *fakeSource) Download(_ context.Context, downloadURL string) ([]byte, error) {
	if err := s.downloadErrs[downloadURL]; err != nil {
		return nil, err
	}
	content, ok := s.downloads[downloadURL]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", downloadURL)
	}
	return content, nil
}

type createdFile struct {
	name     string
	parentID string
	mimeType string
	content  string
}

type fakeStore struct {
	folders   []storage.Folder
	parents   map[string]string
	nextID    int
	files     []createdFile
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{parents: map[string]string{}}
}

func (s *fakeStore) QueryFolders(_ context.Context, name, parentID string) ([]storage.Folder, error) {
	var out []storage.Folder
	for _, f := range s.folders {
		if f.Name == name && s.parents[f.ID] == parentID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateFolder(_ context.Context, name, parentID string) (storage.Folder, error) {
	s.nextID++
	f := storage.Folder{ID: fmt.Sprintf("folder-%d", s.nextID), Name: name}
	s.folders = append(s.folders, f)
	s.parents[f.ID] = parentID
	return f, nil
}

func (s *fakeStore) CreateFile(_ context.Context, name, parentID, mimeType string, content io.Reader) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	body, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	s.nextID++
	s.files = append(s.files, createdFile{name: name, parentID: parentID, mimeType: mimeType, content: string(body)})
	return fmt.Sprintf("file-%d", s.nextID), nil
}

func (s *fakeStore) folderNames() []string {
	var names []string
	for _, f := range s.folders {
		names = append(names, f.Name)
	}
	return names
}

const mb = 1024 * 1024

// Thursday 2025-03-06 23:00 UTC is Thursday afternoon in Pacific time.
var thursdayStart = time.Date(2025, 3, 6, 23, 0, 0, 0, time.UTC)

func lawMeeting(files ...recording.RecordingFile) recording.Meeting {
	return recording.Meeting{
		ID:             "m-law",
		Topic:          "MB 590 Business Law Session",
		StartTime:      thursdayStart,
		Timezone:       "UTC",
		RecordingFiles: files,
	}
}

func newTestArchiver(t *testing.T, source *fakeSource, store *fakeStore) *Archiver {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return NewArchiver(source, store, schedule.NewMatcher(schedule.DefaultTable()), ArchiverOptions{
		UserID:            "me",
		From:              time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
		To:                time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		DeleteThresholdMB: 2,
		UploadThresholdMB: 20,
		Location:          loc,
	})
}

func TestArchiverRun_SizeDispositions(t *testing.T) {
	tiny := lawMeeting(recording.RecordingFile{MeetingID: "m-law", ID: "r-tiny", FileType: "MP4", FileSize: 3 * mb / 2, DownloadURL: "https://rec.test/tiny"})
	tiny.ID = "m-tiny"
	big := lawMeeting(recording.RecordingFile{MeetingID: "m-law", ID: "r-big", FileType: "MP4", FileSize: 25 * mb, DownloadURL: "https://rec.test/big"})
	middling := lawMeeting(recording.RecordingFile{MeetingID: "m-law", ID: "r-mid", FileType: "MP4", FileSize: 10 * mb, DownloadURL: "https://rec.test/mid"})
	middling.ID = "m-mid"

	source := &fakeSource{
		meetings:  []recording.Meeting{tiny, big, middling},
		downloads: map[string][]byte{"https://rec.test/big": []byte("big-bytes")},
	}
	store := newFakeStore()

	res, err := newTestArchiver(t, source, store).Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Deleted != 1 || len(source.deleted) != 1 || source.deleted[0] != "m-tiny" {
		t.Fatalf("expected the 1.5MB meeting to be trashed: %+v / %v", res, source.deleted)
	}
	if len(res.UploadedFileIDs) != 1 {
		t.Fatalf("expected exactly the 25MB file uploaded, got %d", len(res.UploadedFileIDs))
	}
	if len(store.files) != 1 || store.files[0].content != "big-bytes" {
		t.Fatalf("unexpected stored files: %+v", store.files)
	}
	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", res.Failures)
	}
}

func TestArchiverRun_FolderPathAndMIME(t *testing.T) {
	meeting := lawMeeting(recording.RecordingFile{MeetingID: "m-law", ID: "r1", FileType: "MP4", FileSize: 25 * mb, DownloadURL: "https://rec.test/r1"})
	source := &fakeSource{
		meetings:  []recording.Meeting{meeting},
		downloads: map[string][]byte{"https://rec.test/r1": []byte("x")},
	}
	store := newFakeStore()

	if _, err := newTestArchiver(t, source, store).Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	names := store.folderNames()
	want := []string{"2025 courses", "March Courses", "MB 590 Business Law"}
	if len(names) != len(want) {
		t.Fatalf("unexpected folders: %v", names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("folder %d: want %q, got %q", i, name, names[i])
		}
	}
	if store.parents[store.folders[2].ID] != store.folders[1].ID {
		t.Fatal("course folder not parented to month folder")
	}
	file := store.files[0]
	if file.parentID != store.folders[2].ID {
		t.Fatalf("file not placed in the course folder: %+v", file)
	}
	if file.mimeType != "video/mp4" {
		t.Fatalf("unexpected mime type: %s", file.mimeType)
	}
}

func TestArchiverRun_SkipsMeetingWithoutStartTime(t *testing.T) {
	source := &fakeSource{meetings: []recording.Meeting{{
		ID:             "m-nostart",
		Topic:          "Orphan",
		RecordingFiles: []recording.RecordingFile{{ID: "r1", FileType: "MP4", FileSize: 25 * mb}},
	}}}
	store := newFakeStore()

	res, err := newTestArchiver(t, source, store).Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Skipped != 1 {
		t.Fatalf("expected one skipped meeting, got %d", res.Skipped)
	}
	if len(store.folders) != 0 || len(store.files) != 0 {
		t.Fatal("no store activity expected for a skipped meeting")
	}
}

func TestArchiverRun_UnmatchedTopicFallsBackToOthers(t *testing.T) {
	meeting := recording.Meeting{
		ID:        "m-misc",
		Topic:     "Weekly standup",
		StartTime: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), // Monday, no windows
		RecordingFiles: []recording.RecordingFile{
			{ID: "r1", FileType: "MP4", FileSize: 25 * mb, DownloadURL: "https://rec.test/r1"},
		},
	}
	source := &fakeSource{
		meetings:  []recording.Meeting{meeting},
		downloads: map[string][]byte{"https://rec.test/r1": []byte("x")},
	}
	store := newFakeStore()

	if _, err := newTestArchiver(t, source, store).Run(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	names := store.folderNames()
	if names[len(names)-1] != DefaultCourseFolder {
		t.Fatalf("expected the default bucket, got %v", names)
	}
}

func TestArchiverRun_DownloadFailureIsIsolated(t *testing.T) {
	meeting := lawMeeting(
		recording.RecordingFile{MeetingID: "m-law", ID: "r-bad", FileType: "MP4", FileSize: 30 * mb, DownloadURL: "https://rec.test/bad"},
		recording.RecordingFile{MeetingID: "m-law", ID: "r-good", FileType: "M4A", FileSize: 22 * mb, DownloadURL: "https://rec.test/good"},
	)
	source := &fakeSource{
		meetings:     []recording.Meeting{meeting},
		downloads:    map[string][]byte{"https://rec.test/good": []byte("audio")},
		downloadErrs: map[string]error{"https://rec.test/bad": errors.New("connection reset")},
	}
	store := newFakeStore()

	res, err := newTestArchiver(t, source, store).Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Kind != FailureDownload {
		t.Fatalf("expected one download failure, got %+v", res.Failures)
	}
	if len(res.UploadedFileIDs) != 1 {
		t.Fatalf("the second file must still upload, got %d uploads", len(res.UploadedFileIDs))
	}
	// Unknown extension falls back to the generic binary type.
	if store.files[0].mimeType != "application/octet-stream" {
		t.Fatalf("unexpected mime type: %s", store.files[0].mimeType)
	}
}

func TestArchiverRun_UploadFailureIsRecorded(t *testing.T) {
	meeting := lawMeeting(recording.RecordingFile{MeetingID: "m-law", ID: "r1", FileType: "MP4", FileSize: 25 * mb, DownloadURL: "https://rec.test/r1"})
	source := &fakeSource{
		meetings:  []recording.Meeting{meeting},
		downloads: map[string][]byte{"https://rec.test/r1": []byte("x")},
	}
	store := newFakeStore()
	store.createErr = errors.New("quota exceeded")

	res, err := newTestArchiver(t, source, store).Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Kind != FailureUpload {
		t.Fatalf("expected one upload failure, got %+v", res.Failures)
	}
	if len(res.UploadedFileIDs) != 0 {
		t.Fatal("nothing should count as uploaded")
	}
}

func TestArchiverRun_OnlyFirstFileDecidesDeletion(t *testing.T) {
	// A trivial second file does not condemn the meeting when the
	// first one is substantial.
	meeting := lawMeeting(
		recording.RecordingFile{MeetingID: "m-law", ID: "r-first", FileType: "MP4", FileSize: 25 * mb, DownloadURL: "https://rec.test/first"},
		recording.RecordingFile{MeetingID: "m-law", ID: "r-tiny", FileType: "TXT", FileSize: mb / 2, DownloadURL: "https://rec.test/tiny"},
	)
	source := &fakeSource{
		meetings:  []recording.Meeting{meeting},
		downloads: map[string][]byte{"https://rec.test/first": []byte("x")},
	}
	store := newFakeStore()

	res, err := newTestArchiver(t, source, store).Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Deleted != 0 || len(source.deleted) != 0 {
		t.Fatalf("meeting must not be trashed: %+v", res)
	}
	if len(res.UploadedFileIDs) != 1 {
		t.Fatalf("expected the first file uploaded, got %d", len(res.UploadedFileIDs))
	}
}
