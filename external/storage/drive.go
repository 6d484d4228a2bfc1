package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/campuskit/recarchive/internal/storage"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveStore implements storage.Store on Google Drive.
type DriveStore struct {
	svc *drive.Service
}

func NewDriveStore(svc *drive.Service) storage.Store {
	return &DriveStore{svc: svc}
}

func (s *DriveStore) QueryFolders(ctx context.Context, name, parentID string) ([]storage.Folder, error) {
	terms := []string{
		fmt.Sprintf("name='%s'", escapeQueryTerm(name)),
		fmt.Sprintf("mimeType='%s'", folderMimeType),
		"trashed=false",
	}
	if parentID != "" {
		terms = append(terms, fmt.Sprintf("'%s' in parents", parentID))
	}
	list, err := s.svc.Files.List().
		Context(ctx).
		Q(strings.Join(terms, " and ")).
		Spaces("drive").
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	folders := make([]storage.Folder, 0, len(list.Files))
	for _, f := range list.Files {
		folders = append(folders, storage.Folder{ID: f.Id, Name: f.Name})
	}
	return folders, nil
}

func (s *DriveStore) CreateFolder(ctx context.Context, name, parentID string) (storage.Folder, error) {
	meta := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	created, err := s.svc.Files.Create(meta).Context(ctx).Fields("id").Do()
	if err != nil {
		return storage.Folder{}, fmt.Errorf("create folder: %w", err)
	}
	return storage.Folder{ID: created.Id, Name: name}, nil
}

func (s *DriveStore) CreateFile(ctx context.Context, name, parentID, mimeType string, content io.Reader) (string, error) {
	meta := &drive.File{Name: name}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	created, err := s.svc.Files.Create(meta).
		Context(ctx).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id").
		Do()
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	return created.Id, nil
}

// escapeQueryTerm guards names with quotes or backslashes against
// breaking the Drive query syntax.
func escapeQueryTerm(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
