package storage

import (
	"context"
	"io"
)

// Folder is a destination-store folder handle.
type Folder struct {
	ID   string
	Name string
}

// Store is the narrow capability surface the pipeline needs from the
// destination store. An empty parentID means "anywhere" for queries and
// the store root for creation. Folder identity is name plus parent
// containment; two folders with the same name under different parents
// are distinct.
type Store interface {
	QueryFolders(ctx context.Context, name, parentID string) ([]Folder, error)
	CreateFolder(ctx context.Context, name, parentID string) (Folder, error)
	CreateFile(ctx context.Context, name, parentID, mimeType string, content io.Reader) (string, error)
}
