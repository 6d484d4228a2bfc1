package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Provisioner ensures folder hierarchies exist with find-or-create
// semantics. Repeated calls with the same segments converge to the
// same leaf identifier.
type Provisioner struct {
	store Store
}

func NewProvisioner(store Store) *Provisioner {
	return &Provisioner{store: store}
}

// EnsurePath walks the named segments from the store root, looking each
// one up under the previous segment's identifier and creating it when
// absent. The first query hit wins. It returns the leaf identifier.
func (p *Provisioner) EnsurePath(ctx context.Context, names ...string) (string, error) {
	parentID := ""
	for _, name := range names {
		folders, err := p.store.QueryFolders(ctx, name, parentID)
		if err != nil {
			return "", fmt.Errorf("query folder %q: %w", name, err)
		}
		if len(folders) == 0 {
			created, err := p.store.CreateFolder(ctx, name, parentID)
			if err != nil {
				return "", fmt.Errorf("create folder %q: %w", name, err)
			}
			slog.Info("created folder", "name", name, "parent_id", parentID)
			folders = []Folder{created}
		}
		parentID = folders[0].ID
	}
	return parentID, nil
}
