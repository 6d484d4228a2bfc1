package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/campuskit/recarchive/internal/storage"
)

// UploaderOptions configure one local-directory push.
type UploaderOptions struct {
	SourceDir  string
	FolderName string
}

// Uploader pushes every regular file in a local directory into one
// destination-store folder, provisioned at the root.
type Uploader struct {
	store storage.Store
	prov  *storage.Provisioner
	opts  UploaderOptions
}

func NewUploader(store storage.Store, opts UploaderOptions) *Uploader {
	return &Uploader{store: store, prov: storage.NewProvisioner(store), opts: opts}
}

// Run returns the destination identifiers of the uploaded files.
func (u *Uploader) Run(ctx context.Context) ([]string, error) {
	paths, err := listDirectoryFiles(u.opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}
	folderID, err := u.prov.EnsurePath(ctx, u.opts.FolderName)
	if err != nil {
		return nil, fmt.Errorf("provision folder: %w", err)
	}

	var uploaded []string
	fails := &failureList{}
	for _, path := range paths {
		name := filepath.Base(path)
		if !fails.attempt(name, FailureUpload, func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			ext := strings.TrimPrefix(filepath.Ext(name), ".")
			id, err := u.store.CreateFile(ctx, name, folderID, mimeTypeFor(ext), f)
			if err != nil {
				return err
			}
			uploaded = append(uploaded, id)
			return nil
		}) {
			continue
		}
		slog.Info("uploaded file", "file", name, "folder", u.opts.FolderName)
	}
	fails.summarize()
	return uploaded, nil
}

func listDirectoryFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
