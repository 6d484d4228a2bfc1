package storage

import (
	"context"
	"fmt"

	"github.com/campuskit/recarchive/internal/config"
	"github.com/campuskit/recarchive/internal/storage"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (storage.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		svc, err := NewDriveService(context.Background(), cfg.GoogleTokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to build drive service: %w", err)
		}
		return NewDriveStore(svc), nil
	})
}
