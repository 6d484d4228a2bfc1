package recording

import (
	"context"
	"fmt"
	"time"

	"github.com/campuskit/recarchive/internal/config"
	"github.com/campuskit/recarchive/internal/recording"
	"github.com/samber/do/v2"
)

const zoomAuthTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (recording.Source, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := NewZoomClient(ZoomConfig{
			ClientID:     cfg.ZoomClientID,
			ClientSecret: cfg.ZoomClientSecret,
			AccountID:    cfg.ZoomAccountID,
			APIURL:       cfg.ZoomAPIURL,
		})

		ctx, cancel := context.WithTimeout(context.Background(), zoomAuthTimeout)
		defer cancel()
		if err := client.Authenticate(ctx); err != nil {
			return nil, fmt.Errorf("failed to authenticate with zoom: %w", err)
		}
		return client, nil
	})
}
