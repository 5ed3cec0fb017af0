package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/metrics"
	"github.com/hpungsan/bridgeai/internal/tabs"
)

// OpenTab opens a new chat on platformID.
func OpenTab(ctx context.Context, d *Deps, platformID string) (*tabs.Handle, error) {
	platformID = strings.TrimSpace(platformID)
	if platformID == "" {
		return nil, errors.NewInvalidRequest("destinationPlatform is required")
	}
	if _, ok := d.Platforms.Get(platformID); !ok {
		return nil, errors.NewUnknownPlatform(platformID)
	}
	h, err := d.Opener.Open(ctx, platformID)
	if err != nil {
		return nil, err
	}
	metrics.TabsOpened.WithLabelValues(platformID).Inc()
	return &h, nil
}
