package ops

import (
	"strings"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/platform"
)

// PlatformsInput contains parameters for the Platforms operation.
type PlatformsInput struct {
	// Source, when set, limits the result to valid destinations from that platform.
	Source string
}

// PlatformsOutput contains the result of the Platforms operation.
type PlatformsOutput struct {
	Platforms []platform.Descriptor `json:"platforms"`
}

// Platforms lists registered platforms, or the destinations available from Source.
func Platforms(d *Deps, input PlatformsInput) (*PlatformsOutput, error) {
	source := strings.TrimSpace(input.Source)
	if source == "" {
		return &PlatformsOutput{Platforms: d.Platforms.All()}, nil
	}
	if _, ok := d.Platforms.Get(source); !ok {
		return nil, errors.NewUnknownPlatform(source)
	}
	return &PlatformsOutput{Platforms: d.Platforms.Destinations(source)}, nil
}
