package ops

import (
	"testing"

	"github.com/hpungsan/bridgeai/internal/config"
	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/platform"
)

func withMistral(cfg *config.Config) {
	cfg.Platforms = []platform.Descriptor{{
		ID:    "mistral",
		Name:  "Le Chat",
		URL:   "https://chat.mistral.ai/chat",
		Hosts: []string{"chat.mistral.ai"},
	}}
}

func TestPlatforms_All(t *testing.T) {
	env := newTestEnv(t)

	out, err := Platforms(env.deps, PlatformsInput{})
	if err != nil {
		t.Fatalf("Platforms failed: %v", err)
	}
	want := []string{"chatgpt", "claude", "gemini"}
	if len(out.Platforms) != len(want) {
		t.Fatalf("len = %d, want %d", len(out.Platforms), len(want))
	}
	for i, id := range want {
		if out.Platforms[i].ID != id {
			t.Errorf("Platforms[%d] = %q, want %q", i, out.Platforms[i].ID, id)
		}
	}
}

func TestPlatforms_DestinationsExcludeSource(t *testing.T) {
	env := newTestEnv(t)

	out, err := Platforms(env.deps, PlatformsInput{Source: "claude"})
	if err != nil {
		t.Fatalf("Platforms failed: %v", err)
	}
	if len(out.Platforms) != 2 {
		t.Fatalf("len = %d, want 2", len(out.Platforms))
	}
	for _, p := range out.Platforms {
		if p.ID == "claude" {
			t.Error("destinations include the source platform")
		}
	}
}

func TestPlatforms_UnknownSource(t *testing.T) {
	env := newTestEnv(t)

	_, err := Platforms(env.deps, PlatformsInput{Source: "bard"})
	if !errors.Is(err, errors.ErrUnknownPlatform) {
		t.Errorf("error = %v, want UNKNOWN_PLATFORM", err)
	}
}
