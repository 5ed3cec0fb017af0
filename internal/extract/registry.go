package extract

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hpungsan/bridgeai/internal/dom"
	"github.com/hpungsan/bridgeai/internal/platform"
)

// Registry resolves extractors by page or platform ID. Lookup by page is a
// linear scan where the first detecting extractor wins.
type Registry struct {
	mu         sync.RWMutex
	extractors []Extractor
}

// NewRegistry creates a registry with the built-in ChatGPT, Claude and Gemini extractors.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{}
	for _, e := range []Extractor{NewChatGPT(cfg), NewClaude(cfg), NewGemini(cfg)} {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

// Register upserts e by platform ID. It fails if another platform already
// claims one of e's host patterns.
func (r *Registry) Register(e Extractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	desc := e.Platform()
	for _, existing := range r.extractors {
		other := existing.Platform()
		if other.ID == desc.ID {
			continue
		}
		for _, host := range desc.Hosts {
			if hostsOverlap(host, other.Hosts) {
				return fmt.Errorf("host %q is already claimed by platform %q", host, other.ID)
			}
		}
	}

	for i, existing := range r.extractors {
		if existing.Platform().ID == desc.ID {
			r.extractors[i] = e
			return nil
		}
	}
	r.extractors = append(r.extractors, e)
	return nil
}

// hostsOverlap reports whether host and any of patterns would match a common page.
func hostsOverlap(host string, patterns []string) bool {
	host = strings.ToLower(host)
	for _, p := range patterns {
		p = strings.ToLower(p)
		if host == p || strings.HasSuffix(host, "."+p) || strings.HasSuffix(p, "."+host) {
			return true
		}
	}
	return false
}

// Active returns the extractor for page, if any platform detects it.
func (r *Registry) Active(page *dom.Page) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.extractors {
		if e.IsDetected(page) {
			return e, true
		}
	}
	return nil, false
}

// ByPlatformID returns the extractor registered for id.
func (r *Registry) ByPlatformID(id string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.extractors {
		if e.Platform().ID == id {
			return e, true
		}
	}
	return nil, false
}

// All returns every registered extractor in lookup order.
func (r *Registry) All() []Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Extractor, len(r.extractors))
	copy(out, r.extractors)
	return out
}

// Platforms returns a platform registry built from the registered extractors.
func (r *Registry) Platforms() *platform.Registry {
	all := r.All()
	descs := make([]platform.Descriptor, len(all))
	for i, e := range all {
		descs[i] = e.Platform()
	}
	return platform.NewRegistry(descs...)
}
