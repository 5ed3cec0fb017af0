// Package platform holds the table of supported chat platforms.
package platform

import (
	"slices"
	"strings"
	"sync"
)

// Descriptor is a static registry entry for a supported chat platform.
type Descriptor struct {
	// ID is the routing identifier (e.g., "chatgpt")
	ID string `json:"id"`

	// Name is the human-readable platform name
	Name string `json:"name"`

	// URL opens a new chat on the platform
	URL string `json:"url"`

	// Hosts are host-name patterns that identify the platform's pages
	Hosts []string `json:"hosts"`

	// Icon and Color are presentation hints only
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// MatchesHost reports whether host belongs to this platform.
// A pattern matches the host itself or any subdomain of it.
func (d Descriptor) MatchesHost(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return false
	}
	for _, pattern := range d.Hosts {
		pattern = strings.ToLower(pattern)
		if host == pattern || strings.HasSuffix(host, "."+pattern) {
			return true
		}
	}
	return false
}

// Built-in platforms.
var (
	ChatGPT = Descriptor{
		ID:    "chatgpt",
		Name:  "ChatGPT",
		URL:   "https://chat.openai.com",
		Hosts: []string{"chat.openai.com", "chatgpt.com"},
		Icon:  "🤖",
		Color: "#10a37f",
	}
	Claude = Descriptor{
		ID:    "claude",
		Name:  "Claude",
		URL:   "https://claude.ai/new",
		Hosts: []string{"claude.ai"},
		Icon:  "🧠",
		Color: "#d97706",
	}
	Gemini = Descriptor{
		ID:    "gemini",
		Name:  "Gemini",
		URL:   "https://gemini.google.com/app",
		Hosts: []string{"gemini.google.com", "bard.google.com"},
		Icon:  "✨",
		Color: "#4285f4",
	}
)

// Registry holds platform descriptors in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []Descriptor
}

// NewRegistry creates a registry seeded with the given descriptors.
func NewRegistry(descs ...Descriptor) *Registry {
	r := &Registry{}
	for _, d := range descs {
		r.Register(d)
	}
	return r
}

// Default returns a registry with the built-in platforms.
func Default() *Registry {
	return NewRegistry(ChatGPT, Claude, Gemini)
}

// Register upserts d by ID. Existing entries keep their position.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.Hosts = slices.Clone(d.Hosts)
	for i := range r.entries {
		if r.entries[i].ID == d.ID {
			r.entries[i] = d
			return
		}
	}
	r.entries = append(r.entries, d)
}

// Get looks up a platform by ID.
func (r *Registry) Get(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.entries {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ForHost returns the first platform whose host patterns match host.
func (r *Registry) ForHost(host string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.entries {
		if d.MatchesHost(host) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// All returns a copy of every registered platform.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries)
}

// Destinations returns every platform except the one with sourceID.
func (r *Registry) Destinations(sourceID string) []Descriptor {
	all := r.All()
	out := make([]Descriptor, 0, len(all))
	for _, d := range all {
		if d.ID != sourceID {
			out = append(out, d)
		}
	}
	return out
}
