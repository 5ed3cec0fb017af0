// Package payload persists the one pending transfer between the source and
// destination tabs.
package payload

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/store"
)

// DefaultTTL is how long an undelivered payload stays eligible for delivery.
const DefaultTTL = 5 * time.Minute

// IDPrefix starts every payload id.
const IDPrefix = "bridge_"

// Payload is a transfer in flight. Timestamp is Unix milliseconds.
type Payload struct {
	ID                  string            `json:"id"`
	SourcePlatform      string            `json:"sourcePlatform"`
	DestinationPlatform string            `json:"destinationPlatform"`
	Messages            []message.Message `json:"messages"`
	FormattedPrompt     string            `json:"formattedPrompt"`
	Timestamp           int64             `json:"timestamp"`
}

// Summary is the metadata view of a payload, without its messages.
type Summary struct {
	ID                  string `json:"id"`
	SourcePlatform      string `json:"sourcePlatform"`
	DestinationPlatform string `json:"destinationPlatform"`
	MessageCount        int    `json:"messageCount"`
	PromptChars         int    `json:"promptChars"`
	Timestamp           int64  `json:"timestamp"`
	AgeMs               int64  `json:"ageMs"`
}

// Summarize describes p as of now.
func (p *Payload) Summarize(now time.Time) Summary {
	return Summary{
		ID:                  p.ID,
		SourcePlatform:      p.SourcePlatform,
		DestinationPlatform: p.DestinationPlatform,
		MessageCount:        len(p.Messages),
		PromptChars:         message.CountChars(p.FormattedPrompt),
		Timestamp:           p.Timestamp,
		AgeMs:               now.UnixMilli() - p.Timestamp,
	}
}

// Manager owns the payload slot.
type Manager struct {
	store store.Store
	key   string
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger

	entropyMu sync.Mutex
	entropy   *ulid.MonotonicEntropy
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithKey overrides store.SlotKey.
func WithKey(key string) Option {
	return func(m *Manager) { m.key = key }
}

// NewManager creates a manager over s.
func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   s,
		key:     store.SlotKey,
		ttl:     DefaultTTL,
		now:     time.Now,
		log:     zerolog.Nop(),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the expiry window.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GenerateID returns a fresh "bridge_"-prefixed ULID.
func (m *Manager) GenerateID() string {
	m.entropyMu.Lock()
	defer m.entropyMu.Unlock()
	return IDPrefix + ulid.MustNew(ulid.Timestamp(m.now()), m.entropy).String()
}

// New builds a payload stamped with a fresh id and the current time.
func (m *Manager) New(source, destination string, messages []message.Message, prompt string) *Payload {
	return &Payload{
		ID:                  m.GenerateID(),
		SourcePlatform:      source,
		DestinationPlatform: destination,
		Messages:            messages,
		FormattedPrompt:     prompt,
		Timestamp:           m.now().UnixMilli(),
	}
}

// Save overwrites the slot with p.
func (m *Manager) Save(ctx context.Context, p *Payload) error {
	if p == nil {
		return errors.NewInvalidRequest("payload is required")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		return errors.NewStorageFailure("save", err)
	}
	m.log.Debug().Str("id", p.ID).Str("destination", p.DestinationPlatform).Msg("payload saved")
	return nil
}

// Load returns the pending payload, or nil when the slot is empty.
func (m *Manager) Load(ctx context.Context) (*Payload, error) {
	data, found, err := m.store.Get(ctx, m.key)
	if err != nil {
		return nil, errors.NewStorageFailure("load", err)
	}
	if !found {
		return nil, nil
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.NewStorageFailure("load", fmt.Errorf("decode payload: %w", err))
	}
	return &p, nil
}

// Clear empties the slot. Clearing an empty slot succeeds.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.store.Remove(ctx, m.key); err != nil {
		return errors.NewStorageFailure("clear", err)
	}
	return nil
}

// Expired reports whether p is older than the TTL at now.
func (m *Manager) Expired(p *Payload, now time.Time) bool {
	return now.UnixMilli()-p.Timestamp > m.ttl.Milliseconds()
}

// Expire clears the slot when its payload is older than the TTL.
// It reports whether a payload was removed.
func (m *Manager) Expire(ctx context.Context, now time.Time) (bool, error) {
	p, err := m.Load(ctx)
	if err != nil {
		return false, err
	}
	if p == nil || !m.Expired(p, now) {
		return false, nil
	}
	if err := m.Clear(ctx); err != nil {
		return false, err
	}
	m.log.Info().Str("id", p.ID).Int64("age_ms", now.UnixMilli()-p.Timestamp).Msg("expired payload cleared")
	return true, nil
}

// RunExpiry calls Expire every interval until ctx is done. onExpire, when
// non-nil, runs after each removal.
func (m *Manager) RunExpiry(ctx context.Context, interval time.Duration, onExpire func()) {
	if interval <= 0 {
		interval = DefaultTTL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := m.Expire(ctx, m.now())
			if err != nil {
				m.log.Warn().Err(err).Msg("payload expiry sweep failed")
				continue
			}
			if removed && onExpire != nil {
				onExpire()
			}
		}
	}
}
