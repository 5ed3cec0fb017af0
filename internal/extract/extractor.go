// Package extract reads conversations out of chat platform pages and hands
// prompts back to them.
package extract

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/clipboard"
	"github.com/hpungsan/bridgeai/internal/dom"
	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/platform"
)

// DefaultReadyTimeout bounds WaitForReady.
const DefaultReadyTimeout = 10 * time.Second

// Extractor is the per-platform capability: detect, scrape, locate input, inject.
type Extractor interface {
	// Platform returns the descriptor this extractor serves.
	Platform() platform.Descriptor

	// IsDetected reports whether page belongs to this platform.
	IsDetected(page *dom.Page) bool

	// ScrapeMessages returns every rendered message, oldest first.
	ScrapeMessages(page *dom.Page) []message.Message

	// InputElement resolves the chat input control.
	InputElement(page *dom.Page) (dom.Element, bool)

	// InjectPrompt copies text to the clipboard and focuses the input.
	// It fails only when the clipboard write fails.
	InjectPrompt(ctx context.Context, page *dom.Page, text string) (bool, error)

	// WaitForReady blocks until the input resolves, the timeout elapses, or ctx ends.
	WaitForReady(ctx context.Context, page *dom.Page) bool
}

// Config carries the collaborators shared by every adapter.
type Config struct {
	Clipboard    clipboard.Writer
	ReadyTimeout time.Duration
	Now          func() time.Time
	Logger       zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.Clipboard == nil {
		c.Clipboard = clipboard.System{}
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = DefaultReadyTimeout
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// adapter implements Extractor from a descriptor, a strategy chain and an
// ordered list of input selectors.
type adapter struct {
	desc           platform.Descriptor
	strategies     []Strategy
	inputSelectors []string
	cfg            Config
	log            zerolog.Logger
}

func newAdapter(desc platform.Descriptor, strategies []Strategy, inputSelectors []string, cfg Config) *adapter {
	cfg = cfg.withDefaults()
	return &adapter{
		desc:           desc,
		strategies:     strategies,
		inputSelectors: inputSelectors,
		cfg:            cfg,
		log:            cfg.Logger.With().Str("platform", desc.ID).Logger(),
	}
}

func (a *adapter) Platform() platform.Descriptor {
	return a.desc
}

func (a *adapter) IsDetected(page *dom.Page) bool {
	return page != nil && a.desc.MatchesHost(page.Host())
}

func (a *adapter) ScrapeMessages(page *dom.Page) []message.Message {
	now := a.cfg.Now()
	for _, s := range a.strategies {
		messages := s.run(page, now)
		if len(messages) > 0 {
			a.log.Debug().Str("strategy", s.Name).Int("messages", len(messages)).Msg("scraped conversation")
			return messages
		}
	}
	a.log.Debug().Msg("no strategy matched any messages")
	return nil
}

func (a *adapter) InputElement(page *dom.Page) (dom.Element, bool) {
	return page.QueryFirst(a.inputSelectors...)
}

func (a *adapter) InjectPrompt(ctx context.Context, page *dom.Page, text string) (bool, error) {
	input, found := a.InputElement(page)

	if err := a.cfg.Clipboard.WriteText(ctx, text); err != nil {
		a.log.Error().Err(err).Msg("failed to copy to clipboard")
		return false, errors.NewClipboardFailure(err)
	}
	a.log.Info().Int("chars", message.CountChars(text)).Msg("context copied to clipboard")

	// Focus the input so a manual paste lands in the right place.
	if found {
		input.Focus()
		input.Click()
	}
	return true, nil
}

func (a *adapter) WaitForReady(ctx context.Context, page *dom.Page) bool {
	if _, ok := a.InputElement(page); ok {
		return true
	}

	mutated := make(chan struct{}, 1)
	unsubscribe := page.Subscribe(func() {
		select {
		case mutated <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	// A mutation may have landed between the first check and Subscribe.
	if _, ok := a.InputElement(page); ok {
		return true
	}

	timer := time.NewTimer(a.cfg.ReadyTimeout)
	defer timer.Stop()

	for {
		select {
		case <-mutated:
			if _, ok := a.InputElement(page); ok {
				return true
			}
		case <-timer.C:
			a.log.Warn().Dur("timeout", a.cfg.ReadyTimeout).Msg("input never became available")
			return false
		case <-ctx.Done():
			return false
		}
	}
}
