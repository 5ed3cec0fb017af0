// Package coordinator drives one tab through a transfer: scraping and saving
// on the source side, waiting and delivering on the destination side.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/dom"
	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/extract"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/metrics"
	"github.com/hpungsan/bridgeai/internal/payload"
	"github.com/hpungsan/bridgeai/internal/platform"
	"github.com/hpungsan/bridgeai/internal/prompt"
	"github.com/hpungsan/bridgeai/internal/tabs"
)

// DefaultSettleDelay lets a freshly loaded page finish its own rendering
// before a payload is looked up.
const DefaultSettleDelay = 1500 * time.Millisecond

// User-facing messages.
const (
	msgDelivered     = "📋 Context copied! Press ⌘+V or Ctrl+V to paste"
	msgInjectFailed  = "Failed to inject context"
	msgTimedOut      = "Timed out waiting for chat to load"
	msgTransferFail  = "Transfer failed. Please try again."
	msgOpenFailed    = "Failed to open tab"
	msgOpeningFormat = "Opening %s..."
)

// State is the coordinator's position in a transfer.
type State int

const (
	Idle State = iota
	Scraping
	Building
	Persisting
	Opening
	Checking
	WaitingReady
	Delivering
)

var stateNames = [...]string{"idle", "scraping", "building", "persisting", "opening", "checking", "waiting_ready", "delivering"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Config wires a coordinator to one page.
type Config struct {
	Extractor extract.Extractor
	Page      *dom.Page
	Payloads  *payload.Manager
	Platforms *platform.Registry
	Opener    tabs.Opener
	Notifier  Notifier
	Prompt    prompt.Options

	// SettleDelay defaults to DefaultSettleDelay. Negative means no delay.
	SettleDelay time.Duration
	// ReadyTimeout also bounds the extractor's own wait. Defaults to extract.DefaultReadyTimeout.
	ReadyTimeout time.Duration

	Logger zerolog.Logger
}

// Coordinator serves a single tab. Its methods are meant to be called from
// one goroutine; State may be read from any.
type Coordinator struct {
	cfg Config
	log zerolog.Logger

	mu    sync.Mutex
	state State
}

// New validates cfg and returns an idle coordinator.
func New(cfg Config) (*Coordinator, error) {
	switch {
	case cfg.Extractor == nil:
		return nil, errors.NewInvalidRequest("coordinator needs an extractor")
	case cfg.Page == nil:
		return nil, errors.NewInvalidRequest("coordinator needs a page")
	case cfg.Payloads == nil:
		return nil, errors.NewInvalidRequest("coordinator needs a payload manager")
	case cfg.Platforms == nil:
		return nil, errors.NewInvalidRequest("coordinator needs a platform registry")
	}
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{Log: cfg.Logger}
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = extract.DefaultReadyTimeout
	}
	return &Coordinator{
		cfg: cfg,
		log: cfg.Logger.With().Str("platform", cfg.Extractor.Platform().ID).Logger(),
	}, nil
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.log.Debug().Stringer("state", s).Msg("state changed")
}

// TransferResult describes a saved transfer.
type TransferResult struct {
	PayloadID           string       `json:"payloadId"`
	SourcePlatform      string       `json:"sourcePlatform"`
	DestinationPlatform string       `json:"destinationPlatform"`
	MessageCount        int          `json:"messageCount"`
	PromptChars         int          `json:"promptChars"`
	Tab                 *tabs.Handle `json:"tab,omitempty"`
	// OpenError is set when the payload was saved but the destination could not be opened.
	OpenError string `json:"openError,omitempty"`
}

// Transfer scrapes the page, saves a payload for destinationID and asks for
// the destination to be opened. Nothing is saved when validation fails or the
// destination is unknown. A failed open still returns the saved payload's result.
func (c *Coordinator) Transfer(ctx context.Context, destinationID string) (*TransferResult, error) {
	defer c.setState(Idle)
	source := c.cfg.Extractor.Platform()

	c.setState(Scraping)
	messages := c.cfg.Extractor.ScrapeMessages(c.cfg.Page)
	if err := prompt.Validate(messages); err != nil {
		c.cfg.Notifier.Notify(KindError, messageOf(err))
		metrics.TransfersTotal.WithLabelValues("no_messages").Inc()
		return nil, err
	}

	dest, ok := c.cfg.Platforms.Get(destinationID)
	if !ok {
		err := errors.NewUnknownPlatform(destinationID)
		c.cfg.Notifier.Notify(KindError, err.Message)
		metrics.TransfersTotal.WithLabelValues("unknown_platform").Inc()
		return nil, err
	}

	c.setState(Building)
	text := prompt.Build(messages, source.Name, c.cfg.Prompt)
	p := c.cfg.Payloads.New(source.ID, dest.ID, messages, text)

	c.setState(Persisting)
	if err := c.cfg.Payloads.Save(ctx, p); err != nil {
		c.log.Error().Err(err).Msg("failed to save payload")
		c.cfg.Notifier.Notify(KindError, msgTransferFail)
		metrics.TransfersTotal.WithLabelValues("storage_failure").Inc()
		return nil, err
	}

	result := &TransferResult{
		PayloadID:           p.ID,
		SourcePlatform:      source.ID,
		DestinationPlatform: dest.ID,
		MessageCount:        len(messages),
		PromptChars:         message.CountChars(text),
	}

	// The payload is saved before the open request so the new tab can find it.
	c.setState(Opening)
	if c.cfg.Opener == nil {
		return result, nil
	}
	handle, err := c.cfg.Opener.Open(ctx, dest.ID)
	if err != nil {
		c.log.Warn().Err(err).Str("destination", dest.ID).Msg("failed to open destination")
		result.OpenError = messageOf(err)
		if result.OpenError == "" {
			result.OpenError = msgOpenFailed
		}
		c.cfg.Notifier.Notify(KindError, result.OpenError)
		metrics.TransfersTotal.WithLabelValues("open_failed").Inc()
		return result, nil
	}
	result.Tab = &handle
	c.cfg.Notifier.Notify(KindInfo, fmt.Sprintf(msgOpeningFormat, dest.Name))
	metrics.TransfersTotal.WithLabelValues("saved").Inc()
	metrics.TabsOpened.WithLabelValues(dest.ID).Inc()
	c.log.Info().Str("id", p.ID).Str("destination", dest.ID).Int("messages", len(messages)).Msg("transfer saved")
	return result, nil
}

// Outcome is what a destination check ended with.
type Outcome string

const (
	OutcomeNoPayload Outcome = "no_payload"
	OutcomeMismatch  Outcome = "mismatch"
	OutcomeDelivered Outcome = "delivered"
)

// CheckResult describes a destination check.
type CheckResult struct {
	Outcome   Outcome `json:"outcome"`
	PayloadID string  `json:"payloadId,omitempty"`
	// PendingFor is the destination of a payload left for another platform.
	PendingFor  string `json:"pendingFor,omitempty"`
	PromptChars int    `json:"promptChars,omitempty"`
}

// Check looks for a payload addressed to this page's platform and delivers it.
// A payload for another platform is left untouched. On readiness timeout or
// clipboard failure the payload is kept so a reload can retry.
func (c *Coordinator) Check(ctx context.Context) (*CheckResult, error) {
	defer c.setState(Idle)
	self := c.cfg.Extractor.Platform()

	c.setState(Checking)
	if err := c.settle(ctx); err != nil {
		return nil, err
	}

	p, err := c.cfg.Payloads.Load(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to load payload")
		metrics.DeliveriesTotal.WithLabelValues("storage_failure").Inc()
		return nil, err
	}
	if p == nil {
		metrics.DeliveriesTotal.WithLabelValues(string(OutcomeNoPayload)).Inc()
		return &CheckResult{Outcome: OutcomeNoPayload}, nil
	}
	if p.DestinationPlatform != self.ID {
		metrics.DeliveriesTotal.WithLabelValues(string(OutcomeMismatch)).Inc()
		return &CheckResult{Outcome: OutcomeMismatch, PayloadID: p.ID, PendingFor: p.DestinationPlatform}, nil
	}
	c.log.Info().Str("id", p.ID).Msg("found pending context for this platform")

	c.setState(WaitingReady)
	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.ReadyTimeout)
	ready := c.cfg.Extractor.WaitForReady(waitCtx, c.cfg.Page)
	cancel()
	if !ready {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.cfg.Notifier.Notify(KindError, msgTimedOut)
		metrics.DeliveriesTotal.WithLabelValues("timeout").Inc()
		return nil, errors.NewReadinessTimeout(self.ID, c.cfg.ReadyTimeout.Milliseconds())
	}

	c.setState(Delivering)
	ok, err := c.cfg.Extractor.InjectPrompt(ctx, c.cfg.Page, p.FormattedPrompt)
	if err != nil || !ok {
		c.cfg.Notifier.Notify(KindError, msgInjectFailed)
		metrics.DeliveriesTotal.WithLabelValues("clipboard_failure").Inc()
		if err == nil {
			err = errors.NewClipboardFailure(nil)
		}
		return nil, err
	}

	if err := c.cfg.Payloads.Clear(ctx); err != nil {
		// Delivered but not consumed; the expiry sweep removes it later.
		c.log.Warn().Err(err).Str("id", p.ID).Msg("failed to clear delivered payload")
	}
	c.cfg.Notifier.Notify(KindInfo, msgDelivered)
	metrics.DeliveriesTotal.WithLabelValues(string(OutcomeDelivered)).Inc()

	return &CheckResult{
		Outcome:     OutcomeDelivered,
		PayloadID:   p.ID,
		PromptChars: message.CountChars(p.FormattedPrompt),
	}, nil
}

func (c *Coordinator) settle(ctx context.Context) error {
	if c.cfg.SettleDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.cfg.SettleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// messageOf returns the user-facing text of err.
func messageOf(err error) string {
	if be, ok := errors.As(err); ok {
		return be.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
