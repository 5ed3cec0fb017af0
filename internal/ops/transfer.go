package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/bridgeai/internal/coordinator"
	"github.com/hpungsan/bridgeai/internal/dom"
	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/extract"
)

// TransferInput contains parameters for the Transfer operation.
type TransferInput struct {
	PageInput
	Destination string
}

// TransferOutput contains the result of the Transfer operation.
type TransferOutput struct {
	coordinator.TransferResult
	Notifications []coordinator.Notification `json:"notifications"`
}

// Transfer scrapes the source page, saves a payload for Destination and opens it.
func Transfer(ctx context.Context, d *Deps, input TransferInput) (*TransferOutput, error) {
	if strings.TrimSpace(input.Destination) == "" {
		return nil, errors.NewInvalidRequest("destination is required")
	}
	e, page, err := resolvePage(d, input.PageInput)
	if err != nil {
		return nil, err
	}

	rec := &coordinator.Recorder{}
	c, err := newCoordinator(d, e, page, rec, -1)
	if err != nil {
		return nil, err
	}

	res, err := c.Transfer(ctx, strings.TrimSpace(input.Destination))
	if err != nil {
		return nil, err
	}
	return &TransferOutput{TransferResult: *res, Notifications: rec.Notifications()}, nil
}

// DeliverInput contains parameters for the Deliver operation.
type DeliverInput struct {
	PageInput
	// SettleDelay overrides the configured settle delay; nil means config, zero means none.
	SettleDelay *time.Duration
}

// DeliverOutput contains the result of the Deliver operation.
type DeliverOutput struct {
	coordinator.CheckResult
	Notifications []coordinator.Notification `json:"notifications"`
}

// Deliver checks for a payload addressed to the page's platform and copies it
// to the clipboard.
func Deliver(ctx context.Context, d *Deps, input DeliverInput) (*DeliverOutput, error) {
	e, page, err := resolvePage(d, input.PageInput)
	if err != nil {
		return nil, err
	}

	settle := d.Config.SettleDelay()
	if input.SettleDelay != nil {
		settle = *input.SettleDelay
	}
	if settle == 0 {
		settle = -1
	}

	rec := &coordinator.Recorder{}
	c, err := newCoordinator(d, e, page, rec, settle)
	if err != nil {
		return nil, err
	}

	res, err := c.Check(ctx)
	if err != nil {
		return nil, err
	}
	return &DeliverOutput{CheckResult: *res, Notifications: rec.Notifications()}, nil
}

func newCoordinator(d *Deps, e extract.Extractor, page *dom.Page, rec *coordinator.Recorder, settle time.Duration) (*coordinator.Coordinator, error) {
	return coordinator.New(coordinator.Config{
		Extractor:    e,
		Page:         page,
		Payloads:     d.Payloads,
		Platforms:    d.Platforms,
		Opener:       d.Opener,
		Notifier:     coordinator.Tee{rec, coordinator.LogNotifier{Log: d.Logger}},
		Prompt:       d.PromptOptions(),
		SettleDelay:  settle,
		ReadyTimeout: d.Config.ReadyTimeout(),
		Logger:       d.Logger,
	})
}
