package ops

import (
	"context"
	"time"

	"github.com/hpungsan/bridgeai/internal/metrics"
	"github.com/hpungsan/bridgeai/internal/payload"
)

// PayloadFetchInput contains parameters for the PayloadFetch operation.
type PayloadFetchInput struct {
	// IncludePayload returns the full payload (messages and prompt) along with the summary.
	IncludePayload bool
}

// PayloadFetchOutput contains the result of the PayloadFetch operation.
type PayloadFetchOutput struct {
	Found   bool             `json:"found"`
	Expired bool             `json:"expired,omitempty"`
	Summary *payload.Summary `json:"summary,omitempty"`
	Payload *payload.Payload `json:"payload,omitempty"`
}

// PayloadFetch reports the pending payload without consuming it.
func PayloadFetch(ctx context.Context, d *Deps, input PayloadFetchInput) (*PayloadFetchOutput, error) {
	p, err := d.Payloads.Load(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &PayloadFetchOutput{Found: false}, nil
	}

	now := time.Now()
	summary := p.Summarize(now)
	out := &PayloadFetchOutput{
		Found:   true,
		Expired: d.Payloads.Expired(p, now),
		Summary: &summary,
	}
	if input.IncludePayload {
		out.Payload = p
	}
	return out, nil
}

// PayloadClearOutput contains the result of the PayloadClear operation.
type PayloadClearOutput struct {
	Cleared bool `json:"cleared"`
}

// PayloadClear removes the pending payload. Cleared reports whether one existed.
func PayloadClear(ctx context.Context, d *Deps) (*PayloadClearOutput, error) {
	p, err := d.Payloads.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := d.Payloads.Clear(ctx); err != nil {
		return nil, err
	}
	return &PayloadClearOutput{Cleared: p != nil}, nil
}

// PayloadExpireOutput contains the result of the PayloadExpire operation.
type PayloadExpireOutput struct {
	Removed bool `json:"removed"`
}

// PayloadExpire runs one expiry check now.
func PayloadExpire(ctx context.Context, d *Deps) (*PayloadExpireOutput, error) {
	removed, err := d.Payloads.Expire(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	if removed {
		metrics.PayloadsExpired.Inc()
	}
	return &PayloadExpireOutput{Removed: removed}, nil
}
