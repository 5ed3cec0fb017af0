package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/metrics"
	"github.com/hpungsan/bridgeai/internal/prompt"
)

// SubmitInput is a payload built by a source tab that still has to be stored.
type SubmitInput struct {
	SourcePlatform      string            `json:"sourcePlatform"`
	DestinationPlatform string            `json:"destinationPlatform"`
	Messages            []message.Message `json:"messages"`
	// FormattedPrompt is built from Messages when empty.
	FormattedPrompt string `json:"formattedPrompt,omitempty"`
}

// SubmitOutput mirrors the reply a source tab expects after handing off a payload.
type SubmitOutput struct {
	Success   bool   `json:"success"`
	PayloadID string `json:"payloadId,omitempty"`
	TabID     string `json:"tabId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Submit saves a payload and then opens the destination. The payload is
// saved first so the new tab finds it; a failed open is reported in the
// output with the payload left in place.
func Submit(ctx context.Context, d *Deps, input SubmitInput) (*SubmitOutput, error) {
	source := strings.TrimSpace(input.SourcePlatform)
	dest := strings.TrimSpace(input.DestinationPlatform)
	if source == "" || dest == "" {
		return nil, errors.NewInvalidRequest("sourcePlatform and destinationPlatform are required")
	}
	srcDesc, ok := d.Platforms.Get(source)
	if !ok {
		return nil, errors.NewUnknownPlatform(source)
	}
	if _, ok := d.Platforms.Get(dest); !ok {
		return nil, errors.NewUnknownPlatform(dest)
	}
	messages, err := normalizeMessages(input.Messages)
	if err != nil {
		return nil, err
	}

	text := input.FormattedPrompt
	if strings.TrimSpace(text) == "" {
		text = prompt.Build(messages, srcDesc.Name, d.PromptOptions())
	}

	p := d.Payloads.New(source, dest, messages, text)
	if err := d.Payloads.Save(ctx, p); err != nil {
		metrics.TransfersTotal.WithLabelValues("storage_failure").Inc()
		return nil, err
	}

	h, err := d.Opener.Open(ctx, dest)
	if err != nil {
		d.Logger.Warn().Err(err).Str("destination", dest).Msg("failed to open destination")
		metrics.TransfersTotal.WithLabelValues("open_failed").Inc()
		return &SubmitOutput{Success: false, PayloadID: p.ID, Error: openErrorMessage(err)}, nil
	}
	metrics.TransfersTotal.WithLabelValues("saved").Inc()
	metrics.TabsOpened.WithLabelValues(dest).Inc()
	return &SubmitOutput{Success: true, PayloadID: p.ID, TabID: h.ID}, nil
}

// normalizeMessages rejects unknown roles, trims content and drops blank
// turns. Messages without a timestamp are stamped with the current time.
func normalizeMessages(in []message.Message) ([]message.Message, error) {
	for i, m := range in {
		if !m.Role.Valid() {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("message %d has invalid role %q", i, m.Role))
		}
	}
	if err := prompt.Validate(in); err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]message.Message, 0, len(in))
	for _, m := range in {
		at := now
		if m.Timestamp > 0 {
			at = time.UnixMilli(m.Timestamp)
		}
		if msg, ok := message.New(m.Role, m.Content, at); ok {
			out = append(out, msg)
		}
	}
	return out, nil
}

func openErrorMessage(err error) string {
	if bErr, ok := errors.As(err); ok {
		return bErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Failed to open tab"
}
