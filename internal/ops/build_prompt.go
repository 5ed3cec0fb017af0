package ops

import (
	"fmt"
	"strings"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/prompt"
)

// BuildPromptInput contains parameters for the BuildPrompt operation.
type BuildPromptInput struct {
	// Source is a platform id or a display name for the attribution line.
	Source             string
	Messages           []message.Message
	MessageCount       *int  // nil means config
	IncludeFullHistory *bool // nil means config
}

// BuildPromptOutput contains the result of the BuildPrompt operation.
type BuildPromptOutput struct {
	Prompt     string `json:"prompt"`
	Chars      int    `json:"chars"`
	WindowSize int    `json:"window_size"`
	Summary    string `json:"summary"`
	LastState  string `json:"last_state"`
}

// BuildPrompt formats messages into a transfer prompt without persisting anything.
func BuildPrompt(d *Deps, input BuildPromptInput) (*BuildPromptOutput, error) {
	source := strings.TrimSpace(input.Source)
	if source == "" {
		return nil, errors.NewInvalidRequest("source is required")
	}
	if desc, ok := d.Platforms.Get(source); ok {
		source = desc.Name
	}

	for i, m := range input.Messages {
		if !m.Role.Valid() {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("message %d has invalid role %q", i, m.Role))
		}
	}
	if err := prompt.Validate(input.Messages); err != nil {
		return nil, err
	}

	opts := d.PromptOptions()
	if input.MessageCount != nil {
		if *input.MessageCount < 0 {
			return nil, errors.NewInvalidRequest("message_count must not be negative")
		}
		opts.MessageCount = *input.MessageCount
	}
	if input.IncludeFullHistory != nil {
		opts.IncludeFullHistory = *input.IncludeFullHistory
	}

	text := prompt.Build(input.Messages, source, opts)
	return &BuildPromptOutput{
		Prompt:     text,
		Chars:      message.CountChars(text),
		WindowSize: len(prompt.Window(input.Messages, opts)),
		Summary:    prompt.Summary(input.Messages),
		LastState:  prompt.LastState(input.Messages),
	}, nil
}
