package extract

import (
	"strings"

	"github.com/hpungsan/bridgeai/internal/dom"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/platform"
)

// NewClaude creates the extractor for claude.ai.
func NewClaude(cfg Config) Extractor {
	return newAdapter(platform.Claude,
		[]Strategy{
			merged("split-turns",
				`[data-testid="user-message"]`,
				`.font-claude-message, [data-testid="assistant-message"]`),
			classified("chat-message", `[data-testid="chat-message"]`, claudeRole),
			alternating("prose", ".prose", minTextBlockChars),
		},
		[]string{
			`[data-testid="prompt-input"]`,
			`div[contenteditable="true"]`,
			`[contenteditable="true"]`,
			"textarea",
		},
		cfg,
	)
}

// claudeRole reads the turn author from test ids or the human-message marker.
func claudeRole(el dom.Element) (message.Role, bool) {
	if testID, ok := el.Attr("data-testid"); ok {
		switch {
		case strings.Contains(testID, "user"):
			return message.RoleUser, true
		case strings.Contains(testID, "assistant"):
			return message.RoleAssistant, true
		}
	}
	if el.Closest("[data-is-human-message]") {
		return message.RoleUser, true
	}
	if _, ok := el.Find("[data-is-human-message]"); ok {
		return message.RoleUser, true
	}
	if v, ok := el.Attr("data-role"); ok && message.Role(v).Valid() {
		return message.Role(v), true
	}
	return "", false
}
