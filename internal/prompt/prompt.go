// Package prompt turns a scraped conversation into the text handed to the
// destination platform.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
)

// DefaultMessageCount is the window size used when Options.MessageCount is unset.
const DefaultMessageCount = 10

// Truncation limits, in runes.
const (
	initialQueryMaxChars = 200
	lastResponseMaxChars = 300
	lastStateMaxChars    = 300
	historyMaxChars      = 500
)

const (
	ellipsis        = "..."
	truncatedMarker = "...[truncated]"
	summaryJoiner   = " | "

	noContextSummary   = "No previous conversation context."
	noMessagesState    = "No previous messages"
	noMessagesReason   = "No messages to transfer"
	noContentReason    = "Messages have no content"
	continueAction     = "Continue project."
	closingInstruction = "[End of transferred context. Please continue from where we left off.]"
)

// Options controls how much history goes into the transfer prompt.
type Options struct {
	// MessageCount is the window size; <= 0 means DefaultMessageCount
	MessageCount int `json:"message_count,omitempty"`

	// IncludeFullHistory disables windowing entirely
	IncludeFullHistory bool `json:"include_full_history,omitempty"`
}

// DefaultOptions returns the default builder options (last 10 messages).
func DefaultOptions() Options {
	return Options{MessageCount: DefaultMessageCount}
}

func (o Options) count() int {
	if o.MessageCount <= 0 {
		return DefaultMessageCount
	}
	return o.MessageCount
}

// ExtractLastN returns messages unchanged when len(messages) <= n,
// otherwise the last n messages in their original order. A negative n
// selects nothing.
func ExtractLastN(messages []message.Message, n int) []message.Message {
	if n < 0 {
		n = 0
	}
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

// Window selects the messages rendered into the history block.
func Window(messages []message.Message, opts Options) []message.Message {
	if opts.IncludeFullHistory {
		return messages
	}
	return ExtractLastN(messages, opts.count())
}

// Summary describes the whole conversation by its first user query and the
// last assistant response. Absent roles drop their segment.
func Summary(messages []message.Message) string {
	if len(messages) == 0 {
		return noContextSummary
	}

	var firstUser, lastAssistant *message.Message
	for i := range messages {
		switch messages[i].Role {
		case message.RoleUser:
			if firstUser == nil {
				firstUser = &messages[i]
			}
		case message.RoleAssistant:
			lastAssistant = &messages[i]
		}
	}

	hints := make([]string, 0, 2)
	if firstUser != nil {
		hints = append(hints, "Initial query: "+message.TruncateWithSuffix(firstUser.Content, initialQueryMaxChars, ellipsis))
	}
	if lastAssistant != nil {
		hints = append(hints, "Last response covered: "+message.TruncateWithSuffix(lastAssistant.Content, lastResponseMaxChars, ellipsis))
	}
	return strings.Join(hints, summaryJoiner)
}

// LastState renders the final message of the conversation, role-labeled.
func LastState(messages []message.Message) string {
	if len(messages) == 0 {
		return noMessagesState
	}
	last := messages[len(messages)-1]
	return fmt.Sprintf("%s: %s", last.Role.Label(), message.TruncateWithSuffix(last.Content, lastStateMaxChars, ellipsis))
}

// FormatHistory renders each message as "[Label]: content", separated by a blank line.
func FormatHistory(messages []message.Message) string {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("[%s]: %s", m.Role.Label(), message.TruncateWithSuffix(m.Content, historyMaxChars, truncatedMarker))
	}
	return strings.Join(lines, "\n\n")
}

// Build assembles the complete transfer prompt. The summary and last-state lines
// always use the full conversation; only the history block is windowed.
func Build(messages []message.Message, sourcePlatform string, opts Options) string {
	var b strings.Builder
	b.WriteString("[System Transfer]\n")
	fmt.Fprintf(&b, "Context: %s\n", Summary(messages))
	fmt.Fprintf(&b, "Last State: %s\n", LastState(messages))
	fmt.Fprintf(&b, "Action: %s\n\n", continueAction)
	b.WriteString("---\n")
	fmt.Fprintf(&b, "Previous Conversation (from %s):\n", sourcePlatform)
	b.WriteString("---\n\n")
	b.WriteString(FormatHistory(Window(messages, opts)))
	b.WriteString("\n\n---\n")
	b.WriteString(closingInstruction)
	return b.String()
}

// Validate rejects conversations with nothing to transfer.
// The returned error is a NO_MESSAGES_FOUND BridgeError carrying a readable reason.
func Validate(messages []message.Message) error {
	if len(messages) == 0 {
		return errors.NewNoMessagesFound(noMessagesReason)
	}
	for _, m := range messages {
		if strings.TrimSpace(m.Content) != "" {
			return nil
		}
	}
	return errors.NewNoMessagesFound(noContentReason)
}
