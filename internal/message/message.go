// Package message defines the platform-independent conversation turn.
package message

import (
	"strings"
	"time"
)

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Label returns the display label used in transfer prompts.
// Only user turns are labeled "User"; everything else renders as "Assistant".
func (r Role) Label() string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}

// Message is one turn of a conversation, independent of the source platform.
type Message struct {
	// Role is the author of the turn
	Role Role `json:"role"`

	// Content is the trimmed text of the turn
	Content string `json:"content"`

	// Timestamp is the Unix millisecond instant the message was extracted
	Timestamp int64 `json:"timestamp,omitempty"`
}

// New builds a message stamped with the given extraction time.
// Returns false if content is empty after trimming.
func New(role Role, content string, at time.Time) (Message, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, false
	}
	return Message{Role: role, Content: content, Timestamp: at.UnixMilli()}, true
}

// AlternatingRole returns the role for position i when the page gives no
// structural hint: even positions are user turns, odd positions assistant turns.
func AlternatingRole(i int) Role {
	if i%2 == 0 {
		return RoleUser
	}
	return RoleAssistant
}
