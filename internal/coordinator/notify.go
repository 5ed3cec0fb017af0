package coordinator

import (
	"sync"

	"github.com/rs/zerolog"
)

// Kind classifies a user-facing notification.
type Kind string

const (
	KindInfo  Kind = "info"
	KindError Kind = "error"
)

// Notifier surfaces short status messages to the user.
type Notifier interface {
	Notify(kind Kind, message string)
}

// LogNotifier writes notifications through a zerolog logger.
type LogNotifier struct {
	Log zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(kind Kind, message string) {
	ev := n.Log.Info()
	if kind == KindError {
		ev = n.Log.Error()
	}
	ev.Str("kind", string(kind)).Msg(message)
}

// Notification is one recorded Notify call.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Recorder keeps every notification, for callers that report them later.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: kind, Message: message})
}

// Notifications returns a copy of what was recorded.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the latest notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Tee fans a notification out to several notifiers.
type Tee []Notifier

// Notify implements Notifier.
func (t Tee) Notify(kind Kind, message string) {
	for _, n := range t {
		n.Notify(kind, message)
	}
}
