// Package clipboard writes transfer prompts to the system clipboard.
package clipboard

import (
	"context"
	"sync"

	"github.com/atotto/clipboard"
)

// Writer places text on a clipboard. Failures must be reported, never swallowed.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// WriteText implements Writer.
func (System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return clipboard.WriteAll(text)
}

// Available reports whether a system clipboard utility was found.
func Available() bool {
	return !clipboard.Unsupported
}

// Memory is an in-process clipboard. Err, when set, is returned by every write.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
	Err    error
}

// WriteText implements Writer.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	m.writes++
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns the number of successful writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
