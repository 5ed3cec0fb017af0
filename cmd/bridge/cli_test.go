package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/clipboard"
	"github.com/hpungsan/bridgeai/internal/config"
	"github.com/hpungsan/bridgeai/internal/ops"
	"github.com/hpungsan/bridgeai/internal/store"
	"github.com/hpungsan/bridgeai/internal/tabs"
)

const chatgptPage = `<html><body><main>
<div data-message-author-role="user"><div>Sketch a rate limiter</div></div>
<div data-message-author-role="assistant"><div class="markdown"><p>Use a token bucket.</p></div></div>
</main><div id="prompt-textarea" contenteditable="true"></div></body></html>`

const claudePage = `<html><body><div data-testid="prompt-input" contenteditable="true"></div></body></html>`

type openerFunc func(ctx context.Context, platformID string) (tabs.Handle, error)

func (f openerFunc) Open(ctx context.Context, platformID string) (tabs.Handle, error) {
	return f(ctx, platformID)
}

// setupTestDeps builds deps over an in-memory store with a recording opener.
func setupTestDeps(t *testing.T) (*ops.Deps, *clipboard.Memory, *[]string) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.StoreBackend = store.BackendMemory
	cfg.SettleDelayMs = 0
	cfg.ReadyTimeoutMs = 100

	clip := &clipboard.Memory{}
	opened := []string{}
	opener := openerFunc(func(_ context.Context, id string) (tabs.Handle, error) {
		opened = append(opened, id)
		return tabs.Handle{ID: "tab-" + id, PlatformID: id}, nil
	})
	deps, err := ops.New(cfg, store.NewMemory(), clip, opener, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to build deps: %v", err)
	}
	t.Cleanup(func() { deps.Close() })
	return deps, clip, &opened
}

// runCLI runs the app with args, feeding input on stdin, and returns stdout.
func runCLI(t *testing.T, deps *ops.Deps, input string, args ...string) (string, error) {
	t.Helper()

	oldStdin := stdin
	stdin = strings.NewReader(input)
	defer func() { stdin = oldStdin }()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	app := newCLIApp(deps)
	runErr := app.Run(append([]string{"bridge"}, args...))

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String(), runErr
}

func decodeOutput(t *testing.T, out string) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	return v
}

func TestParseMessages(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError bool
	}{
		{name: "bare array", input: `[{"role":"user","content":"hi"}]`, expected: 1},
		{name: "scrape output", input: `{"platform":"chatgpt","messages":[{"role":"user","content":"a"},{"role":"assistant","content":"b"}]}`, expected: 2},
		{name: "empty", input: "  ", expectError: true},
		{name: "malformed", input: `[{"role":`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages, err := parseMessages(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(messages) != tt.expected {
				t.Errorf("expected %d messages, got %d", tt.expected, len(messages))
			}
		})
	}
}

func TestCLIPlatforms(t *testing.T) {
	deps, _, _ := setupTestDeps(t)

	out, err := runCLI(t, deps, "", "platforms", "--source", "claude")
	if err != nil {
		t.Fatalf("platforms failed: %v", err)
	}
	result := decodeOutput(t, out)
	platforms := result["platforms"].([]any)
	if len(platforms) != 2 {
		t.Errorf("expected 2 destinations, got %d", len(platforms))
	}
	for _, p := range platforms {
		if p.(map[string]any)["id"] == "claude" {
			t.Error("source platform listed as its own destination")
		}
	}
}

func TestCLIPlatforms_Unknown(t *testing.T) {
	deps, _, _ := setupTestDeps(t)

	_, err := runCLI(t, deps, "", "platforms", "--source", "bard")
	if err == nil {
		t.Fatal("expected error for unknown platform")
	}
	if !strings.Contains(err.Error(), "[UNKNOWN_PLATFORM]") {
		t.Errorf("expected error code in message, got %q", err.Error())
	}
}

func TestCLIScrape_Stdin(t *testing.T) {
	deps, _, _ := setupTestDeps(t)

	out, err := runCLI(t, deps, chatgptPage, "scrape", "--host", "chatgpt.com")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	result := decodeOutput(t, out)
	if result["platform"] != "chatgpt" {
		t.Errorf("expected platform chatgpt, got %v", result["platform"])
	}
	if result["count"] != float64(2) {
		t.Errorf("expected 2 messages, got %v", result["count"])
	}
}

func TestCLIScrape_File(t *testing.T) {
	deps, _, _ := setupTestDeps(t)
	path := filepath.Join(t.TempDir(), "chat.html")
	if err := os.WriteFile(path, []byte(chatgptPage), 0600); err != nil {
		t.Fatalf("failed to write page: %v", err)
	}

	out, err := runCLI(t, deps, "", "scrape", "--platform", "chatgpt", "--file", path)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if !strings.Contains(out, "token bucket") {
		t.Errorf("expected scraped content in output, got %s", out)
	}
}

func TestCLIScrape_NoPage(t *testing.T) {
	deps, _, _ := setupTestDeps(t)

	_, err := runCLI(t, deps, "", "scrape", "--platform", "chatgpt")
	if err == nil {
		t.Fatal("expected error without a page")
	}
	if !strings.Contains(err.Error(), "[INVALID_REQUEST]") {
		t.Errorf("expected INVALID_REQUEST, got %q", err.Error())
	}
}

func TestCLIPrompt(t *testing.T) {
	deps, _, _ := setupTestDeps(t)
	input := `[{"role":"user","content":"one"},{"role":"assistant","content":"two"},{"role":"user","content":"three"}]`

	out, err := runCLI(t, deps, input, "prompt", "--source", "gemini", "--count", "2", "--text")
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if !strings.HasPrefix(out, "[System Transfer]") {
		t.Errorf("expected prompt text, got %q", out)
	}
	if !strings.Contains(out, "(from Gemini)") {
		t.Errorf("expected source attribution, got %q", out)
	}
	if strings.Contains(out, "[User]: one") {
		t.Errorf("expected window of 2 to drop the first message, got %q", out)
	}
}

func TestCLITransferThenDeliver(t *testing.T) {
	deps, clip, opened := setupTestDeps(t)

	out, err := runCLI(t, deps, chatgptPage, "transfer", "--host", "chatgpt.com", "--to", "claude")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	transfer := decodeOutput(t, out)
	if len(*opened) != 1 || (*opened)[0] != "claude" {
		t.Fatalf("expected claude to be opened, got %v", *opened)
	}

	out, err = runCLI(t, deps, claudePage, "deliver", "--platform", "claude", "--settle", "0s")
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	deliver := decodeOutput(t, out)
	if deliver["outcome"] != "delivered" {
		t.Errorf("expected delivered, got %v", deliver["outcome"])
	}
	if deliver["payloadId"] != transfer["payloadId"] {
		t.Errorf("delivered payload %v, transferred %v", deliver["payloadId"], transfer["payloadId"])
	}
	if !strings.Contains(clip.Text(), "token bucket") {
		t.Errorf("expected prompt on clipboard, got %q", clip.Text())
	}

	out, err = runCLI(t, deps, "", "payload", "show")
	if err != nil {
		t.Fatalf("payload show failed: %v", err)
	}
	if decodeOutput(t, out)["found"] != false {
		t.Error("expected payload to be consumed by delivery")
	}
}

func TestCLISendAndPayload(t *testing.T) {
	deps, _, opened := setupTestDeps(t)

	out, err := runCLI(t, deps, `{"messages":[{"role":"user","content":"hello"}]}`, "send", "--from", "claude", "--to", "gemini")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if decodeOutput(t, out)["success"] != true {
		t.Fatalf("expected success, got %s", out)
	}
	if len(*opened) != 1 || (*opened)[0] != "gemini" {
		t.Fatalf("expected gemini to be opened, got %v", *opened)
	}

	out, err = runCLI(t, deps, "", "payload", "show", "--full")
	if err != nil {
		t.Fatalf("payload show failed: %v", err)
	}
	result := decodeOutput(t, out)
	p, ok := result["payload"].(map[string]any)
	if !ok {
		t.Fatalf("expected full payload, got %s", out)
	}
	if p["destinationPlatform"] != "gemini" {
		t.Errorf("expected destination gemini, got %v", p["destinationPlatform"])
	}

	out, err = runCLI(t, deps, "", "payload", "expire")
	if err != nil {
		t.Fatalf("payload expire failed: %v", err)
	}
	if decodeOutput(t, out)["removed"] != false {
		t.Error("fresh payload should not expire")
	}

	out, err = runCLI(t, deps, "", "payload", "clear")
	if err != nil {
		t.Fatalf("payload clear failed: %v", err)
	}
	if decodeOutput(t, out)["cleared"] != true {
		t.Error("expected payload to be cleared")
	}
}

func TestCLIOpen(t *testing.T) {
	deps, _, opened := setupTestDeps(t)

	out, err := runCLI(t, deps, "", "open", "chatgpt")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if decodeOutput(t, out)["tabId"] != "tab-chatgpt" {
		t.Errorf("unexpected output %s", out)
	}
	if len(*opened) != 1 {
		t.Errorf("expected one tab, got %v", *opened)
	}

	if _, err := runCLI(t, deps, "", "open"); err == nil {
		t.Error("expected error without a platform")
	}
}
