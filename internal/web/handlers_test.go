package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/clipboard"
	"github.com/hpungsan/bridgeai/internal/config"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/ops"
	"github.com/hpungsan/bridgeai/internal/store"
)

func setupTest(t *testing.T) (http.Handler, *ops.Deps) {
	t.Helper()
	deps, err := ops.New(config.DefaultConfig(), store.NewMemory(), &clipboard.Memory{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("ops.New: %v", err)
	}
	t.Cleanup(func() { deps.Close() })
	return NewHandler(deps, "test"), deps
}

// seedPayload stores a payload saved age ago and returns its ID.
func seedPayload(t *testing.T, deps *ops.Deps, age time.Duration) string {
	t.Helper()
	msgs := []message.Message{
		{Role: message.RoleUser, Content: "Plan a trip to Japan"},
		{Role: message.RoleAssistant, Content: "Start in **Tokyo**."},
	}
	p := deps.Payloads.New("chatgpt", "claude", msgs, "[System Transfer]\nContext: Plan a trip to Japan\n\n**bold** text")
	p.Timestamp = time.Now().Add(-age).UnixMilli()
	if err := deps.Payloads.Save(context.Background(), p); err != nil {
		t.Fatalf("seed payload: %v", err)
	}
	return p.ID
}

func serve(h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- HandlePayload ---

func TestHandlePayload_Empty(t *testing.T) {
	h, _ := setupTest(t)

	rec := serve(h, "GET", "/ui/payload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No transfer is waiting") {
		t.Error("expected empty state message")
	}
}

func TestHandlePayload_Preview(t *testing.T) {
	h, deps := setupTest(t)
	id := seedPayload(t, deps, time.Minute)

	rec := serve(h, "GET", "/ui/payload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, id) {
		t.Error("expected payload id in response")
	}
	if !strings.Contains(body, "ChatGPT → Claude") {
		t.Error("expected route with display names")
	}
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Error("expected prompt rendered as markdown")
	}
	if strings.Contains(body, "expired</span>") {
		t.Error("fresh payload marked expired")
	}
}

func TestHandlePayload_Expired(t *testing.T) {
	h, deps := setupTest(t)
	seedPayload(t, deps, 10*time.Minute)

	rec := serve(h, "GET", "/ui/payload", nil)
	if !strings.Contains(rec.Body.String(), `class="badge expired"`) {
		t.Error("expected expired badge")
	}
}

func TestHandlePayload_HtmxReturnsContentOnly(t *testing.T) {
	h, deps := setupTest(t)
	seedPayload(t, deps, 0)

	rec := serve(h, "GET", "/ui/payload", map[string]string{"HX-Request": "true"})
	body := rec.Body.String()
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("htmx response should not contain full layout")
	}
	if !strings.Contains(body, "Prompt preview") {
		t.Error("expected content block")
	}
}

func TestHandlePayload_JSON(t *testing.T) {
	h, deps := setupTest(t)
	id := seedPayload(t, deps, 0)

	rec := serve(h, "GET", "/ui/payload", map[string]string{"Accept": "application/json"})
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp["found"] != true {
		t.Errorf("found = %v, want true", resp["found"])
	}
	if resp["payload"].(map[string]any)["id"] != id {
		t.Errorf("payload.id = %v, want %s", resp["payload"].(map[string]any)["id"], id)
	}
}

// --- HandleClear ---

func TestHandleClear_DefaultRedirect(t *testing.T) {
	h, deps := setupTest(t)
	seedPayload(t, deps, 0)

	rec := serve(h, "POST", "/ui/payload/clear", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/ui/payload" {
		t.Errorf("Location = %q, want /ui/payload", loc)
	}
	if p, _ := deps.Payloads.Load(context.Background()); p != nil {
		t.Error("payload should be cleared")
	}
}

func TestHandleClear_JSON(t *testing.T) {
	h, deps := setupTest(t)
	seedPayload(t, deps, 0)

	rec := serve(h, "POST", "/ui/payload/clear", map[string]string{"Accept": "application/json"})
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if resp["cleared"] != true {
		t.Errorf("cleared = %v, want true", resp["cleared"])
	}
}

func TestHandleClear_Htmx(t *testing.T) {
	h, _ := setupTest(t)

	rec := serve(h, "POST", "/ui/payload/clear", map[string]string{"HX-Request": "true"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("HX-Redirect") != "/ui/payload" {
		t.Errorf("HX-Redirect = %q", rec.Header().Get("HX-Redirect"))
	}
}

// --- HandlePlatforms ---

func TestHandlePlatforms(t *testing.T) {
	h, _ := setupTest(t)

	rec := serve(h, "GET", "/ui/platforms", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"ChatGPT", "Claude", "Gemini", "gemini.google.com"} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %q in response", name)
		}
	}
}

func TestErrorRendering_FullErrorPage(t *testing.T) {
	h, _ := setupTest(t)

	rec := serve(h, "GET", "/ui/platforms?source=bard", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<!DOCTYPE html>") || !strings.Contains(body, "Unknown platform: bard") {
		t.Error("expected full error page with message")
	}
}

func TestErrorRendering_JSONError(t *testing.T) {
	h, _ := setupTest(t)

	rec := serve(h, "GET", "/ui/platforms?source=bard", map[string]string{"Accept": "application/json"})
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	errObj := resp["error"].(map[string]any)
	if errObj["code"] != "UNKNOWN_PLATFORM" || errObj["status"] != float64(404) {
		t.Errorf("unexpected error object: %v", errObj)
	}
}

func TestErrorRendering_HtmxFragment(t *testing.T) {
	h, _ := setupTest(t)

	rec := serve(h, "GET", "/ui/platforms?source=bard", map[string]string{"HX-Request": "true"})
	body := rec.Body.String()
	if !strings.Contains(body, "error-message") || strings.Contains(body, "<!DOCTYPE html>") {
		t.Errorf("unexpected htmx error body: %s", body)
	}
}

func TestRootRedirects(t *testing.T) {
	h, _ := setupTest(t)

	rec := serve(h, "GET", "/ui/", nil)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/ui/payload" {
		t.Errorf("status = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

// --- Helper functions ---

func TestFormatChars(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"}, {999, "999"}, {1000, "1,000"}, {1234567, "1,234,567"}, {-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := formatChars(tt.n); got != tt.want {
			t.Errorf("formatChars(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	if got := formatAge(90_400); got != "1m30s" {
		t.Errorf("formatAge(90400) = %q, want 1m30s", got)
	}
	if got := formatAge(-5); got != "0s" {
		t.Errorf("formatAge(-5) = %q, want 0s", got)
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(0); got != "1970-01-01 00:00:00" {
		t.Errorf("formatTime(0) = %q", got)
	}
}
