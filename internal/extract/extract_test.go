package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/bridgeai/internal/clipboard"
	"github.com/hpungsan/bridgeai/internal/dom"
	bridgeerrors "github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/platform"
)

var fixedNow = time.UnixMilli(1767225600000)

func testConfig(cb clipboard.Writer) Config {
	return Config{
		Clipboard:    cb,
		ReadyTimeout: 200 * time.Millisecond,
		Now:          func() time.Time { return fixedNow },
	}
}

func loadPage(t *testing.T, host, html string) *dom.Page {
	t.Helper()
	p, err := dom.LoadString(host, html)
	require.NoError(t, err)
	return p
}

type roleContent struct {
	role    message.Role
	content string
}

func requireMessages(t *testing.T, want []roleContent, got []message.Message) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		require.Equal(t, w.role, got[i].Role, "message %d role", i)
		require.Equal(t, w.content, got[i].Content, "message %d content", i)
		require.Equal(t, fixedNow.UnixMilli(), got[i].Timestamp, "message %d timestamp", i)
	}
}

func TestChatGPT_AuthorRole(t *testing.T) {
	e := NewChatGPT(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "chatgpt.com", chatgptPage)

	require.True(t, e.IsDetected(page))
	requireMessages(t, []roleContent{
		{message.RoleUser, "Plan a trip to Japan"},
		{message.RoleAssistant, "Sure, here are some ideas..."},
		{message.RoleUser, "Focus on Tokyo"},
		{message.RoleAssistant, "Tokyo has..."},
	}, e.ScrapeMessages(page))
}

func TestChatGPT_FallsBackToConversationTurns(t *testing.T) {
	e := NewChatGPT(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "chat.openai.com", chatgptTurnsPage)

	requireMessages(t, []roleContent{
		{message.RoleUser, "What is Go?"},
		{message.RoleAssistant, "Go is a programming language."},
		{message.RoleUser, "Show me an example"},
	}, e.ScrapeMessages(page))
}

func TestChatGPT_FallsBackToTextBlocksWithMinLength(t *testing.T) {
	e := NewChatGPT(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "chatgpt.com", chatgptTextBlocksPage)

	requireMessages(t, []roleContent{
		{message.RoleUser, "Tell me about distributed consensus protocols"},
		{message.RoleAssistant, "Raft and Paxos are the two classic consensus protocols."},
	}, e.ScrapeMessages(page))
}

func TestClaude_SplitTurnsMergedByPosition(t *testing.T) {
	e := NewClaude(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "claude.ai", claudeSplitPage)

	requireMessages(t, []roleContent{
		{message.RoleUser, "Explain monads"},
		{message.RoleAssistant, "A monad is a design pattern..."},
		{message.RoleUser, "Give an example in Haskell"},
		{message.RoleAssistant, "Here is Maybe..."},
	}, e.ScrapeMessages(page))
}

func TestClaude_ChatMessageRoles(t *testing.T) {
	e := NewClaude(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "claude.ai", claudeChatMessagePage)

	requireMessages(t, []roleContent{
		{message.RoleUser, "Hello Claude"},
		{message.RoleAssistant, "Hello! How can I help?"},
		{message.RoleUser, "Summarize this article"},
	}, e.ScrapeMessages(page))
}

func TestClaude_ProseFallback(t *testing.T) {
	e := NewClaude(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "claude.ai", claudeProsePage)

	requireMessages(t, []roleContent{
		{message.RoleUser, "Why is the sky blue on clear days?"},
		{message.RoleAssistant, "Rayleigh scattering affects shorter wavelengths more strongly."},
	}, e.ScrapeMessages(page))
}

func TestGemini_QueryResponseMergedByPosition(t *testing.T) {
	e := NewGemini(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "gemini.google.com", geminiPage)

	requireMessages(t, []roleContent{
		{message.RoleUser, "Compare Rust and Go"},
		{message.RoleAssistant, "Rust focuses on memory safety..."},
		{message.RoleUser, "Which compiles faster?"},
		{message.RoleAssistant, "Go generally compiles faster."},
		{message.RoleUser, "Thanks"},
	}, e.ScrapeMessages(page))
}

func TestGemini_ConversationTurnFallback(t *testing.T) {
	e := NewGemini(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "bard.google.com", geminiTurnsPage)

	require.True(t, e.IsDetected(page))
	requireMessages(t, []roleContent{
		{message.RoleUser, "First question"},
		{message.RoleAssistant, "First answer"},
	}, e.ScrapeMessages(page))
}

func TestScrape_NothingFound(t *testing.T) {
	for _, e := range NewRegistry(testConfig(&clipboard.Memory{})).All() {
		page := loadPage(t, e.Platform().Hosts[0], emptyPage)
		require.Empty(t, e.ScrapeMessages(page), e.Platform().ID)
	}
}

func TestMergeByPosition(t *testing.T) {
	got := mergeByPosition([]candidate{
		{role: message.RoleUser, pos: 1, text: "u1"},
		{role: message.RoleUser, pos: 9, text: "u2"},
		{role: message.RoleAssistant, pos: 4, text: "a1"},
		{role: message.RoleAssistant, pos: 12, text: "a2"},
	})

	want := []string{"u1", "a1", "u2", "a2"}
	for i, w := range want {
		require.Equal(t, w, got[i].text)
		require.Equal(t, i, got[i].index)
	}
}

func TestInputElement_OrderedLookup(t *testing.T) {
	e := NewGemini(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "gemini.google.com", geminiPage)

	el, ok := e.InputElement(page)
	require.True(t, ok)
	require.Equal(t, "rich-textarea", el.Tag())

	_, ok = e.InputElement(loadPage(t, "gemini.google.com", emptyPage))
	require.False(t, ok)
}

func TestInjectPrompt_CopiesAndFocuses(t *testing.T) {
	cb := &clipboard.Memory{}
	e := NewChatGPT(testConfig(cb))
	page := loadPage(t, "chatgpt.com", chatgptPage)

	ok, err := e.InjectPrompt(context.Background(), page, "transfer text")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "transfer text", cb.Text())

	focused, found := page.Focused()
	require.True(t, found)
	require.True(t, focused.Is("#prompt-textarea"))
}

func TestInjectPrompt_NoInputStillSucceeds(t *testing.T) {
	cb := &clipboard.Memory{}
	e := NewClaude(testConfig(cb))
	page := loadPage(t, "claude.ai", emptyPage)

	ok, err := e.InjectPrompt(context.Background(), page, "transfer text")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "transfer text", cb.Text())

	_, focused := page.Focused()
	require.False(t, focused)
}

func TestInjectPrompt_ClipboardFailure(t *testing.T) {
	cb := &clipboard.Memory{Err: errors.New("clipboard denied")}
	e := NewClaude(testConfig(cb))
	page := loadPage(t, "claude.ai", claudeSplitPage)

	ok, err := e.InjectPrompt(context.Background(), page, "transfer text")
	require.False(t, ok)
	require.True(t, bridgeerrors.Is(err, bridgeerrors.ErrClipboardFailure))

	_, focused := page.Focused()
	require.False(t, focused)
}

func TestWaitForReady_Immediate(t *testing.T) {
	e := NewClaude(testConfig(&clipboard.Memory{}))
	page := loadPage(t, "claude.ai", claudeSplitPage)

	require.True(t, e.WaitForReady(context.Background(), page))
	require.Equal(t, 0, page.Subscribers())
}

func TestWaitForReady_ResolvesAfterMutation(t *testing.T) {
	cfg := testConfig(&clipboard.Memory{})
	cfg.ReadyTimeout = 5 * time.Second
	e := NewClaude(cfg)
	page := loadPage(t, "claude.ai", emptyPage)

	done := make(chan bool, 1)
	go func() { done <- e.WaitForReady(context.Background(), page) }()

	require.Eventually(t, func() bool { return page.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	// A mutation that still lacks an input keeps waiting.
	require.NoError(t, page.Update(claudeProsePage))
	require.NoError(t, page.Update(claudeSplitPage))

	select {
	case ready := <-done:
		require.True(t, ready)
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForReady did not resolve after the input appeared")
	}
	require.Equal(t, 0, page.Subscribers())
}

func TestWaitForReady_Timeout(t *testing.T) {
	cfg := testConfig(&clipboard.Memory{})
	cfg.ReadyTimeout = 50 * time.Millisecond
	e := NewGemini(cfg)
	page := loadPage(t, "gemini.google.com", emptyPage)

	start := time.Now()
	require.False(t, e.WaitForReady(context.Background(), page))
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.Equal(t, 0, page.Subscribers())
}

func TestWaitForReady_ContextCancelled(t *testing.T) {
	cfg := testConfig(&clipboard.Memory{})
	cfg.ReadyTimeout = time.Minute
	e := NewChatGPT(cfg)
	page := loadPage(t, "chatgpt.com", emptyPage)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	require.False(t, e.WaitForReady(ctx, page))
	require.Equal(t, 0, page.Subscribers())
}

func TestRegistry_Active(t *testing.T) {
	r := NewRegistry(testConfig(&clipboard.Memory{}))

	tests := []struct {
		host string
		want string
	}{
		{"chat.openai.com", "chatgpt"},
		{"chatgpt.com", "chatgpt"},
		{"claude.ai", "claude"},
		{"gemini.google.com", "gemini"},
	}
	for _, tt := range tests {
		e, ok := r.Active(loadPage(t, tt.host, emptyPage))
		require.True(t, ok, tt.host)
		require.Equal(t, tt.want, e.Platform().ID)
	}

	_, ok := r.Active(loadPage(t, "example.com", emptyPage))
	require.False(t, ok)
}

func TestRegistry_RegisterRejectsHostConflict(t *testing.T) {
	r := NewRegistry(testConfig(&clipboard.Memory{}))

	clone := NewGeneric(platform.Descriptor{ID: "openai-clone", Hosts: []string{"chatgpt.com"}}, testConfig(nil))
	require.Error(t, r.Register(clone))

	sub := NewGeneric(platform.Descriptor{ID: "labs", Hosts: []string{"labs.claude.ai"}}, testConfig(nil))
	require.Error(t, r.Register(sub))

	require.Len(t, r.All(), 3)
}

func TestRegistry_RegisterUpsertsByID(t *testing.T) {
	r := NewRegistry(testConfig(&clipboard.Memory{}))

	replacement := NewGeneric(platform.Descriptor{ID: "claude", Name: "Claude (generic)", Hosts: []string{"claude.ai"}}, testConfig(nil))
	require.NoError(t, r.Register(replacement))

	mistral := NewGeneric(platform.Descriptor{ID: "mistral", Name: "Le Chat", Hosts: []string{"chat.mistral.ai"}}, testConfig(nil))
	require.NoError(t, r.Register(mistral))

	all := r.All()
	require.Len(t, all, 4)
	require.Equal(t, "Claude (generic)", all[1].Platform().Name)

	e, ok := r.ByPlatformID("mistral")
	require.True(t, ok)
	require.Equal(t, "Le Chat", e.Platform().Name)

	require.Len(t, r.Platforms().All(), 4)
}

func TestGeneric_Scrape(t *testing.T) {
	e := NewGeneric(platform.Descriptor{ID: "mistral", Hosts: []string{"chat.mistral.ai"}}, testConfig(&clipboard.Memory{}))
	page := loadPage(t, "chat.mistral.ai", `<html><body>
<div data-role="user">Bonjour</div>
<div data-role="assistant">Bonjour ! Comment puis-je aider ?</div>
<textarea></textarea>
</body></html>`)

	requireMessages(t, []roleContent{
		{message.RoleUser, "Bonjour"},
		{message.RoleAssistant, "Bonjour ! Comment puis-je aider ?"},
	}, e.ScrapeMessages(page))
}
