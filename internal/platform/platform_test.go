package platform

import "testing"

func TestDescriptor_MatchesHost(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		host string
		want bool
	}{
		{"exact", ChatGPT, "chat.openai.com", true},
		{"second host", ChatGPT, "chatgpt.com", true},
		{"subdomain", ChatGPT, "www.chatgpt.com", true},
		{"uppercase", Claude, "Claude.AI", true},
		{"gemini legacy host", Gemini, "bard.google.com", true},
		{"unrelated", Claude, "example.com", false},
		{"suffix without dot", Claude, "notclaude.ai", false},
		{"empty", Gemini, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.desc.MatchesHost(tt.host); got != tt.want {
				t.Errorf("MatchesHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	r := Default()

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 platforms, got %d", len(all))
	}
	wantOrder := []string{"chatgpt", "claude", "gemini"}
	for i, id := range wantOrder {
		if all[i].ID != id {
			t.Errorf("All()[%d].ID = %q, want %q", i, all[i].ID, id)
		}
	}

	d, ok := r.Get("claude")
	if !ok {
		t.Fatal("Get(claude) not found")
	}
	if d.URL != "https://claude.ai/new" {
		t.Errorf("Claude URL = %q", d.URL)
	}

	if _, ok := r.Get("bing"); ok {
		t.Error("Get(bing) should not be found")
	}
}

func TestRegistry_ForHost(t *testing.T) {
	r := Default()

	d, ok := r.ForHost("gemini.google.com")
	if !ok || d.ID != "gemini" {
		t.Errorf("ForHost(gemini.google.com) = %q, %v", d.ID, ok)
	}

	if _, ok := r.ForHost("example.com"); ok {
		t.Error("ForHost(example.com) should not match")
	}
}

func TestRegistry_RegisterUpserts(t *testing.T) {
	r := Default()

	r.Register(Descriptor{ID: "claude", Name: "Claude Beta", URL: "https://beta.claude.ai", Hosts: []string{"beta.claude.ai"}})
	r.Register(Descriptor{ID: "mistral", Name: "Le Chat", URL: "https://chat.mistral.ai", Hosts: []string{"chat.mistral.ai"}})

	all := r.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 platforms, got %d", len(all))
	}
	if all[1].ID != "claude" || all[1].Name != "Claude Beta" {
		t.Errorf("upsert should keep position and replace entry, got %+v", all[1])
	}
	if all[3].ID != "mistral" {
		t.Errorf("new platform should be appended, got %q", all[3].ID)
	}
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	r := Default()
	all := r.All()
	all[0].Name = "mutated"

	d, _ := r.Get("chatgpt")
	if d.Name != "ChatGPT" {
		t.Errorf("registry mutated through All(): %q", d.Name)
	}
}

func TestRegistry_Destinations(t *testing.T) {
	r := Default()
	dests := r.Destinations("chatgpt")
	if len(dests) != 2 {
		t.Fatalf("expected 2 destinations, got %d", len(dests))
	}
	for _, d := range dests {
		if d.ID == "chatgpt" {
			t.Error("source platform should be excluded")
		}
	}
}
