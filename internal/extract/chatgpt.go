package extract

import "github.com/hpungsan/bridgeai/internal/platform"

// NewChatGPT creates the extractor for chat.openai.com / chatgpt.com.
func NewChatGPT(cfg Config) Extractor {
	return newAdapter(platform.ChatGPT,
		[]Strategy{
			byAttribute("author-role", "[data-message-author-role]", "data-message-author-role", ".markdown"),
			alternating("conversation-turn", `[data-testid^="conversation-turn"]`, 0),
			alternating("text-blocks", ".markdown, .prose", minTextBlockChars),
		},
		[]string{
			"#prompt-textarea",
			`div[contenteditable="true"]`,
			"textarea",
		},
		cfg,
	)
}
