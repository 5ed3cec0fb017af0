package extract

import "github.com/hpungsan/bridgeai/internal/platform"

// NewGemini creates the extractor for gemini.google.com.
// Gemini renders queries and responses as separate custom elements, so the
// primary lookup merges them by page position.
func NewGemini(cfg Config) Extractor {
	return newAdapter(platform.Gemini,
		[]Strategy{
			merged("query-response", "user-query, .user-message", "model-response, .model-message"),
			alternating("conversation-turn", ".conversation-turn, [data-message-id]", 0),
			alternating("message-content", ".message-content", minTextBlockChars),
		},
		[]string{
			"rich-textarea",
			".ql-editor",
			`[contenteditable="true"][role="textbox"]`,
			`div[contenteditable="true"]`,
			"textarea",
		},
		cfg,
	)
}
