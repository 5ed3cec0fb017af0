package extract

import "github.com/hpungsan/bridgeai/internal/platform"

// NewGeneric creates an extractor for a platform without a dedicated adapter.
// It relies on common chat markup conventions only.
func NewGeneric(desc platform.Descriptor, cfg Config) Extractor {
	return newAdapter(desc,
		[]Strategy{
			byAttribute("author-role", "[data-message-author-role]", "data-message-author-role", ""),
			byAttribute("data-role", "[data-role]", "data-role", ""),
			alternating("message", ".message, [data-message-id]", 0),
			alternating("paragraphs", "main p", minTextBlockChars),
		},
		[]string{
			"textarea",
			`[contenteditable="true"][role="textbox"]`,
			`[contenteditable="true"]`,
			`input[type="text"]`,
		},
		cfg,
	)
}
