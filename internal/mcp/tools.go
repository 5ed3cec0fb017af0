package mcp

import "github.com/mark3labs/mcp-go/mcp"

var pageOptions = []mcp.ToolOption{
	mcp.WithString("platform",
		mcp.Description("Platform id of the page (chatgpt, claude, gemini, or a configured platform). Detected from host when omitted."),
	),
	mcp.WithString("host",
		mcp.Description("Host name the page was served from, e.g. chatgpt.com. Defaults to the platform's first host."),
	),
	mcp.WithString("html",
		mcp.Description("Rendered page HTML. Mutually exclusive with file."),
	),
	mcp.WithString("file",
		mcp.Description("Path to a saved .html page snapshot. Mutually exclusive with html."),
	),
}

func withPage(opts ...mcp.ToolOption) []mcp.ToolOption {
	out := make([]mcp.ToolOption, 0, len(pageOptions)+len(opts))
	out = append(out, opts...)
	return append(out, pageOptions...)
}

var platformsToolDef = mcp.NewTool("bridge_platforms",
	mcp.WithDescription("List supported chat platforms. With source, list the valid transfer destinations from that platform."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("source",
		mcp.Description("Source platform id; excludes it from the result."),
	),
)

var scrapeToolDef = mcp.NewTool("bridge_scrape",
	withPage(
		mcp.WithDescription("Extract the conversation rendered on a chat page, oldest message first."),
		mcp.WithReadOnlyHintAnnotation(true),
	)...,
)

var buildPromptToolDef = mcp.NewTool("bridge_build_prompt",
	mcp.WithDescription("Format messages into a transfer prompt without saving anything."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithString("source",
		mcp.Required(),
		mcp.Description("Source platform id or display name used in the attribution line."),
	),
	mcp.WithArray("messages",
		mcp.Required(),
		mcp.Description("Conversation turns, oldest first."),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"role":    map[string]any{"type": "string", "enum": []string{"user", "assistant", "system"}},
				"content": map[string]any{"type": "string"},
			},
			"required": []string{"role", "content"},
		}),
	),
	mcp.WithNumber("message_count",
		mcp.Description("History window size (default from config, 10)."),
	),
	mcp.WithBoolean("include_full_history",
		mcp.Description("Include every message instead of the window."),
	),
)

var transferToolDef = mcp.NewTool("bridge_transfer",
	withPage(
		mcp.WithDescription("Scrape a source page, save a transfer payload for the destination and open the destination chat."),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Destination platform id."),
		),
	)...,
)

var deliverToolDef = mcp.NewTool("bridge_deliver",
	withPage(
		mcp.WithDescription("Check for a payload addressed to this page's platform, wait for the chat input and copy the prompt to the clipboard."),
		mcp.WithNumber("settle_delay_ms",
			mcp.Description("Delay before checking for a payload (default from config). 0 disables it."),
		),
	)...,
)

var payloadFetchToolDef = mcp.NewTool("bridge_payload_fetch",
	mcp.WithDescription("Show the pending transfer payload without consuming it."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithBoolean("include_payload",
		mcp.Description("Include messages and the formatted prompt (default: summary only)."),
	),
)

var payloadClearToolDef = mcp.NewTool("bridge_payload_clear",
	mcp.WithDescription("Discard the pending transfer payload."),
	mcp.WithDestructiveHintAnnotation(true),
)

var payloadExpireToolDef = mcp.NewTool("bridge_payload_expire",
	mcp.WithDescription("Remove the pending payload if it is older than the payload TTL."),
	mcp.WithDestructiveHintAnnotation(true),
)
