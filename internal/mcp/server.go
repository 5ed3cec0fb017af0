package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/bridgeai/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"bridge_platforms": {
		def:     platformsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePlatforms },
	},
	"bridge_scrape": {
		def:     scrapeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleScrape },
	},
	"bridge_build_prompt": {
		def:     buildPromptToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBuildPrompt },
	},
	"bridge_transfer": {
		def:     transferToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTransfer },
	},
	"bridge_deliver": {
		def:     deliverToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDeliver },
	},
	"bridge_payload_fetch": {
		def:     payloadFetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePayloadFetch },
	},
	"bridge_payload_clear": {
		def:     payloadClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePayloadClear },
	},
	"bridge_payload_expire": {
		def:     payloadExpireToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePayloadExpire },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with the bridge tools registered.
// Tools listed in DisabledTools are excluded from registration.
func NewServer(deps *ops.Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"bridgeai",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps)

	disabled := make(map[string]bool)
	for _, name := range deps.Config.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps *ops.Deps, version string) error {
	s := NewServer(deps, version)
	return server.ServeStdio(s)
}
