package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps *ops.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *ops.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Request types for each tool

// PageRequest identifies a rendered chat page.
type PageRequest struct {
	Platform string `json:"platform,omitempty"`
	Host     string `json:"host,omitempty"`
	HTML     string `json:"html,omitempty"`
	File     string `json:"file,omitempty"`
}

func (r PageRequest) input() ops.PageInput {
	return ops.PageInput{Platform: r.Platform, Host: r.Host, HTML: r.HTML, Path: r.File}
}

// PlatformsRequest represents the arguments for platforms.
type PlatformsRequest struct {
	Source string `json:"source,omitempty"`
}

// BuildPromptRequest represents the arguments for build_prompt.
type BuildPromptRequest struct {
	Source             string            `json:"source"`
	Messages           []message.Message `json:"messages"`
	MessageCount       *int              `json:"message_count,omitempty"`
	IncludeFullHistory *bool             `json:"include_full_history,omitempty"`
}

// TransferRequest represents the arguments for transfer.
type TransferRequest struct {
	PageRequest
	Destination string `json:"destination"`
}

// DeliverRequest represents the arguments for deliver.
type DeliverRequest struct {
	PageRequest
	SettleDelayMs *int `json:"settle_delay_ms,omitempty"`
}

// PayloadFetchRequest represents the arguments for payload_fetch.
type PayloadFetchRequest struct {
	IncludePayload bool `json:"include_payload,omitempty"`
}

// HandlePlatforms handles the platforms tool call.
func (h *Handlers) HandlePlatforms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PlatformsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Platforms(h.deps, ops.PlatformsInput{Source: input.Source})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleScrape handles the scrape tool call.
func (h *Handlers) HandleScrape(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PageRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Scrape(h.deps, ops.ScrapeInput{PageInput: input.input()})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBuildPrompt handles the build_prompt tool call.
func (h *Handlers) HandleBuildPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BuildPromptRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.BuildPrompt(h.deps, ops.BuildPromptInput{
		Source:             input.Source,
		Messages:           input.Messages,
		MessageCount:       input.MessageCount,
		IncludeFullHistory: input.IncludeFullHistory,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTransfer handles the transfer tool call.
func (h *Handlers) HandleTransfer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TransferRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Transfer(ctx, h.deps, ops.TransferInput{
		PageInput:   input.input(),
		Destination: input.Destination,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDeliver handles the deliver tool call.
func (h *Handlers) HandleDeliver(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeliverRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	in := ops.DeliverInput{PageInput: input.input()}
	if input.SettleDelayMs != nil {
		if *input.SettleDelayMs < 0 {
			return errorResult(errors.NewInvalidRequest("settle_delay_ms must not be negative")), nil
		}
		d := time.Duration(*input.SettleDelayMs) * time.Millisecond
		in.SettleDelay = &d
	}

	result, err := ops.Deliver(ctx, h.deps, in)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePayloadFetch handles the payload_fetch tool call.
func (h *Handlers) HandlePayloadFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PayloadFetchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.PayloadFetch(ctx, h.deps, ops.PayloadFetchInput{IncludePayload: input.IncludePayload})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePayloadClear handles the payload_clear tool call.
func (h *Handlers) HandlePayloadClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.PayloadClear(ctx, h.deps)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePayloadExpire handles the payload_expire tool call.
func (h *Handlers) HandlePayloadExpire(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.PayloadExpire(ctx, h.deps)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if bErr, ok := errors.As(err); ok {
		msg := bErr.Message
		// Keep wrapper context, e.g. "messages[2]: ...".
		if full := err.Error(); full != bErr.Error() {
			msg = strings.TrimSuffix(full, bErr.Error()) + bErr.Message
		}
		errorObj := map[string]any{
			"code":    bErr.Code,
			"message": msg,
			"status":  bErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or connection strings
		if bErr.Code != errors.ErrInternal && bErr.Details != nil {
			errorObj["details"] = bErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
