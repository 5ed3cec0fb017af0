package api

import (
	"net/http"
	"time"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/message"
	"github.com/hpungsan/bridgeai/internal/ops"
	"github.com/hpungsan/bridgeai/internal/tabs"
)

// pageRequest identifies a rendered chat page in a request body.
type pageRequest struct {
	Platform string `json:"platform,omitempty"`
	Host     string `json:"host,omitempty"`
	HTML     string `json:"html"`
}

func (p pageRequest) input() ops.PageInput {
	return ops.PageInput{Platform: p.Platform, Host: p.Host, HTML: p.HTML}
}

// Platforms lists platforms, or destinations when ?source= is given.
func (h *Handler) Platforms(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Platforms(h.deps, ops.PlatformsInput{Source: r.URL.Query().Get("source")})
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, out)
}

// OpenTab opens a destination chat. Failures keep the {success, error} shape.
func (h *Handler) OpenTab(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[tabs.OpenRequest](r)
	if err != nil {
		h.JSON(w, http.StatusBadRequest, tabs.OpenResponse{Success: false, Error: "invalid JSON body"})
		return
	}
	handle, err := ops.OpenTab(r.Context(), h.deps, req.DestinationPlatform)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Failed to open tab"
		if bErr, ok := errors.As(err); ok {
			status, msg = bErr.Status, bErr.Message
		} else {
			h.log.Warn().Err(err).Str("platform", req.DestinationPlatform).Msg("failed to open tab")
		}
		h.JSON(w, status, tabs.OpenResponse{Success: false, Error: msg})
		return
	}
	h.JSON(w, http.StatusOK, tabs.OpenResponse{Success: true, TabID: handle.ID})
}

// Scrape extracts the conversation from a posted page.
func (h *Handler) Scrape(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[pageRequest](r)
	if err != nil {
		h.Error(w, err)
		return
	}
	out, err := ops.Scrape(h.deps, ops.ScrapeInput{PageInput: req.input()})
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, out)
}

type buildPromptRequest struct {
	Source             string            `json:"source"`
	Messages           []message.Message `json:"messages"`
	MessageCount       *int              `json:"messageCount,omitempty"`
	IncludeFullHistory *bool             `json:"includeFullHistory,omitempty"`
}

// BuildPrompt formats posted messages into a transfer prompt.
func (h *Handler) BuildPrompt(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[buildPromptRequest](r)
	if err != nil {
		h.Error(w, err)
		return
	}
	out, err := ops.BuildPrompt(h.deps, ops.BuildPromptInput{
		Source:             req.Source,
		Messages:           req.Messages,
		MessageCount:       req.MessageCount,
		IncludeFullHistory: req.IncludeFullHistory,
	})
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, out)
}

type transferRequest struct {
	pageRequest
	Destination string `json:"destination"`
}

// Transfer scrapes a posted source page and hands its payload to the destination.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[transferRequest](r)
	if err != nil {
		h.Error(w, err)
		return
	}
	out, err := ops.Transfer(r.Context(), h.deps, ops.TransferInput{PageInput: req.input(), Destination: req.Destination})
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, out)
}

type deliverRequest struct {
	pageRequest
	SettleDelayMs *int `json:"settleDelayMs,omitempty"`
}

// Deliver runs a destination check against a posted page.
func (h *Handler) Deliver(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[deliverRequest](r)
	if err != nil {
		h.Error(w, err)
		return
	}
	in := ops.DeliverInput{PageInput: req.input()}
	if req.SettleDelayMs != nil {
		if *req.SettleDelayMs < 0 {
			h.Error(w, errors.NewInvalidRequest("settleDelayMs must not be negative"))
			return
		}
		d := time.Duration(*req.SettleDelayMs) * time.Millisecond
		in.SettleDelay = &d
	}
	out, err := ops.Deliver(r.Context(), h.deps, in)
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, out)
}
