package api

import (
	"net/http"
	"strconv"

	"github.com/hpungsan/bridgeai/internal/ops"
)

// GetPayload reports the pending payload. ?include=true adds messages and prompt.
func (h *Handler) GetPayload(w http.ResponseWriter, r *http.Request) {
	include, _ := strconv.ParseBool(r.URL.Query().Get("include"))
	out, err := ops.PayloadFetch(r.Context(), h.deps, ops.PayloadFetchInput{IncludePayload: include})
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, out)
}

// SubmitPayload stores a payload built by a source tab and opens its destination.
func (h *Handler) SubmitPayload(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[ops.SubmitInput](r)
	if err != nil {
		h.Error(w, err)
		return
	}
	out, err := ops.Submit(r.Context(), h.deps, req)
	if err != nil {
		h.Error(w, err)
		return
	}
	status := http.StatusCreated
	if !out.Success {
		status = http.StatusAccepted
	}
	h.JSON(w, status, out)
}

// ClearPayload discards the pending payload.
func (h *Handler) ClearPayload(w http.ResponseWriter, r *http.Request) {
	out, err := ops.PayloadClear(r.Context(), h.deps)
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, out)
}

// ExpirePayload runs one expiry check.
func (h *Handler) ExpirePayload(w http.ResponseWriter, r *http.Request) {
	out, err := ops.PayloadExpire(r.Context(), h.deps)
	if err != nil {
		h.Error(w, err)
		return
	}
	h.JSON(w, http.StatusOK, out)
}
