// Package api serves the bridge daemon's HTTP interface.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/ops"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	deps    *ops.Deps
	log     zerolog.Logger
	version string
}

// NewHandler creates a new Handler.
func NewHandler(deps *ops.Deps, log zerolog.Logger, version string) *Handler {
	return &Handler{deps: deps, log: log, version: version}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error sends err as a JSON error object. Errors without a code are reported
// as INTERNAL without their text.
func (h *Handler) Error(w http.ResponseWriter, err error) {
	bErr, ok := errors.As(err)
	if !ok {
		h.log.Error().Err(err).Msg("request failed")
		bErr = errors.NewInternal(err)
	}
	body := map[string]any{
		"code":    bErr.Code,
		"message": bErr.Message,
		"status":  bErr.Status,
	}
	if bErr.Code != errors.ErrInternal && bErr.Details != nil {
		body["details"] = bErr.Details
	}
	h.JSON(w, bErr.Status, map[string]any{"error": body})
}

// decodeBody decodes a JSON request body into T.
func decodeBody[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return v, nil
}
