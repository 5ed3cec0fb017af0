package api

import (
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hpungsan/bridgeai/internal/errors"
)

// slotKey returns the unescaped {key} parameter. chi matches on the raw
// path, so keys containing an escaped slash arrive still encoded.
func slotKey(r *http.Request) string {
	key := chi.URLParam(r, "key")
	if k, err := url.PathUnescape(key); err == nil {
		return k
	}
	return key
}

// GetSlot returns a slot's raw bytes, or 404 when it is empty.
func (h *Handler) GetSlot(w http.ResponseWriter, r *http.Request) {
	key := slotKey(r)
	value, found, err := h.deps.Store.Get(r.Context(), key)
	if err != nil {
		h.Error(w, errors.NewStorageFailure("load", err))
		return
	}
	if !found {
		h.JSON(w, http.StatusNotFound, map[string]any{"found": false})
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(value)
}

// PutSlot overwrites a slot with the request body.
func (h *Handler) PutSlot(w http.ResponseWriter, r *http.Request) {
	key := slotKey(r)
	value, err := io.ReadAll(r.Body)
	if err != nil {
		h.JSON(w, http.StatusRequestEntityTooLarge, map[string]any{"error": "request body too large"})
		return
	}
	if err := h.deps.Store.Set(r.Context(), key, value); err != nil {
		h.Error(w, errors.NewStorageFailure("save", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSlot empties a slot. Deleting an empty slot succeeds.
func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	key := slotKey(r)
	if err := h.deps.Store.Remove(r.Context(), key); err != nil {
		h.Error(w, errors.NewStorageFailure("clear", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
