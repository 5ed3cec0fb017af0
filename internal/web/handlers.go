package web

import (
	"net/http"

	"github.com/hpungsan/bridgeai/internal/ops"
)

// Handlers contains HTTP route handlers for the preview UI.
type Handlers struct {
	deps     *ops.Deps
	renderer *Renderer
}

// HandlePayload handles GET /payload: preview the pending transfer.
func (h *Handlers) HandlePayload(w http.ResponseWriter, r *http.Request) {
	result, err := ops.PayloadFetch(r.Context(), h.deps, ops.PayloadFetchInput{IncludePayload: true})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data := PayloadPageData{
		PageData: h.renderer.page("Pending transfer", "payload"),
		Found:    result.Found,
		Expired:  result.Expired,
		Summary:  result.Summary,
		Payload:  result.Payload,
	}
	if result.Payload != nil {
		data.Source = h.platformName(result.Payload.SourcePlatform)
		data.Destination = h.platformName(result.Payload.DestinationPlatform)
		data.RenderedHTML = renderMarkdown(result.Payload.FormattedPrompt)
	}
	h.renderer.renderPage(w, r, "payload", data)
}

// HandleClear handles POST /payload/clear: discard the pending transfer.
func (h *Handlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	result, err := ops.PayloadClear(r.Context(), h.deps)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", BasePath+"/payload")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, BasePath+"/payload", http.StatusFound)
}

// HandlePlatforms handles GET /platforms: list registered platforms.
func (h *Handlers) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Platforms(h.deps, ops.PlatformsInput{Source: r.URL.Query().Get("source")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "platforms", PlatformsPageData{
		PageData:  h.renderer.page("Platforms", "platforms"),
		Platforms: result.Platforms,
	})
}

// platformName returns the display name for id, or id itself when unknown.
func (h *Handlers) platformName(id string) string {
	if desc, ok := h.deps.Platforms.Get(id); ok {
		return desc.Name
	}
	return id
}
