package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/hpungsan/bridgeai/internal/ops"
)

// BasePath is where the daemon mounts the preview UI.
const BasePath = "/ui"

//go:embed templates/*.html
var templateFS embed.FS

// NewHandler creates the preview UI handler. It expects request paths with
// BasePath already stripped.
func NewHandler(deps *ops.Deps, version string) http.Handler {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}

	h := &Handlers{
		deps:     deps,
		renderer: NewRenderer(templateSub, version, deps.Logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, BasePath+"/payload", http.StatusFound)
	})
	mux.HandleFunc("GET /payload", h.HandlePayload)
	mux.HandleFunc("POST /payload/clear", h.HandleClear)
	mux.HandleFunc("GET /platforms", h.HandlePlatforms)

	return http.StripPrefix(BasePath, mux)
}
