package ops

import (
	"strings"

	"github.com/hpungsan/bridgeai/internal/dom"
	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/extract"
)

// PageInput identifies a rendered chat page. Exactly one of HTML or Path is
// required. Host defaults to the platform's first host; Platform defaults to
// the platform detected from Host.
type PageInput struct {
	Platform string
	Host     string
	HTML     string
	Path     string
}

// resolvePage loads the page and picks the extractor that serves it.
func resolvePage(d *Deps, in PageInput) (extract.Extractor, *dom.Page, error) {
	platformID := strings.TrimSpace(in.Platform)
	host := strings.ToLower(strings.TrimSpace(in.Host))

	hasHTML := strings.TrimSpace(in.HTML) != ""
	hasPath := strings.TrimSpace(in.Path) != ""
	if hasHTML == hasPath {
		return nil, nil, errors.NewInvalidRequest("exactly one of html or file is required")
	}

	var e extract.Extractor
	if platformID != "" {
		var ok bool
		if e, ok = d.Extractors.ByPlatformID(platformID); !ok {
			return nil, nil, errors.NewUnknownPlatform(platformID)
		}
		if host == "" {
			host = e.Platform().Hosts[0]
		}
	} else if host == "" {
		return nil, nil, errors.NewInvalidRequest("platform or host is required")
	}

	var (
		page *dom.Page
		err  error
	)
	if hasHTML {
		page, err = dom.LoadString(host, in.HTML)
	} else {
		page, err = loadPageFile(host, in.Path)
	}
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, nil, err
		}
		return nil, nil, errors.NewInvalidRequest(err.Error())
	}

	if e == nil {
		var ok bool
		if e, ok = d.Extractors.Active(page); !ok {
			return nil, nil, errors.NewUnknownPlatform(host)
		}
	} else if !e.IsDetected(page) {
		return nil, nil, errors.NewInvalidRequest("host " + host + " does not belong to platform " + e.Platform().ID)
	}
	return e, page, nil
}

func loadPageFile(host, path string) (*dom.Page, error) {
	if err := ValidatePagePath(path); err != nil {
		return nil, err
	}
	f, err := openPageFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dom.Load(host, f)
}
