// Package tabs asks for a destination chat to be opened in a new tab.
package tabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"

	"github.com/hpungsan/bridgeai/internal/errors"
	"github.com/hpungsan/bridgeai/internal/platform"
)

// Handle identifies an opened tab.
type Handle struct {
	ID         string `json:"tabId"`
	PlatformID string `json:"platformId"`
	URL        string `json:"url"`
}

// Opener opens a new tab on a destination platform.
type Opener interface {
	Open(ctx context.Context, platformID string) (Handle, error)
}

// OpenRequest is the body of POST /tabs.
type OpenRequest struct {
	DestinationPlatform string `json:"destinationPlatform"`
}

// OpenResponse is the reply to POST /tabs.
type OpenResponse struct {
	Success bool   `json:"success"`
	TabID   string `json:"tabId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BrowserOpener opens platform URLs in the user's default browser.
type BrowserOpener struct {
	Platforms *platform.Registry
	// OpenURL defaults to browser.OpenURL.
	OpenURL func(url string) error
}

// NewBrowserOpener creates an opener that resolves ids through platforms.
func NewBrowserOpener(platforms *platform.Registry) *BrowserOpener {
	return &BrowserOpener{Platforms: platforms, OpenURL: browser.OpenURL}
}

// Open implements Opener.
func (o *BrowserOpener) Open(ctx context.Context, platformID string) (Handle, error) {
	desc, ok := o.Platforms.Get(platformID)
	if !ok {
		return Handle{}, errors.NewUnknownPlatform(platformID)
	}
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	openURL := o.OpenURL
	if openURL == nil {
		openURL = browser.OpenURL
	}
	if err := openURL(desc.URL); err != nil {
		return Handle{}, fmt.Errorf("open %s: %w", desc.URL, err)
	}
	return Handle{ID: uuid.NewString(), PlatformID: desc.ID, URL: desc.URL}, nil
}

// RemoteOpener asks a bridge daemon to open the tab.
type RemoteOpener struct {
	base   string
	client *http.Client
}

// NewRemoteOpener creates an opener that posts to daemonURL/tabs.
// A nil client gets a 10 second timeout.
func NewRemoteOpener(daemonURL string, client *http.Client) *RemoteOpener {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteOpener{base: strings.TrimRight(daemonURL, "/"), client: client}
}

// Open implements Opener.
func (o *RemoteOpener) Open(ctx context.Context, platformID string) (Handle, error) {
	body, err := json.Marshal(OpenRequest{DestinationPlatform: platformID})
	if err != nil {
		return Handle{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/tabs", bytes.NewReader(body))
	if err != nil {
		return Handle{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return Handle{}, fmt.Errorf("request tab: %w", err)
	}
	defer resp.Body.Close()

	var out OpenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Handle{}, fmt.Errorf("decode tab response (status %d): %w", resp.StatusCode, err)
	}
	if !out.Success {
		if resp.StatusCode == http.StatusNotFound {
			return Handle{}, errors.NewUnknownPlatform(platformID)
		}
		return Handle{}, fmt.Errorf("open tab: %s", out.Error)
	}
	return Handle{ID: out.TabID, PlatformID: platformID}, nil
}
