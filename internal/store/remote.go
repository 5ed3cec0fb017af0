package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Remote forwards slot calls to a bridge daemon's /slots endpoints.
type Remote struct {
	base   string
	client *http.Client
}

// NewRemote creates a store backed by the daemon at daemonURL.
// A nil client gets a 10 second timeout.
func NewRemote(daemonURL string, client *http.Client) (*Remote, error) {
	u, err := url.Parse(daemonURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid daemon url %q", daemonURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Remote{base: strings.TrimRight(daemonURL, "/"), client: client}, nil
}

func (s *Remote) slotURL(key string) string {
	return s.base + "/slots/" + url.PathEscape(key)
}

func (s *Remote) do(ctx context.Context, method, key string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.slotURL(key), r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}
	return s.client.Do(req)
}

// Get implements Store.
func (s *Remote) Get(ctx context.Context, key string) ([]byte, bool, error) {
	resp, err := s.do(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, false, fmt.Errorf("remote get %s: %w", key, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		value, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, false, fmt.Errorf("remote get %s: %w", key, err)
		}
		return value, true, nil
	case http.StatusNotFound:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("remote get %s: unexpected status %d", key, resp.StatusCode)
	}
}

// Set implements Store.
func (s *Remote) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	resp, err := s.do(ctx, http.MethodPut, key, value)
	if err != nil {
		return fmt.Errorf("remote set %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("remote set %s: unexpected status %d", key, resp.StatusCode)
	}
	return nil
}

// Remove implements Store.
func (s *Remote) Remove(ctx context.Context, key string) error {
	resp, err := s.do(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return fmt.Errorf("remote remove %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remote remove %s: unexpected status %d", key, resp.StatusCode)
	}
	return nil
}

// Close implements Store.
func (s *Remote) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
