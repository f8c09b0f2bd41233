// Package source loads the per-store sales tables from URLs or files.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Fetcher opens the raw bytes behind a source reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (io.ReadCloser, error)
}

// RefFetcher reads http(s) URLs with an HTTP client and anything else from
// the filesystem. A "file://" prefix is accepted and stripped.
type RefFetcher struct {
	client *http.Client
}

// NewRefFetcher returns a fetcher whose HTTP requests time out after timeout.
func NewRefFetcher(timeout time.Duration) *RefFetcher {
	return &RefFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher.
func (f *RefFetcher) Fetch(ctx context.Context, ref string) (io.ReadCloser, error) {
	switch {
	case isHTTP(ref):
		return f.get(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		return os.Open(strings.TrimPrefix(ref, "file://"))
	default:
		return os.Open(ref)
	}
}

func (f *RefFetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	return resp.Body, nil
}

func isHTTP(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
