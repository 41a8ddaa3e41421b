// Package feed reads marker data and marker images from either a web URL
// (a published spreadsheet) or a local file.
package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	DefaultTimeout = 15 * time.Second
	// MaxBytes caps a single response or file.
	MaxBytes = 64 << 20
)

// ErrStatus is returned for a non-2xx HTTP response.
var ErrStatus = errors.New("unexpected status")

// Fetcher loads sources. The zero value is not usable; call NewFetcher.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// IsRemote reports whether src is fetched over HTTP.
func IsRemote(src string) bool {
	s := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// LocalPath returns the file path for a local source.
func LocalPath(src string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" || IsRemote(src) {
		return "", false
	}
	return strings.TrimPrefix(src, "file://"), true
}

// Fetch returns the raw bytes of src.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if IsRemote(src) {
		return f.fetchHTTP(ctx, src)
	}
	path, ok := LocalPath(src)
	if !ok {
		return nil, fmt.Errorf("feed: fetch: empty source")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("feed: fetch %s: %w", src, err)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: fetch %s: %w", src, err)
	}
	defer file.Close()
	b, err := io.ReadAll(io.LimitReader(file, MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("feed: fetch %s: %w", src, err)
	}
	return b, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(src), nil)
	if err != nil {
		return nil, fmt.Errorf("feed: fetch %s: %w", src, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed: fetch %s: %w %d", src, ErrStatus, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("feed: fetch %s: %w", src, err)
	}
	return b, nil
}

// Records fetches src and parses it as CSV.
func (f *Fetcher) Records(ctx context.Context, src string) ([]Record, error) {
	b, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	recs, err := ParseCSV(bytes.NewReader(b))
	if err != nil {
		return recs, fmt.Errorf("feed: %s: %w", src, err)
	}
	return recs, nil
}
