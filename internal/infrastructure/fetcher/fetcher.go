package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ArtworksCrawler/internal/ports"
)

const (
	// DefaultProfileURLFormat is the canonical Behance profile path.
	DefaultProfileURLFormat = "https://www.behance.net/%s"
	// DefaultUserAgent mimics a desktop browser; Behance rejects bare clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	// DefaultTimeout bounds a single profile request.
	DefaultTimeout = 20 * time.Second

	maxBodyBytes = 8 << 20
)

// Error describes a failed profile fetch: either a non-200 status or a
// transport failure (DNS, refused connection, timeout).
type Error struct {
	Handle     string
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "fetch error"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s (%s): HTTP %d", e.Handle, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s (%s): %v", e.Handle, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures an HTTPFetcher. Zero values select the defaults.
type Options struct {
	ProfileURLFormat string
	UserAgent        string
	Timeout          time.Duration
}

// HTTPFetcher downloads profile pages with one GET per handle and no retry.
type HTTPFetcher struct {
	client    *http.Client
	urlFormat string
	userAgent string
	timeout   time.Duration
}

var _ ports.ProfileFetcher = (*HTTPFetcher)(nil)

// New wires an HTTP client; a nil client gets one bounded by the timeout.
func New(client *http.Client, opts Options) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	urlFormat := strings.TrimSpace(opts.ProfileURLFormat)
	if urlFormat == "" {
		urlFormat = DefaultProfileURLFormat
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &HTTPFetcher{
		client:    client,
		urlFormat: urlFormat,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// ProfileURL formats the profile address for a handle.
func (f *HTTPFetcher) ProfileURL(handle string) string {
	return fmt.Sprintf(f.urlFormat, url.PathEscape(handle))
}

// Fetch returns the raw markup of the handle's profile page. Only HTTP 200
// counts as success.
func (f *HTTPFetcher) Fetch(ctx context.Context, handle string) ([]byte, error) {
	pageURL := f.ProfileURL(handle)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &Error{Handle: handle, URL: pageURL, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Handle: handle, URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &Error{Handle: handle, URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &Error{Handle: handle, URL: pageURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(body) > maxBodyBytes {
		return nil, &Error{Handle: handle, URL: pageURL, Err: errors.New("response body exceeds size limit")}
	}

	return body, nil
}
