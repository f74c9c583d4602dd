// Package fetch retrieves third-party websites with a bounded wait and
// reduces their HTML to a plain-text excerpt suitable for prompt context.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"auditgo/internal/models"
)

// maxBodySize bounds how much HTML is read from a fetched page.
const maxBodySize = 2 << 20 // 2 MB

// userAgent is a static browser-like identifier; some sites refuse requests
// without one.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Fetcher retrieves URLs with a fixed timeout and a fixed excerpt budget.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	excerptLimit int
}

// NewFetcher constructs a Fetcher. excerptLimit is the hard character cutoff
// applied to extracted text.
func NewFetcher(timeout time.Duration, excerptLimit int) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if excerptLimit <= 0 {
		excerptLimit = 4000
	}
	return &Fetcher{
		client:       &http.Client{Timeout: timeout},
		timeout:      timeout,
		excerptLimit: excerptLimit,
	}
}

// Fetch retrieves the URL and extracts a bounded visible-text excerpt. All
// failures are returned as *Error; no transport exception crosses this
// boundary.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*models.FetchResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, &Error{Reason: ReasonConnection, Err: fmt.Errorf("invalid url: %w", err)}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &Error{Reason: ReasonConnection, Err: errors.New("unsupported url scheme")}
	}

	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, &Error{Reason: ReasonConnection, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Reason: ReasonStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyTransportError(err)
	}

	return &models.FetchResult{
		URL:        parsed.String(),
		StatusCode: resp.StatusCode,
		RawHTML:    string(body),
		Excerpt:    ExtractExcerpt(body, f.excerptLimit),
	}, nil
}
