// Package scraper turns upstream HTML pages into commodity quote
// snapshots. Each upstream site has its own SourceParser implementation;
// adding a source means adding an implementation, not branching inside
// an existing one.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mandiwatch/mandiwatch/pkg/models"
)

// SourceParser is the strategy interface implemented once per upstream
// site. Scrape fetches and parses the page in one pass.
//
// A nil snapshot with an error means "could not refresh", never
// "market is empty" — callers keep whatever data they already have.
type SourceParser interface {
	// Name returns a short identifier for the source, e.g. "exchange".
	Name() string

	// Scrape fetches the upstream page and returns a freshly built
	// snapshot. The returned snapshot is complete: rows that could not
	// be extracted are skipped, never stored half-filled.
	Scrape(ctx context.Context) (models.Snapshot, error)
}

// ErrNoTable is returned when the fetched document has no table element,
// i.e. the upstream page layout changed.
var ErrNoTable = errors.New("no table found in document")

// ErrHTTP wraps a non-success HTTP response.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// userAgent is a browser-like user agent; the upstream sites reject
// obvious bot requests.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// doGet performs a GET request against url with the given client,
// returning the response body. The caller must close the returned
// ReadCloser. Non-2xx responses are returned as *ErrHTTP.
func doGet(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}

// newClient builds an HTTP client with the source's fetch timeout.
func newClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
