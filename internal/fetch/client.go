// Package fetch retrieves raw wiki page markup over HTTP or through a
// headless browser, with typed failure modes for callers to branch on.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the Poképédia wiki root.
const DefaultBaseURL = "https://www.pokepedia.fr/"

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 300 * time.Second

// Prometheus metrics for page fetches.
var (
	fetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_fetch_requests_total",
		Help: "Total page fetches by outcome",
	}, []string{"outcome"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokedex_fetch_duration_seconds",
		Help:    "Page fetch duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})
)

// Fetcher retrieves the raw markup of a wiki page by its title.
type Fetcher interface {
	FetchPage(ctx context.Context, title string) (string, error)
}

// Client fetches pages with a plain HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a page fetcher for the given wiki root. Empty baseURL
// falls back to DefaultBaseURL, zero timeout to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.With().Str("component", "fetch").Logger(),
	}
}

// FetchPage returns the markup of the page with the given title. A missing
// page yields ErrNotFound; any other non-200 outcome yields *TransportError.
func (c *Client) FetchPage(ctx context.Context, title string) (string, error) {
	pageURL := c.baseURL + url.PathEscape(title)

	start := time.Now()
	defer func() {
		fetchDuration.Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request for %q: %w", title, err)
	}

	c.logger.Debug().Str("title", title).Str("url", pageURL).Msg("Fetching page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fetchRequestsTotal.WithLabelValues("network_error").Inc()
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to body read below
	case resp.StatusCode == http.StatusNotFound:
		fetchRequestsTotal.WithLabelValues("not_found").Inc()
		return "", fmt.Errorf("page %q: %w", title, ErrNotFound)
	default:
		fetchRequestsTotal.WithLabelValues("http_error").Inc()
		c.logger.Warn().Str("title", title).Int("status", resp.StatusCode).Msg("Unexpected status")
		return "", &TransportError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fetchRequestsTotal.WithLabelValues("read_error").Inc()
		return "", &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	fetchRequestsTotal.WithLabelValues("ok").Inc()
	return string(body), nil
}
