package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// UserAgent presented by the headless browser.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval spaces browser fetches to stay polite with the wiki.
	MinRequestInterval = 2 * time.Second
)

// Browser fetches pages through a headless browser. Useful when the wiki
// front-end serves anti-bot challenge pages to plain HTTP clients. Safe for
// concurrent use; fetches are spaced by MinRequestInterval.
type Browser struct {
	baseURL  string
	timeout  time.Duration
	interval time.Duration
	logger   zerolog.Logger

	mu          sync.Mutex
	lastRequest time.Time

	allocCtx context.Context
	cancel   context.CancelFunc

	// renderPage is swappable for tests.
	renderPage func(ctx context.Context, title string) (string, error)
}

// NewBrowser creates a browser-backed page fetcher.
func NewBrowser(baseURL string, timeout time.Duration) (*Browser, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	b := &Browser{
		baseURL:  baseURL,
		timeout:  timeout,
		interval: MinRequestInterval,
		logger:   log.With().Str("component", "fetch-browser").Logger(),
		allocCtx: allocCtx,
		cancel:   cancel,
	}
	b.renderPage = b.render
	return b, nil
}

// Close releases the browser allocator.
func (b *Browser) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// FetchPage renders the page and returns its markup. Missing pages are
// detected through the wiki's "no article" marker and yield ErrNotFound.
func (b *Browser) FetchPage(ctx context.Context, title string) (string, error) {
	b.waitTurn()

	html, err := b.renderPage(ctx, title)
	if err != nil {
		return "", err
	}

	// MediaWiki renders missing pages with a noarticletext block instead of
	// an HTTP 404 when served through the browser path.
	if strings.Contains(html, "noarticletext") {
		return "", fmt.Errorf("page %q: %w", title, ErrNotFound)
	}

	return html, nil
}

// waitTurn enforces the minimum interval between fetches. FetchPage can be
// called from concurrent HTTP handlers, so the check-and-set on lastRequest
// is guarded; each caller reserves its slot before sleeping so the lock is
// never held across the wait.
func (b *Browser) waitTurn() {
	b.mu.Lock()
	now := time.Now()
	next := b.lastRequest.Add(b.interval)
	if b.lastRequest.IsZero() || !now.Before(next) {
		b.lastRequest = now
		b.mu.Unlock()
		return
	}
	b.lastRequest = next
	b.mu.Unlock()

	wait := next.Sub(now)
	b.logger.Debug().Dur("wait", wait).Msg("Rate limiting browser fetch")
	time.Sleep(wait)
}

func (b *Browser) render(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.timeout)
	defer cancel()

	// Keep the parent ctx cancellation working alongside the browser ctx.
	go func() {
		<-ctx.Done()
		cancel()
	}()

	pageURL := b.baseURL + url.PathEscape(title)

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("chromedp: %w", err)}
	}

	if htmlContent == "" {
		return "", &TransportError{Err: fmt.Errorf("empty page content for %q", title)}
	}

	return htmlContent, nil
}
