package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStubBrowser returns a browser whose rendering is replaced by a stub so
// tests exercise the fetch path without a real headless browser.
func newStubBrowser(t *testing.T, render func(ctx context.Context, title string) (string, error)) *Browser {
	t.Helper()
	browser, err := NewBrowser("https://example.org/", time.Second)
	require.NoError(t, err)
	t.Cleanup(browser.Close)

	browser.interval = time.Millisecond
	browser.renderPage = render
	return browser
}

func TestBrowserFetchPageConcurrent(t *testing.T) {
	browser := newStubBrowser(t, func(_ context.Context, _ string) (string, error) {
		return "<html><body><h1>Bulbizarre</h1></body></html>", nil
	})

	// Concurrent callers share the rate-limit state; run under -race.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			html, err := browser.FetchPage(context.Background(), "Bulbizarre")
			assert.NoError(t, err)
			assert.Contains(t, html, "Bulbizarre")
		}()
	}
	wg.Wait()
}

func TestBrowserFetchPageSpacesRequests(t *testing.T) {
	browser := newStubBrowser(t, func(_ context.Context, _ string) (string, error) {
		return "<html></html>", nil
	})
	browser.interval = 20 * time.Millisecond

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := browser.FetchPage(context.Background(), "Pikachu")
		require.NoError(t, err)
	}

	// Three fetches need at least two full intervals between them.
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestBrowserFetchPageMissingArticle(t *testing.T) {
	browser := newStubBrowser(t, func(_ context.Context, _ string) (string, error) {
		return `<html><body><div class="noarticletext">rien ici</div></body></html>`, nil
	})

	_, err := browser.FetchPage(context.Background(), "Missingno")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewBrowserNormalizesBaseURL(t *testing.T) {
	browser, err := NewBrowser("https://example.org", time.Second)
	require.NoError(t, err)
	defer browser.Close()

	assert.Equal(t, "https://example.org/", browser.baseURL)
}
