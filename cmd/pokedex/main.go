package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/fortuna/pokedex/internal/config"
	"github.com/fortuna/pokedex/internal/fetch"
	"github.com/fortuna/pokedex/internal/logging"
	"github.com/fortuna/pokedex/internal/scrape"
)

var errEmptyName = errors.New("pokemon name must not be empty")

// Exit codes by failure kind.
const (
	exitOK         = 0
	exitInternal   = 1
	exitValidation = 2
	exitTransport  = 3
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(exitInternal)
	}

	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}

	os.Exit(exitOK)
}

// exitCode maps the error taxonomy onto distinct process exit codes:
// validation errors, upstream fetch failures and everything else.
func exitCode(err error) int {
	var transportErr *fetch.TransportError
	switch {
	case errors.Is(err, scrape.ErrInvalidGeneration), errors.Is(err, errEmptyName):
		return exitValidation
	case errors.Is(err, fetch.ErrNotFound), errors.As(err, &transportErr):
		return exitTransport
	default:
		return exitInternal
	}
}

// newFetcher builds the page fetcher selected by configuration.
func newFetcher(cfg config.Config) (fetch.Fetcher, func(), error) {
	if cfg.FetchMode == "browser" {
		browser, err := fetch.NewBrowser(cfg.BaseURL, cfg.FetchTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("start browser fetcher: %w", err)
		}
		return browser, browser.Close, nil
	}

	client := fetch.NewClient(cfg.BaseURL, cfg.FetchTimeout)
	return client, func() {}, nil
}

func init() {
	log.Logger = log.With().Str("service", "pokedex").Logger()
}
