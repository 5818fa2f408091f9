package dataset

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fortuna/pokedex/internal/fetch"
	"github.com/fortuna/pokedex/internal/scrape"
)

// Reporter receives progress callbacks during a dataset build. A nil
// Reporter disables reporting.
type Reporter interface {
	OnRosterLoaded(generation, size int)
	OnPokemon(name string, index, total int)
	OnPokemonError(name string, err error)
}

// Builder drives the roster loop: listing page → per-Pokémon fetch/parse →
// classification → sink.
type Builder struct {
	fetcher     fetch.Fetcher
	generations scrape.Generations
	logger      zerolog.Logger
}

// NewBuilder creates a builder over the given fetcher and generation table.
func NewBuilder(fetcher fetch.Fetcher, generations scrape.Generations) *Builder {
	return &Builder{
		fetcher:     fetcher,
		generations: generations,
		logger:      log.With().Str("component", "dataset").Logger(),
	}
}

// Roster fetches and parses the listing page for a generation. The
// generation is validated before any network access.
func (b *Builder) Roster(ctx context.Context, generation int) ([]string, error) {
	title, err := b.generations.PageTitle(generation)
	if err != nil {
		return nil, err
	}

	html, err := b.fetcher.FetchPage(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("fetch generation %d listing: %w", generation, err)
	}

	roster, err := scrape.ParseRoster(html)
	if err != nil {
		return nil, fmt.Errorf("parse generation %d listing: %w", generation, err)
	}
	return roster, nil
}

// Build writes one row per roster member that fetches and parses cleanly and
// returns the number of rows written. Rows follow roster order. A failure on
// an individual member is reported and skipped so one bad page does not
// abort the run; a failure on the listing itself aborts and propagates.
func (b *Builder) Build(ctx context.Context, generation int, sink RecordSink, reporter Reporter) (int, error) {
	roster, err := b.Roster(ctx, generation)
	if err != nil {
		return 0, err
	}
	if reporter != nil {
		reporter.OnRosterLoaded(generation, len(roster))
	}

	if err := sink.WriteHeader(); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	written := 0
	total := len(roster)
	for idx, name := range roster {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if reporter != nil {
			reporter.OnPokemon(name, idx+1, total)
		}

		record, err := b.Lookup(ctx, name)
		if err != nil {
			b.logger.Warn().Err(err).Str("pokemon", name).Msg("Skipping roster member")
			if reporter != nil {
				reporter.OnPokemonError(name, err)
			}
			continue
		}

		row := Row{Pokemon: record, Tier: Classify(record.Stats)}
		if err := sink.Write(row); err != nil {
			return written, fmt.Errorf("write row for %s: %w", name, err)
		}
		written++
	}

	b.logger.Info().Int("generation", generation).Int("rows", written).Int("roster", total).Msg("Dataset built")
	return written, nil
}

// Lookup fetches and parses a single Pokémon page. Failures propagate
// unmodified so the caller can distinguish missing pages from transport or
// markup problems.
func (b *Builder) Lookup(ctx context.Context, name string) (scrape.Pokemon, error) {
	html, err := b.fetcher.FetchPage(ctx, name)
	if err != nil {
		return scrape.Pokemon{}, err
	}

	record, err := scrape.ParsePokemon(html)
	if err != nil {
		return scrape.Pokemon{}, fmt.Errorf("parse page for %s: %w", name, err)
	}
	return record, nil
}
