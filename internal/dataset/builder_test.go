package dataset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/pokedex/internal/fetch"
	"github.com/fortuna/pokedex/internal/scrape"
)

// stubFetcher serves canned markup by page title.
type stubFetcher struct {
	pages map[string]string
	fail  map[string]error
	calls []string
}

func (f *stubFetcher) FetchPage(_ context.Context, title string) (string, error) {
	f.calls = append(f.calls, title)
	if err, ok := f.fail[title]; ok {
		return "", err
	}
	html, ok := f.pages[title]
	if !ok {
		return "", fmt.Errorf("page %q: %w", title, fetch.ErrNotFound)
	}
	return html, nil
}

// memorySink collects rows instead of serializing them.
type memorySink struct {
	header bool
	rows   []Row
}

func (s *memorySink) WriteHeader() error {
	s.header = true
	return nil
}

func (s *memorySink) Write(row Row) error {
	s.rows = append(s.rows, row)
	return nil
}

const gen1Listing = "Liste_des_Pokémon_de_la_première_génération"

func listingPage(names ...string) string {
	var rows strings.Builder
	rows.WriteString(`<tr><th>N°</th><th>Sprite</th><th>Nom</th></tr>`)
	for _, name := range names {
		fmt.Fprintf(&rows, `<tr><td>1</td><td></td><td><a title=%q>%s</a></td></tr>`, name, name)
	}
	return `<html><body><table class="tableaustandard">` + rows.String() + `</table></body></html>`
}

func pokemonPage(name string, stat int) string {
	return fmt.Sprintf(`<html><body><h1>%s</h1>
<table>
  <tr><th>Types</th><td><a title="Plante (type)">Plante</a></td></tr>
  <tr><th>Taille</th><td>1 m</td></tr>
  <tr><th>Poids</th><td>10 kg</td></tr>
</table>
<h2><span id="Statistiques">Statistiques</span></h2>
<table class="tableaustandard">
  <tr><td><a title="Statistique">PV</a></td><td>%d</td></tr>
</table>
</body></html>`, name, stat)
}

func TestBuildSkipsFailedMembers(t *testing.T) {
	names := []string{"Bulbizarre", "Herbizarre", "Florizarre", "Salamèche", "Reptincel"}
	fetcher := &stubFetcher{
		pages: map[string]string{gen1Listing: listingPage(names...)},
		fail: map[string]error{
			"Florizarre": &fetch.TransportError{StatusCode: 500},
		},
	}
	for _, name := range names {
		if name == "Florizarre" {
			continue
		}
		fetcher.pages[name] = pokemonPage(name, 45)
	}

	sink := &memorySink{}
	builder := NewBuilder(fetcher, scrape.DefaultGenerations())

	count, err := builder.Build(context.Background(), 1, sink, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, count)
	assert.True(t, sink.header)
	require.Len(t, sink.rows, 4)

	// Roster order is preserved, the failed member is absent.
	got := make([]string, len(sink.rows))
	for i, row := range sink.rows {
		got[i] = row.Pokemon.Name
	}
	assert.Equal(t, []string{"Bulbizarre", "Herbizarre", "Salamèche", "Reptincel"}, got)
	assert.Equal(t, TierPokeball, sink.rows[0].Tier)
}

func TestBuildInvalidGenerationBeforeAnyFetch(t *testing.T) {
	fetcher := &stubFetcher{}
	builder := NewBuilder(fetcher, scrape.DefaultGenerations())

	for _, generation := range []int{0, 10} {
		_, err := builder.Build(context.Background(), generation, &memorySink{}, nil)
		assert.True(t, errors.Is(err, scrape.ErrInvalidGeneration), "generation %d", generation)
	}
	assert.Empty(t, fetcher.calls, "no network access for invalid generations")
}

func TestBuildListingFailureAborts(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
		wantErr error
	}{
		{
			name:    "listing fetch fails",
			fetcher: &stubFetcher{fail: map[string]error{gen1Listing: &fetch.TransportError{StatusCode: 503}}},
		},
		{
			name:    "listing has no roster table",
			fetcher: &stubFetcher{pages: map[string]string{gen1Listing: "<html><body></body></html>"}},
			wantErr: scrape.ErrStructureNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder(tt.fetcher, scrape.DefaultGenerations())
			_, err := builder.Build(context.Background(), 1, &memorySink{}, nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
		})
	}
}

func TestBuildHonorsContextCancellation(t *testing.T) {
	fetcher := &stubFetcher{
		pages: map[string]string{gen1Listing: listingPage("Bulbizarre")},
	}
	builder := NewBuilder(fetcher, scrape.DefaultGenerations())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := builder.Build(ctx, 1, &memorySink{}, nil)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	fetcher := &stubFetcher{
		pages: map[string]string{"Bulbizarre": pokemonPage("Bulbizarre", 45)},
	}
	builder := NewBuilder(fetcher, scrape.DefaultGenerations())

	record, err := builder.Lookup(context.Background(), "Bulbizarre")
	require.NoError(t, err)
	assert.Equal(t, "Bulbizarre", record.Name)
	assert.Equal(t, "Plante", record.Types)

	_, err = builder.Lookup(context.Background(), "Missingno")
	assert.True(t, errors.Is(err, fetch.ErrNotFound))
}
