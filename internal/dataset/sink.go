package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fortuna/pokedex/internal/scrape"
)

// Header is the fixed column order of the dataset output.
var Header = []string{"name", "types", "height", "weight", "stats", "tier"}

// Row is one output record: a scraped Pokémon plus its derived tier.
type Row struct {
	Pokemon scrape.Pokemon
	Tier    Tier
}

// RecordSink receives dataset rows. Implementations own serialization and
// the underlying storage.
type RecordSink interface {
	WriteHeader() error
	Write(Row) error
}

// CSVSink writes rows as UTF-8 CSV in the Header column order.
type CSVSink struct {
	w *csv.Writer
}

// NewCSVSink wraps the writer; call Flush when done.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

// WriteHeader writes the fixed header row.
func (s *CSVSink) WriteHeader() error {
	return s.w.Write(Header)
}

// Write appends one dataset row.
func (s *CSVSink) Write(row Row) error {
	return s.w.Write([]string{
		row.Pokemon.Name,
		row.Pokemon.Types,
		row.Pokemon.Height,
		row.Pokemon.Weight,
		EncodeStats(row.Pokemon.Stats),
		row.Tier.String(),
	})
}

// Flush writes buffered rows to the underlying writer.
func (s *CSVSink) Flush() error {
	s.w.Flush()
	return s.w.Error()
}

// EncodeStats serializes a stat block as "name:value" pairs joined with ";",
// sorted by stat name so output is deterministic. The French stat names on
// the wiki contain neither colons nor semicolons, so the encoding
// round-trips through DecodeStats.
func EncodeStats(stats map[string]int) string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = fmt.Sprintf("%s:%d", name, stats[name])
	}
	return strings.Join(pairs, ";")
}

// DecodeStats parses the EncodeStats form back into a stat block.
func DecodeStats(encoded string) (map[string]int, error) {
	stats := map[string]int{}
	if encoded == "" {
		return stats, nil
	}
	for _, pair := range strings.Split(encoded, ";") {
		name, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("malformed stat pair %q", pair)
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", name, err)
		}
		stats[name] = value
	}
	return stats, nil
}
