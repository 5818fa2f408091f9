// Package scrape extracts typed Pokémon records from Poképédia wiki markup.
//
// The wiki's pages are not a stable schema: fields live in labeled infobox
// rows and loosely structured tables. The parsers here locate data through
// structural markers (the standard table class, label cells, section
// anchors) and degrade to absent values wherever the markup allows it.
package scrape

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// standardTableSelector matches the wiki's standard-layout tables, the one
// stable structural marker across listing and stats tables.
const standardTableSelector = "table.tableaustandard"

// Generations maps generation numbers to their listing page titles.
// The table is fixed: the wiki has exactly nine generation listings.
type Generations struct {
	pages map[int]string
}

// DefaultGenerations returns the Poképédia listing page table.
func DefaultGenerations() Generations {
	return Generations{pages: map[int]string{
		1: "Liste_des_Pokémon_de_la_première_génération",
		2: "Liste_des_Pokémon_de_la_deuxième_génération",
		3: "Liste_des_Pokémon_de_la_troisième_génération",
		4: "Liste_des_Pokémon_de_la_quatrième_génération",
		5: "Liste_des_Pokémon_de_la_cinquième_génération",
		6: "Liste_des_Pokémon_de_la_sixième_génération",
		7: "Liste_des_Pokémon_de_la_septième_génération",
		8: "Liste_des_Pokémon_de_la_huitième_génération",
		9: "Liste_des_Pokémon_de_la_neuvième_génération",
	}}
}

// PageTitle returns the listing page title for a generation, or
// ErrInvalidGeneration for numbers outside the known set.
func (g Generations) PageTitle(generation int) (string, error) {
	title, ok := g.pages[generation]
	if !ok {
		return "", fmt.Errorf("generation %d: %w", generation, ErrInvalidGeneration)
	}
	return title, nil
}

// ParseRoster extracts the ordered Pokémon display names from a generation
// listing page. The roster lives in the first standard-layout table; rows
// with fewer than three cells or no titled link in the third cell are
// decoration and are skipped. An empty roster is a valid result.
func ParseRoster(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse listing markup: %w", err)
	}

	table := doc.Find(standardTableSelector).First()
	if table.Length() == 0 {
		return nil, ErrStructureNotFound
	}

	var names []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}
		link := cells.Eq(2).Find("a[title]").First()
		title, ok := link.Attr("title")
		if !ok {
			return
		}
		name := strings.TrimSpace(title)
		if name == "" {
			return
		}
		names = append(names, Capitalize(name))
	})

	return names, nil
}

// Capitalize uppercases the first grapheme of a name using French casing
// rules, matching the site's display convention. The remainder is left
// untouched so interior capitals (e.g. "Ho-Oh") survive.
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return name
	}
	// Casers are stateful, so build one per call instead of sharing.
	return cases.Upper(language.French).String(name[:size]) + name[size:]
}
