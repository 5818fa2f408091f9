package scrape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// typeSuffix is appended by the wiki to type page titles ("Feu (type)").
const typeSuffix = " (type)"

// Pokemon is the structured record extracted from one wiki page. Built once
// per page, never mutated afterwards.
type Pokemon struct {
	// Name is the page heading. Always non-empty; parsing fails without it.
	Name string

	// Types joins the type names with "-" ("Feu-Vol"). Empty when the
	// infobox has no type row.
	Types string

	// Height and Weight are free-text, locale-formatted and unit-bearing
	// ("0,7 m", "6,9 kg").
	Height string
	Weight string

	// Stats maps French stat display names to base values. Empty when the
	// page has no stats section.
	Stats map[string]int
}

// ParsePokemon extracts a Pokemon record from a Pokémon page.
//
// Name, height and weight are mandatory: a page missing any of them fails
// with ErrMalformedPage (the wiki always carries the Taille/Poids rows, so
// their absence means the layout drifted). Types and stats degrade to empty
// values when their markup is absent.
func ParsePokemon(html string) (Pokemon, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Pokemon{}, fmt.Errorf("parse page markup: %w", err)
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		return Pokemon{}, fmt.Errorf("missing page heading: %w", ErrMalformedPage)
	}

	p := Pokemon{Name: name}

	if cell := findLabeledCell(doc, "Types", "Type"); cell != nil {
		p.Types = parseTypes(cell)
	}

	if p.Height, err = requiredField(doc, "Taille"); err != nil {
		return Pokemon{}, err
	}
	if p.Weight, err = requiredField(doc, "Poids"); err != nil {
		return Pokemon{}, err
	}

	if p.Stats, err = parseStats(doc); err != nil {
		return Pokemon{}, err
	}

	return p, nil
}

// findLabeledCell locates the data cell adjacent to a header cell whose
// trimmed text exactly matches one of the labels. Returns nil when no label
// matches, letting the caller choose between failing and defaulting.
func findLabeledCell(doc *goquery.Document, labels ...string) *goquery.Selection {
	var cell *goquery.Selection
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		text := strings.TrimSpace(th.Text())
		for _, label := range labels {
			if text != label {
				continue
			}
			if td := th.NextAllFiltered("td").First(); td.Length() > 0 {
				cell = td
			} else if td := th.Parent().NextAll().Find("td").First(); td.Length() > 0 {
				// Some infobox variants put the value on the following row.
				cell = td
			}
			return false
		}
		return true
	})
	return cell
}

func requiredField(doc *goquery.Document, label string) (string, error) {
	cell := findLabeledCell(doc, label)
	if cell == nil {
		return "", fmt.Errorf("missing %q row: %w", label, ErrMalformedPage)
	}
	return strings.TrimSpace(cell.Text()), nil
}

func parseTypes(cell *goquery.Selection) string {
	var types []string
	cell.Find("a[title]").Each(func(_ int, a *goquery.Selection) {
		title, _ := a.Attr("title")
		types = append(types, strings.TrimSuffix(title, typeSuffix))
	})
	return strings.Join(types, "-")
}

// parseStats reads the base stats table following the "Statistiques" section
// anchor. Rows are identified by their "Statistique" marker link; anything
// else in the table (headers, separators) is skipped. A stat row whose value
// cell is not an integer fails the whole record: partial stat blocks would
// silently skew the derived classification.
func parseStats(doc *goquery.Document) (map[string]int, error) {
	stats := map[string]int{}

	anchor := doc.Find("span#Statistiques").First()
	if anchor.Length() == 0 {
		return stats, nil
	}

	table := anchor.Closest("h2, h3").NextAllFiltered(standardTableSelector).First()
	if table.Length() == 0 {
		table = anchor.Parent().NextAllFiltered(standardTableSelector).First()
	}
	if table.Length() == 0 {
		return stats, nil
	}

	var parseErr error
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		link := row.Find(`a[title="Statistique"]`).First()
		if link.Length() == 0 {
			return true
		}
		name := strings.TrimSpace(link.Text())

		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		raw := strings.TrimSpace(cells.Eq(1).Text())
		value, err := strconv.Atoi(raw)
		if err != nil {
			parseErr = fmt.Errorf("stat %q has non-integer value %q: %w", name, raw, ErrMalformedPage)
			return false
		}
		stats[name] = value
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return stats, nil
}
