package scrape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><body>
<table class="tableaustandard">
  <tr><th>N°</th><th>Sprite</th><th>Nom</th></tr>
  <tr><th colspan="3">Première génération</th></tr>
  <tr><td>001</td><td><img/></td><td><a title="bulbizarre">Bulbizarre</a></td></tr>
  <tr><td>002</td><td><img/></td><td><a title="herbizarre">Herbizarre</a></td></tr>
  <tr><td>003</td><td><img/></td><td><a title="évoli">Évoli</a></td></tr>
</table>
</body></html>`

func TestParseRoster(t *testing.T) {
	names, err := ParseRoster(listingHTML)
	require.NoError(t, err)

	// Header rows are skipped, order preserved, first letter uppercased.
	assert.Equal(t, []string{"Bulbizarre", "Herbizarre", "Évoli"}, names)
}

func TestParseRosterSkipsMalformedRows(t *testing.T) {
	html := `<html><body><table class="tableaustandard">
	  <tr><td>1</td><td>2</td></tr>
	  <tr><td>1</td><td>2</td><td>no link here</td></tr>
	  <tr><td>1</td><td>2</td><td><a href="/x">untitled link</a></td></tr>
	  <tr><td>1</td><td>2</td><td><a title="pikachu">Pikachu</a></td></tr>
	</table></body></html>`

	names, err := ParseRoster(html)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pikachu"}, names)
}

func TestParseRosterEmptyTable(t *testing.T) {
	html := `<html><body><table class="tableaustandard"><tr><th>Nom</th></tr></table></body></html>`

	names, err := ParseRoster(html)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestParseRosterNoTable(t *testing.T) {
	_, err := ParseRoster(`<html><body><p>rien</p></body></html>`)
	assert.True(t, errors.Is(err, ErrStructureNotFound))
}

func TestGenerationsPageTitle(t *testing.T) {
	generations := DefaultGenerations()

	for g := 1; g <= 9; g++ {
		title, err := generations.PageTitle(g)
		require.NoError(t, err, "generation %d", g)
		assert.NotEmpty(t, title)
	}

	for _, g := range []int{0, 10, -1, 42} {
		_, err := generations.PageTitle(g)
		assert.True(t, errors.Is(err, ErrInvalidGeneration), "generation %d", g)
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bulbizarre", "Bulbizarre"},
		{"évoli", "Évoli"},
		{"Pikachu", "Pikachu"},
		{"ho-Oh", "Ho-Oh"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.in), "Capitalize(%q)", tt.in)
	}
}
