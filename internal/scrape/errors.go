package scrape

import "errors"

// Errors surfaced by the parsers. Structure errors mean the wiki markup has
// drifted from the layout family the parsers target.
var (
	// ErrInvalidGeneration is returned for generation numbers outside 1..9.
	ErrInvalidGeneration = errors.New("invalid generation")

	// ErrStructureNotFound is returned when a listing page has no
	// recognizable roster table.
	ErrStructureNotFound = errors.New("expected table structure not found")

	// ErrMalformedPage is returned when a Pokémon page is missing a
	// mandatory field or carries an unparseable value.
	ErrMalformedPage = errors.New("page markup does not match expected shape")
)
