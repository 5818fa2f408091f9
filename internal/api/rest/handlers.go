package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fortuna/pokedex/internal/dataset"
	"github.com/fortuna/pokedex/internal/fetch"
	"github.com/fortuna/pokedex/internal/scrape"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	builder   *dataset.Builder
	outputDir string
}

// NewHandler creates a new handler
func NewHandler(builder *dataset.Builder, outputDir string) *Handler {
	return &Handler{
		builder:   builder,
		outputDir: outputDir,
	}
}

// pokemonResponse is the JSON form of a looked-up record.
type pokemonResponse struct {
	Name   string         `json:"name"`
	Types  string         `json:"types"`
	Height string         `json:"height"`
	Weight string         `json:"weight"`
	Stats  map[string]int `json:"stats"`
	Tier   string         `json:"tier"`
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pokedex",
	})
}

// GetPokemon looks up a single Pokémon page and returns the parsed record
// with its derived tier.
func (h *Handler) GetPokemon(w http.ResponseWriter, r *http.Request) {
	name := scrape.Capitalize(mux.Vars(r)["name"])

	record, err := h.builder.Lookup(r.Context(), name)
	if err != nil {
		respondError(w, statusForError(err), "Failed to look up Pokémon", err)
		return
	}

	respondJSON(w, http.StatusOK, pokemonResponse{
		Name:   record.Name,
		Types:  record.Types,
		Height: record.Height,
		Weight: record.Weight,
		Stats:  record.Stats,
		Tier:   dataset.Classify(record.Stats).String(),
	})
}

// GetRoster returns the ordered roster for a generation.
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	generation, err := parseGeneration(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid generation", err)
		return
	}

	roster, err := h.builder.Roster(r.Context(), generation)
	if err != nil {
		respondError(w, statusForError(err), "Failed to fetch roster", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generation": generation,
		"count":      len(roster),
		"roster":     roster,
	})
}

// BuildDataset builds the CSV dataset for a generation and reports the
// output path and row count.
func (h *Handler) BuildDataset(w http.ResponseWriter, r *http.Request) {
	generation, err := parseGeneration(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid generation", err)
		return
	}

	if err := os.MkdirAll(h.outputDir, 0o755); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create output directory", err)
		return
	}

	// Build into a temp file and rename into place, so concurrent builds of
	// the same generation never interleave rows in the published file.
	tmp, err := os.CreateTemp(h.outputDir, fmt.Sprintf(".pokemon_GEN%d-*.csv", generation))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create output file", err)
		return
	}
	defer os.Remove(tmp.Name())

	sink := dataset.NewCSVSink(tmp)
	count, err := h.builder.Build(r.Context(), generation, sink, nil)
	if err != nil {
		tmp.Close()
		respondError(w, statusForError(err), "Failed to build dataset", err)
		return
	}
	if err := sink.Flush(); err != nil {
		tmp.Close()
		respondError(w, http.StatusInternalServerError, "Failed to flush dataset", err)
		return
	}
	if err := tmp.Close(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to flush dataset", err)
		return
	}

	path := filepath.Join(h.outputDir, fmt.Sprintf("pokemon_GEN%d.csv", generation))
	if err := os.Rename(tmp.Name(), path); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to publish dataset", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"generation": generation,
		"rows":       count,
		"path":       path,
	})
}

func parseGeneration(r *http.Request) (int, error) {
	raw := mux.Vars(r)["generation"]
	generation, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("generation %q is not a number: %w", raw, scrape.ErrInvalidGeneration)
	}
	return generation, nil
}

// statusForError maps the domain error taxonomy onto HTTP statuses. Markup
// drift and transport failures both surface as 502: in either case the
// upstream wiki, not this service, is the problem.
func statusForError(err error) int {
	var transportErr *fetch.TransportError
	switch {
	case errors.Is(err, scrape.ErrInvalidGeneration):
		return http.StatusBadRequest
	case errors.Is(err, fetch.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scrape.ErrStructureNotFound),
		errors.Is(err, scrape.ErrMalformedPage),
		errors.As(err, &transportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}
