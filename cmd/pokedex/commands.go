package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/pokedex/internal/api/rest"
	"github.com/fortuna/pokedex/internal/config"
	"github.com/fortuna/pokedex/internal/dataset"
	"github.com/fortuna/pokedex/internal/scrape"
)

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "pokedex",
		Short:         "Scrape Pokémon data from Poképédia into per-generation CSV datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newBuildCmd(cfg))
	root.AddCommand(newLookupCmd(cfg))
	root.AddCommand(newServeCmd(cfg))

	return root
}

func newBuildCmd(cfg config.Config) *cobra.Command {
	var generation int
	var outputDir string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the CSV dataset for one generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("generation") {
				g, err := promptGeneration()
				if err != nil {
					return err
				}
				generation = g
			}

			fetcher, closeFetcher, err := newFetcher(cfg)
			if err != nil {
				return err
			}
			defer closeFetcher()

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			path := filepath.Join(outputDir, fmt.Sprintf("pokemon_GEN%d.csv", generation))
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer file.Close()

			sink := dataset.NewCSVSink(file)
			builder := dataset.NewBuilder(fetcher, scrape.DefaultGenerations())

			count, err := builder.Build(cmd.Context(), generation, sink, consoleReporter{})
			if err != nil {
				return err
			}
			if err := sink.Flush(); err != nil {
				return fmt.Errorf("flush %s: %w", path, err)
			}

			fmt.Printf("Dataset created for generation %d: %s (%d rows)\n", generation, path, count)
			return nil
		},
	}

	cmd.Flags().IntVarP(&generation, "generation", "g", 0, "generation number (1-9)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", cfg.OutputDir, "directory for the CSV file")

	return cmd
}

func newLookupCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [name]",
		Short: "Look up one Pokémon and print its record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = strings.TrimSpace(args[0])
			} else {
				n, err := promptString("Enter the name of the Pokémon (ex: Bulbizarre): ")
				if err != nil {
					return err
				}
				name = n
			}
			if name == "" {
				return errEmptyName
			}
			name = scrape.Capitalize(name)

			fetcher, closeFetcher, err := newFetcher(cfg)
			if err != nil {
				return err
			}
			defer closeFetcher()

			builder := dataset.NewBuilder(fetcher, scrape.DefaultGenerations())
			record, err := builder.Lookup(cmd.Context(), name)
			if err != nil {
				return err
			}

			fmt.Printf("Name: %s\n", record.Name)
			fmt.Printf("Types: %s\n", record.Types)
			fmt.Printf("Height: %s\n", record.Height)
			fmt.Printf("Weight: %s\n", record.Weight)
			fmt.Println("Stats:")
			for _, stat := range sortedStatNames(record.Stats) {
				fmt.Printf("  %s: %d\n", stat, record.Stats[stat])
			}
			return nil
		},
	}
}

func newServeCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookup and dataset-build API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher, closeFetcher, err := newFetcher(cfg)
			if err != nil {
				return err
			}
			defer closeFetcher()

			builder := dataset.NewBuilder(fetcher, scrape.DefaultGenerations())
			server := rest.NewServer(cfg.RESTPort, builder, cfg.OutputDir)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			fmt.Printf("Listening on :%s\n", cfg.RESTPort)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigChan:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

// consoleReporter mirrors the reference's per-Pokémon progress output.
type consoleReporter struct{}

func (consoleReporter) OnRosterLoaded(generation, size int) {
	fmt.Printf("Generation %d roster: %d Pokémon\n", generation, size)
}

func (consoleReporter) OnPokemon(name string, index, total int) {
	fmt.Printf("Fetching data for Pokémon: %s (%d/%d)\n", name, index, total)
}

func (consoleReporter) OnPokemonError(name string, err error) {
	fmt.Printf("Error for Pokémon %s: %v\n", name, err)
}

func promptGeneration() (int, error) {
	raw, err := promptString("Enter the generation number (1-9): ")
	if err != nil {
		return 0, err
	}
	generation, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("generation %q is not a number: %w", raw, scrape.ErrInvalidGeneration)
	}
	return generation, nil
}

func promptString(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func sortedStatNames(stats map[string]int) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
