// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sourcecheck/pkg/types"
)

// defaultSourceCount is how many sources find returns when --count is
// not given.
const defaultSourceCount = 3

var findCmd = &cobra.Command{
	Use:   "find [question]",
	Short: "Find verified, citable sources for a tax question",
	Long: `Find plans search queries for the question, runs them against the web
search backend, verifies every candidate URL, scores page content for
relevance and authority, and prints a ranked list of citable sources.

Sources that fail verification, resolve to homepages, or score below the
acceptance floors are dropped, never replaced: fewer results than
requested means fewer sources survived.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().Int("count", defaultSourceCount, "maximum number of sources to return")
	findCmd.Flags().Bool("json", false, "output sources as JSON")

	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	count, _ := cmd.Flags().GetInt("count")

	p, _, cleanup, err := buildPipeline(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sources := p.FindSources(context.Background(), query, count)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatSources(sources, jsonOutput); err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources survived verification for %q", query)
	}
	return nil
}

func formatSources(sources []types.Source, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sources)
	}

	if len(sources) == 0 {
		fmt.Println("No sources found.")
		return nil
	}
	for i, src := range sources {
		fmt.Fprintf(os.Stdout, "%d. %s\n   %s\n", i+1, src.Title, src.URI)
	}
	return nil
}
