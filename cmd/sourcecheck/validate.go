// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sourcecheck/internal/citecheck"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit an answer's citations against its source list",
	Long: `Validate checks a generated answer against the sources that produced it:
every inline [Title](URL) citation must point at a listed source, the
answer must cite enough distinct sources, and factual paragraphs must
not go uncited.

The answer is read from --answer (or stdin with "-"); the source list is
a YAML or JSON file of {uri, title} entries, as written by find --json.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("answer", "", "answer text file, or - for stdin (required)")
	validateCmd.Flags().String("sources", "", "source list file, YAML or JSON (required)")
	validateCmd.Flags().Int("min-citations", 0, "minimum distinct citations expected (default 2)")
	validateCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	answerPath, _ := cmd.Flags().GetString("answer")
	sourcesPath, _ := cmd.Flags().GetString("sources")
	if answerPath == "" || sourcesPath == "" {
		return fmt.Errorf("both --answer and --sources are required")
	}

	text, err := readAnswer(answerPath)
	if err != nil {
		return err
	}
	sources, err := readSources(sourcesPath)
	if err != nil {
		return err
	}

	minCitations, _ := cmd.Flags().GetInt("min-citations")
	result := citecheck.Validate(text, sources, minCitations)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printValidation(result)
	}

	if !result.IsValid {
		return fmt.Errorf("answer failed citation audit with %d issue(s)", len(result.Issues))
	}
	return nil
}

func readAnswer(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading answer from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return string(data), nil
}

// readSources parses a source list file. YAML is a superset of JSON, so
// one parser covers both find --json output and hand-written YAML.
func readSources(path string) ([]types.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources: %w", err)
	}
	var sources []types.Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing sources: %w", err)
	}
	return sources, nil
}

func printValidation(r types.CitationValidationResult) {
	fmt.Fprintf(os.Stdout, "Citations: %d distinct across %d source(s)\n",
		r.CitationCount, r.SourceCount)
	if r.MissingSourcesCount > 0 {
		fmt.Fprintf(os.Stdout, "Uncited sources: %d\n", r.MissingSourcesCount)
	}
	if len(r.Issues) == 0 {
		fmt.Fprintln(os.Stdout, "OK: all citations check out")
		return
	}
	fmt.Fprintln(os.Stdout, "Issues:")
	for _, issue := range r.Issues {
		fmt.Fprintf(os.Stdout, "  - %s\n", issue)
	}
}
