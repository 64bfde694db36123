// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sourcecheck/internal/answer"
	"github.com/pdiddy/sourcecheck/internal/llm"
)

var answerCmd = &cobra.Command{
	Use:   "answer [question]",
	Short: "Find sources, generate a cited answer, and audit it",
	Long: `Answer runs the full workflow: find verified sources for the question,
stream a grounded answer that cites them inline, then audit the answer's
citations against the source list.

The answer streams to stdout as it is generated; the source list and the
audit report follow. When no sources survive verification, the answer is
generated with an explicit caveat instead of fabricated citations.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnswer,
}

func init() {
	answerCmd.Flags().Int("count", defaultSourceCount, "maximum number of sources to use")

	rootCmd.AddCommand(answerCmd)
}

func runAnswer(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	count, _ := cmd.Flags().GetInt("count")

	cfg := loadConfig(cmd)
	client, err := llm.NewClient(cfg.Generation.AIConfig)
	if err != nil {
		return fmt.Errorf("answer generation requires a generation API key: %w", err)
	}

	p, logger, cleanup, err := buildPipeline(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	sources := p.FindSources(ctx, query, count)

	gen := answer.New(client, cfg.Generation, logger)
	var sb strings.Builder
	err = gen.GenerateStream(ctx, query, sources, func(chunk string) error {
		sb.WriteString(chunk)
		_, werr := os.Stdout.WriteString(chunk)
		return werr
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)

	if len(sources) > 0 {
		fmt.Fprintln(os.Stdout, "\nSources:")
		for i, src := range sources {
			fmt.Fprintf(os.Stdout, "%d. %s\n   %s\n", i+1, src.Title, src.URI)
		}

		result := p.ValidateAnswer(sb.String(), sources)
		fmt.Fprintln(os.Stdout)
		printValidation(result)
		if !result.IsValid {
			return fmt.Errorf("generated answer failed citation audit with %d issue(s)", len(result.Issues))
		}
	}
	return nil
}
