// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sourcecheck/internal/planner"
)

var planCmd = &cobra.Command{
	Use:   "plan [question]",
	Short: "Show the search queries planned for a question",
	Long: `Plan prints the search queries the pipeline would run for the question,
one per line: the planned (or templated fallback) queries first, then the
simplified broad query and the generic fallbacks used when earlier
queries under-deliver.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg := loadConfig(cmd)
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pl := planner.New(newCompleter(cfg.Scoring.AIConfig, logger), logger)

	fmt.Fprintln(os.Stdout, "Planned queries:")
	for _, q := range pl.Plan(context.Background(), query) {
		fmt.Fprintf(os.Stdout, "  %s\n", q)
	}

	if simplified := planner.Simplify(query); simplified != "" && simplified != query {
		fmt.Fprintln(os.Stdout, "Simplified:")
		fmt.Fprintf(os.Stdout, "  %s\n", simplified)
	}

	fmt.Fprintln(os.Stdout, "Generic fallbacks:")
	for _, q := range planner.GenericFallbacks(query) {
		fmt.Fprintf(os.Stdout, "  %s\n", q)
	}
	return nil
}
