// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sourcecheck/internal/verify"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [url]",
	Short: "Verify that a single URL is live and citable",
	Long: `Verify checks one URL the way the pipeline does: syntax and scheme,
a HEAD request with browser-like headers, a ranged GET fallback when the
server rejects HEAD, and a best-effort page title fetch. The outcome
reports the final URL after redirects and whether it resolves to a
homepage rather than a specific page.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Bool("json", false, "output the outcome as JSON")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	outcome := verify.NewVerifier(cfg.Verify).Verify(context.Background(), args[0])

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcome); err != nil {
			return err
		}
	} else {
		printOutcome(outcome)
	}

	if !outcome.IsValid {
		return fmt.Errorf("URL failed verification")
	}
	return nil
}

func printOutcome(o types.VerificationOutcome) {
	fmt.Fprintf(os.Stdout, "Status:    %s\n", o.Status)
	fmt.Fprintf(os.Stdout, "Final URL: %s\n", o.FinalURL)
	fmt.Fprintf(os.Stdout, "Domain:    %s\n", o.Domain)
	if o.Title != "" {
		fmt.Fprintf(os.Stdout, "Title:     %s\n", o.Title)
	}
	if o.ContentType != "" {
		fmt.Fprintf(os.Stdout, "Type:      %s\n", o.ContentType)
	}
	if verify.IsHomepage(o.FinalURL) {
		fmt.Fprintln(os.Stdout, "Note:      resolves to a homepage; the pipeline would reject it")
	}
}
