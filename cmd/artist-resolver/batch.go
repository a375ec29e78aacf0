// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/artist-resolver/internal/resolve"
)

var batchCmd = &cobra.Command{
	Use:   "batch [terms...]",
	Short: "Resolve a list of search terms into one row per term",
	Long: `Batch resolves each term in order and prints one row per term, in
input order. A term that fails to resolve, for any reason, yields a row
with null fields; the rest of the batch continues. The batch itself
never fails.

Terms come from positional arguments, a --terms-file (one term per line,
blank lines and # comments skipped), or both. Results can be rendered as
a table, JSON, or CSV, and saved to a YAML result file with --out.`,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	terms := args

	if termsFile, _ := cmd.Flags().GetString("terms-file"); termsFile != "" {
		f, err := os.Open(termsFile)
		if err != nil {
			return fmt.Errorf("opening terms file: %w", err)
		}
		fileTerms, err := resolve.ParseTerms(f)
		f.Close()
		if err != nil {
			return err
		}
		terms = append(terms, fileTerms...)
	}

	if len(terms) == 0 {
		return fmt.Errorf("no terms: pass terms as arguments or use --terms-file")
	}

	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	rows := client.ResolveArtists(context.Background(), terms)

	if recordRun, _ := cmd.Flags().GetBool("record"); recordRun {
		if err := recordHistory(cmd, rows); err != nil {
			return err
		}
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := resolve.WriteResultFile(out, terms, rows, cfg); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Wrote", out)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	csvOutput, _ := cmd.Flags().GetBool("csv")
	switch {
	case jsonOutput:
		return resolve.FormatJSON(rows, os.Stdout)
	case csvOutput:
		return resolve.FormatCSV(rows, os.Stdout)
	default:
		resolve.FormatTable(rows, os.Stdout)
		return nil
	}
}

func init() {
	batchCmd.Flags().String("terms-file", "", "file with one search term per line")
	batchCmd.Flags().Int("per-page", 0, "search hits requested per query")
	batchCmd.Flags().Int("max-retries", 0, "retry budget for failed requests")
	batchCmd.Flags().Bool("json", false, "output rows as JSON")
	batchCmd.Flags().Bool("csv", false, "output rows as CSV")
	batchCmd.Flags().String("out", "", "save the run to a YAML result file")
	batchCmd.Flags().Bool("record", false, "record the run in the resolution history")

	rootCmd.AddCommand(batchCmd)
}
