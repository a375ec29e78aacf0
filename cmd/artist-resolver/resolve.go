// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/artist-resolver/internal/history"
	"github.com/pdiddy/artist-resolver/internal/resolve"
	"github.com/pdiddy/artist-resolver/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <term>",
	Short: "Resolve one search term to a Genius artist",
	Long: `Resolve queries the Genius search endpoint for the term, follows the
top hit's primary artist, and prints the artist's name, id, and follower
count. A term with no match prints a row with null fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	record, err := client.ResolveArtist(context.Background(), args[0])
	if err != nil {
		return err
	}
	rows := []types.ResultRow{types.Row(args[0], record)}

	if recordRun, _ := cmd.Flags().GetBool("record"); recordRun {
		if err := recordHistory(cmd, rows); err != nil {
			return err
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return resolve.FormatJSON(rows, os.Stdout)
	}
	resolve.FormatTable(rows, os.Stdout)
	return nil
}

// recordHistory appends rows to the history store.
func recordHistory(cmd *cobra.Command, rows []types.ResultRow) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(context.Background(), rows)
}

func init() {
	resolveCmd.Flags().Int("per-page", 0, "search hits requested per query")
	resolveCmd.Flags().Int("max-retries", 0, "retry budget for failed requests")
	resolveCmd.Flags().Bool("json", false, "output the result as JSON")
	resolveCmd.Flags().Bool("record", false, "record the result in the resolution history")

	rootCmd.AddCommand(resolveCmd)
}
