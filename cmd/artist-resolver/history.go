// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/artist-resolver/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query recorded resolutions",
	Long: `History queries the local SQLite store of past resolutions recorded
with --record. Filter by search-term or artist-name substring, restrict
to resolved rows, or export everything to YAML.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	term, _ := cmd.Flags().GetString("term")
	artist, _ := cmd.Flags().GetString("artist")
	resolvedOnly, _ := cmd.Flags().GetBool("resolved-only")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	opts := history.QueryOptions{
		Term:         term,
		Artist:       artist,
		ResolvedOnly: resolvedOnly,
		MaxResults:   maxResults,
	}

	if export, _ := cmd.Flags().GetString("export"); export != "" {
		if err := store.ExportYAML(context.Background(), export, opts); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Wrote", export)
		return nil
	}

	results, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-30s  %-10s  %-10s  %s\n",
		"Search Term", "Artist", "ID", "Followers", "Resolved At")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))
	for _, r := range results {
		name, id, followers := "-", "-", "-"
		if r.ArtistName != nil {
			name = *r.ArtistName
		}
		if r.ArtistID != nil {
			id = fmt.Sprintf("%d", *r.ArtistID)
		}
		if r.FollowersCount != nil {
			followers = fmt.Sprintf("%d", *r.FollowersCount)
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-30s  %-10s  %-10s  %s\n",
			r.SearchTerm, name, id, followers, r.ResolvedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func init() {
	historyCmd.Flags().String("term", "", "filter by search-term substring")
	historyCmd.Flags().String("artist", "", "filter by artist-name substring")
	historyCmd.Flags().Bool("resolved-only", false, "only rows that resolved to an artist")
	historyCmd.Flags().Int("max-results", 0, "maximum number of entries to show")
	historyCmd.Flags().Bool("json", false, "output entries as JSON")
	historyCmd.Flags().String("export", "", "export matching entries to a YAML file")

	rootCmd.AddCommand(historyCmd)
}
