// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve renders batch resolution results as a table, JSON, or
// CSV, and persists runs to YAML result files.
package resolve

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/artist-resolver/pkg/types"
)

// nullCell is the placeholder rendered for null fields in table output.
const nullCell = "-"

// FormatTable writes rows as a fixed-width four-column table to w.
func FormatTable(rows []types.ResultRow, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No terms resolved.")
		return
	}

	fmt.Fprintf(w, "%-30s  %-30s  %-10s  %s\n",
		"Search Term", "Artist", "ID", "Followers")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	resolved := 0
	for _, r := range rows {
		if r.Resolved() {
			resolved++
		}
		fmt.Fprintf(w, "%-30s  %-30s  %-10s  %s\n",
			truncate(r.SearchTerm, 30),
			truncate(strCell(r.ArtistName), 30),
			intCell(r.ArtistID),
			intCell(r.FollowersCount))
	}

	fmt.Fprintf(w, "\n%d terms, %d resolved\n", len(rows), resolved)
}

// FormatJSON writes rows as indented JSON to w. Null fields marshal as
// JSON null.
func FormatJSON(rows []types.ResultRow, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// FormatCSV writes rows as CSV with a header row. Null fields become
// empty cells.
func FormatCSV(rows []types.ResultRow, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"search_term", "artist_name", "artist_id", "followers_count"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.SearchTerm,
			csvCell(r.ArtistName),
			csvIntCell(r.ArtistID),
			csvIntCell(r.FollowersCount),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseTerms reads search terms from r, one per line. Blank lines and
// lines starting with '#' are skipped.
func ParseTerms(r io.Reader) ([]string, error) {
	var terms []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading terms: %w", err)
	}
	return terms, nil
}

func strCell(s *string) string {
	if s == nil {
		return nullCell
	}
	return *s
}

func intCell(n *int64) string {
	if n == nil {
		return nullCell
	}
	return strconv.FormatInt(*n, 10)
}

func csvCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func csvIntCell(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
