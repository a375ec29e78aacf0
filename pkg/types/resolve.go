// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for artist-resolver.
package types

import "time"

// ArtistRecord is the normalized result of resolving one search term
// against the Genius API. Every field is a pointer because the upstream
// API may omit any of them; a nil field marshals as null.
type ArtistRecord struct {
	// Name is the canonical artist name.
	Name *string `json:"name" yaml:"name"`

	// ID is the Genius artist identifier.
	ID *int64 `json:"id" yaml:"id"`

	// FollowersCount is the artist's follower count on Genius.
	FollowersCount *int64 `json:"followers_count" yaml:"followers_count"`
}

// IsZero reports whether the record carries no data at all.
func (r ArtistRecord) IsZero() bool {
	return r.Name == nil && r.ID == nil && r.FollowersCount == nil
}

// ResultRow is one row of a batch resolution: the input term plus the
// resolved artist fields. Rows for failed or unmatched terms keep the
// term and carry null result fields.
type ResultRow struct {
	SearchTerm     string  `json:"search_term" yaml:"search_term"`
	ArtistName     *string `json:"artist_name" yaml:"artist_name"`
	ArtistID       *int64  `json:"artist_id" yaml:"artist_id"`
	FollowersCount *int64  `json:"followers_count" yaml:"followers_count"`
}

// Resolved reports whether the row carries at least one resolved field.
func (r ResultRow) Resolved() bool {
	return r.ArtistName != nil || r.ArtistID != nil || r.FollowersCount != nil
}

// Row builds a ResultRow from a term and its resolved record.
func Row(term string, rec ArtistRecord) ResultRow {
	return ResultRow{
		SearchTerm:     term,
		ArtistName:     rec.Name,
		ArtistID:       rec.ID,
		FollowersCount: rec.FollowersCount,
	}
}

// Resolution is a ResultRow persisted in the history store, with the
// time it was recorded.
type Resolution struct {
	ResultRow  `yaml:",inline"`
	ResolvedAt time.Time `json:"resolved_at" yaml:"resolved_at"`
}
