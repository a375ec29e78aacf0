// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genius resolves free-text search terms to canonical artists
// through the Genius API: a search query picks the top hit, and the
// hit's primary artist is looked up for its full record.
//
// A term that matches nothing resolves to an all-null record rather
// than an error; only transport failures and contract breaks surface
// as errors.
package genius

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/artist-resolver/internal/httputil"
	"github.com/pdiddy/artist-resolver/pkg/types"
)

// apiBase is the Genius API root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.genius.com"

const defaultPerPage = 5

// Client is an authenticated Genius API client. It is stateless across
// calls apart from the precomputed authorization header.
type Client struct {
	httpClient *http.Client
	cfg        types.ResolveConfig
	authHeader string
}

// NewClient builds a Client from an access token and resolution
// settings. The token is required; NewClient fails with ErrMissingToken
// when it is empty. Callers resolve fallback sources (secrets files,
// environment) before construction. When httpClient is nil a client
// with cfg.Timeout is used.
func NewClient(token string, cfg types.ResolveConfig, httpClient *http.Client) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		authHeader: "Bearer " + token,
	}, nil
}

// ResolveArtist resolves one search term to an ArtistRecord.
//
// The search endpoint is queried for the top hits; the first hit's
// primary-artist id selects the artist-detail lookup. A term with no
// hits, or a first hit without a primary-artist id, resolves to an
// all-null record with a nil error. Fields the detail endpoint omits
// stay null.
func (c *Client) ResolveArtist(ctx context.Context, term string) (types.ArtistRecord, error) {
	if term == "" {
		return types.ArtistRecord{}, fmt.Errorf("empty search term")
	}

	params := url.Values{
		"q":        {term},
		"per_page": {fmt.Sprintf("%d", c.cfg.PerPage)},
	}

	body, err := c.get(ctx, apiBase+"/search?"+params.Encode(), "search")
	if err != nil {
		return types.ArtistRecord{}, err
	}

	var sr searchResponse
	if err := decode("search", body, &sr); err != nil {
		return types.ArtistRecord{}, err
	}

	hits := sr.Response.Hits
	if len(hits) == 0 {
		return types.ArtistRecord{}, nil
	}

	artistID := hits[0].Result.PrimaryArtist.ID
	if artistID == nil {
		return types.ArtistRecord{}, nil
	}

	body, err = c.get(ctx, fmt.Sprintf("%s/artists/%d", apiBase, *artistID), "artist")
	if err != nil {
		return types.ArtistRecord{}, err
	}

	var ar artistResponse
	if err := decode("artist", body, &ar); err != nil {
		return types.ArtistRecord{}, err
	}

	artist := ar.Response.Artist
	if artist == nil {
		return types.ArtistRecord{}, nil
	}

	return types.ArtistRecord{
		Name:           artist.Name,
		ID:             artist.ID,
		FollowersCount: artist.FollowersCount,
	}, nil
}

// ResolveArtists resolves a batch of terms sequentially, one row per
// term, in input order. A failing term yields a row with null result
// fields and does not abort the rest of the batch, so the batch call
// itself cannot fail.
func (c *Client) ResolveArtists(ctx context.Context, terms []string) []types.ResultRow {
	rows := make([]types.ResultRow, 0, len(terms))
	for _, term := range terms {
		record, err := c.ResolveArtist(ctx, term)
		if err != nil {
			rows = append(rows, types.ResultRow{SearchTerm: term})
			continue
		}
		rows = append(rows, types.Row(term, record))
	}
	return rows
}

// get issues an authenticated GET through the retry transport and
// returns the response body. Network errors, non-2xx statuses after
// retries, and unreadable bodies all come back as *TransportError.
func (c *Client) get(ctx context.Context, reqURL, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}

	if httputil.Retryable(resp.StatusCode) {
		return nil, &TransportError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("retries exhausted"),
		}
	}

	return body, nil
}

// decode unmarshals an API body. A type mismatch against the documented
// envelope is a *DataShapeError; any other parse failure is a
// *TransportError (malformed body).
func decode(endpoint string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &DataShapeError{Endpoint: endpoint, Err: err}
		}
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}

// Genius API JSON envelopes.
type searchResponse struct {
	Response searchBody `json:"response"`
}

type searchBody struct {
	Hits []searchHit `json:"hits"`
}

type searchHit struct {
	Result hitResult `json:"result"`
}

type hitResult struct {
	PrimaryArtist primaryArtist `json:"primary_artist"`
}

type primaryArtist struct {
	ID *int64 `json:"id"`
}

type artistResponse struct {
	Response artistBody `json:"response"`
}

type artistBody struct {
	Artist *artistObject `json:"artist"`
}

type artistObject struct {
	Name           *string `json:"name"`
	ID             *int64  `json:"id"`
	FollowersCount *int64  `json:"followers_count"`
}
