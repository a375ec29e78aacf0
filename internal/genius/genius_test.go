// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genius

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/artist-resolver/internal/httputil"
	"github.com/pdiddy/artist-resolver/pkg/types"
)

func init() {
	// Use a tiny backoff so retry-path tests finish quickly.
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func testCfg() types.ResolveConfig {
	return types.ResolveConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "artist-resolver/test"},
		PerPage:    5,
		MaxRetries: 1,
	}
}

// artistFixture describes one artist the fake API knows about.
type artistFixture struct {
	id        int64
	name      string
	followers int64
}

// newFakeGenius serves /search and /artists/{id} from a term→artist
// fixture map. Unknown terms return zero hits.
func newFakeGenius(t *testing.T, artists map[string]artistFixture) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/search":
			a, ok := artists[r.URL.Query().Get("q")]
			if !ok {
				fmt.Fprint(w, `{"response":{"hits":[]}}`)
				return
			}
			fmt.Fprintf(w, `{"response":{"hits":[{"result":{"primary_artist":{"id":%d}}}]}}`, a.id)
		case strings.HasPrefix(r.URL.Path, "/artists/"):
			for _, a := range artists {
				if r.URL.Path == fmt.Sprintf("/artists/%d", a.id) {
					fmt.Fprintf(w, `{"response":{"artist":{"name":%q,"id":%d,"followers_count":%d}}}`,
						a.name, a.id, a.followers)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func swapBase(t *testing.T, url string) {
	t.Helper()
	old := apiBase
	apiBase = url
	t.Cleanup(func() { apiBase = old })
}

// --- Construction ---

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient("", testCfg(), nil)
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("NewClient error = %v, want ErrMissingToken", err)
	}
}

func TestNewClientDefaultsPerPage(t *testing.T) {
	c, err := NewClient("tok", types.ResolveConfig{}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.cfg.PerPage != defaultPerPage {
		t.Errorf("PerPage = %d, want %d", c.cfg.PerPage, defaultPerPage)
	}
}

// --- Request construction (URL params, headers) ---

func TestResolveArtistRequestParams(t *testing.T) {
	var searchReq, artistReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/search" {
			searchReq = r.Clone(context.Background())
			fmt.Fprint(w, `{"response":{"hits":[{"result":{"primary_artist":{"id":42}}}]}}`)
			return
		}
		artistReq = r.Clone(context.Background())
		fmt.Fprint(w, `{"response":{"artist":{"name":"Nina Simone","id":42,"followers_count":9000}}}`)
	}))
	defer ts.Close()
	swapBase(t, ts.URL)

	cfg := testCfg()
	cfg.PerPage = 3

	c, err := NewClient("secret-token", cfg, ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.ResolveArtist(context.Background(), "nina simone"); err != nil {
		t.Fatalf("ResolveArtist: %v", err)
	}

	q := searchReq.URL.Query()
	if got := q.Get("q"); got != "nina simone" {
		t.Errorf("q param = %q, want %q", got, "nina simone")
	}
	if got := q.Get("per_page"); got != "3" {
		t.Errorf("per_page param = %q, want %q", got, "3")
	}
	if got := searchReq.Header.Get("Authorization"); got != "Bearer secret-token" {
		t.Errorf("Authorization header = %q, want %q", got, "Bearer secret-token")
	}
	if got := searchReq.Header.Get("User-Agent"); got != "artist-resolver/test" {
		t.Errorf("User-Agent header = %q, want %q", got, "artist-resolver/test")
	}

	if artistReq.URL.Path != "/artists/42" {
		t.Errorf("artist path = %q, want %q", artistReq.URL.Path, "/artists/42")
	}
	if got := artistReq.Header.Get("Authorization"); got != "Bearer secret-token" {
		t.Errorf("artist Authorization header = %q, want %q", got, "Bearer secret-token")
	}
}

// --- Resolution ---

func TestResolveArtistHappyPath(t *testing.T) {
	ts := newFakeGenius(t, map[string]artistFixture{
		"radiohead": {id: 604, name: "Radiohead", followers: 12345},
	})
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	rec, err := c.ResolveArtist(context.Background(), "radiohead")
	if err != nil {
		t.Fatalf("ResolveArtist: %v", err)
	}
	if rec.Name == nil || *rec.Name != "Radiohead" {
		t.Errorf("Name = %v, want Radiohead", rec.Name)
	}
	if rec.ID == nil || *rec.ID != 604 {
		t.Errorf("ID = %v, want 604", rec.ID)
	}
	if rec.FollowersCount == nil || *rec.FollowersCount != 12345 {
		t.Errorf("FollowersCount = %v, want 12345", rec.FollowersCount)
	}
}

func TestResolveArtistEmptyTerm(t *testing.T) {
	c, err := NewClient("tok", testCfg(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.ResolveArtist(context.Background(), ""); err == nil {
		t.Fatal("ResolveArtist(\"\") succeeded, want error")
	}
}

func TestResolveArtistNoHits(t *testing.T) {
	ts := newFakeGenius(t, nil)
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	rec, err := c.ResolveArtist(context.Background(), "no such artist")
	if err != nil {
		t.Fatalf("ResolveArtist: %v", err)
	}
	if !rec.IsZero() {
		t.Errorf("record = %+v, want all-null", rec)
	}
}

func TestResolveArtistMissingPrimaryArtistID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"response":{"hits":[{"result":{"primary_artist":{}}}]}}`)
	}))
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	rec, err := c.ResolveArtist(context.Background(), "anyone")
	if err != nil {
		t.Fatalf("ResolveArtist: %v", err)
	}
	if !rec.IsZero() {
		t.Errorf("record = %+v, want all-null", rec)
	}
}

func TestResolveArtistPartialDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/search" {
			fmt.Fprint(w, `{"response":{"hits":[{"result":{"primary_artist":{"id":7}}}]}}`)
			return
		}
		// followers_count omitted by upstream.
		fmt.Fprint(w, `{"response":{"artist":{"name":"Burial","id":7}}}`)
	}))
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	rec, err := c.ResolveArtist(context.Background(), "burial")
	if err != nil {
		t.Fatalf("ResolveArtist: %v", err)
	}
	if rec.Name == nil || *rec.Name != "Burial" {
		t.Errorf("Name = %v, want Burial", rec.Name)
	}
	if rec.FollowersCount != nil {
		t.Errorf("FollowersCount = %v, want nil", *rec.FollowersCount)
	}
}

func TestResolveArtistIdempotent(t *testing.T) {
	ts := newFakeGenius(t, map[string]artistFixture{
		"bjork": {id: 85, name: "Björk", followers: 777},
	})
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	first, err := c.ResolveArtist(context.Background(), "bjork")
	if err != nil {
		t.Fatalf("first ResolveArtist: %v", err)
	}
	second, err := c.ResolveArtist(context.Background(), "bjork")
	if err != nil {
		t.Fatalf("second ResolveArtist: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("records differ: %+v vs %+v", first, second)
	}
}

// --- Transport and shape failures ---

func TestResolveArtistRateLimitedThenSuccess(t *testing.T) {
	var searchCalls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/search" {
			if atomic.AddInt32(&searchCalls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, `{"response":{"hits":[{"result":{"primary_artist":{"id":11}}}]}}`)
			return
		}
		fmt.Fprint(w, `{"response":{"artist":{"name":"Low","id":11,"followers_count":42}}}`)
	}))
	defer ts.Close()
	swapBase(t, ts.URL)

	cfg := testCfg()
	cfg.MaxRetries = 3

	c, err := NewClient("tok", cfg, ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	rec, err := c.ResolveArtist(context.Background(), "low")
	if err != nil {
		t.Fatalf("ResolveArtist after 429: %v", err)
	}
	if rec.Name == nil || *rec.Name != "Low" {
		t.Errorf("Name = %v, want Low", rec.Name)
	}
	if got := atomic.LoadInt32(&searchCalls); got != 2 {
		t.Errorf("search calls = %d, want 2", got)
	}
}

func TestResolveArtistRetryExhaustion(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = c.ResolveArtist(context.Background(), "doomed")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if te.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", te.Status, http.StatusInternalServerError)
	}
	if te.Endpoint != "search" {
		t.Errorf("Endpoint = %q, want %q", te.Endpoint, "search")
	}
}

func TestResolveArtistMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"response":`)
	}))
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = c.ResolveArtist(context.Background(), "garbled")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
}

func TestResolveArtistShapeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"response":{"hits":"not a list"}}`)
	}))
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = c.ResolveArtist(context.Background(), "odd")
	var se *DataShapeError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *DataShapeError", err)
	}
}

// --- Batch resolution ---

func TestResolveArtistsPreservesOrder(t *testing.T) {
	ts := newFakeGenius(t, map[string]artistFixture{
		"a": {id: 1, name: "Artist A", followers: 10},
		"c": {id: 3, name: "Artist C", followers: 30},
	})
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	rows := c.ResolveArtists(context.Background(), []string{"a", "b", "c"})
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	for i, want := range []string{"a", "b", "c"} {
		if rows[i].SearchTerm != want {
			t.Errorf("rows[%d].SearchTerm = %q, want %q", i, rows[i].SearchTerm, want)
		}
	}
	if !rows[0].Resolved() || rows[1].Resolved() || !rows[2].Resolved() {
		t.Errorf("resolved flags = %v %v %v, want true false true",
			rows[0].Resolved(), rows[1].Resolved(), rows[2].Resolved())
	}
	if rows[2].ArtistName == nil || *rows[2].ArtistName != "Artist C" {
		t.Errorf("rows[2].ArtistName = %v, want Artist C", rows[2].ArtistName)
	}
}

func TestResolveArtistsIsolatesFailures(t *testing.T) {
	// The search endpoint fails hard for one term and works for the next.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/search" {
			if r.URL.Query().Get("q") == "broken" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `{"response":{"hits":[{"result":{"primary_artist":{"id":5}}}]}}`)
			return
		}
		fmt.Fprint(w, `{"response":{"artist":{"name":"Still Here","id":5,"followers_count":1}}}`)
	}))
	defer ts.Close()
	swapBase(t, ts.URL)

	c, err := NewClient("tok", testCfg(), ts.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	rows := c.ResolveArtists(context.Background(), []string{"broken", "fine"})
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Resolved() {
		t.Errorf("rows[0] = %+v, want null fields", rows[0])
	}
	if rows[1].ArtistName == nil || *rows[1].ArtistName != "Still Here" {
		t.Errorf("rows[1].ArtistName = %v, want Still Here", rows[1].ArtistName)
	}
}

func TestResolveArtistsEmptyInput(t *testing.T) {
	c, err := NewClient("tok", testCfg(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	rows := c.ResolveArtists(context.Background(), nil)
	if len(rows) != 0 {
		t.Errorf("len(rows) = %d, want 0", len(rows))
	}
}
