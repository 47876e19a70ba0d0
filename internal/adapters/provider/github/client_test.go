package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"repocred/internal/adapters/provider"
	"repocred/internal/core/gitref"
	perr "repocred/internal/platform/errors"
)

var _ provider.Provider = (*Client)(nil)

var ref = gitref.Ref{Provider: "github", Owner: "alice", Name: "widget", CanonicalURL: "https://github.com/alice/widget"}

// newTestClient points a client at srv with sleeping stubbed out
func newTestClient(srv *httptest.Server, o Options) *Client {
	o.BaseURL = srv.URL
	c := NewClient(o)
	c.sleep = func(time.Duration) {}
	return c
}

const repoJSON = `{
	"name": "widget",
	"description": "a widget",
	"language": "Go",
	"created_at": "2023-01-01T00:00:00Z",
	"updated_at": "2024-01-01T00:00:00Z",
	"pushed_at": "2024-02-01T00:00:00Z",
	"size": 123,
	"stargazers_count": 42,
	"forks_count": 7,
	"topics": ["cli", "tooling"]
}`

func commitJSON(sha, email, login string) string {
	author := "null"
	if login != "" {
		author = fmt.Sprintf(`{"login":%q}`, login)
	}
	return fmt.Sprintf(`{
		"sha": %q,
		"commit": {
			"author": {"name": "A", "email": %q, "date": "2024-01-02T03:04:05Z"},
			"message": "implement the fetcher"
		},
		"author": %s
	}`, sha, email, author)
}

func TestMetadata_MapsDocument(t *testing.T) {
	t.Parallel()

	var gotAccept, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/repos/alice/widget" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, repoJSON)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	meta, err := c.Metadata(context.Background(), ref)
	if err != nil {
		t.Fatalf("Metadata error: %v", err)
	}
	if meta.Name != "widget" || meta.Language != "Go" || meta.Stars != 42 || meta.Forks != 7 {
		t.Fatalf("metadata mismatch: %+v", meta)
	}
	if len(meta.Topics) != 2 || meta.Topics[0] != "cli" {
		t.Fatalf("topics mismatch: %+v", meta.Topics)
	}
	if gotAccept != "application/vnd.github.v3+json" {
		t.Fatalf("Accept = %q", gotAccept)
	}
	if gotUA != defaultUA {
		t.Fatalf("User-Agent = %q", gotUA)
	}
}

func TestCommits_MapsAndBounds(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "2" {
			t.Errorf("per_page = %q", got)
		}
		fmt.Fprintf(w, "[%s,%s]",
			commitJSON("aaa", "alice@example.com", "alice"),
			commitJSON("bbb", "bob@example.com", ""))
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	commits, err := c.Commits(context.Background(), ref, 2)
	if err != nil {
		t.Fatalf("Commits error: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("len = %d", len(commits))
	}
	if commits[0].SHA != "aaa" || commits[0].AuthorHandle != "alice" {
		t.Fatalf("commit[0] = %+v", commits[0])
	}
	if commits[1].AuthorHandle != "" {
		t.Fatalf("null author should yield empty handle: %+v", commits[1])
	}
	if commits[0].AuthoredAt.IsZero() {
		t.Fatalf("authored_at not parsed")
	}
}

func TestCommits_PaginatesUntilLimit(t *testing.T) {
	t.Parallel()

	var pages atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages.Add(1)
		per := r.URL.Query().Get("per_page")
		switch page {
		case "1":
			if per != "100" {
				t.Errorf("page 1 per_page = %q", per)
			}
			w.Write([]byte(fullPage(100)))
		case "2":
			if per != "50" {
				t.Errorf("page 2 per_page = %q", per)
			}
			w.Write([]byte(fullPage(50)))
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	commits, err := c.Commits(context.Background(), ref, 150)
	if err != nil {
		t.Fatalf("Commits error: %v", err)
	}
	if len(commits) != 150 || pages.Load() != 2 {
		t.Fatalf("len=%d pages=%d", len(commits), pages.Load())
	}
}

func TestCommits_ShortPageStops(t *testing.T) {
	t.Parallel()

	var pages atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages.Add(1)
		w.Write([]byte(fullPage(3)))
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	commits, err := c.Commits(context.Background(), ref, 0) // default limit
	if err != nil {
		t.Fatalf("Commits error: %v", err)
	}
	if len(commits) != 3 || pages.Load() != 1 {
		t.Fatalf("len=%d pages=%d", len(commits), pages.Load())
	}
}

func fullPage(n int) string {
	out := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += commitJSON(fmt.Sprintf("sha%d", i), "alice@example.com", "alice")
	}
	return out + "]"
}

func TestDo_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	_, err := c.Metadata(context.Background(), ref)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("code = %v, want NotFound", perr.CodeOf(err))
	}
}

func TestDo_RateLimited_CarriesRetryAfter(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	_, err := c.Metadata(context.Background(), ref)
	if !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("code = %v, want TooManyRequests", perr.CodeOf(err))
	}
	if got := perr.RetryAfterOf(err); got != 7*time.Second {
		t.Fatalf("retry after = %v, want 7s", got)
	}
	// rate limiting is terminal for the call, never retried
	if hits.Load() != 1 {
		t.Fatalf("hits = %d, want 1", hits.Load())
	}
}

func TestDo_Forbidden_WithRateHeadersIsRateLimited(t *testing.T) {
	t.Parallel()

	reset := time.Now().Add(90 * time.Second).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", fmt.Sprint(reset))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	_, err := c.Metadata(context.Background(), ref)
	if !perr.IsCode(err, perr.ErrorCodeTooManyRequests) {
		t.Fatalf("code = %v, want TooManyRequests", perr.CodeOf(err))
	}
	if perr.RetryAfterOf(err) <= 0 {
		t.Fatalf("expected a positive retry-after from reset header")
	}
}

func TestDo_BareForbiddenMapsToNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	_, err := c.Metadata(context.Background(), ref)
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("code = %v, want NotFound", perr.CodeOf(err))
	}
}

func TestDo_TransientRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, repoJSON)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{MaxRetries: 3})
	meta, err := c.Metadata(context.Background(), ref)
	if err != nil {
		t.Fatalf("Metadata error: %v", err)
	}
	if meta.Name != "widget" || hits.Load() != 3 {
		t.Fatalf("meta=%+v hits=%d", meta, hits.Load())
	}
}

func TestDo_TransientExhaustsToUnavailable(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{MaxRetries: 3})
	_, err := c.Metadata(context.Background(), ref)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("code = %v, want Unavailable", perr.CodeOf(err))
	}
	if hits.Load() != 3 {
		t.Fatalf("hits = %d, want 3 bounded attempts", hits.Load())
	}
}

func TestDo_MalformedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"this is": not json`)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	if _, err := c.Metadata(context.Background(), ref); !perr.IsCode(err, perr.ErrorCodeUpstreamSchema) {
		t.Fatalf("metadata code = %v, want UpstreamSchema", perr.CodeOf(err))
	}
	if _, err := c.Commits(context.Background(), ref, 5); !perr.IsCode(err, perr.ErrorCodeUpstreamSchema) {
		t.Fatalf("commits code = %v, want UpstreamSchema", perr.CodeOf(err))
	}
}

func TestTokenRotation(t *testing.T) {
	t.Parallel()

	seen := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get("Authorization")
		fmt.Fprint(w, repoJSON)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{TokensCSV: "tok-a, tok-b"})
	for i := 0; i < 4; i++ {
		if _, err := c.Metadata(context.Background(), ref); err != nil {
			t.Fatalf("Metadata error: %v", err)
		}
	}
	close(seen)

	counts := map[string]int{}
	for a := range seen {
		counts[a]++
	}
	if counts["token tok-a"] != 2 || counts["token tok-b"] != 2 {
		t.Fatalf("rotation uneven: %v", counts)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := newTestClient(srv, Options{})
	if _, err := c.Metadata(ctx, ref); err == nil {
		t.Fatalf("expected context error")
	}
}
