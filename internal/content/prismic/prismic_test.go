package prismic

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/louisbranch/showcase/internal/content/snapshot"
	apperrors "github.com/louisbranch/showcase/internal/platform/errors"
)

type fakeRepo struct {
	search   atomic.Value
	down     atomic.Bool
	lastLang atomic.Value
	lastSize atomic.Value
	token    atomic.Value
}

func newFakeRepo(t *testing.T) (*fakeRepo, *httptest.Server) {
	t.Helper()
	body, err := os.ReadFile("../testdata/search.json")
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	repo := &fakeRepo{}
	repo.search.Store(body)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2", func(w http.ResponseWriter, r *http.Request) {
		if repo.down.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		repo.token.Store(r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"refs":[{"id":"preview","ref":"P","isMasterRef":false},{"id":"master","ref":"M","isMasterRef":true}]}`))
	})
	mux.HandleFunc("/api/v2/documents/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ref") != "M" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		repo.lastLang.Store(r.URL.Query().Get("lang"))
		repo.lastSize.Store(r.URL.Query().Get("pageSize"))
		_, _ = w.Write(repo.search.Load().([]byte))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return repo, srv
}

func openSnapshots(t *testing.T) *snapshot.Store {
	t.Helper()
	store, err := snapshot.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open snapshots: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewRequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); apperrors.CodeOf(err) != apperrors.CodeInvalidInput {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeInvalidInput)
	}
}

func TestRefPicksMaster(t *testing.T) {
	t.Parallel()

	repo, srv := newFakeRepo(t)
	client, err := New(Config{Endpoint: srv.URL + "/api/v2/", AccessToken: "secret"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ref, err := client.Ref(context.Background())
	if err != nil {
		t.Fatalf("Ref() error = %v", err)
	}
	if ref != "M" {
		t.Fatalf("Ref() = %q, want %q", ref, "M")
	}
	if got, _ := repo.token.Load().(string); got != "secret" {
		t.Fatalf("access_token = %q, want %q", got, "secret")
	}
}

func TestQuerySendsLangAndPageSize(t *testing.T) {
	t.Parallel()

	repo, srv := newFakeRepo(t)
	client, err := New(Config{Endpoint: srv.URL + "/api/v2"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	results, err := client.Query(context.Background(), "fr-fr")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results.Projects()) != 3 {
		t.Fatalf("projects = %d, want 3", len(results.Projects()))
	}
	if got, _ := repo.lastLang.Load().(string); got != "fr-fr" {
		t.Fatalf("lang = %q, want fr-fr", got)
	}
	if got, _ := repo.lastSize.Load().(string); got != "100" {
		t.Fatalf("pageSize = %q, want 100", got)
	}
}

func TestQueryFallsBackToSnapshot(t *testing.T) {
	t.Parallel()

	repo, srv := newFakeRepo(t)
	var logs bytes.Buffer
	client, err := New(Config{
		Endpoint:  srv.URL + "/api/v2",
		Snapshots: openSnapshots(t),
		Logger:    log.New(&logs, "", 0),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := client.Query(context.Background(), "en-us"); err != nil {
		t.Fatalf("warm Query() error = %v", err)
	}

	repo.down.Store(true)
	results, err := client.Query(context.Background(), "en-us")
	if err != nil {
		t.Fatalf("Query() with cms down error = %v", err)
	}
	if len(results.Projects()) != 3 {
		t.Fatalf("snapshot projects = %d, want 3", len(results.Projects()))
	}
	if !strings.Contains(logs.String(), "serving snapshot lang=en-us") {
		t.Fatalf("fallback not logged: %q", logs.String())
	}
}

func TestQueryWithoutSnapshotIsUnavailable(t *testing.T) {
	t.Parallel()

	repo, srv := newFakeRepo(t)
	repo.down.Store(true)
	client, err := New(Config{Endpoint: srv.URL + "/api/v2", Snapshots: openSnapshots(t), Logger: log.New(&bytes.Buffer{}, "", 0)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = client.Query(context.Background(), "en-us")
	if apperrors.CodeOf(err) != apperrors.CodeContentUnavailable {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeContentUnavailable)
	}
	if apperrors.HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", apperrors.HTTPStatus(err))
	}
}

func TestQueryMalformedBodyWithoutStoreIsUnavailable(t *testing.T) {
	t.Parallel()

	repo, srv := newFakeRepo(t)
	repo.search.Store([]byte("not json"))
	client, err := New(Config{Endpoint: srv.URL + "/api/v2"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := client.Query(context.Background(), "en-us"); err == nil {
		t.Fatal("expected error")
	}
}
