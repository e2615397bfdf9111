package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/cache"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/errors"
	"github.com/pandora-auth-ros-pkg/pandoradep/pkg/observability"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestClientFetch(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, "repo1: [X, Y]\n")

	c := NewClient(srv.URL, nil, 0, nil)
	snap, err := c.Fetch(context.Background(), false)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(snap["repo1"]) != 2 {
		t.Errorf("repo1 = %v", snap["repo1"])
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
	if c.URL() != srv.URL {
		t.Errorf("URL() = %q", c.URL())
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, ""},
		{"server error", http.StatusInternalServerError, "oops"},
		{"not a mapping", http.StatusOK, "- a\n- b\n"},
		{"empty", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newServer(t, tt.status, tt.body)
			_, err := NewClient(srv.URL, nil, 0, nil).Fetch(context.Background(), false)
			if !errors.Is(err, errors.ErrCodeRegistryUnavailable) {
				t.Errorf("Fetch() error = %v, want %s", err, errors.ErrCodeRegistryUnavailable)
			}
			if n := atomic.LoadInt32(calls); n != 1 {
				t.Errorf("calls = %d, want exactly 1 (no retries)", n)
			}
		})
	}
}

func TestClientFetchUnreachable(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "")
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, nil, 0, nil).Fetch(context.Background(), false)
	if !errors.Is(err, errors.ErrCodeRegistryUnavailable) {
		t.Errorf("Fetch() error = %v, want %s", err, errors.ErrCodeRegistryUnavailable)
	}
}

func TestClientFetchCached(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, "repo1: [X]\n")
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	c := NewClient(srv.URL, fc, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Fetch(ctx, false); err != nil {
			t.Fatalf("Fetch() #%d error: %v", i, err)
		}
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("calls = %d, want 1 (later fetches served from cache)", n)
	}

	if _, err := c.Fetch(ctx, true); err != nil {
		t.Fatalf("Fetch(refresh) error: %v", err)
	}
	if n := atomic.LoadInt32(calls); n != 2 {
		t.Errorf("calls = %d, want 2 after refresh", n)
	}
}

func TestClientFetchDiscardsBadCacheEntry(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, "repo1: [X]\n")
	fc, _ := cache.NewFileCache(t.TempDir())
	ctx := context.Background()

	if err := fc.Set(ctx, cache.RegistryKey(srv.URL), []byte("- not\n- a map\n"), time.Hour); err != nil {
		t.Fatal(err)
	}

	snap, err := NewClient(srv.URL, fc, time.Hour, nil).Fetch(ctx, false)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !snap.Has("repo1") {
		t.Errorf("snapshot = %v", snap)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

type fetchHooks struct {
	cached []bool
}

func (h *fetchHooks) OnFetch(_ context.Context, _ string, cached bool, _ int, _ time.Duration, _ error) {
	h.cached = append(h.cached, cached)
}

func TestClientFetchReportsHooks(t *testing.T) {
	h := &fetchHooks{}
	observability.SetRegistryHooks(h)
	defer observability.Reset()

	srv, _ := newServer(t, http.StatusOK, "repo1: [X]\n")
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(srv.URL, fc, time.Hour, nil)
	for i := 0; i < 2; i++ {
		if _, err := c.Fetch(context.Background(), false); err != nil {
			t.Fatal(err)
		}
	}
	if len(h.cached) != 2 || h.cached[0] || !h.cached[1] {
		t.Errorf("cached = %v, want [false true]", h.cached)
	}
}
