package linkcheck

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCollect_FindsExternalAnchorsOnly(t *testing.T) {
	fs := memfs.New()
	page := `<html><body>
		<a href="https://example.com/a">a</a>
		<a href="../chapter2/index.html">internal</a>
		<a href="https://example.com/a">dup</a>
		<a href="http://example.org/b">b</a>
	</body></html>`
	require.NoError(t, util.WriteFile(fs, "out/index.html", []byte(page), 0o644))
	require.NoError(t, util.WriteFile(fs, "out/chapter1/intro.html",
		[]byte(`<a href="https://example.net/c">c</a>`), 0o644))
	require.NoError(t, util.WriteFile(fs, "out/notes.txt",
		[]byte(`<a href="https://ignored.example">x</a>`), 0o644))

	links, err := Collect(fs, "out")
	require.NoError(t, err)

	var got []string
	for _, l := range links {
		got = append(got, l.Page+" "+l.URL)
	}
	assert.Equal(t, []string{
		"chapter1/intro.html https://example.net/c",
		"index.html https://example.com/a",
		"index.html http://example.org/b",
	}, got)
}

func TestCheck_ReportsStatusPerOccurrence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	links := []Link{
		{URL: srv.URL + "/ok", Page: "index.html"},
		{URL: srv.URL + "/missing", Page: "chapter1/index.html"},
		{URL: srv.URL + "/ok", Page: "chapter1/index.html"},
	}
	c := New(Options{Workers: 2, Timeout: 5 * time.Second}, testLogger())
	results := c.Check(context.Background(), links)
	require.Len(t, results, 3)

	// Sorted by page, then URL.
	assert.Equal(t, "chapter1/index.html", results[0].Page)
	assert.False(t, results[0].OK)
	assert.Equal(t, http.StatusNotFound, results[0].Status)
	assert.True(t, results[1].OK)
	assert.True(t, results[2].OK)

	broken := Broken(results)
	require.Len(t, broken, 1)
	assert.Contains(t, broken[0].URL, "/missing")
}

func TestCheck_ProbesEachURLOnce(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	links := []Link{
		{URL: srv.URL + "/same", Page: "a.html"},
		{URL: srv.URL + "/same", Page: "b.html"},
		{URL: srv.URL + "/same", Page: "c.html"},
	}
	c := New(Options{Workers: 4}, testLogger())
	results := c.Check(context.Background(), links)
	require.Len(t, results, 3)
	assert.Equal(t, int64(1), hits.Load())
}

func TestCheck_HeadFallsBackToGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Options{}, testLogger())
	results := c.Check(context.Background(), []Link{{URL: srv.URL, Page: "index.html"}})
	require.Len(t, results, 1)
	assert.True(t, results[0].OK)
	assert.Equal(t, http.StatusOK, results[0].Status)
}

func TestCheck_UnreachableHostReportsError(t *testing.T) {
	c := New(Options{Timeout: time.Second}, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	results := c.Check(ctx, []Link{{URL: "http://127.0.0.1:1/nope", Page: "index.html"}})
	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.NotEmpty(t, results[0].Error)
}
