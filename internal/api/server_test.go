package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/outbook/outbook/internal/config"
)

const sampleOutline = `# My Book

## Chapter 1: Getting Started

Welcome to the book.

### 1.1 Installation

Install the tool first.
`

func newTestServer(apiKey string) *Server {
	cfg := config.Default()
	cfg.APIKey = apiKey
	return NewServer(slog.New(slog.DiscardHandler), cfg)
}

func doRequest(t *testing.T, s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestServer("secret"), http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	s := newTestServer("secret")

	rec := doRequest(t, s, http.MethodPost, "/api/validate", sampleOutline, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", rec.Code)
	}
	rec = doRequest(t, s, http.MethodPost, "/api/validate", sampleOutline, "wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}
	rec = doRequest(t, s, http.MethodPost, "/api/validate", sampleOutline, "secret")
	if rec.Code != http.StatusOK {
		t.Errorf("good token: status = %d, want 200", rec.Code)
	}
}

func TestAuth_DisabledWithoutKey(t *testing.T) {
	rec := doRequest(t, newTestServer(""), http.MethodPost, "/api/validate", sampleOutline, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestValidate_OK(t *testing.T) {
	rec := doRequest(t, newTestServer(""), http.MethodPost, "/api/validate", sampleOutline, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp validateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Valid || resp.Title != "My Book" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Chapters) != 1 || resp.Chapters[0].Folder != "chapter1" || resp.Chapters[0].Sections != 1 {
		t.Errorf("chapters = %+v", resp.Chapters)
	}
}

func TestValidate_GrammarViolation(t *testing.T) {
	bad := "# Book\n\n## Chapter 1: A\n\n### 1.1.1 Too Deep\n"
	rec := doRequest(t, newTestServer(""), http.MethodPost, "/api/validate", bad, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["kind"] != "nesting" {
		t.Errorf("kind = %v, want nesting", resp["kind"])
	}
	if resp["line"] != float64(5) {
		t.Errorf("line = %v, want 5", resp["line"])
	}
}

func TestValidate_EmptyBody(t *testing.T) {
	rec := doRequest(t, newTestServer(""), http.MethodPost, "/api/validate", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompile_ReturnsFiles(t *testing.T) {
	rec := doRequest(t, newTestServer(""), http.MethodPost, "/api/compile", sampleOutline, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp compileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Written != 3 {
		t.Errorf("written = %d, want 3", resp.Written)
	}
	paths := make(map[string]string)
	for _, f := range resp.Files {
		paths[f.Path] = f.Content
	}
	if _, ok := paths["index.html"]; !ok {
		t.Error("missing index.html")
	}
	if _, ok := paths["chapter1/index.html"]; !ok {
		t.Error("missing chapter1/index.html")
	}
	if c, ok := paths["chapter1/installation.html"]; !ok || !strings.Contains(c, "Install the tool") {
		t.Errorf("section page missing or wrong: %q", c)
	}
}

func TestCompile_DryRunOmitsContents(t *testing.T) {
	rec := doRequest(t, newTestServer(""), http.MethodPost, "/api/compile?dry_run=true", sampleOutline, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp compileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Preview {
		t.Error("expected preview report")
	}
	if len(resp.Files) != 0 {
		t.Errorf("expected no file contents, got %d", len(resp.Files))
	}
	if len(resp.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(resp.Entries))
	}
}
