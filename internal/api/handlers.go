package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/memfs"

	"github.com/outbook/outbook/internal/compile"
	"github.com/outbook/outbook/internal/outline"
	"github.com/outbook/outbook/internal/source"
	"github.com/outbook/outbook/internal/writer"
)

type chapterInfo struct {
	Folder   string `json:"folder"`
	Title    string `json:"title"`
	Sections int    `json:"sections"`
}

type validateResponse struct {
	Valid    bool          `json:"valid"`
	Title    string        `json:"title,omitempty"`
	Chapters []chapterInfo `json:"chapters,omitempty"`
}

type compileResponse struct {
	Title   string         `json:"title"`
	Preview bool           `json:"preview"`
	Written int            `json:"written"`
	Entries []writer.Entry `json:"entries"`
	Files   []compiledFile `json:"files,omitempty"`
}

type compiledFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// handleValidate parses an uploaded outline and reports its shape, or the
// first grammar violation.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readOutline(w, r)
	if !ok {
		return
	}
	doc, err := outline.Parse(text)
	if err != nil {
		outlineError(w, err)
		return
	}

	resp := validateResponse{Valid: true, Title: doc.Title}
	for _, ch := range doc.Chapters {
		resp.Chapters = append(resp.Chapters, chapterInfo{
			Folder:   ch.FolderName(),
			Title:    ch.Title,
			Sections: len(ch.Sections),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCompile builds the full project in memory and returns the generated
// files alongside the write report. With dry_run=true the file contents are
// omitted.
func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readOutline(w, r)
	if !ok {
		return
	}
	dryRun := r.URL.Query().Get("dry_run") == "true"

	// A fresh in-memory tree per request: every file is new, so force and
	// conflicts do not apply here.
	res, err := compile.Run(text, memfs.New(), compile.Options{Preview: dryRun})
	if err != nil {
		outlineError(w, err)
		return
	}

	resp := compileResponse{
		Title:   res.Document.Title,
		Preview: dryRun,
		Written: res.Report.Written(),
		Entries: res.Report.Entries,
	}
	if !dryRun {
		for _, f := range res.Plan.Files {
			resp.Files = append(resp.Files, compiledFile{Path: f.Path, Content: f.Content})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// readOutline extracts outline text from the request: either a multipart
// upload in any supported format, or a raw text body.
func (s *Server) readOutline(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return "", false
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return "", false
		}
		defer file.Close()

		filename := sanitizeFilename(header.Filename)
		reader, err := source.ForFile(filename)
		if err != nil {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return "", false
		}
		text, err := reader.Read(io.LimitReader(file, s.cfg.MaxUploadBytes+1), filename)
		if err != nil {
			jsonError(w, "failed to read upload: "+err.Error(), http.StatusBadRequest)
			return "", false
		}
		if int64(len(text)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return "", false
		}
		return text, true
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	if len(data) == 0 {
		jsonError(w, "empty outline", http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

// outlineError maps grammar violations to 422 with the error kind and line.
func outlineError(w http.ResponseWriter, err error) {
	payload := map[string]any{"error": err.Error()}

	var structErr *outline.StructureError
	var patternErr *outline.PatternError
	var nestErr *outline.NestingError
	switch {
	case errors.As(err, &structErr):
		payload["kind"] = "structure"
		payload["line"] = structErr.Line
	case errors.As(err, &patternErr):
		payload["kind"] = "pattern"
		payload["line"] = patternErr.Line
	case errors.As(err, &nestErr):
		payload["kind"] = "nesting"
		payload["line"] = nestErr.Line
	default:
		writeJSON(w, http.StatusInternalServerError, payload)
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, payload)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
