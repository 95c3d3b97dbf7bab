// Package source loads outline text from the supported input formats.
// Markdown and plain text pass through untouched; richer formats are lowered
// to outline markdown (heading styles become '#' markers) before the compiler
// sees them.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Reader extracts outline text from one input format.
type Reader interface {
	Read(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
	".docx":     true,
	".pdf":      true,
}

// ForFile returns the appropriate reader for a filename.
func ForFile(filename string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown", ".txt":
		return &PlainReader{}, nil
	case ".html", ".htm":
		return &HTMLReader{}, nil
	case ".docx":
		return &DocxReader{}, nil
	case ".pdf":
		return &PDFReader{FallbackPdftotext: true}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Load reads outline text from a file on disk.
func Load(path string) (string, error) {
	reader, err := ForFile(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open outline: %w", err)
	}
	defer f.Close()
	return reader.Read(f, filepath.Base(path))
}

// PlainReader handles markdown and plain text files, which already are
// outline text.
type PlainReader struct{}

func (p *PlainReader) Read(r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
