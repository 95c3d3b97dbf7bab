// Package convert adapts node content to the output markup through an
// external markdown converter.
package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// Converter turns markdown content into rendered HTML. Implementations must
// be deterministic per input.
type Converter interface {
	Convert(markdown string) (string, error)
}

// ConversionError identifies the node whose content failed to convert. It is
// fatal for the whole run: no output is written after one occurs.
type ConversionError struct {
	Node string // output path or heading of the offending node
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert content for %s: %v", e.Node, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Goldmark converts markdown to HTML using goldmark.
type Goldmark struct {
	md goldmark.Markdown
}

func NewGoldmark() *Goldmark {
	return &Goldmark{md: goldmark.New()}
}

func (g *Goldmark) Convert(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
