// Package splitter cuts outline content into token-bounded pieces so chapter
// bodies fit an LLM context window.
package splitter

import (
	"strings"

	"github.com/outbook/outbook/internal/outline"
)

// Config controls splitting behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     50,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = d.ChunkOverlap
	}
	if c.MinChunk <= 0 {
		c.MinChunk = d.MinChunk
	}
	return c
}

// Chunk is one sized piece of chapter content with its heading trail.
type Chunk struct {
	Text       string
	Index      int      // Sequence number within the chapter.
	Breadcrumb []string // e.g. ["Widgets", "Widget Basics"]
}

// ChapterChunks gathers a chapter's body and all of its section bodies into
// token-bounded chunks, tagged with the heading trail they came from.
func ChapterChunks(ch *outline.Chapter, cfg Config) []Chunk {
	cfg = cfg.withDefaults()

	type block struct {
		trail []string
		text  string
	}
	var blocks []block
	if strings.TrimSpace(ch.Content) != "" {
		blocks = append(blocks, block{trail: []string{ch.Title}, text: ch.Content})
	}
	for _, sec := range ch.Sections {
		if strings.TrimSpace(sec.Content) == "" {
			continue
		}
		blocks = append(blocks, block{trail: []string{ch.Title, sec.Title}, text: sec.Content})
	}

	var chunks []Chunk
	for _, b := range blocks {
		for _, piece := range cfg.split(b.text) {
			if EstimateTokens(piece) < cfg.MinChunk {
				continue
			}
			chunks = append(chunks, Chunk{
				Text:       piece,
				Index:      len(chunks),
				Breadcrumb: append([]string(nil), b.trail...),
			})
		}
	}
	return chunks
}

// split breaks text into pieces of approximately ChunkSize tokens, preferring
// paragraph boundaries and falling back to sentences for oversized
// paragraphs. Consecutive pieces share ChunkOverlap tokens of context.
func (c Config) split(text string) []string {
	if EstimateTokens(text) <= c.ChunkSize {
		return []string{text}
	}

	var result []string
	var current strings.Builder
	currentTokens := 0

	flush := func() string {
		if currentTokens == 0 {
			return ""
		}
		piece := current.String()
		result = append(result, piece)
		current.Reset()
		currentTokens = 0
		return piece
	}
	carryOverlap := func(prev string) {
		overlap := tailTokens(prev, c.ChunkOverlap)
		if overlap != "" {
			current.WriteString(overlap)
			currentTokens = EstimateTokens(overlap)
		}
	}

	for _, para := range paragraphs(text) {
		paraTokens := EstimateTokens(para)

		if paraTokens > c.ChunkSize {
			flush()
			result = append(result, c.splitSentences(para)...)
			continue
		}
		if currentTokens+paraTokens > c.ChunkSize && currentTokens > 0 {
			carryOverlap(flush())
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}
	flush()
	return result
}

func (c Config) splitSentences(text string) []string {
	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences(text) {
		sentTokens := EstimateTokens(sent)
		if currentTokens+sentTokens > c.ChunkSize && currentTokens > 0 {
			prev := current.String()
			result = append(result, prev)
			current.Reset()
			currentTokens = 0
			if overlap := tailTokens(prev, c.ChunkOverlap); overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}
	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sentences(text string) []string {
	var out []string
	var current strings.Builder
	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			out = append(out, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// tailTokens returns roughly the last n tokens of text, for overlap carry.
func tailTokens(text string, n int) string {
	words := strings.Fields(text)
	targetWords := int(float64(n) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

// EstimateTokens gives a rough token count; exact tokenization is not needed
// for sizing chunks.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	// Roughly 1.33 tokens per English word.
	tokens := int(float64(len(strings.Fields(text))) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
