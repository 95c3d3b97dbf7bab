// Package summarize produces per-chapter abstracts of an outline using an
// OpenAI-compatible chat completion endpoint.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/outbook/outbook/internal/outline"
	"github.com/outbook/outbook/internal/splitter"
)

// Completer is the slice of the chat API the summarizer needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures the summarizer client.
type Options struct {
	APIKey  string
	BaseURL string // Optional override for OpenAI-compatible gateways.
	Model   string
	Chunks  splitter.Config
}

// ChapterSummary is one chapter's abstract.
type ChapterSummary struct {
	Folder   string `json:"folder"`
	Title    string `json:"title"`
	Sections int    `json:"sections"`
	Summary  string `json:"summary"`
}

// Summarizer turns outline chapters into short abstracts.
type Summarizer struct {
	client Completer
	model  string
	chunks splitter.Config
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Summarizer {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Summarizer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		chunks: opts.Chunks,
		logger: logger,
	}
}

// NewWithCompleter wires a custom completion backend, used by tests.
func NewWithCompleter(c Completer, model string, chunks splitter.Config, logger *slog.Logger) *Summarizer {
	return &Summarizer{client: c, model: model, chunks: chunks, logger: logger}
}

// Document summarizes every chapter of doc in order.
func (s *Summarizer) Document(ctx context.Context, doc *outline.Document) ([]ChapterSummary, error) {
	summaries := make([]ChapterSummary, 0, len(doc.Chapters))
	for _, ch := range doc.Chapters {
		sum, err := s.Chapter(ctx, doc.Title, ch)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", ch.FolderName(), err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// Chapter summarizes a single chapter. Long chapters are condensed chunk by
// chunk, then the partial abstracts are merged in a final pass.
func (s *Summarizer) Chapter(ctx context.Context, docTitle string, ch *outline.Chapter) (ChapterSummary, error) {
	sum := ChapterSummary{
		Folder:   ch.FolderName(),
		Title:    ch.Title,
		Sections: len(ch.Sections),
	}

	chunks := splitter.ChapterChunks(ch, s.chunks)
	if len(chunks) == 0 {
		sum.Summary = "(no content)"
		return sum, nil
	}
	s.logger.Debug("summarizing chapter", "folder", sum.Folder, "chunks", len(chunks))

	partials := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		text, err := s.complete(ctx, buildChunkPrompt(docTitle, chunk.Breadcrumb, chunk.Text))
		if err != nil {
			return ChapterSummary{}, err
		}
		partials = append(partials, text)
	}

	if len(partials) == 1 {
		sum.Summary = strings.TrimSpace(partials[0])
		return sum, nil
	}
	merged, err := s.complete(ctx, buildMergePrompt(ch.Title, partials))
	if err != nil {
		return ChapterSummary{}, err
	}
	sum.Summary = strings.TrimSpace(merged)
	return sum, nil
}

func (s *Summarizer) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
