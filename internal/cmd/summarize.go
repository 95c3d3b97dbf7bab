package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outbook/outbook/internal/outline"
	"github.com/outbook/outbook/internal/source"
	"github.com/outbook/outbook/internal/splitter"
	"github.com/outbook/outbook/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <outline>",
	Short: "Generate per-chapter abstracts with an LLM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.OpenAIAPIKey == "" {
			return fmt.Errorf("summarize requires an API key; set OPENAI_API_KEY or openai_api_key in the config file")
		}
		text, err := source.Load(args[0])
		if err != nil {
			return err
		}
		doc, err := outline.Parse(text)
		if err != nil {
			return err
		}

		s := summarize.New(summarize.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Chunks: splitter.Config{
				ChunkSize:    cfg.ChunkSize,
				ChunkOverlap: cfg.ChunkOverlap,
			},
		}, logger)

		summaries, err := s.Document(cmd.Context(), doc)
		if err != nil {
			return err
		}
		return printer(cmd).Print(cmd.Context(), summaries)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
