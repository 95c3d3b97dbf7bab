package cmd

import (
	"github.com/spf13/cobra"

	"github.com/outbook/outbook/internal/config"
)

type settingsView struct {
	ConfigPath     string `json:"config_path"`
	OutputDir      string `json:"output_dir"`
	OutputFormat   string `json:"output_format"`
	Port           string `json:"port"`
	APIKey         string `json:"api_key"`
	MaxUploadBytes int64  `json:"max_upload_bytes"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	OpenAIBaseURL  string `json:"openai_base_url,omitempty"`
	OpenAIModel    string `json:"openai_model"`
	ChunkSize      int    `json:"chunk_size"`
	ChunkOverlap   int    `json:"chunk_overlap"`
	LinkWorkers    int    `json:"link_workers"`
	LinkTimeout    string `json:"link_timeout"`
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective configuration",
	Long:  `Settings prints the configuration after defaults, the config file and environment variables have been layered. Secrets are masked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			p, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		view := settingsView{
			ConfigPath:     path,
			OutputDir:      cfg.OutputDir,
			OutputFormat:   cfg.OutputFormat,
			Port:           cfg.Port,
			APIKey:         mask(cfg.APIKey),
			MaxUploadBytes: cfg.MaxUploadBytes,
			OpenAIAPIKey:   mask(cfg.OpenAIAPIKey),
			OpenAIBaseURL:  cfg.OpenAIBaseURL,
			OpenAIModel:    cfg.OpenAIModel,
			ChunkSize:      cfg.ChunkSize,
			ChunkOverlap:   cfg.ChunkOverlap,
			LinkWorkers:    cfg.LinkWorkers,
			LinkTimeout:    cfg.LinkTimeout.String(),
		}
		return printer(cmd).Print(cmd.Context(), view)
	},
}

// mask hides all but the last four characters of a secret.
func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}
