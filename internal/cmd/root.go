// Package cmd wires the outbook command-line interface.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/outbook/outbook/internal/config"
	"github.com/outbook/outbook/internal/output"
)

var (
	// Set at build time.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information from build flags.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Global flags.
var (
	configFile  string
	outputFmt   string
	outputType  output.Format
	queryExpr   string
	quietFlag   bool
	verboseFlag bool
)

// cfg is the effective configuration, loaded by the root PersistentPreRunE.
var cfg config.Config

// logger is shared by all commands and writes to stderr so structured output
// on stdout stays machine-readable.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

var rootCmd = &cobra.Command{
	Use:   "outbook",
	Short: "Compile plain-text outlines into structured book projects",
	Long: `outbook turns a plain-text outline with a constrained heading grammar
into a multi-file HTML project with generated tables of contents.

Existing output is never silently destroyed: changed files abort the run
unless --force backs them up first.

Environment Variables:
  OUTBOOK_OUTPUT_DIR  Default output directory
  OUTBOOK_API_KEY     API key for the HTTP server
  OPENAI_API_KEY      API key for summarize`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true

		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded

		// Output format selection: --output > config > default; structured
		// output is the default when stdout is not a terminal.
		formatStr := outputFmt
		if !cmd.Flags().Changed("output") {
			if strings.TrimSpace(cfg.OutputFormat) != "" {
				formatStr = strings.TrimSpace(cfg.OutputFormat)
			}
			if !isTerminal(cmd.OutOrStdout()) {
				formatStr = "json"
			}
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format

		level := slog.LevelInfo
		if quietFlag {
			level = slog.LevelWarn
		}
		if verboseFlag {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		ctx := cmd.Context()
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithQuiet(ctx, quietFlag)
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("outbook version %s (commit: %s, built: %s)\n", version, commit, date))

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/outbook/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

// printer builds the output printer for a command invocation.
func printer(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), output.FormatFromContext(cmd.Context()))
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
