package cmd

import (
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/outbook/outbook/internal/tidy"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Normalize whitespace in generated pages",
	Long: `Clean strips trailing whitespace and surplus blank lines from every
HTML page in the output tree. Files that change are backed up first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.OutputDir
		if len(args) == 1 {
			dir = args[0]
		}

		report, err := tidy.Run(osfs.New(dir), cleanDryRun)
		if err != nil {
			return err
		}
		logger.Info("clean finished", "dir", dir, "changed", report.Written(), "dry_run", cleanDryRun)
		return printer(cmd).Print(cmd.Context(), report.Entries)
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(cleanCmd)
}
