package cmd

import (
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/outbook/outbook/internal/compile"
	"github.com/outbook/outbook/internal/source"
)

var (
	buildOutputDir string
	buildForce     bool
	buildDryRun    bool
)

var buildCmd = &cobra.Command{
	Use:   "build <outline>",
	Short: "Compile an outline into a book project",
	Long: `Build validates the outline, generates one folder per chapter with an
index page and one page per section, and reconciles the result against the
output directory. Unchanged files are left alone; changed files are a
conflict unless --force backs them up and overwrites.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := source.Load(args[0])
		if err != nil {
			return err
		}

		outDir := buildOutputDir
		if !cmd.Flags().Changed("output-dir") {
			outDir = cfg.OutputDir
		}

		res, err := compile.Run(text, osfs.New(outDir), compile.Options{
			Force:   buildForce,
			Preview: buildDryRun,
		})
		if err != nil {
			return err
		}

		logger.Info("build finished",
			"title", res.Document.Title,
			"chapters", len(res.Document.Chapters),
			"files", len(res.Plan.Files),
			"written", res.Report.Written(),
			"dry_run", buildDryRun,
		)
		return printer(cmd).Print(cmd.Context(), res.Report.Entries)
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOutputDir, "output-dir", "book", "Directory to write the project into")
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "Back up and overwrite changed files")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(buildCmd)
}
