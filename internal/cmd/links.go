package cmd

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/outbook/outbook/internal/linkcheck"
)

var linksBrokenOnly bool

var linksCmd = &cobra.Command{
	Use:   "links [dir]",
	Short: "Probe external links in a generated project",
	Long: `Links walks the generated HTML tree, collects every external http(s)
anchor and probes it. Each URL is fetched once per run regardless of how many
pages reference it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.OutputDir
		if len(args) == 1 {
			dir = args[0]
		}

		found, err := linkcheck.Collect(osfs.New(dir), ".")
		if err != nil {
			return err
		}
		logger.Info("collected links", "count", len(found), "dir", dir)

		checker := linkcheck.New(linkcheck.Options{
			Workers: cfg.LinkWorkers,
			Timeout: cfg.LinkTimeout,
		}, logger)
		results := checker.Check(cmd.Context(), found)
		broken := linkcheck.Broken(results)

		toPrint := results
		if linksBrokenOnly {
			toPrint = broken
		}
		if err := printer(cmd).Print(cmd.Context(), toPrint); err != nil {
			return err
		}
		if len(broken) > 0 {
			return fmt.Errorf("%d broken link(s)", len(broken))
		}
		return nil
	},
}

func init() {
	linksCmd.Flags().BoolVar(&linksBrokenOnly, "broken", false, "Only report broken links")
	rootCmd.AddCommand(linksCmd)
}
