package cmd

import (
	"github.com/spf13/cobra"

	"github.com/outbook/outbook/internal/outline"
	"github.com/outbook/outbook/internal/source"
)

type checkChapter struct {
	Folder   string `json:"folder"`
	Title    string `json:"title"`
	Sections int    `json:"sections"`
}

type checkResult struct {
	Valid    bool           `json:"valid"`
	Title    string         `json:"title"`
	Chapters []checkChapter `json:"chapters"`
}

var checkCmd = &cobra.Command{
	Use:   "check <outline>",
	Short: "Validate an outline without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := source.Load(args[0])
		if err != nil {
			return err
		}
		doc, err := outline.Parse(text)
		if err != nil {
			return err
		}

		res := checkResult{Valid: true, Title: doc.Title}
		for _, ch := range doc.Chapters {
			res.Chapters = append(res.Chapters, checkChapter{
				Folder:   ch.FolderName(),
				Title:    ch.Title,
				Sections: len(ch.Sections),
			})
		}
		return printer(cmd).Print(cmd.Context(), res)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
