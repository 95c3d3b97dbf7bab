// Package tidy re-normalizes whitespace in an existing output tree: trailing
// spaces and tabs are stripped per line and files end with exactly one
// newline. Changed files go through the writer so they are backed up first.
package tidy

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/outbook/outbook/internal/plan"
	"github.com/outbook/outbook/internal/writer"
)

// Run cleans every .html file under the filesystem root. Backup files
// (*.bak) are never touched. Preview reports what would change without
// writing.
func Run(fs billy.Filesystem, preview bool) (*writer.Report, error) {
	p, err := buildPlan(fs)
	if err != nil {
		return nil, err
	}
	// Cleaning always rewrites in place, so changed files are not conflicts.
	// The comparison must be byte-exact: the differences being repaired are
	// precisely the ones the writer's normalized compare ignores.
	return writer.New(fs).Apply(p, writer.Options{Force: true, Preview: preview, Exact: true})
}

func buildPlan(fs billy.Filesystem) (*plan.Plan, error) {
	p := &plan.Plan{}
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fs.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			rel := path.Join(dir, e.Name())
			if e.IsDir() {
				if err := walk(rel); err != nil {
					return err
				}
				continue
			}
			if !strings.EqualFold(path.Ext(e.Name()), ".html") {
				continue
			}
			raw, err := util.ReadFile(fs, rel)
			if err != nil {
				return fmt.Errorf("read %s: %w", rel, err)
			}
			p.Files = append(p.Files, plan.File{
				Path:    strings.TrimPrefix(rel, "/"),
				Content: writer.Normalize(string(raw)) + "\n",
			})
		}
		return nil
	}
	if err := walk("/"); err != nil {
		return nil, err
	}
	return p, nil
}
