// Package compile runs the full outline-to-project pipeline: validate and
// parse the outline, allocate slugs, convert content, plan the output tree
// and reconcile it against the filesystem. The pipeline is synchronous and
// fails fast: no file is touched until the outline has fully validated.
package compile

import (
	"github.com/go-git/go-billy/v5"

	"github.com/outbook/outbook/internal/convert"
	"github.com/outbook/outbook/internal/outline"
	"github.com/outbook/outbook/internal/plan"
	"github.com/outbook/outbook/internal/writer"
)

// Options control one compiler invocation.
type Options struct {
	Force   bool
	Preview bool
}

// Result carries the parsed document, the computed plan and the write report.
type Result struct {
	Document *outline.Document
	Plan     *plan.Plan
	Report   *writer.Report
}

// Run compiles outline text into the project rooted at fs. Each call owns a
// fresh conversion cache, so repeated invocations never share state.
func Run(text string, fs billy.Filesystem, opts Options) (*Result, error) {
	doc, err := outline.Parse(text)
	if err != nil {
		return nil, err
	}
	outline.AllocateSlugs(doc)

	gen := plan.NewGenerator(convert.NewCache(convert.NewGoldmark()))
	p, err := gen.Generate(doc)
	if err != nil {
		return nil, err
	}

	report, err := writer.New(fs).Apply(p, writer.Options{
		Force:   opts.Force,
		Preview: opts.Preview,
	})
	if err != nil {
		return &Result{Document: doc, Plan: p, Report: report}, err
	}
	return &Result{Document: doc, Plan: p, Report: report}, nil
}
