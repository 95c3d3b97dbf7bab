// Package writer reconciles a write plan against the existing output tree:
// unchanged files are skipped, changed files are backed up and rewritten
// under --force, and conflicts abort the run otherwise.
package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/outbook/outbook/internal/plan"
)

// Action is the decision taken for one planned file.
type Action string

const (
	ActionNew       Action = "new"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionConflict  Action = "conflict"
)

// Entry is the per-file outcome of a run.
type Entry struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
	Backup string `json:"backup,omitempty"` // backup path, when one was written
	Error  string `json:"error,omitempty"`
}

// Report summarizes a run over a whole plan.
type Report struct {
	Preview bool    `json:"preview"`
	Entries []Entry `json:"entries"`
}

// Written counts files that were (or, in preview, would be) written.
func (r *Report) Written() int {
	n := 0
	for _, e := range r.Entries {
		if e.Action == ActionNew || e.Action == ActionUpdated {
			n++
		}
	}
	return n
}

// ConflictError reports existing output that differs from the plan and may
// not be overwritten without force.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists with different content; re-run with --force to back it up and overwrite", e.Path)
}

// Options control a single Apply run.
type Options struct {
	Force   bool // back up and overwrite changed files
	Preview bool // compute and report every decision, mutate nothing
	Exact   bool // compare content byte-for-byte instead of whitespace-normalized
}

// Writer applies plans to a filesystem root.
type Writer struct {
	fs  billy.Filesystem
	now func() time.Time
}

func New(fs billy.Filesystem) *Writer {
	return &Writer{fs: fs, now: time.Now}
}

// NewWithClock is the test constructor: backups are stamped with now().
func NewWithClock(fs billy.Filesystem, now func() time.Time) *Writer {
	return &Writer{fs: fs, now: now}
}

// Apply runs the two phases of a write: first every file's transition is
// decided against the existing tree, then the decisions are executed. No file
// is mutated before all decisions are known, so a conflict without force
// aborts with a clean tree and a fully-decided report. Mid-execution failures
// do not roll back files already written; each failure is reported on its own
// entry.
func (w *Writer) Apply(p *plan.Plan, opts Options) (*Report, error) {
	report := &Report{Preview: opts.Preview}

	var conflict *ConflictError
	for _, f := range p.Files {
		entry := w.decide(f, opts)
		report.Entries = append(report.Entries, entry)
		if entry.Action == ActionConflict && conflict == nil {
			conflict = &ConflictError{Path: f.Path}
		}
	}
	if conflict != nil && !opts.Preview {
		return report, conflict
	}
	if opts.Preview {
		return report, nil
	}

	var errs []error
	for i, f := range p.Files {
		entry := &report.Entries[i]
		switch entry.Action {
		case ActionUnchanged:
			continue
		case ActionUpdated:
			// The backup must land before the overwrite is attempted; if it
			// fails this file is left alone and the run moves on.
			backup, err := w.backup(f.Path)
			if err != nil {
				entry.Error = err.Error()
				errs = append(errs, fmt.Errorf("backup %s: %w", f.Path, err))
				continue
			}
			entry.Backup = backup
		}
		if err := w.write(f); err != nil {
			entry.Error = err.Error()
			errs = append(errs, fmt.Errorf("write %s: %w", f.Path, err))
		}
	}
	return report, errors.Join(errs...)
}

// decide computes the state transition for one planned file. The default
// comparison ignores trailing whitespace and line endings; Exact compares raw
// bytes so runs that repair exactly those differences still see them.
func (w *Writer) decide(f plan.File, opts Options) Entry {
	existing, err := util.ReadFile(w.fs, f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Entry{Path: f.Path, Action: ActionNew}
		}
		return Entry{Path: f.Path, Action: ActionConflict, Error: err.Error()}
	}
	same := Normalize(string(existing)) == Normalize(f.Content)
	if opts.Exact {
		same = string(existing) == f.Content
	}
	if same {
		return Entry{Path: f.Path, Action: ActionUnchanged}
	}
	if opts.Force {
		return Entry{Path: f.Path, Action: ActionUpdated}
	}
	return Entry{Path: f.Path, Action: ActionConflict}
}

func (w *Writer) write(f plan.File) error {
	if dir := path.Dir(f.Path); dir != "." {
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return util.WriteFile(w.fs, f.Path, []byte(f.Content), 0o644)
}

// backup copies the current file to <name>.<YYYYMMDD_HHMMSS>.bak alongside it
// and returns the backup path.
func (w *Writer) backup(rel string) (string, error) {
	src, err := w.fs.Open(rel)
	if err != nil {
		return "", err
	}
	defer src.Close()

	backupPath := fmt.Sprintf("%s.%s.bak", rel, w.now().Format("20060102_150405"))
	dst, err := w.fs.Create(backupPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	return backupPath, dst.Close()
}

// Normalize prepares content for comparison: CRLF to LF, trailing whitespace
// stripped per line, trailing newlines ignored.
func Normalize(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
