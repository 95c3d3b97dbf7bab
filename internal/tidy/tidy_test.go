package tidy

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outbook/outbook/internal/writer"
)

func TestRun_StripsTrailingWhitespace(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "index.html", []byte("<h1>Title</h1>   \n\n\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "chapter1/index.html", []byte("<p>clean</p>\n"), 0o644))

	report, err := Run(fs, false)
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, 1, report.Written())

	got, err := util.ReadFile(fs, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Title</h1>\n", string(got))

	// The dirty file was backed up before being rewritten.
	var updated writer.Entry
	for _, e := range report.Entries {
		if e.Path == "index.html" {
			updated = e
		}
	}
	assert.Equal(t, writer.ActionUpdated, updated.Action)
	assert.NotEmpty(t, updated.Backup)
	backup, err := util.ReadFile(fs, updated.Backup)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Title</h1>   \n\n\n", string(backup))
}

func TestRun_IgnoresNonHTMLAndBackups(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "notes.txt", []byte("keep me   \n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "index.html.20260101_000000.bak", []byte("old   \n"), 0o644))

	report, err := Run(fs, false)
	require.NoError(t, err)
	assert.Empty(t, report.Entries)

	got, err := util.ReadFile(fs, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "keep me   \n", string(got))
}

func TestRun_PreviewWritesNothing(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "index.html", []byte("dirty   \n"), 0o644))

	report, err := Run(fs, true)
	require.NoError(t, err)
	assert.True(t, report.Preview)
	assert.Equal(t, 1, report.Written())

	got, err := util.ReadFile(fs, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "dirty   \n", string(got))
}
