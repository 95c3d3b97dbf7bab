// Package plan turns a validated outline tree into the full set of output
// files, computed in memory before anything touches the filesystem.
package plan

import (
	"fmt"
	"html"
	"path"
	"sort"
	"strings"

	"github.com/outbook/outbook/internal/convert"
	"github.com/outbook/outbook/internal/outline"
)

// File is one planned output file.
type File struct {
	Path    string `json:"path"` // relative to the output root
	Content string `json:"-"`
}

// Plan is the ordered mapping from relative output path to final content.
type Plan struct {
	Files []File
}

// Lookup returns the planned content for a path.
func (p *Plan) Lookup(rel string) (string, bool) {
	for _, f := range p.Files {
		if f.Path == rel {
			return f.Content, true
		}
	}
	return "", false
}

// Paths lists the planned output paths in order.
func (p *Plan) Paths() []string {
	out := make([]string, len(p.Files))
	for i, f := range p.Files {
		out[i] = f.Path
	}
	return out
}

// Generator renders the document tree into HTML pages.
type Generator struct {
	conv convert.Converter
}

func NewGenerator(conv convert.Converter) *Generator {
	return &Generator{conv: conv}
}

// Generate produces the write plan for a document. The tree must already be
// validated and slug-annotated; Generate only reads it.
func (g *Generator) Generate(doc *outline.Document) (*Plan, error) {
	p := &Plan{}

	root, err := g.rootIndex(doc)
	if err != nil {
		return nil, err
	}
	p.Files = append(p.Files, File{Path: "index.html", Content: root})

	for _, ch := range doc.Chapters {
		idx, err := g.chapterIndex(ch)
		if err != nil {
			return nil, err
		}
		p.Files = append(p.Files, File{Path: path.Join(ch.FolderName(), "index.html"), Content: idx})

		for _, sec := range ch.Sections {
			if sec.Kind != outline.SectionNumbered {
				continue
			}
			page, err := g.sectionPage(ch, sec)
			if err != nil {
				return nil, err
			}
			p.Files = append(p.Files, File{Path: path.Join(ch.FolderName(), sec.Slug+".html"), Content: page})
		}
	}
	return p, nil
}

func (g *Generator) rootIndex(doc *outline.Document) (string, error) {
	var body []string
	body = append(body, "<h1>"+html.EscapeString(doc.Title)+"</h1>")

	intro := outline.StripHeadingEcho(doc.Intro, doc.Title, doc.Title)
	converted, err := g.convert(intro, "index.html")
	if err != nil {
		return "", err
	}
	if converted != "" {
		body = append(body, converted)
	}

	for _, group := range tocGroups(doc) {
		body = append(body, group.render())
	}
	return renderPage(doc.Title, body), nil
}

func (g *Generator) chapterIndex(ch *outline.Chapter) (string, error) {
	pagePath := path.Join(ch.FolderName(), "index.html")

	var body []string
	body = append(body, "<h1>"+html.EscapeString(ch.Title)+"</h1>")

	// Section listing comes right after the title.
	var entries []tocEntry
	for _, sec := range ch.Sections {
		if sec.Kind == outline.SectionNumbered {
			entries = append(entries, tocEntry{href: sec.Slug + ".html", label: sec.Title})
		}
	}
	if len(entries) > 0 {
		body = append(body, tocGroup{entries: entries}.render())
	}

	converted, err := g.convert(chapterBody(ch), pagePath)
	if err != nil {
		return "", err
	}
	if converted != "" {
		body = append(body, converted)
	}
	return renderPage(ch.Title, body), nil
}

func (g *Generator) sectionPage(ch *outline.Chapter, sec *outline.Section) (string, error) {
	pagePath := path.Join(ch.FolderName(), sec.Slug+".html")

	var body []string
	body = append(body, "<h1>"+html.EscapeString(sec.Title)+"</h1>")

	content := outline.StripHeadingEcho(sec.Content, sec.RawHeading, sec.Title)
	converted, err := g.convert(content, pagePath)
	if err != nil {
		return "", err
	}
	if converted != "" {
		body = append(body, converted)
	}
	return renderPage(sec.Title, body), nil
}

func (g *Generator) convert(markdown, node string) (string, error) {
	out, err := g.conv.Convert(markdown)
	if err != nil {
		return "", &convert.ConversionError{Node: node, Err: err}
	}
	return out, nil
}

// chapterBody assembles the markdown rendered on a chapter's index page: the
// chapter's own content plus any content headings folded back in as
// sub-headings.
func chapterBody(ch *outline.Chapter) string {
	parts := []string{outline.StripHeadingEcho(ch.Content, ch.RawHeading, ch.Title)}
	for _, sec := range ch.Sections {
		if sec.Kind != outline.SectionContent {
			continue
		}
		block := "### " + sec.Title
		if strings.TrimSpace(sec.Content) != "" {
			block += "\n\n" + sec.Content
		}
		parts = append(parts, block)
	}
	var nonEmpty []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

type tocEntry struct {
	href  string
	label string
}

type tocGroup struct {
	caption string
	entries []tocEntry
}

func (t tocGroup) render() string {
	var b strings.Builder
	b.WriteString("<nav class=\"toc\">\n")
	if t.caption != "" {
		b.WriteString("<h2>" + html.EscapeString(t.caption) + "</h2>\n")
	}
	b.WriteString("<ul>\n")
	for _, e := range t.entries {
		fmt.Fprintf(&b, "<li><a href=%q>%s</a></li>\n", e.href, html.EscapeString(e.label))
	}
	b.WriteString("</ul>\n</nav>")
	return b.String()
}

// tocGroups builds the up-to-three grouped listing blocks for the root index:
// front matter, chapters, appendices. Empty groups are omitted entirely.
func tocGroups(doc *outline.Document) []tocGroup {
	var prologue, introduction *outline.Chapter
	var chapters, appendices []*outline.Chapter

	for _, ch := range doc.Chapters {
		switch ch.Kind {
		case outline.KindPrologue:
			prologue = ch
		case outline.KindIntroduction:
			introduction = ch
		case outline.KindChapter:
			chapters = append(chapters, ch)
		case outline.KindAppendix:
			appendices = append(appendices, ch)
		}
	}
	sort.Slice(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })
	sort.Slice(appendices, func(i, j int) bool { return appendices[i].Letter < appendices[j].Letter })

	var groups []tocGroup

	var front []tocEntry
	// Prologue always precedes the introduction, whatever the source order.
	if prologue != nil {
		front = append(front, chapterEntry(prologue))
	}
	if introduction != nil {
		front = append(front, chapterEntry(introduction))
	}
	if len(front) > 0 {
		groups = append(groups, tocGroup{caption: "Front Matter", entries: front})
	}

	if len(chapters) > 0 {
		entries := make([]tocEntry, len(chapters))
		for i, ch := range chapters {
			entries[i] = chapterEntry(ch)
		}
		groups = append(groups, tocGroup{caption: "Chapters", entries: entries})
	}
	if len(appendices) > 0 {
		entries := make([]tocEntry, len(appendices))
		for i, ch := range appendices {
			entries[i] = chapterEntry(ch)
		}
		groups = append(groups, tocGroup{caption: "Appendices", entries: entries})
	}
	return groups
}

func chapterEntry(ch *outline.Chapter) tocEntry {
	return tocEntry{href: ch.FolderName() + "/index.html", label: ch.Title}
}

func renderPage(title string, body []string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	for _, part := range body {
		b.WriteString(part)
		b.WriteString("\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
