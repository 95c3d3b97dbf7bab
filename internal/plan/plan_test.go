package plan

import (
	"strings"
	"testing"

	"github.com/outbook/outbook/internal/convert"
	"github.com/outbook/outbook/internal/outline"
)

func generate(t *testing.T, input string) *Plan {
	t.Helper()
	doc, err := outline.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	outline.AllocateSlugs(doc)

	g := NewGenerator(convert.NewCache(convert.NewGoldmark()))
	p, err := g.Generate(doc)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return p
}

func TestGenerate_MinimalScenario(t *testing.T) {
	p := generate(t, "# T\n## Chapter 1: A\n### 1.1 X\ncontent\n")

	wantPaths := []string{"index.html", "chapter1/index.html", "chapter1/x.html"}
	got := p.Paths()
	if len(got) != len(wantPaths) {
		t.Fatalf("expected paths %v, got %v", wantPaths, got)
	}
	for i := range wantPaths {
		if got[i] != wantPaths[i] {
			t.Errorf("path %d: expected %q, got %q", i, wantPaths[i], got[i])
		}
	}

	root, _ := p.Lookup("index.html")
	if !strings.Contains(root, "<h1>T</h1>") {
		t.Errorf("root index should carry the document title: %q", root)
	}
	chapter, _ := p.Lookup("chapter1/index.html")
	if !strings.Contains(chapter, "<h1>A</h1>") {
		t.Errorf("chapter index should carry the clean title: %q", chapter)
	}
	if strings.Contains(chapter, "Chapter 1:") {
		t.Errorf("chapter title must omit the numeric prefix: %q", chapter)
	}
	section, _ := p.Lookup("chapter1/x.html")
	if !strings.Contains(section, "<h1>X</h1>") || !strings.Contains(section, "content") {
		t.Errorf("section page missing title or content: %q", section)
	}
}

func TestGenerate_GroupingBlocks(t *testing.T) {
	onlyChapters := generate(t, "# T\n## Chapter 1: A\n## Chapter 2: B\n")
	root, _ := onlyChapters.Lookup("index.html")
	if got := strings.Count(root, "<nav class=\"toc\">"); got != 1 {
		t.Errorf("expected exactly 1 grouping block, got %d:\n%s", got, root)
	}
	if !strings.Contains(root, "<h2>Chapters</h2>") {
		t.Errorf("missing chapters caption: %q", root)
	}
	if strings.Contains(root, "Front Matter") || strings.Contains(root, "Appendices") {
		t.Errorf("empty groups must not be emitted: %q", root)
	}

	withAppendix := generate(t, "# T\n## Chapter 1: A\n## Chapter 2: B\n## Appendix A: X\n")
	root, _ = withAppendix.Lookup("index.html")
	if got := strings.Count(root, "<nav class=\"toc\">"); got != 2 {
		t.Errorf("expected exactly 2 grouping blocks, got %d", got)
	}
	if strings.Index(root, "<h2>Chapters</h2>") > strings.Index(root, "<h2>Appendices</h2>") {
		t.Errorf("chapters must precede appendices:\n%s", root)
	}
}

func TestGenerate_GroupOrderingAndFrontMatter(t *testing.T) {
	// Introduction written before the prologue, chapters out of numeric order.
	input := "# T\n## Introduction\n## Prologue\n## Chapter 2: B\n## Chapter 1: A\n## Appendix B: Y\n## Appendix A: X\n"
	p := generate(t, input)
	root, _ := p.Lookup("index.html")

	iFront := strings.Index(root, "<h2>Front Matter</h2>")
	iChapters := strings.Index(root, "<h2>Chapters</h2>")
	iAppendices := strings.Index(root, "<h2>Appendices</h2>")
	if iFront == -1 || iChapters == -1 || iAppendices == -1 {
		t.Fatalf("expected all three grouping blocks:\n%s", root)
	}
	if !(iFront < iChapters && iChapters < iAppendices) {
		t.Errorf("grouping blocks out of order:\n%s", root)
	}
	if strings.Index(root, "prologue/index.html") > strings.Index(root, "introduction/index.html") {
		t.Errorf("prologue must precede introduction in front matter:\n%s", root)
	}
	if strings.Index(root, "chapter1/index.html") > strings.Index(root, "chapter2/index.html") {
		t.Errorf("chapters must list in ascending numeric order:\n%s", root)
	}
	if strings.Index(root, "appendixA/index.html") > strings.Index(root, "appendixB/index.html") {
		t.Errorf("appendices must list in ascending letter order:\n%s", root)
	}
}

func TestGenerate_SectionTocOnChapterIndex(t *testing.T) {
	p := generate(t, "# T\n## Chapter 1: A\nopener\n### 1.1 First\n### 1.2 Second\n")
	chapter, _ := p.Lookup("chapter1/index.html")

	if !strings.Contains(chapter, `<a href="first.html">First</a>`) ||
		!strings.Contains(chapter, `<a href="second.html">Second</a>`) {
		t.Errorf("chapter index missing section listing:\n%s", chapter)
	}
	// The listing sits between the title and the chapter content.
	if strings.Index(chapter, "first.html") > strings.Index(chapter, "opener") {
		t.Errorf("section listing should precede chapter content:\n%s", chapter)
	}
}

func TestGenerate_ContentHeadingsFoldedIntoChapterIndex(t *testing.T) {
	p := generate(t, "# T\n## Chapter 1: A\nopener\n### Background\nhistory text\n")

	if len(p.Files) != 2 {
		t.Fatalf("content headings must not create files; got %v", p.Paths())
	}
	chapter, _ := p.Lookup("chapter1/index.html")
	if !strings.Contains(chapter, "<h3>Background</h3>") {
		t.Errorf("content heading not rendered as a sub-heading:\n%s", chapter)
	}
	if !strings.Contains(chapter, "history text") {
		t.Errorf("content heading body missing:\n%s", chapter)
	}
}

func TestGenerate_HeadingEchoRemoved(t *testing.T) {
	input := "# T\n## Chapter 1: A\nChapter 1: A\nreal opener\n### 1.1 X\n1.1 X\nsection body\n"
	p := generate(t, input)

	chapter, _ := p.Lookup("chapter1/index.html")
	if got := strings.Count(chapter, "Chapter 1: A"); got != 0 {
		t.Errorf("heading echo survived in chapter content:\n%s", chapter)
	}
	if !strings.Contains(chapter, "real opener") {
		t.Errorf("real content was dropped:\n%s", chapter)
	}
	section, _ := p.Lookup("chapter1/x.html")
	if strings.Contains(section, "1.1 X") {
		t.Errorf("heading echo survived in section content:\n%s", section)
	}
	if !strings.Contains(section, "section body") {
		t.Errorf("real section content was dropped:\n%s", section)
	}
}

func TestGenerate_TitlesAreEscaped(t *testing.T) {
	p := generate(t, "# Tools & Tricks <fast>\n## Chapter 1: A\n")
	root, _ := p.Lookup("index.html")
	if !strings.Contains(root, "<h1>Tools &amp; Tricks &lt;fast&gt;</h1>") {
		t.Errorf("title not escaped:\n%s", root)
	}
}
