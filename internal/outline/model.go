package outline

import "fmt"

// ChapterKind discriminates the four legal chapter heading forms.
type ChapterKind int

const (
	KindPrologue ChapterKind = iota
	KindIntroduction
	KindChapter
	KindAppendix
)

func (k ChapterKind) String() string {
	switch k {
	case KindPrologue:
		return "prologue"
	case KindIntroduction:
		return "introduction"
	case KindChapter:
		return "chapter"
	case KindAppendix:
		return "appendix"
	}
	return "unknown"
}

// Document is the root of a parsed outline.
type Document struct {
	Title    string     // From the single leading level-1 heading.
	Intro    string     // Content between the title and the first chapter heading.
	Chapters []*Chapter // Document order.
}

// Chapter is a level-2 node: prologue, introduction, numbered chapter or appendix.
type Chapter struct {
	Kind       ChapterKind
	Number     int    // Set for KindChapter.
	Letter     string // Set for KindAppendix.
	Title      string // Clean title with the grammar prefix stripped.
	RawHeading string // Heading text as written in the outline.
	Content    string // Between this heading and the first section or next chapter.
	Sections   []*Section
	Line       int // 1-based source line of the heading.
}

// Key returns the chapter's numbering key: the chapter number or appendix
// letter. Prologue and introduction chapters have no key.
func (c *Chapter) Key() string {
	switch c.Kind {
	case KindChapter:
		return fmt.Sprintf("%d", c.Number)
	case KindAppendix:
		return c.Letter
	}
	return ""
}

// FolderName returns the output subdirectory for this chapter.
func (c *Chapter) FolderName() string {
	switch c.Kind {
	case KindPrologue:
		return "prologue"
	case KindIntroduction:
		return "introduction"
	case KindChapter:
		return fmt.Sprintf("chapter%d", c.Number)
	case KindAppendix:
		return "appendix" + c.Letter
	}
	return ""
}

// SectionKind discriminates the two legal section forms.
type SectionKind int

const (
	// SectionNumbered is an "X.Y Title" heading that gets its own output file.
	SectionNumbered SectionKind = iota
	// SectionContent is an unnumbered heading folded into the chapter body.
	SectionContent
)

// Section is a level-3 node inside a chapter.
type Section struct {
	Kind       SectionKind
	Number     string // "1.2" or "A.3" for numbered sections.
	Title      string // Clean title with the number prefix stripped.
	RawHeading string
	Content    string
	Slug       string // Filesystem-safe identifier, set by AllocateSlugs.
	Line       int
}
