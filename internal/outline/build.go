package outline

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse runs the full front end: classify lines, validate the grammar and
// construct the document tree.
func Parse(input string) (*Document, error) {
	tokens := Scan(input)
	if err := Validate(tokens); err != nil {
		return nil, err
	}
	return build(tokens)
}

// openNode is one entry on the builder's stack of open headings. Content
// lines always attach to the innermost open node; a heading at level L closes
// every open node at level >= L.
type openNode struct {
	level int
	body  []string
	flush func(content string)
}

// build assembles the document from a validated token stream. The only check
// left to run here is the mixed-section-kind invariant, which needs the full
// set of a chapter's children.
func build(tokens []Token) (*Document, error) {
	doc := &Document{}
	var stack []openNode

	push := func(level int, flush func(string)) {
		stack = append(stack, openNode{level: level, flush: flush})
	}
	closeTo := func(level int) {
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			top := stack[len(stack)-1]
			top.flush(strings.TrimSpace(strings.Join(top.body, "\n")))
			stack = stack[:len(stack)-1]
		}
	}
	appendLine := func(line string) {
		if len(stack) == 0 {
			return // leading content before the title is dropped by grammar rules
		}
		stack[len(stack)-1].body = append(stack[len(stack)-1].body, line)
	}

	var chapter *Chapter
	for _, t := range tokens {
		switch {
		case t.Level == 0:
			appendLine(t.Text)

		case t.Level == 1:
			closeTo(1)
			doc.Title = t.Text
			push(1, func(content string) { doc.Intro = content })

		case t.Level == 2:
			closeTo(2)
			chapter = newChapter(t)
			doc.Chapters = append(doc.Chapters, chapter)
			ch := chapter
			push(2, func(content string) { ch.Content = content })

		case t.Level == 3:
			closeTo(3)
			sec := newSection(t)
			chapter.Sections = append(chapter.Sections, sec)
			push(3, func(content string) { sec.Content = content })

		default:
			// Deeper headings are plain sub-content of the open node.
			appendLine(strings.Repeat("#", t.Level) + " " + t.Text)
		}
	}
	closeTo(1)

	for _, ch := range doc.Chapters {
		if err := checkSectionKinds(ch); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func newChapter(t Token) *Chapter {
	ch := &Chapter{RawHeading: t.Text, Line: t.Line}
	switch {
	case chapterPattern.MatchString(t.Text):
		m := chapterPattern.FindStringSubmatch(t.Text)
		ch.Kind = KindChapter
		ch.Number, _ = strconv.Atoi(m[1])
		ch.Title = strings.TrimSpace(m[2])
	case appendixPattern.MatchString(t.Text):
		m := appendixPattern.FindStringSubmatch(t.Text)
		ch.Kind = KindAppendix
		ch.Letter = m[1]
		ch.Title = strings.TrimSpace(m[2])
	default:
		m := frontPattern.FindStringSubmatch(t.Text)
		if m[1] == "Prologue" {
			ch.Kind = KindPrologue
		} else {
			ch.Kind = KindIntroduction
		}
		// A "Prologue: Title" suffix stays part of the displayed title.
		ch.Title = t.Text
	}
	return ch
}

func newSection(t Token) *Section {
	if m := sectionPattern.FindStringSubmatch(t.Text); m != nil {
		return &Section{
			Kind:       SectionNumbered,
			Number:     m[1] + "." + m[2],
			Title:      strings.TrimSpace(m[3]),
			RawHeading: t.Text,
			Line:       t.Line,
		}
	}
	return &Section{
		Kind:       SectionContent,
		Title:      t.Text,
		RawHeading: t.Text,
		Line:       t.Line,
	}
}

// checkSectionKinds enforces that a chapter's sections are either all
// numbered or all content headings.
func checkSectionKinds(ch *Chapter) error {
	var hasNumbered bool
	var contentHeadings []string
	for _, s := range ch.Sections {
		switch s.Kind {
		case SectionNumbered:
			hasNumbered = true
		case SectionContent:
			contentHeadings = append(contentHeadings, s.RawHeading)
		}
	}
	if hasNumbered && len(contentHeadings) > 0 {
		return &PatternError{
			Line:    ch.Line,
			Heading: ch.RawHeading,
			Msg: fmt.Sprintf("chapter mixes numbered sections with unnumbered headings (%s); number every section or none",
				strings.Join(contentHeadings, ", ")),
		}
	}
	return nil
}
