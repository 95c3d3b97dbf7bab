package outline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	chapterPattern  = regexp.MustCompile(`^Chapter\s+(\d+):\s*(.+)$`)
	appendixPattern = regexp.MustCompile(`^Appendix\s+([A-Z]):\s*(.+)$`)
	frontPattern    = regexp.MustCompile(`^(Prologue|Introduction)(?::\s*(.+))?$`)

	// Numbered sections are exactly two components: a chapter number or an
	// appendix letter, a dot, and a section number.
	sectionPattern = regexp.MustCompile(`^(\d+|[A-Z])\.(\d+)\s+(.+)$`)
	// Anything with a third dot-separated numeric component is too deep.
	deepNestingPattern = regexp.MustCompile(`^((?:\d+|[A-Z])(?:\.\d+){2,})(?:\s|$)`)
)

// Validate checks the classified token stream against the outline grammar.
// Checks run in a fixed order and stop at the first violation:
//
//  1. exactly one level-1 heading, first, with a non-blank title
//  2. no heading level skips relative to its enclosing context
//  3. every level-2 heading matches a chapter form, with unique keys
//  4. numbered level-3 headings agree with the enclosing chapter's key
//  5. section numbering never exceeds two components
//
// Whether an unnumbered level-3 heading is legal depends on its siblings, so
// that check is deferred to tree construction.
func Validate(tokens []Token) error {
	headings := headingTokens(tokens)

	if err := validateTitle(headings); err != nil {
		return err
	}
	if err := validateHierarchy(headings); err != nil {
		return err
	}
	if err := validateChapterHeadings(headings); err != nil {
		return err
	}
	return validateSectionHeadings(headings)
}

func headingTokens(tokens []Token) []Token {
	var hs []Token
	for _, t := range tokens {
		if t.Level > 0 {
			hs = append(hs, t)
		}
	}
	return hs
}

func validateTitle(headings []Token) error {
	if len(headings) == 0 {
		return &StructureError{Line: 1, Msg: "document must contain at least one heading"}
	}
	first := headings[0]
	if first.Level != 1 {
		return &StructureError{Line: first.Line, Msg: "document must start with a level 1 heading (document title)"}
	}
	if strings.TrimSpace(first.Text) == "" {
		return &StructureError{Line: first.Line, Msg: "document title must not be blank"}
	}
	for _, h := range headings[1:] {
		if h.Level == 1 {
			return &StructureError{
				Line: h.Line,
				Msg:  fmt.Sprintf("unexpected second level 1 heading %q: a document has exactly one title", h.Text),
			}
		}
	}
	return nil
}

func validateHierarchy(headings []Token) error {
	prev := headings[0].Level
	for _, h := range headings[1:] {
		if h.Level > prev+1 {
			return &StructureError{
				Line: h.Line,
				Msg:  fmt.Sprintf("level %d heading cannot follow a level %d heading", h.Level, prev),
			}
		}
		prev = h.Level
	}
	return nil
}

func validateChapterHeadings(headings []Token) error {
	seenNumbers := map[int]int{} // chapter number -> line
	seenLetters := map[string]int{}
	seenFront := map[string]int{} // "Prologue"/"Introduction" -> line

	for _, h := range headings {
		if h.Level != 2 {
			continue
		}
		switch {
		case frontPattern.MatchString(h.Text):
			kind := frontPattern.FindStringSubmatch(h.Text)[1]
			if line, dup := seenFront[kind]; dup {
				return &PatternError{Line: h.Line, Heading: h.Text,
					Msg: fmt.Sprintf("duplicate %s (first declared on line %d)", strings.ToLower(kind), line)}
			}
			seenFront[kind] = h.Line
		case chapterPattern.MatchString(h.Text):
			m := chapterPattern.FindStringSubmatch(h.Text)
			num, err := strconv.Atoi(m[1])
			if err != nil {
				return &PatternError{Line: h.Line, Heading: h.Text, Msg: "chapter number is not a valid integer"}
			}
			if line, dup := seenNumbers[num]; dup {
				return &PatternError{Line: h.Line, Heading: h.Text,
					Msg: fmt.Sprintf("duplicate chapter number %d (first declared on line %d)", num, line)}
			}
			seenNumbers[num] = h.Line
		case appendixPattern.MatchString(h.Text):
			letter := appendixPattern.FindStringSubmatch(h.Text)[1]
			if line, dup := seenLetters[letter]; dup {
				return &PatternError{Line: h.Line, Heading: h.Text,
					Msg: fmt.Sprintf("duplicate appendix letter %s (first declared on line %d)", letter, line)}
			}
			seenLetters[letter] = h.Line
		default:
			return &PatternError{Line: h.Line, Heading: h.Text,
				Msg: "chapter headings must be 'Prologue', 'Introduction', 'Chapter <number>: <title>' or 'Appendix <letter>: <title>'"}
		}
	}
	return nil
}

func validateSectionHeadings(headings []Token) error {
	var chapter *Token // enclosing level-2 heading, nil before the first chapter

	for i := range headings {
		h := headings[i]
		switch {
		case h.Level == 2:
			chapter = &headings[i]
		case h.Level >= 3:
			if m := deepNestingPattern.FindStringSubmatch(h.Text); m != nil {
				return &NestingError{Line: h.Line, Numbering: m[1]}
			}
			if h.Level > 3 {
				continue // deeper headings are folded into section content
			}
			m := sectionPattern.FindStringSubmatch(h.Text)
			if m == nil {
				continue // unnumbered content heading candidate, judged during tree building
			}
			key := chapterKey(chapter.Text)
			if key == "" {
				return &PatternError{Line: h.Line, Heading: h.Text,
					Msg: fmt.Sprintf("numbered sections are not allowed under %q", chapter.Text)}
			}
			if m[1] != key {
				return &PatternError{Line: h.Line, Heading: h.Text,
					Msg: fmt.Sprintf("section number %s.%s does not match the enclosing chapter key %q", m[1], m[2], key)}
			}
		}
	}
	return nil
}

// chapterKey extracts the numbering key from a validated chapter heading.
func chapterKey(heading string) string {
	if m := chapterPattern.FindStringSubmatch(heading); m != nil {
		return m[1]
	}
	if m := appendixPattern.FindStringSubmatch(heading); m != nil {
		return m[1]
	}
	return ""
}
