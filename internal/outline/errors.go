package outline

import "fmt"

// StructureError reports a missing or misplaced document title, or a heading
// level that skips over its enclosing context.
type StructureError struct {
	Line int
	Msg  string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// PatternError reports a heading whose text does not match the outline
// grammar, or a chapter that mixes numbered sections with content headings.
type PatternError struct {
	Line    int
	Heading string
	Msg     string
}

func (e *PatternError) Error() string {
	if e.Heading != "" {
		return fmt.Sprintf("line %d: invalid heading %q: %s", e.Line, e.Heading, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// NestingError reports section numbering deeper than two levels.
type NestingError struct {
	Line      int
	Numbering string
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("line %d: section numbering %q exceeds the maximum of two levels; use the X.Y form",
		e.Line, e.Numbering)
}
