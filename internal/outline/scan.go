package outline

import "strings"

// Token is one classified input line. Level 0 is a content line; levels 1-6
// correspond to the leading '#' marker count of a heading.
type Token struct {
	Level int
	Text  string // Heading text (trimmed) or the raw content line.
	Line  int    // 1-based source line number.
}

// Scan tokenizes outline text into heading and content tokens. Lines inside
// fenced code blocks are always content, so a '#' column header in a code
// sample is not mistaken for a heading. Pure function of its input.
func Scan(input string) []Token {
	lines := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	tokens := make([]Token, 0, len(lines))

	inFence := false
	fenceMarker := ""
	for i, line := range lines {
		n := i + 1
		trimmed := strings.TrimSpace(line)

		if inFence {
			tokens = append(tokens, Token{Level: 0, Text: line, Line: n})
			if strings.HasPrefix(trimmed, fenceMarker) {
				inFence = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = true
			fenceMarker = trimmed[:3]
			tokens = append(tokens, Token{Level: 0, Text: line, Line: n})
			continue
		}

		level, text := headingLevel(line)
		if level > 0 {
			tokens = append(tokens, Token{Level: level, Text: text, Line: n})
			continue
		}
		tokens = append(tokens, Token{Level: 0, Text: line, Line: n})
	}
	return tokens
}

// headingLevel returns the marker count and heading text, or 0 for a content
// line. A '#' run must be followed by whitespace to count as a heading.
func headingLevel(line string) (int, string) {
	if !strings.HasPrefix(line, "#") {
		return 0, ""
	}
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 || level == len(line) {
		return 0, ""
	}
	if line[level] != ' ' && line[level] != '\t' {
		return 0, ""
	}
	return level, strings.TrimSpace(line[level:])
}
