package outline

import (
	"regexp"
	"strings"
)

var numberPrefix = regexp.MustCompile(`^(?:\d+(?:\.\d+)*|[A-Z]\.\d+)\.?\s*:?\s*`)

// StripHeadingEcho removes leading content lines that merely restate the
// node's own heading, so the generated page does not show its title twice.
// Matching is deliberately conservative: only the first non-blank line is a
// candidate, and only exact restatements (optionally behind markdown markers
// or a number prefix) are dropped. Anything more relaxed risks deleting real
// content.
func StripHeadingEcho(content, rawHeading, cleanTitle string) string {
	lines := strings.Split(content, "\n")

	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || !isHeadingEcho(lines[i], rawHeading, cleanTitle) {
		return content
	}
	i++

	// Drop a setext-style underline left over from the original heading.
	if i < len(lines) && isUnderline(lines[i]) {
		i++
	}
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return strings.Join(lines[i:], "\n")
}

func isHeadingEcho(line, rawHeading, cleanTitle string) bool {
	s := strings.TrimSpace(line)
	raw := strings.TrimSpace(rawHeading)
	clean := strings.TrimSpace(cleanTitle)

	if s == raw || (clean != "" && s == clean) {
		return true
	}
	// A markdown restatement: "# ...", "## ...", "### ...".
	if strings.HasPrefix(s, "#") {
		stripped := strings.TrimSpace(strings.TrimLeft(s, "#"))
		if stripped == raw || (clean != "" && stripped == clean) {
			return true
		}
		s = stripped
	}
	// A number-prefixed restatement such as "1.1 Title" or "1.1: Title".
	if clean != "" {
		if rest := numberPrefix.ReplaceAllString(s, ""); rest != s && strings.TrimSpace(rest) == clean {
			return true
		}
	}
	return false
}

func isUnderline(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '=' && r != '-' {
			return false
		}
	}
	return true
}
