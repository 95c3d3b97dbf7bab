package outline

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify converts a title to a filesystem-safe identifier: lowercase, runs
// of non-alphanumerics collapsed to a single dash, dashes trimmed.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.Trim(s[:50], "-")
	}
	return s
}

// AllocateSlugs derives a slug for every numbered section. Uniqueness is
// scoped per chapter: each chapter owns its output subdirectory, so two
// chapters may reuse a slug without conflict. Collisions within a chapter
// get a numeric disambiguator (-2, -3, ...).
func AllocateSlugs(doc *Document) {
	for _, ch := range doc.Chapters {
		taken := map[string]bool{"index": true}
		for _, sec := range ch.Sections {
			if sec.Kind != SectionNumbered {
				continue
			}
			base := Slugify(sec.Title)
			if base == "" {
				base = "section"
			}
			slug := base
			for n := 2; taken[slug]; n++ {
				slug = fmt.Sprintf("%s-%d", base, n)
			}
			taken[slug] = true
			sec.Slug = slug
		}
	}
}
