package extract

import "strings"

// matcher derives a search pattern from a section title.
type matcher func(title string) string

// matchers are tried in priority order; the first one matching any line wins.
var matchers = []matcher{
	func(title string) string { return "# " + title },
	func(title string) string { return "## " + title },
	func(title string) string { return "### " + title },
	func(title string) string { return title },
	strings.ToLower,
	Slug,
}

// Slug lowercases a title and replaces spaces with hyphens.
func Slug(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

// patterns returns the candidate patterns for title in priority order.
func patterns(title string) []string {
	out := make([]string, len(matchers))
	for i, m := range matchers {
		out[i] = m(title)
	}
	return out
}

// lineMatches reports whether line contains pattern, ignoring case, or equals
// it once trimmed.
func lineMatches(line, pattern string) bool {
	lower := strings.ToLower(line)
	pattern = strings.ToLower(pattern)
	return strings.Contains(lower, pattern) || strings.TrimSpace(lower) == pattern
}

// locate returns the index of the section start line, or -1.
func locate(lines []string, title string) int {
	for _, pattern := range patterns(title) {
		for i, line := range lines {
			if lineMatches(line, pattern) {
				return i
			}
		}
	}
	return -1
}
