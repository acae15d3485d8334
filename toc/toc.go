package toc

import (
	"regexp"
	"strings"
)

// Section is one entry of the table of contents.
type Section struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Sections is an ordered slice of Section with helper methods.
type Sections []Section

// bulletPrefixes mark a line as a list entry rather than a header.
var bulletPrefixes = []string{"-", "*", "1.", "2.", "3.", "4.", "5."}

var linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// Parse converts raw table-of-contents text into sections, in order of
// appearance. A non-empty query filters out sections whose title and
// enclosing category both lack it (case-insensitive substring match).
// Lines without a link are skipped; Parse never fails.
func Parse(text string, query string) Sections {
	sections := Sections{}
	query = strings.ToLower(query)
	category := ""

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !isEntry(line) {
			if !strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "http") {
				category = strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
			}
			continue
		}

		m := linkPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		url := strings.TrimSpace(m[2])
		if title == "" || url == "" {
			continue
		}

		if query != "" &&
			!strings.Contains(strings.ToLower(title), query) &&
			!strings.Contains(strings.ToLower(category), query) {
			continue
		}

		sections = append(sections, Section{
			Title:       title,
			Category:    category,
			URL:         url,
			Description: describe(category, title),
		})
	}

	return sections
}

func isEntry(line string) bool {
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func describe(category, title string) string {
	if category == "" {
		return title
	}
	return category + ": " + title
}

// Titles returns the section titles in order.
func (s Sections) Titles() []string {
	titles := make([]string, len(s))
	for i, section := range s {
		titles[i] = section.Title
	}
	return titles
}

// Categories returns the distinct categories in order of first appearance.
// Sections without a category are not represented.
func (s Sections) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, section := range s {
		if section.Category == "" {
			continue
		}
		if _, ok := seen[section.Category]; ok {
			continue
		}
		seen[section.Category] = struct{}{}
		out = append(out, section.Category)
	}
	return out
}

// FilterByCategory returns the sections whose category equals the given one.
func (s Sections) FilterByCategory(category string) Sections {
	var filtered Sections
	for _, section := range s {
		if section.Category == category {
			filtered = append(filtered, section)
		}
	}
	return filtered
}
