// Package extract locates documentation sections inside a large full-text
// document and returns bounded slices of it.
//
// A section is addressed by its title. [FindSection] tries an ordered chain of
// heading patterns ("# title", "## title", "### title", the title itself, its
// lowercase form and its slug) and stops at the first pattern that matches any
// line. Content runs from the matched line to the next top-level heading, to
// the next "## " heading that differs from the matched line, or to the end of
// the document, and is capped at [MaxSectionLines] lines followed by
// [TruncationMarker].
//
// [Sections] resolves several titles at once and always returns exactly one
// [Result] per requested title, in request order:
//
//	results := extract.Sections(fullText, []string{"Copilot Basics", "Missing"})
//	for _, r := range results {
//	    fmt.Println(r.Title, r.Found)
//	}
//
// All functions are pure and safe for concurrent use.
package extract
