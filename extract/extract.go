package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// MaxSectionLines caps the number of lines taken from the document.
	MaxSectionLines = 100

	// TruncationMarker is appended when a section is cut at MaxSectionLines.
	TruncationMarker = "... (content truncated)"
)

// NotFoundMessage returns the placeholder reported for a title that matches
// nothing in the document.
func NotFoundMessage(title string) string {
	return fmt.Sprintf("Section '%s' not found in documentation.", title)
}

// Result is the outcome of resolving one requested title.
type Result struct {
	// Title is the title exactly as requested.
	Title string
	// Content is the extracted block, or NotFoundMessage(Title).
	Content string
	// Found is false when Content is the not-found placeholder.
	Found bool
}

// Results holds one Result per requested title, in request order.
type Results []Result

// FindSection returns the block of doc addressed by title. The boolean is
// false when no heading pattern matches. Blank titles never match.
func FindSection(doc, title string) (string, bool) {
	if strings.TrimSpace(title) == "" {
		return "", false
	}

	lines := splitLines(doc)
	start := locate(lines, title)
	if start < 0 {
		return "", false
	}

	header := strings.TrimSpace(lines[start])
	out := []string{lines[start]}
	for _, line := range lines[start+1:] {
		if isBoundary(strings.TrimSpace(line), header) {
			break
		}
		if len(out) >= MaxSectionLines {
			out = append(out, TruncationMarker)
			break
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n"), true
}

// isBoundary reports whether a trimmed line ends the section started by the
// trimmed header line.
func isBoundary(line, header string) bool {
	return strings.HasPrefix(line, "# ") ||
		(strings.HasPrefix(line, "## ") && line != header)
}

// Sections resolves every title against doc. Titles are processed
// independently; duplicates and blank titles each get their own Result.
func Sections(doc string, titles []string) Results {
	results := make(Results, 0, len(titles))
	for _, title := range titles {
		content, ok := FindSection(doc, title)
		if !ok {
			content = NotFoundMessage(title)
		}
		results = append(results, Result{Title: title, Content: content, Found: ok})
	}
	return results
}

func splitLines(doc string) []string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Map returns the results keyed by title. Duplicate titles collapse into one
// key; use the slice itself when request order matters.
func (r Results) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, result := range r {
		m[result.Title] = result.Content
	}
	return m
}

// Titles returns the requested titles in order.
func (r Results) Titles() []string {
	titles := make([]string, len(r))
	for i, result := range r {
		titles[i] = result.Title
	}
	return titles
}

// Found returns only the results that matched a section.
func (r Results) Found() Results {
	var found Results
	for _, result := range r {
		if result.Found {
			found = append(found, result)
		}
	}
	return found
}

// MarshalJSON encodes the results as a JSON object keyed by requested title,
// preserving request order.
func (r Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, result := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(result.Title)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(result.Content)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
