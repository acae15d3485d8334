package discovery

import (
	"github.com/minhhoang1023/openbb-docs-mcp-server/extract"
	"github.com/minhhoang1023/openbb-docs-mcp-server/toc"
)

// IdentifyResult is the outcome of IdentifySections.
type IdentifyResult struct {
	Success bool   `json:"success"`
	Query   string `json:"query"`

	// RawTOCContent is the table of contents exactly as fetched; empty on
	// failure.
	RawTOCContent string `json:"raw_toc_content"`

	// Sections is RawTOCContent parsed into entries.
	Sections toc.Sections `json:"sections,omitempty"`

	Instruction string `json:"instruction,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ContentResult is the outcome of FetchContent.
type ContentResult struct {
	Success   bool   `json:"success"`
	UserQuery string `json:"user_query"`

	// ExtractedContent maps each requested title to its section text or a
	// not-found message. It encodes as a JSON object in request order and is
	// empty on failure.
	ExtractedContent extract.Results `json:"extracted_content"`

	// SectionsFound counts the entries of ExtractedContent, found or not.
	SectionsFound int `json:"sections_found"`

	Instruction string `json:"instruction,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ListResult is the outcome of ListSections and SearchSections.
type ListResult struct {
	Success    bool         `json:"success"`
	Query      string       `json:"query"`
	Sections   toc.Sections `json:"sections"`
	Categories []string     `json:"categories,omitempty"`
	Count      int          `json:"count"`
	Error      string       `json:"error,omitempty"`
}
