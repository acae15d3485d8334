package discovery

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/minhhoang1023/openbb-docs-mcp-server/extract"
	"github.com/minhhoang1023/openbb-docs-mcp-server/search"
	"github.com/minhhoang1023/openbb-docs-mcp-server/toc"
)

// DefaultMaxSections is the search limit used when neither the caller nor
// Options sets one.
const DefaultMaxSections = 10

// Source supplies the two documentation documents. *fetch.Client satisfies it.
type Source interface {
	FetchTOC(ctx context.Context) (string, error)
	FetchFullText(ctx context.Context) (string, error)
}

// Searcher finds sections matching a keyword query.
// *search.KeywordSearcher satisfies it.
type Searcher interface {
	Search(query string, limit int, sections []toc.Section) ([]toc.Section, error)
}

// Options configures a Service.
type Options struct {
	// Source fetches the documents. Required.
	Source Source

	// Searcher backs SearchSections. If nil, uses a bleve KeywordSearcher.
	Searcher Searcher

	Logger *slog.Logger

	// MaxSections is the default SearchSections limit.
	// Default: 10
	MaxSections int
}

// Service answers documentation queries against a Source.
type Service struct {
	source      Source
	searcher    Searcher
	logger      *slog.Logger
	maxSections int
}

// New creates a Service with the given options.
func New(opts Options) *Service {
	s := &Service{
		source:      opts.Source,
		searcher:    opts.Searcher,
		logger:      opts.Logger,
		maxSections: opts.MaxSections,
	}
	if s.searcher == nil {
		s.searcher = search.NewKeywordSearcher(search.Config{})
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxSections <= 0 {
		s.maxSections = DefaultMaxSections
	}
	return s
}

// IdentifySections fetches the table of contents and returns it raw, parsed
// and with selection guidelines, so the caller can pick relevant titles.
func (s *Service) IdentifySections(ctx context.Context, userQuery string) IdentifyResult {
	text, err := s.source.FetchTOC(ctx)
	if err != nil {
		s.logger.Warn("toc fetch failed", "component", "discovery", "operation", "identify", "error", err)
		return IdentifyResult{
			Success: false,
			Error:   err.Error(),
			Query:   userQuery,
		}
	}

	sections := toc.Parse(text, "")
	s.logger.Debug("toc parsed", "component", "discovery", "operation", "identify", "sections", len(sections))
	return IdentifyResult{
		Success:       true,
		Query:         userQuery,
		RawTOCContent: text,
		Sections:      sections,
		Instruction:   SelectionInstruction,
	}
}

// FetchContent fetches the full documentation and extracts the requested
// sections, one result per title in request order.
func (s *Service) FetchContent(ctx context.Context, titles []string, userQuery string) ContentResult {
	doc, err := s.source.FetchFullText(ctx)
	if err != nil {
		s.logger.Warn("full text fetch failed", "component", "discovery", "operation", "fetch_content", "error", err)
		return ContentResult{
			Success:          false,
			Error:            err.Error(),
			UserQuery:        userQuery,
			ExtractedContent: extract.Results{},
		}
	}

	results := extract.Sections(doc, titles)
	s.logger.Debug("sections extracted", "component", "discovery", "operation", "fetch_content",
		"requested", len(titles), "found", len(results.Found()))
	return ContentResult{
		Success:          true,
		UserQuery:        userQuery,
		ExtractedContent: results,
		SectionsFound:    len(results),
		Instruction:      ResponseInstruction(userQuery),
	}
}

// ListSections returns the parsed table of contents. A non-empty query keeps
// sections whose title or category contains it.
func (s *Service) ListSections(ctx context.Context, query string) ListResult {
	text, err := s.source.FetchTOC(ctx)
	if err != nil {
		s.logger.Warn("toc fetch failed", "component", "discovery", "operation", "list", "error", err)
		return ListResult{Success: false, Error: err.Error(), Query: query, Sections: toc.Sections{}}
	}

	return newListResult(query, toc.Parse(text, query))
}

// SearchSections runs a keyword lookup over the parsed table of contents.
// Matches keep their table-of-contents order. limit <= 0 uses the
// configured default.
func (s *Service) SearchSections(ctx context.Context, query string, limit int) ListResult {
	if limit <= 0 {
		limit = s.maxSections
	}

	text, err := s.source.FetchTOC(ctx)
	if err != nil {
		s.logger.Warn("toc fetch failed", "component", "discovery", "operation", "search", "error", err)
		return ListResult{Success: false, Error: err.Error(), Query: query, Sections: toc.Sections{}}
	}

	hits, err := s.searcher.Search(strings.TrimSpace(query), limit, toc.Parse(text, ""))
	if err != nil {
		s.logger.Error("section search failed", "component", "discovery", "operation", "search", "error", err)
		return ListResult{Success: false, Error: err.Error(), Query: query, Sections: toc.Sections{}}
	}
	return newListResult(query, toc.Sections(hits))
}

// Close releases the searcher's resources when it holds any.
func (s *Service) Close() error {
	if c, ok := s.searcher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newListResult(query string, sections toc.Sections) ListResult {
	if sections == nil {
		sections = toc.Sections{}
	}
	return ListResult{
		Success:    true,
		Query:      query,
		Sections:   sections,
		Categories: sections.Categories(),
		Count:      len(sections),
	}
}
