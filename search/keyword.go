package search

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"

	"github.com/minhhoang1023/openbb-docs-mcp-server/toc"
)

// DefaultMaxResults caps results when Search is given no limit.
const DefaultMaxResults = 20

// ErrClosed is returned by Search after Close.
var ErrClosed = errors.New("searcher closed")

// Config configures a KeywordSearcher.
type Config struct {
	// MaxResults is used when Search is called with limit <= 0.
	MaxResults int
}

// KeywordSearcher matches queries against sections using Bleve.
type KeywordSearcher struct {
	mu          sync.Mutex
	cfg         Config
	index       bleve.Index
	fingerprint string
	closed      bool
}

// sectionDoc is the indexed form of a toc.Section.
type sectionDoc struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// NewKeywordSearcher returns a searcher. The index is built lazily.
func NewKeywordSearcher(cfg Config) *KeywordSearcher {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	return &KeywordSearcher{cfg: cfg}
}

// Search returns the sections matching query, in their original order,
// capped at limit.
func (s *KeywordSearcher) Search(query string, limit int, sections []toc.Section) ([]toc.Section, error) {
	if limit <= 0 {
		limit = s.cfg.MaxResults
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(sections[:min(limit, len(sections))]), nil
	}
	if len(sections) == 0 {
		return []toc.Section{}, nil
	}
	if err := s.ensureIndex(sections); err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), len(sections), 0, false)
	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	positions := make([]int, 0, len(res.Hits))
	for _, hit := range res.Hits {
		pos, err := strconv.Atoi(hit.ID)
		if err != nil || pos < 0 || pos >= len(sections) {
			continue
		}
		positions = append(positions, pos)
	}
	slices.Sort(positions)

	out := make([]toc.Section, 0, min(limit, len(positions)))
	for _, pos := range positions[:min(limit, len(positions))] {
		out = append(out, sections[pos])
	}
	return out, nil
}

// ensureIndex rebuilds the index when sections changed. Caller holds s.mu.
func (s *KeywordSearcher) ensureIndex(sections []toc.Section) error {
	fp := computeFingerprint(sections)
	if s.index != nil && fp == s.fingerprint {
		return nil
	}

	mapping := bleve.NewIndexMapping()
	mapping.DefaultAnalyzer = en.AnalyzerName
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return fmt.Errorf("search: create index: %w", err)
	}

	batch := idx.NewBatch()
	for i, section := range sections {
		doc := sectionDoc{
			Title:       section.Title,
			Category:    section.Category,
			Description: section.Description,
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			_ = idx.Close()
			return fmt.Errorf("search: index section %q: %w", section.Title, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("search: index batch: %w", err)
	}

	if s.index != nil {
		_ = s.index.Close()
	}
	s.index = idx
	s.fingerprint = fp
	return nil
}

// Close releases the index. Further searches fail with ErrClosed.
func (s *KeywordSearcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	s.fingerprint = ""
	return err
}
