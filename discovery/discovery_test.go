package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/minhhoang1023/openbb-docs-mcp-server/extract"
	"github.com/minhhoang1023/openbb-docs-mcp-server/toc"
)

const testTOC = `# OpenBB Workspace

> Documentation for OpenBB Workspace

Getting Started
- [Copilot Basics](https://docs.openbb.co/workspace/copilot-basics)
- [Dashboards Overview](https://docs.openbb.co/workspace/dashboards)

Data Integration
- [Data Handling](https://docs.openbb.co/workspace/data-handling)
- [MCP Tools](https://docs.openbb.co/workspace/mcp-tools)
`

const testFullText = `# Copilot Basics

Copilot answers questions about the data on your dashboard.
Open the chat panel to start.

# Data Handling

Widgets load data from backends.
`

type stubSource struct {
	mu        sync.Mutex
	toc       string
	fullText  string
	tocErr    error
	fullErr   error
	tocCalls  int
	fullCalls int
}

func (s *stubSource) FetchTOC(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tocCalls++
	return s.toc, s.tocErr
}

func (s *stubSource) FetchFullText(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullCalls++
	return s.fullText, s.fullErr
}

func newTestService(t *testing.T, src *stubSource) *Service {
	t.Helper()
	svc := New(Options{Source: src})
	t.Cleanup(func() {
		_ = svc.Close()
	})
	return svc
}

func TestNewDefaults(t *testing.T) {
	svc := newTestService(t, &stubSource{})

	if svc.searcher == nil {
		t.Error("expected default searcher")
	}
	if svc.logger == nil {
		t.Error("expected default logger")
	}
	if svc.maxSections != DefaultMaxSections {
		t.Errorf("expected maxSections %d, got %d", DefaultMaxSections, svc.maxSections)
	}
}

func TestIdentifySections(t *testing.T) {
	src := &stubSource{toc: testTOC}
	svc := newTestService(t, src)

	res := svc.IdentifySections(context.Background(), "how does copilot work?")

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Query != "how does copilot work?" {
		t.Errorf("unexpected query %q", res.Query)
	}
	if res.RawTOCContent != testTOC {
		t.Error("expected raw TOC to be returned unchanged")
	}
	if len(res.Sections) != 4 {
		t.Fatalf("expected 4 parsed sections, got %d", len(res.Sections))
	}
	if res.Sections[2].Category != "Data Integration" {
		t.Errorf("unexpected category %q", res.Sections[2].Category)
	}
	if res.Instruction != SelectionInstruction {
		t.Error("expected selection instruction")
	}
	if src.fullCalls != 0 {
		t.Error("IdentifySections should not fetch the full text")
	}
}

func TestIdentifySectionsFetchError(t *testing.T) {
	svc := newTestService(t, &stubSource{tocErr: errors.New("connection refused")})

	res := svc.IdentifySections(context.Background(), "q")

	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "connection refused" {
		t.Errorf("unexpected error %q", res.Error)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if m["raw_toc_content"] != "" {
		t.Errorf("expected empty raw_toc_content, got %v", m["raw_toc_content"])
	}
	if _, ok := m["instruction"]; ok {
		t.Error("failure result should carry no instruction")
	}
	if m["query"] != "q" {
		t.Errorf("expected query echoed, got %v", m["query"])
	}
}

func TestFetchContent(t *testing.T) {
	svc := newTestService(t, &stubSource{fullText: testFullText})

	res := svc.FetchContent(context.Background(), []string{"Data Handling", "Copilot Basics", "Missing"}, "how is data loaded?")

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.SectionsFound != 3 {
		t.Errorf("expected sections_found 3, got %d", res.SectionsFound)
	}
	titles := res.ExtractedContent.Titles()
	if strings.Join(titles, "|") != "Data Handling|Copilot Basics|Missing" {
		t.Errorf("expected request order, got %v", titles)
	}
	if !strings.HasPrefix(res.ExtractedContent[0].Content, "# Data Handling") {
		t.Errorf("unexpected content %q", res.ExtractedContent[0].Content)
	}
	if strings.Contains(res.ExtractedContent[1].Content, "Widgets load data") {
		t.Error("Copilot Basics should stop at the next top-level header")
	}
	if res.ExtractedContent[2].Content != extract.NotFoundMessage("Missing") {
		t.Errorf("unexpected not-found content %q", res.ExtractedContent[2].Content)
	}
	if !strings.HasPrefix(res.Instruction, "User's question: how is data loaded?") {
		t.Errorf("instruction should quote the query, got %q", res.Instruction[:40])
	}
}

func TestFetchContentJSON(t *testing.T) {
	svc := newTestService(t, &stubSource{fullText: testFullText})

	res := svc.FetchContent(context.Background(), []string{"Copilot Basics", "Copilot Basics"}, "q")

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"extracted_content":{"Copilot Basics":`) {
		t.Errorf("expected extracted_content object, got %s", data)
	}
	if !strings.Contains(string(data), `"sections_found":2`) {
		t.Errorf("expected sections_found 2, got %s", data)
	}
}

func TestFetchContentFetchError(t *testing.T) {
	svc := newTestService(t, &stubSource{fullErr: errors.New("timeout")})

	res := svc.FetchContent(context.Background(), []string{"Copilot Basics"}, "q")

	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "timeout" {
		t.Errorf("unexpected error %q", res.Error)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"extracted_content":{}`) {
		t.Errorf("expected empty extracted_content object, got %s", data)
	}
	if !strings.Contains(string(data), `"user_query":"q"`) {
		t.Errorf("expected user_query echoed, got %s", data)
	}
}

func TestFetchContentNoTitles(t *testing.T) {
	svc := newTestService(t, &stubSource{fullText: testFullText})

	res := svc.FetchContent(context.Background(), nil, "q")

	if !res.Success || res.SectionsFound != 0 {
		t.Errorf("expected empty success, got %+v", res)
	}
}

func TestListSections(t *testing.T) {
	svc := newTestService(t, &stubSource{toc: testTOC})

	all := svc.ListSections(context.Background(), "")
	if all.Count != 4 {
		t.Fatalf("expected 4 sections, got %d", all.Count)
	}
	if strings.Join(all.Categories, "|") != "Getting Started|Data Integration" {
		t.Errorf("unexpected categories %v", all.Categories)
	}

	filtered := svc.ListSections(context.Background(), "DATA")
	if filtered.Count != 2 {
		t.Errorf("expected category match to keep 2 sections, got %d", filtered.Count)
	}

	none := svc.ListSections(context.Background(), "zzz")
	if none.Count != 0 || none.Sections == nil {
		t.Errorf("expected empty non-nil sections, got %+v", none)
	}
}

func TestListSectionsFetchError(t *testing.T) {
	svc := newTestService(t, &stubSource{tocErr: errors.New("down")})

	res := svc.ListSections(context.Background(), "")
	if res.Success || res.Error != "down" {
		t.Errorf("expected failure, got %+v", res)
	}
}

func TestSearchSections(t *testing.T) {
	svc := newTestService(t, &stubSource{toc: testTOC})

	res := svc.SearchSections(context.Background(), "dashboard", 0)

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Count != 1 || res.Sections[0].Title != "Dashboards Overview" {
		t.Errorf("unexpected sections %+v", res.Sections)
	}
}

type fixedSearcher struct {
	limit int
	err   error
}

func (f *fixedSearcher) Search(query string, limit int, sections []toc.Section) ([]toc.Section, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return sections[:1], nil
}

func TestSearchSectionsDefaultLimit(t *testing.T) {
	searcher := &fixedSearcher{}
	svc := New(Options{Source: &stubSource{toc: testTOC}, Searcher: searcher, MaxSections: 3})

	res := svc.SearchSections(context.Background(), "anything", -1)

	if searcher.limit != 3 {
		t.Errorf("expected default limit 3, got %d", searcher.limit)
	}
	if res.Count != 1 {
		t.Errorf("expected 1 section, got %d", res.Count)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close with non-closer searcher failed: %v", err)
	}
}

func TestSearchSectionsSearcherError(t *testing.T) {
	svc := New(Options{Source: &stubSource{toc: testTOC}, Searcher: &fixedSearcher{err: errors.New("index closed")}})

	res := svc.SearchSections(context.Background(), "x", 5)
	if res.Success || res.Error != "index closed" {
		t.Errorf("expected failure, got %+v", res)
	}
}

func TestResponseInstruction(t *testing.T) {
	got := ResponseInstruction(`what is {"Website": url}?`)

	if !strings.HasPrefix(got, `User's question: what is {"Website": url}?`) {
		t.Errorf("unexpected prefix %q", got[:50])
	}
	if !strings.Contains(got, "RESPONSE GUIDELINES") || !strings.Contains(got, "CITATION FORMAT") {
		t.Error("expected guidelines and citation format")
	}
}
