// Package search provides keyword lookup over parsed table-of-contents
// sections, backed by an in-memory Bleve index.
//
// It exists to:
//   - Let callers find sections by word stems ("dashboard" finds
//     "Dashboards Overview") where toc.Parse only does substring matching
//   - Keep ranking out of the server: hits come back in table-of-contents
//     order, and choosing among them is left to the caller
//
// # Usage
//
//	s := search.NewKeywordSearcher(search.Config{})
//	defer s.Close()
//
//	hits, err := s.Search("widgets", 5, toc.Parse(raw, ""))
//
// # Configuration
//
// [Config] sets the default result cap:
//
//	cfg := search.Config{
//	    MaxResults: 20, // used when Search is called with limit <= 0 (default: 20)
//	}
//
// # Thread Safety
//
// KeywordSearcher is safe for concurrent use. It keeps one Bleve index and
// rebuilds it only when the fingerprint of the section list changes.
//
// # Behavior
//
// Empty queries return the first N sections. Non-empty queries are analyzed
// with the English analyzer and matched against title, category and
// description.
package search
