package search

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/minhhoang1023/openbb-docs-mcp-server/toc"
)

// computeFingerprint generates a stable hash of the section slice.
// The fingerprint changes when any section or the order changes, so the
// Bleve index is rebuilt only when the table of contents does.
func computeFingerprint(sections []toc.Section) string {
	h := sha256.New()

	for _, s := range sections {
		h.Write([]byte(s.Title))
		h.Write([]byte{0}) // separator
		h.Write([]byte(s.Category))
		h.Write([]byte{0})
		h.Write([]byte(s.URL))
		h.Write([]byte{0})
		h.Write([]byte(s.Description))
		h.Write([]byte{1}) // record separator
	}

	return hex.EncodeToString(h.Sum(nil))
}
