// Package toc parses a documentation table of contents into addressable
// section records.
//
// The input is the short, markdown-like index document published next to a
// documentation corpus (an llms.txt file): free-text header lines that name a
// category, followed by bullet or numbered lines carrying a [title](url) link.
//
// # Usage
//
//	sections := toc.Parse(raw, "")
//	for _, s := range sections {
//	    fmt.Println(s.Description, s.URL)
//	}
//
// A non-empty query keeps only the sections whose title or category contains
// it, compared case-insensitively:
//
//	copilot := toc.Parse(raw, "copilot")
//
// # Header Lines
//
// Any line that does not start with "-", "*" or one of the ordinals "1." to
// "5." is a header line. A header line that also does not start with "#" or
// "http" becomes the current category, with every "#" removed. Header lines
// never produce a section themselves.
//
// # Thread Safety
//
// Parse is a pure function over its input and is safe for concurrent use.
package toc
