package extract

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one markdown heading of a document.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Headings parses doc as markdown and returns its headings in document
// order. Callers use it to see which titles FindSection can address.
// Headings inside fenced code blocks are not reported.
func Headings(doc string) []Heading {
	source := []byte(doc)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		collectText(&buf, heading, source)
		if buf.Len() > 0 {
			headings = append(headings, Heading{Level: heading.Level, Text: buf.String()})
		}
		return ast.WalkSkipChildren, nil
	})

	return headings
}

func collectText(buf *bytes.Buffer, n ast.Node, source []byte) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
		case *ast.String:
			buf.Write(c.Value)
		default:
			collectText(buf, child, source)
		}
	}
}
