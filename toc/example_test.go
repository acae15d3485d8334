package toc_test

import (
	"fmt"

	"github.com/minhhoang1023/openbb-docs-mcp-server/toc"
)

func ExampleParse() {
	raw := `Getting Started
- [Copilot Basics](https://docs.openbb.co/workspace/copilot-basics)
- [Generative UI](https://docs.openbb.co/workspace/generative-ui)
Data Integration
- [Data Handling](https://docs.openbb.co/workspace/data-handling)
`
	for _, s := range toc.Parse(raw, "") {
		fmt.Println(s.Description)
	}

	fmt.Println(toc.Parse(raw, "data").Titles())
	// Output:
	// Getting Started: Copilot Basics
	// Getting Started: Generative UI
	// Data Integration: Data Handling
	// [Data Handling]
}
