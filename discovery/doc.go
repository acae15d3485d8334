// Package discovery is the tool layer of the OpenBB documentation server.
//
// A Service fetches the documentation table of contents and full text from a
// Source, runs the toc parser and section extractor over them, and wraps the
// outcome in result structs carrying instructions for the calling model.
// Fetch failures never surface as Go errors here: they become results with
// Success set to false.
//
// # Basic Usage
//
//	svc := discovery.New(discovery.Options{
//	    Source: fetch.New(fetch.Config{
//	        TOCURL:      config.DefaultTOCURL,
//	        FullTextURL: config.DefaultFullTextURL,
//	    }),
//	})
//	defer svc.Close()
//
//	ident := svc.IdentifySections(ctx, "how do I add a widget?")
//	content := svc.FetchContent(ctx, []string{"Widgets"}, "how do I add a widget?")
//
// # MCP Tools
//
// RegisterTools publishes the service on a registry.Registry as four tools:
//
//   - identify_openbb_docs_sections: raw table of contents plus selection guidelines
//   - fetch_openbb_content: extracted sections plus response guidelines
//   - list_openbb_sections: parsed table of contents, optionally filtered
//   - search_openbb_sections: keyword lookup over the parsed sections
package discovery
