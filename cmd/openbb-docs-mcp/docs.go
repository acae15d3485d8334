package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minhhoang1023/openbb-docs-mcp-server/extract"
	"github.com/minhhoang1023/openbb-docs-mcp-server/toc"
)

// previewChars bounds the content shown per section by extract.
const previewChars = 500

// docInput selects where a document is read from: a local file, an explicit
// URL, or the configured URL.
type docInput struct {
	file string
	url  string
}

func (in *docInput) register(cmd *cobra.Command, what string) {
	cmd.Flags().StringVarP(&in.file, "file", "f", "", "Read the "+what+" from a local file")
	cmd.Flags().StringVar(&in.url, "url", "", "Fetch the "+what+" from this URL instead of the configured one")
}

func (in *docInput) read(ctx context.Context, a *app, configured string, fallback func() (string, error)) (string, error) {
	if in.file != "" {
		data, err := os.ReadFile(in.file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", in.file, err)
		}
		return string(data), nil
	}
	if in.url != "" && in.url != configured {
		return a.fetcher().Get(ctx, in.url, a.cfg.Docs.FullTextTimeout)
	}
	return fallback()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSectionsCmd(a *app) *cobra.Command {
	var (
		in       docInput
		category string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "sections [query]",
		Short: "List table-of-contents sections, optionally filtered by query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := in.read(ctx, a, a.cfg.Docs.TOCURL, func() (string, error) {
				return a.fetcher().FetchTOC(ctx)
			})
			if err != nil {
				return err
			}

			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			sections := toc.Parse(text, query)
			if category != "" {
				sections = sections.FilterByCategory(category)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if sections == nil {
					sections = toc.Sections{}
				}
				return writeJSON(out, sections)
			}
			for _, s := range sections {
				fmt.Fprintf(out, "%s\t%s\n", s.Description, s.URL)
			}
			fmt.Fprintf(out, "%d sections\n", len(sections))
			return nil
		},
	}
	in.register(cmd, "table of contents")
	cmd.Flags().StringVar(&category, "category", "", "Keep only sections in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sections as JSON")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		in     docInput
		asJSON bool
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "extract <title>...",
		Short: "Extract sections from the full documentation by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := in.read(ctx, a, a.cfg.Docs.FullTextURL, func() (string, error) {
				return a.fetcher().FetchFullText(ctx)
			})
			if err != nil {
				return err
			}

			results := extract.Sections(doc, args)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, results)
			}

			fmt.Fprintf(out, "Full docs loaded: %d characters\n", len(doc))
			for _, r := range results {
				fmt.Fprintf(out, "\n%s\n%s\n", strings.Repeat("-", 80), r.Title)
				if !r.Found {
					fmt.Fprintf(out, "not found: %s\n", r.Content)
					continue
				}
				fmt.Fprintf(out, "found: %d characters\n\n", len(r.Content))
				fmt.Fprintln(out, preview(r.Content, full))
			}
			fmt.Fprintf(out, "\n%d/%d sections found\n", len(results.Found()), len(results))
			return nil
		},
	}
	in.register(cmd, "full documentation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as a JSON object keyed by title")
	cmd.Flags().BoolVar(&full, "full", false, "Print whole sections instead of previews")
	return cmd
}

func preview(content string, full bool) string {
	if full || len(content) <= previewChars {
		return content
	}
	return content[:previewChars] + "\n..."
}

func newHeadingsCmd(a *app) *cobra.Command {
	var (
		in       docInput
		maxLevel int
	)
	cmd := &cobra.Command{
		Use:   "headings",
		Short: "Print the heading outline of the full documentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := in.read(ctx, a, a.cfg.Docs.FullTextURL, func() (string, error) {
				return a.fetcher().FetchFullText(ctx)
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, h := range extract.Headings(doc) {
				if maxLevel > 0 && h.Level > maxLevel {
					continue
				}
				fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
			}
			return nil
		},
	}
	in.register(cmd, "full documentation")
	cmd.Flags().IntVar(&maxLevel, "max-level", 0, "Deepest heading level to print (0 for all)")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fetch both documentation files and report what was found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.fetcher().FetchAll(cmd.Context())
			if err != nil {
				return err
			}

			sections := toc.Parse(docs.TOC, "")
			results := extract.Sections(docs.FullText, sections.Titles())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "toc:       %s (%d bytes, %d sections, %d categories)\n",
				a.cfg.Docs.TOCURL, len(docs.TOC), len(sections), len(sections.Categories()))
			fmt.Fprintf(out, "full text: %s (%d bytes, %d headings)\n",
				a.cfg.Docs.FullTextURL, len(docs.FullText), len(extract.Headings(docs.FullText)))
			fmt.Fprintf(out, "resolved:  %d/%d toc titles\n", len(results.Found()), len(results))
			for _, r := range results {
				if !r.Found {
					fmt.Fprintf(out, "  missing: %s\n", r.Title)
				}
			}
			return nil
		},
	}
}
