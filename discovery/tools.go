package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/minhhoang1023/openbb-docs-mcp-server/registry"
)

// Tool names registered by RegisterTools.
const (
	ToolIdentifySections = "identify_openbb_docs_sections"
	ToolFetchContent     = "fetch_openbb_content"
	ToolListSections     = "list_openbb_sections"
	ToolSearchSections   = "search_openbb_sections"
)

var userQuerySchema = map[string]any{
	"type":        "string",
	"description": "The user's question or information request",
}

// RegisterTools publishes the service's operations as MCP tools on reg.
func (s *Service) RegisterTools(reg *registry.Registry) error {
	tools := []struct {
		name        string
		title       string
		description string
		schema      map[string]any
		handler     registry.ToolHandler
	}{
		{
			name:  ToolIdentifySections,
			title: "Identify OpenBB docs sections",
			description: "Return the COMPLETE OpenBB documentation table of contents so the most relevant " +
				"sections for the user's query can be selected (up to 3, ranked by relevance). " +
				"Call this before fetch_openbb_content.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"user_query": userQuerySchema,
				},
				"required": []string{"user_query"},
			},
			handler: s.handleIdentify,
		},
		{
			name:  ToolFetchContent,
			title: "Fetch OpenBB docs content",
			description: "Fetch the content of specific OpenBB documentation sections. Pass the exact " +
				"section titles chosen from identify_openbb_docs_sections and the original user query.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"section_titles": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Exact section titles from identify_openbb_docs_sections",
					},
					"user_query": map[string]any{
						"type":        "string",
						"description": "The original user's question",
					},
				},
				"required": []string{"section_titles", "user_query"},
			},
			handler: s.handleFetchContent,
		},
		{
			name:        ToolListSections,
			title:       "List OpenBB docs sections",
			description: "List parsed OpenBB documentation sections, optionally filtered by a substring of the title or category.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Case-insensitive substring of a section title or category",
					},
					"category": map[string]any{
						"type":        "string",
						"description": "Keep only sections in this category",
					},
				},
			},
			handler: s.handleList,
		},
		{
			name:        ToolSearchSections,
			title:       "Search OpenBB docs sections",
			description: "Keyword search over OpenBB documentation section titles, categories and descriptions.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Keywords to look for",
					},
					"limit": map[string]any{
						"type":        "integer",
						"minimum":     1,
						"description": "Maximum number of sections to return",
					},
				},
				"required": []string{"query"},
			},
			handler: s.handleSearch,
		},
	}

	for _, t := range tools {
		err := reg.RegisterLocalFunc(t.name, t.description, t.schema, t.handler,
			registry.WithTitle(t.title),
			registry.WithTags("openbb", "docs"),
			registry.WithReadOnly(true),
		)
		if err != nil {
			return fmt.Errorf("register %s: %w", t.name, err)
		}
	}
	return nil
}

func (s *Service) handleIdentify(ctx context.Context, args map[string]any) (any, error) {
	query, err := requiredString(args, "user_query")
	if err != nil {
		return nil, err
	}
	return s.IdentifySections(ctx, query), nil
}

func (s *Service) handleFetchContent(ctx context.Context, args map[string]any) (any, error) {
	query, err := requiredString(args, "user_query")
	if err != nil {
		return nil, err
	}
	if _, ok := args["section_titles"]; !ok {
		return nil, fmt.Errorf("%w: section_titles is required", registry.ErrInvalidRequest)
	}
	titles := registry.StringSliceArg(args, "section_titles")
	if titles == nil {
		return nil, fmt.Errorf("%w: section_titles must be a list of strings", registry.ErrInvalidRequest)
	}
	return s.FetchContent(ctx, titles, query), nil
}

func (s *Service) handleList(ctx context.Context, args map[string]any) (any, error) {
	result := s.ListSections(ctx, registry.StringArg(args, "query"))
	if category := strings.TrimSpace(registry.StringArg(args, "category")); category != "" && result.Success {
		return newListResult(result.Query, result.Sections.FilterByCategory(category)), nil
	}
	return result, nil
}

func (s *Service) handleSearch(ctx context.Context, args map[string]any) (any, error) {
	query, err := requiredString(args, "query")
	if err != nil {
		return nil, err
	}
	return s.SearchSections(ctx, query, registry.IntArg(args, "limit", 0)), nil
}

func requiredString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is required", registry.ErrInvalidRequest, key)
	}
	return v, nil
}
