package registry

import (
	"context"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolHandler executes a local tool with the given arguments.
// It receives a context for cancellation and a map of arguments parsed from the MCP request.
// It returns the result as any (typically a struct that encodes to a JSON object) and an
// error if execution fails.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// LocalToolOption configures local tool registration.
type LocalToolOption func(*localToolConfig)

type localToolConfig struct {
	title       string
	tags        []string
	version     string
	annotations *mcp.ToolAnnotations
}

// WithTitle sets the human-readable title of a tool.
func WithTitle(title string) LocalToolOption {
	return func(c *localToolConfig) {
		c.title = title
	}
}

// WithTags sets the tags for a local tool.
func WithTags(tags ...string) LocalToolOption {
	return func(c *localToolConfig) {
		c.tags = tags
	}
}

// WithVersion sets the version for a local tool.
func WithVersion(v string) LocalToolOption {
	return func(c *localToolConfig) {
		c.version = v
	}
}

// WithReadOnly marks the tool as read-only and idempotent. openWorld reports
// whether it reaches outside the server (for example, over the network).
func WithReadOnly(openWorld bool) LocalToolOption {
	return func(c *localToolConfig) {
		c.annotations = &mcp.ToolAnnotations{
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  &openWorld,
		}
	}
}

func applyLocalToolOptions(opts []LocalToolOption) localToolConfig {
	cfg := localToolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func buildLocalTool(name, description string, inputSchema map[string]any, cfg localToolConfig) model.Tool {
	return model.Tool{
		Tool: mcp.Tool{
			Name:        name,
			Title:       cfg.title,
			Description: description,
			InputSchema: inputSchema,
			Annotations: cfg.annotations,
		},
		Version: cfg.version,
		Tags:    model.NormalizeTags(cfg.tags),
	}
}
