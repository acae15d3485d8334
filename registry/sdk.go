package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPServer builds an MCP SDK server exposing every tool registered so far.
// Tools registered afterwards are not visible to it.
func (r *Registry) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.config.ServerInfo.Name,
		Version: r.config.ServerInfo.Version,
	}, &mcp.ServerOptions{
		Instructions: r.config.Instructions,
		Logger:       r.logger,
	})

	tools, _ := r.ListAll(context.Background())
	for _, tool := range tools {
		t := tool.Tool
		server.AddTool(&t, r.sdkHandler(t.Name))
	}
	return server
}

func (r *Registry) sdkHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		if req.Params != nil && len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, fmt.Errorf("%w: arguments: %v", ErrInvalidRequest, err)
			}
		}
		result, err := r.Execute(ctx, name, args)
		return toSDKResult(newToolCallResult(result, err)), nil
	}
}

func toSDKResult(res ToolCallResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(res.Content))
	for _, c := range res.Content {
		content = append(content, &mcp.TextContent{Text: c.Text})
	}
	return &mcp.CallToolResult{
		Content:           content,
		StructuredContent: res.StructuredContent,
		IsError:           res.IsError,
	}
}

// ServeStdio runs the registry as an MCP server over stdin/stdout.
// Blocks until the client disconnects or ctx is cancelled.
func ServeStdio(ctx context.Context, r *Registry) error {
	return r.MCPServer().Run(ctx, &mcp.StdioTransport{})
}

// StreamableHandler returns an http.Handler serving the MCP streamable HTTP
// transport for the registry's tools.
func StreamableHandler(r *Registry) http.Handler {
	server := r.MCPServer()
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
