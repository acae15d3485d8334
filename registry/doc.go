// Package registry provides helpers for building MCP servers from locally
// registered tools.
//
// A Registry holds tool definitions (toolfoundation/model) and their
// handlers. The same registry can be served several ways:
//   - MCPServer / ServeStdio / StreamableHandler via the MCP Go SDK
//   - HandleRequest, ServeHTTP and ServeSSE for plain JSON-RPC
//   - NewHTTPHandler, a gin router combining the HTTP transports with a
//     health check and optional CORS
//
// Client dials a running server over streamable HTTP or SSE.
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    ServerInfo: registry.ServerInfo{
//	        Name:    "my-server",
//	        Version: "1.0.0",
//	    },
//	})
//
//	reg.RegisterLocalFunc(
//	    "echo",
//	    "Echoes back the input",
//	    map[string]any{
//	        "type": "object",
//	        "properties": map[string]any{
//	            "message": map[string]any{"type": "string"},
//	        },
//	    },
//	    func(ctx context.Context, args map[string]any) (any, error) {
//	        return args, nil
//	    },
//	)
//
//	registry.ServeStdio(ctx, reg)
package registry
