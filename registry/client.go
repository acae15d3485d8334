package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClientConfig describes a connection to an MCP server.
type ClientConfig struct {
	// Name identifies this client to the server.
	Name string
	// URL is the MCP server URL (http(s):// for streamable HTTP, sse:// for SSE).
	URL string
	// Headers are optional HTTP headers for authenticated servers.
	Headers map[string]string
	// MaxRetries controls reconnect attempts for streamable HTTP transport.
	MaxRetries int
	// Timeout bounds each HTTP request; zero means no limit.
	Timeout time.Duration
	// Transport overrides URL handling when provided (useful for tests).
	Transport mcp.Transport
}

// Client is a connected MCP client session.
type Client struct {
	config  ClientConfig
	mu      sync.RWMutex
	session *mcp.ClientSession
}

// Dial connects to the MCP server described by cfg.
func Dial(ctx context.Context, cfg ClientConfig) (*Client, error) {
	transport, err := clientTransport(cfg)
	if err != nil {
		return nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "openbb-docs-client"
	}
	client := mcp.NewClient(&mcp.Implementation{Name: name}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.URL, err)
	}
	return &Client{config: cfg, session: session}, nil
}

// ListTools returns the tools advertised by the server.
func (c *Client) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	session, err := c.current()
	if err != nil {
		return nil, err
	}
	res, err := session.ListTools(ctx, nil)
	if err != nil {
		return nil, err
	}
	tools := make([]*mcp.Tool, 0, len(res.Tools))
	for _, tool := range res.Tools {
		if tool != nil {
			tools = append(tools, tool)
		}
	}
	return tools, nil
}

// CallTool invokes a tool and returns its structured content when present,
// otherwise its single text content, otherwise the raw content list.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (any, error) {
	session, err := c.current()
	if err != nil {
		return nil, err
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}
	if result == nil {
		return nil, nil
	}
	if result.IsError {
		return nil, fmt.Errorf("%w: %s", ErrExecutionFailed, toolResultError(result))
	}
	return toolResultValue(result), nil
}

// Close ends the session.
func (c *Client) Close() error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session != nil {
		return session.Close()
	}
	return nil
}

func (c *Client) current() (*mcp.ClientSession, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil, ErrNotConnected
	}
	return c.session, nil
}

func clientTransport(cfg ClientConfig) (mcp.Transport, error) {
	if cfg.Transport != nil {
		return cfg.Transport, nil
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("server URL is required")
	}

	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	httpClient := httpClientWithHeaders(cfg.Headers, cfg.Timeout)

	switch parsed.Scheme {
	case "http", "https":
		return &mcp.StreamableClientTransport{
			Endpoint:   cfg.URL,
			HTTPClient: httpClient,
			MaxRetries: cfg.MaxRetries,
		}, nil
	case "sse":
		parsed.Scheme = "http"
		return &mcp.SSEClientTransport{
			Endpoint:   parsed.String(),
			HTTPClient: httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported server URL scheme %q", parsed.Scheme)
	}
}

func httpClientWithHeaders(headers map[string]string, timeout time.Duration) *http.Client {
	clone := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		clone[k] = v
	}
	if len(clone) == 0 && timeout == 0 {
		return nil
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &headerRoundTripper{
			base:    http.DefaultTransport,
			headers: clone,
		},
	}
}

type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := h.base
	if base == nil {
		base = http.DefaultTransport
	}
	if len(h.headers) > 0 {
		req = req.Clone(req.Context())
		for key, value := range h.headers {
			if req.Header.Get(key) == "" {
				req.Header.Set(key, value)
			}
		}
	}
	return base.RoundTrip(req)
}

func toolResultValue(result *mcp.CallToolResult) any {
	if result == nil {
		return nil
	}
	if result.StructuredContent != nil {
		return result.StructuredContent
	}
	if len(result.Content) == 1 {
		if text, ok := result.Content[0].(*mcp.TextContent); ok {
			return text.Text
		}
	}
	return result.Content
}

func toolResultError(result *mcp.CallToolResult) string {
	if result == nil {
		return "tool execution failed"
	}
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	if result.StructuredContent != nil {
		return fmt.Sprintf("%v", result.StructuredContent)
	}
	return "tool execution failed"
}
