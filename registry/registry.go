package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jonwraymond/toolfoundation/model"
)

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo
	// Instructions are returned to clients on initialize.
	Instructions string
	Logger       *slog.Logger
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Registry is a table of local MCP tools with their handlers. It answers
// MCP requests directly (HandleRequest) and backs an SDK server (MCPServer).
type Registry struct {
	mu     sync.RWMutex
	config Config
	logger *slog.Logger

	tools    map[string]model.Tool
	handlers map[string]ToolHandler
	order    []string
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		config:   cfg,
		logger:   logger,
		tools:    make(map[string]model.Tool),
		handlers: make(map[string]ToolHandler),
	}
}

// RegisterLocal registers a tool with a local execution handler.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrHandlerNotFound, tool.ToolID())
	}

	id := tool.ToolID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[id]; exists {
		return fmt.Errorf("%w: %s", ErrToolExists, id)
	}
	r.tools[id] = tool
	r.handlers[id] = handler
	r.order = append(r.order, id)
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := applyLocalToolOptions(opts)
	tool := buildLocalTool(name, description, inputSchema, cfg)
	return r.RegisterLocal(tool, handler)
}

// ListAll returns all registered tools in registration order.
func (r *Registry) ListAll(ctx context.Context) ([]model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]model.Tool, 0, len(r.order))
	for _, id := range r.order {
		tools = append(tools, r.tools[id])
	}
	return tools, nil
}

// GetTool returns a tool by ID.
func (r *Registry) GetTool(ctx context.Context, id string) (model.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[id]
	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}
	return tool, nil
}

// Execute runs a tool by name with the given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	handler, ok := r.handlers[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if args == nil {
		args = map[string]any{}
	}

	r.logger.Debug("tool call", "component", "registry", "operation", "execute", "tool", name)
	result, err := handler(ctx, args)
	if err != nil {
		r.logger.Warn("tool call failed", "component", "registry", "operation", "execute", "tool", name, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrExecutionFailed, name, err)
	}
	return result, nil
}

// RegistryStats returns registry statistics.
type RegistryStats struct {
	TotalTools int
	ToolNames  []string
}

// Stats returns registry statistics.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return RegistryStats{
		TotalTools: len(r.order),
		ToolNames:  names,
	}
}

// Info returns the server identity.
func (r *Registry) Info() ServerInfo {
	return r.config.ServerInfo
}
