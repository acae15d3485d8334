package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/toolfoundation/model"
)

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (req MCPRequest) IsNotification() bool {
	return req.ID == nil && strings.HasPrefix(req.Method, "notifications/")
}

// MCPResponse represents an MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *MCPError `json:"error,omitempty"`
}

// MCPError is a JSON-RPC error object.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ToolCallResult is the MCP result of tools/call.
type ToolCallResult struct {
	Content           []TextContent `json:"content"`
	StructuredContent any           `json:"structuredContent,omitempty"`
	IsError           bool          `json:"isError,omitempty"`
}

// TextContent is an MCP text content block.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// HandleRequest processes an MCP request and returns a response.
func (r *Registry) HandleRequest(ctx context.Context, req MCPRequest) MCPResponse {
	switch req.Method {
	case "initialize":
		return r.handleInitialize(ctx, req.ID, req.Params)
	case "ping":
		return MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{}}
	case "tools/list":
		return r.handleToolsList(ctx, req.ID, req.Params)
	case "tools/call":
		return r.handleToolsCall(ctx, req.ID, req.Params)
	default:
		return errorResponse(req.ID, ErrCodeMethodNotFound, fmt.Sprintf("method %s not found", req.Method))
	}
}

func errorResponse(id any, code int, message string) MCPResponse {
	return MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message},
	}
}

func (r *Registry) handleInitialize(ctx context.Context, id any, params json.RawMessage) MCPResponse {
	result := map[string]any{
		"protocolVersion": model.MCPVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    r.config.ServerInfo.Name,
			"version": r.config.ServerInfo.Version,
		},
	}
	if r.config.Instructions != "" {
		result["instructions"] = r.config.Instructions
	}

	return MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

func (r *Registry) handleToolsList(ctx context.Context, id any, params json.RawMessage) MCPResponse {
	tools, err := r.ListAll(ctx)
	if err != nil {
		return errorResponse(id, ErrCodeInternal, err.Error())
	}

	mcpTools := make([]map[string]any, 0, len(tools))
	for _, tool := range tools {
		mcpTools = append(mcpTools, toMCPTool(tool))
	}

	return MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  map[string]any{"tools": mcpTools},
	}
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (r *Registry) handleToolsCall(ctx context.Context, id any, params json.RawMessage) MCPResponse {
	var callParams toolsCallParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return errorResponse(id, ErrCodeInvalidParams, err.Error())
	}

	result, err := r.Execute(ctx, callParams.Name, callParams.Arguments)
	if errors.Is(err, ErrToolNotFound) {
		return errorResponse(id, ErrCodeToolNotFound, err.Error())
	}

	return MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  newToolCallResult(result, err),
	}
}

// newToolCallResult wraps a handler outcome. Handler errors become an
// isError result so the model can see them.
func newToolCallResult(result any, err error) ToolCallResult {
	if err != nil {
		return ToolCallResult{
			Content: []TextContent{{Type: "text", Text: err.Error()}},
			IsError: true,
		}
	}
	text, structured := encodeResult(result)
	return ToolCallResult{
		Content:           []TextContent{{Type: "text", Text: text}},
		StructuredContent: structured,
	}
}

// encodeResult renders a handler result as indented JSON text. Results that
// encode to a JSON object are also returned as structured content.
func encodeResult(result any) (string, any) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", result), nil
	}
	if !bytes.HasPrefix(data, []byte("{")) {
		return string(data), nil
	}
	return string(data), json.RawMessage(data)
}

func toMCPTool(tool model.Tool) map[string]any {
	out := map[string]any{
		"name":        tool.Name,
		"description": tool.Description,
		"inputSchema": tool.InputSchema,
	}
	if tool.Title != "" {
		out["title"] = tool.Title
	}
	if tool.Annotations != nil {
		out["annotations"] = tool.Annotations
	}
	return out
}
