package discovery

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/minhhoang1023/openbb-docs-mcp-server/registry"
)

func newToolRegistry(t *testing.T, src *stubSource) *registry.Registry {
	t.Helper()
	svc := newTestService(t, src)
	reg := registry.New(registry.Config{
		ServerInfo:   registry.ServerInfo{Name: "OpenBB Docs Server", Version: "test"},
		Instructions: ServerInstructions,
	})
	if err := svc.RegisterTools(reg); err != nil {
		t.Fatalf("RegisterTools failed: %v", err)
	}
	return reg
}

func dialInMemory(t *testing.T, reg *registry.Registry) *registry.Client {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := reg.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client, err := registry.Dial(ctx, registry.ClientConfig{Transport: clientTransport})
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRegisterTools(t *testing.T) {
	reg := newToolRegistry(t, &stubSource{toc: testTOC, fullText: testFullText})

	want := []string{
		ToolIdentifySections,
		ToolFetchContent,
		ToolListSections,
		ToolSearchSections,
	}
	if names := reg.Stats().ToolNames; !reflect.DeepEqual(names, want) {
		t.Errorf("expected tools %v, got %v", want, names)
	}

	tool, err := reg.GetTool(context.Background(), ToolFetchContent)
	if err != nil {
		t.Fatalf("GetTool failed: %v", err)
	}
	if tool.Annotations == nil || !tool.Annotations.ReadOnlyHint {
		t.Error("expected read-only annotation")
	}
	if tool.Title != "Fetch OpenBB docs content" {
		t.Errorf("unexpected title %q", tool.Title)
	}
}

func TestRegisterToolsTwice(t *testing.T) {
	src := &stubSource{}
	reg := newToolRegistry(t, src)

	err := newTestService(t, src).RegisterTools(reg)
	if !errors.Is(err, registry.ErrToolExists) {
		t.Errorf("expected ErrToolExists, got %v", err)
	}
}

func TestIdentifyTool(t *testing.T) {
	reg := newToolRegistry(t, &stubSource{toc: testTOC})

	out, err := reg.Execute(context.Background(), ToolIdentifySections, map[string]any{"user_query": "copilot"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	res, ok := out.(IdentifyResult)
	if !ok {
		t.Fatalf("expected IdentifyResult, got %T", out)
	}
	if !res.Success {
		t.Error("expected success")
	}
	if res.Query != "copilot" {
		t.Errorf("expected query copilot, got %q", res.Query)
	}
	if len(res.Sections) != 4 {
		t.Errorf("expected 4 sections, got %d", len(res.Sections))
	}
}

func TestFetchContentTool(t *testing.T) {
	reg := newToolRegistry(t, &stubSource{fullText: testFullText})

	out, err := reg.Execute(context.Background(), ToolFetchContent, map[string]any{
		"section_titles": []any{"Copilot Basics"},
		"user_query":     "what is copilot?",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	res, ok := out.(ContentResult)
	if !ok {
		t.Fatalf("expected ContentResult, got %T", out)
	}
	if !res.Success || res.SectionsFound != 1 {
		t.Errorf("unexpected result success=%v found=%d", res.Success, res.SectionsFound)
	}
	if !res.ExtractedContent[0].Found {
		t.Error("expected Copilot Basics to be found")
	}
}

func TestToolArgumentErrors(t *testing.T) {
	reg := newToolRegistry(t, &stubSource{toc: testTOC, fullText: testFullText})
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{name: "identify without query", tool: ToolIdentifySections, args: map[string]any{}},
		{name: "fetch without titles", tool: ToolFetchContent, args: map[string]any{"user_query": "q"}},
		{name: "fetch with string titles", tool: ToolFetchContent, args: map[string]any{"user_query": "q", "section_titles": "Copilot Basics"}},
		{name: "fetch without query", tool: ToolFetchContent, args: map[string]any{"section_titles": []any{"x"}}},
		{name: "search without query", tool: ToolSearchSections, args: map[string]any{"limit": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Execute(ctx, tt.tool, tt.args)
			if !errors.Is(err, registry.ErrExecutionFailed) {
				t.Fatalf("expected ErrExecutionFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), registry.ErrInvalidRequest.Error()) {
				t.Errorf("expected invalid request error, got %v", err)
			}
		})
	}
}

func TestListTool(t *testing.T) {
	reg := newToolRegistry(t, &stubSource{toc: testTOC})
	ctx := context.Background()

	out, err := reg.Execute(ctx, ToolListSections, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if count := out.(ListResult).Count; count != 4 {
		t.Errorf("expected 4 sections, got %d", count)
	}

	out, err = reg.Execute(ctx, ToolListSections, map[string]any{"category": "Data Integration"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	res := out.(ListResult)
	if titles := res.Sections.Titles(); !reflect.DeepEqual(titles, []string{"Data Handling", "MCP Tools"}) {
		t.Errorf("unexpected titles %v", titles)
	}
	if !reflect.DeepEqual(res.Categories, []string{"Data Integration"}) {
		t.Errorf("unexpected categories %v", res.Categories)
	}
}

func TestSearchTool(t *testing.T) {
	reg := newToolRegistry(t, &stubSource{toc: testTOC})

	out, err := reg.Execute(context.Background(), ToolSearchSections, map[string]any{"query": "tools", "limit": float64(5)})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	res := out.(ListResult)
	if res.Count != 1 {
		t.Fatalf("expected 1 hit, got %d", res.Count)
	}
	if res.Sections[0].Title != "MCP Tools" {
		t.Errorf("expected MCP Tools, got %q", res.Sections[0].Title)
	}
}

func TestToolsOverMCP(t *testing.T) {
	reg := newToolRegistry(t, &stubSource{toc: testTOC, fullText: testFullText})
	client := dialInMemory(t, reg)
	ctx := context.Background()

	tools, err := client.ListTools(ctx)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(tools) != 4 {
		t.Errorf("expected 4 tools, got %d", len(tools))
	}

	out, err := client.CallTool(ctx, ToolFetchContent, map[string]any{
		"section_titles": []string{"Data Handling", "Nope"},
		"user_query":     "how is data loaded?",
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}

	structured, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected structured map, got %T", out)
	}
	if structured["success"] != true {
		t.Errorf("expected success, got %v", structured["success"])
	}
	if structured["sections_found"] != float64(2) {
		t.Errorf("expected sections_found 2, got %v", structured["sections_found"])
	}

	content, ok := structured["extracted_content"].(map[string]any)
	if !ok {
		t.Fatalf("expected extracted_content map, got %T", structured["extracted_content"])
	}
	if text, _ := content["Data Handling"].(string); !strings.Contains(text, "Widgets load data") {
		t.Errorf("unexpected Data Handling content %q", text)
	}
	if content["Nope"] != "Section 'Nope' not found in documentation." {
		t.Errorf("unexpected Nope content %v", content["Nope"])
	}
}

func TestToolsOverMCPFetchFailure(t *testing.T) {
	reg := newToolRegistry(t, &stubSource{tocErr: errors.New("503 Service Unavailable")})
	client := dialInMemory(t, reg)

	out, err := client.CallTool(context.Background(), ToolIdentifySections, map[string]any{"user_query": "q"})
	if err != nil {
		t.Fatalf("fetch failures are reported as data, got error: %v", err)
	}

	structured := out.(map[string]any)
	if structured["success"] != false {
		t.Errorf("expected success false, got %v", structured["success"])
	}
	if structured["error"] != "503 Service Unavailable" {
		t.Errorf("unexpected error field %v", structured["error"])
	}
	if structured["raw_toc_content"] != "" {
		t.Errorf("expected empty raw_toc_content, got %v", structured["raw_toc_content"])
	}
}
