package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/minhhoang1023/openbb-docs-mcp-server/discovery"
	"github.com/minhhoang1023/openbb-docs-mcp-server/registry"
)

var defaultCallTitles = []string{
	"Copilot Basics",
	"Generative UI",
	"Dashboards Overview",
}

func newCallCmd(a *app) *cobra.Command {
	var (
		url     string
		query   string
		headers map[string]string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "call [title]...",
		Short: "Connect to a running server, list its tools and fetch sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if url == "" {
				url = fmt.Sprintf("http://localhost:%d%s", a.cfg.Server.Port, a.cfg.Server.Path)
			}
			titles := args
			if len(titles) == 0 {
				titles = defaultCallTitles
			}

			client, err := registry.Dial(ctx, registry.ClientConfig{
				URL:     url,
				Headers: headers,
				Timeout: timeout,
			})
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			out := cmd.OutOrStdout()
			tools, err := client.ListTools(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d tools\n", url, len(tools))
			for _, t := range tools {
				fmt.Fprintf(out, "  %s\n", t.Name)
			}

			result, err := client.CallTool(ctx, discovery.ToolFetchContent, map[string]any{
				"section_titles": titles,
				"user_query":     query,
			})
			if err != nil {
				return err
			}
			return printCallResult(cmd, titles, result)
		},
	}
	cmd.Flags().StringVarP(&url, "url", "u", "", "Server MCP endpoint (default http://localhost:<port><path>)")
	cmd.Flags().StringVarP(&query, "query", "q", "section extraction check", "User query sent with the fetch")
	cmd.Flags().StringToStringVarP(&headers, "header", "H", nil, "Extra HTTP headers (key=value)")
	cmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "Per-request HTTP timeout")
	return cmd
}

func printCallResult(cmd *cobra.Command, titles []string, result any) error {
	out := cmd.OutOrStdout()
	structured, ok := result.(map[string]any)
	if !ok {
		return writeJSON(out, result)
	}
	if success, _ := structured["success"].(bool); !success {
		return fmt.Errorf("call: fetch failed: %v", structured["error"])
	}

	content, _ := structured["extracted_content"].(map[string]any)
	for _, title := range titles {
		text, _ := content[title].(string)
		fmt.Fprintf(out, "\n%s (%d characters)\n%s\n", title, len(text), preview(text, false))
	}
	fmt.Fprintf(out, "\nsections: %v\n", structured["sections_found"])
	return nil
}
