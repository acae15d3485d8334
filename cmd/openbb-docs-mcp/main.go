// Command openbb-docs-mcp serves OpenBB Workspace documentation as MCP tools
// and offers offline helpers for inspecting the documentation files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhhoang1023/openbb-docs-mcp-server/config"
	"github.com/minhhoang1023/openbb-docs-mcp-server/fetch"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "openbb-docs-mcp",
		Short:         "MCP server for OpenBB Workspace documentation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "config.yaml", "Path to the YAML config file (missing file means defaults)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(
		newServeCmd(a),
		newSectionsCmd(a),
		newExtractCmd(a),
		newHeadingsCmd(a),
		newCheckCmd(a),
		newCallCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}

// newLogger writes to w, never stdout, so the stdio transport stays clean.
func newLogger(lc config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (a *app) fetcher() *fetch.Client {
	d := a.cfg.Docs
	return fetch.New(fetch.Config{
		TOCURL:          d.TOCURL,
		FullTextURL:     d.FullTextURL,
		TOCTimeout:      d.TOCTimeout,
		FullTextTimeout: d.FullTextTimeout,
		MaxRetries:      d.MaxRetries,
		RetryDelay:      d.RetryDelay,
		UserAgent:       d.UserAgent,
	}, fetch.WithLogger(a.logger))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "openbb-docs-mcp %s\n", version)
		},
	}
}
