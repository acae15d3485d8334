package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/minhhoang1023/openbb-docs-mcp-server/config"
	"github.com/minhhoang1023/openbb-docs-mcp-server/discovery"
	"github.com/minhhoang1023/openbb-docs-mcp-server/registry"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		transport string
		host      string
		port      int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (streamable HTTP or stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("transport") {
				a.cfg.Server.Transport = transport
			}
			if flags.Changed("host") {
				a.cfg.Server.Host = host
			}
			if flags.Changed("port") {
				a.cfg.Server.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", config.TransportHTTP, "Transport: http or stdio")
	cmd.Flags().StringVar(&host, "host", "", "Listen host (http transport)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (http transport)")
	return cmd
}

func (a *app) newRegistry() (*registry.Registry, *discovery.Service, error) {
	svc := discovery.New(discovery.Options{
		Source: a.fetcher(),
		Logger: a.logger,
	})
	reg := registry.New(registry.Config{
		ServerInfo: registry.ServerInfo{
			Name:    a.cfg.Server.Name,
			Version: a.cfg.Server.Version,
		},
		Instructions: discovery.ServerInstructions,
		Logger:       a.logger,
	})
	if err := svc.RegisterTools(reg); err != nil {
		_ = svc.Close()
		return nil, nil, err
	}
	return reg, svc, nil
}

func (a *app) serve(ctx context.Context) error {
	reg, svc, err := a.newRegistry()
	if err != nil {
		return err
	}
	defer func() {
		_ = svc.Close()
	}()

	if a.cfg.Server.Transport == config.TransportStdio {
		a.logger.Info("mcp server started", "component", "cmd", "operation", "serve", "transport", "stdio",
			"tools", reg.Stats().ToolNames)
		return registry.ServeStdio(ctx, reg)
	}
	return a.serveHTTP(ctx, reg)
}

func (a *app) serveHTTP(ctx context.Context, reg *registry.Registry) error {
	gin.SetMode(gin.ReleaseMode)
	handler := registry.NewHTTPHandler(reg, registry.HTTPOptions{
		Path:   a.cfg.Server.Path,
		CORS:   corsOptions(a.cfg.CORS),
		Logger: a.logger,
	})

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	a.logger.Info("mcp server started",
		"component", "cmd",
		"operation", "serve",
		"transport", "http",
		"addr", srv.Addr,
		"endpoint", fmt.Sprintf("http://localhost:%d%s", a.cfg.Server.Port, a.cfg.Server.Path),
		"tools", reg.Stats().ToolNames,
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	a.logger.Info("mcp server stopped", "component", "cmd", "operation", "serve")
	return nil
}

func corsOptions(c config.CORSConfig) *cors.Options {
	return &cors.Options{
		AllowedOrigins:   c.AllowedOrigins,
		AllowedMethods:   c.AllowedMethods,
		AllowedHeaders:   c.AllowedHeaders,
		ExposedHeaders:   c.ExposedHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	}
}
