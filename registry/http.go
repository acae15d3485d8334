package registry

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// DefaultMCPPath is where the streamable HTTP transport is mounted when
// HTTPOptions.Path is empty.
const DefaultMCPPath = "/mcp"

// HTTPOptions configures NewHTTPHandler.
type HTTPOptions struct {
	// Path mounts the streamable HTTP transport.
	Path string
	// CORS enables cross-origin handling when non-nil.
	CORS   *cors.Options
	Logger *slog.Logger
}

// NewHTTPHandler exposes the registry over HTTP:
//
//	GET  /healthz  liveness and tool count
//	*    <Path>    MCP streamable HTTP transport
//	POST /rpc      plain JSON-RPC (ServeHTTP)
//	POST /sse      single-event SSE (ServeSSE)
func NewHTTPHandler(r *Registry, opts HTTPOptions) http.Handler {
	path := opts.Path
	if path == "" {
		path = DefaultMCPPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.logger
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	engine.GET("/healthz", func(c *gin.Context) {
		info := r.Info()
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"name":    info.Name,
			"version": info.Version,
			"tools":   r.Stats().TotalTools,
		})
	})
	engine.Any(path, gin.WrapH(StreamableHandler(r)))
	engine.POST("/rpc", gin.WrapH(ServeHTTP(r)))
	engine.POST("/sse", gin.WrapH(ServeSSE(r)))

	if opts.CORS == nil {
		return engine
	}
	return cors.New(*opts.CORS).Handler(engine)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"component", "http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
