package cmd

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/depscope/internal/cache"
	"github.com/agentic-research/depscope/internal/config"
	"github.com/agentic-research/depscope/internal/tools"
)

// serve wires the cache and tool surface and blocks on the transport.
func serve(cfg config.Config, logger *slog.Logger) error {
	c := cache.New(
		cache.WithLoadTimeout(cfg.LoadTimeout),
		cache.WithLogger(logger),
	)
	svc := tools.NewService(c, logger)
	srv := tools.NewServer(svc, Version)

	if cfg.SSEAddr != "" {
		logger.Info("serving over sse", slog.String("addr", cfg.SSEAddr))
		return server.NewSSEServer(srv).Start(cfg.SSEAddr)
	}
	logger.Info("serving over stdio")
	return server.ServeStdio(srv)
}
