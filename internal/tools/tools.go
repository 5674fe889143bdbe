// Package tools wires the query engines to the MCP protocol surface: one
// tool per query family, all operating on cached model identifiers. This is
// the composition boundary; no traversal logic lives here.
package tools

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/depscope/internal/cache"
)

// Service carries the shared dependencies of every tool handler.
type Service struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// NewService creates the tool service over a model cache.
func NewService(c *cache.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cache: c, logger: logger}
}

// NewServer creates the MCP server with every tool registered.
func NewServer(svc *Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"depscope",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)
	svc.registerModelTools(s)
	svc.registerSearchTools(s)
	svc.registerAnalysisTools(s)
	svc.registerNavigationTools(s)
	return s
}

const serverInstructions = `Depscope serves structural queries over cached dependency graphs.
Load a model file with sgraph_load_model to obtain a model_id, then pass that
id to the search, dependency, and overview tools. Element paths are
slash-delimited, e.g. /project/src/main.py/handler.`

// jsonResult marshals a structured result value into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
