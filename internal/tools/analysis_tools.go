package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/depscope/internal/query"
)

func (s *Service) registerAnalysisTools(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("sgraph_get_subtree_dependencies",
		mcp.WithDescription("Partition all dependencies touching a subtree into internal, incoming, and outgoing sets."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithString("root_path", mcp.Required(), mcp.Description("Path of the subtree root")),
		mcp.WithBoolean("include_external", mcp.Description("Include dependencies on External subtrees (default true)")),
		mcp.WithNumber("max_depth", mcp.Description("Hierarchy levels below the root to expand; omitted means unbounded")),
	), s.handleSubtreeDependencies)

	srv.AddTool(mcp.NewTool("sgraph_get_dependency_chain",
		mcp.WithDescription("Breadth-first transitive dependency expansion from an element. Direction is outgoing or incoming; depth 0 is the start element itself."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithString("element_path", mcp.Required(), mcp.Description("Path of the start element")),
		mcp.WithString("direction", mcp.Description("outgoing (default) or incoming")),
		mcp.WithNumber("max_depth", mcp.Description("Hop bound (default 3); non-positive values degrade to 0")),
	), s.handleDependencyChain)

	srv.AddTool(mcp.NewTool("sgraph_get_multiple_elements",
		mcp.WithDescription("Resolve several element paths in one call. Unresolvable paths are reported inline; the batch never fails as a whole."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithArray("element_paths", mcp.Required(), mcp.Description("Paths to resolve")),
	), s.handleMultipleElements)
}

func (s *Service) handleSubtreeDependencies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	rootPath, err := req.RequireString("root_path")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	g, err := s.cache.Get(modelID)
	if err != nil {
		return s.errorResult(err), nil
	}

	result, err := query.SubtreeDependencies(g, rootPath,
		req.GetBool("include_external", true),
		req.GetInt("max_depth", -1))
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(result)
}

func (s *Service) handleDependencyChain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	elementPath, err := req.RequireString("element_path")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	g, err := s.cache.Get(modelID)
	if err != nil {
		return s.errorResult(err), nil
	}

	dir, err := query.ParseDirection(req.GetString("direction", string(query.DirectionOutgoing)))
	if err != nil {
		return s.errorResult(err), nil
	}
	chain, err := query.Chain(g, elementPath, dir, req.GetInt("max_depth", 3))
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(chain)
}

func (s *Service) handleMultipleElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	paths, err := req.RequireStringSlice("element_paths")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	g, err := s.cache.Get(modelID)
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(query.Elements(g, paths))
}
