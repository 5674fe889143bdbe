package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/depscope/api"
	"github.com/agentic-research/depscope/internal/query"
)

func (s *Service) registerModelTools(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("sgraph_load_model",
		mcp.WithDescription("Load a dependency-graph model from a file and return its model id. Supported formats: .json, .xml, .zip, .db/.sqlite."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the model file")),
	), s.handleLoadModel)

	srv.AddTool(mcp.NewTool("sgraph_get_model_overview",
		mcp.WithDescription("Get a hierarchical overview of the model structure up to a depth bound. Subtrees beyond the bound are summarized as per-type aggregates."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithString("scope_path", mcp.Description("Start the overview at this element instead of the root")),
		mcp.WithNumber("max_depth", mcp.Description("Hierarchy levels to expand (default 3)")),
		mcp.WithBoolean("include_counts", mcp.Description("Include child and association counts per element (default true)")),
	), s.handleModelOverview)

	srv.AddTool(mcp.NewTool("sgraph_list_models",
		mcp.WithDescription("List all cached models with their load metadata."),
	), s.handleListModels)

	srv.AddTool(mcp.NewTool("sgraph_unload_model",
		mcp.WithDescription("Evict a model from the cache. Unknown identifiers are a no-op."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier to evict")),
	), s.handleUnloadModel)
}

func (s *Service) handleLoadModel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	id, err := s.cache.Load(ctx, path)
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(map[string]string{"model_id": id})
}

func (s *Service) handleModelOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	g, err := s.cache.Get(modelID)
	if err != nil {
		return s.errorResult(err), nil
	}

	overview, err := query.Overview(g,
		req.GetString("scope_path", ""),
		req.GetInt("max_depth", 3),
		req.GetBool("include_counts", true))
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(overview)
}

func (s *Service) handleListModels(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.cache.List()
	infos := make([]api.ModelInfo, 0, len(entries))
	for _, e := range entries {
		root := e.Graph.Root()
		infos = append(infos, api.ModelInfo{
			ID:               e.ID,
			Source:           e.Source,
			LoadedAt:         e.LoadedAt,
			ElementCount:     e.Graph.ElementCount(),
			AssociationCount: e.Graph.AssociationCount(),
			RootName:         root.Name,
			RootChildren:     len(root.Children),
		})
	}
	return jsonResult(map[string]any{"models": infos, "count": len(infos)})
}

func (s *Service) handleUnloadModel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	s.cache.Evict(modelID)
	return jsonResult(map[string]string{"model_id": modelID, "status": "evicted"})
}
