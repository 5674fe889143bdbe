package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/depscope/api"
	"github.com/agentic-research/depscope/internal/model"
	"github.com/agentic-research/depscope/internal/query"
)

func (s *Service) registerSearchTools(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("sgraph_search_elements_by_name",
		mcp.WithDescription("Search for elements by name pattern. Optionally filter by element type and restrict to a scope path."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Name pattern")),
		mcp.WithString("pattern_kind", mcp.Description("How to interpret the pattern: regex (default) or glob")),
		mcp.WithString("element_type", mcp.Description("Exact type filter, e.g. file, class, function")),
		mcp.WithString("scope_path", mcp.Description("Restrict the search to this subtree")),
	), s.handleSearchByName)

	srv.AddTool(mcp.NewTool("sgraph_get_elements_by_type",
		mcp.WithDescription("Get all elements of an exact type. Optionally restrict to a scope path."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithString("element_type", mcp.Required(), mcp.Description("Element type tag")),
		mcp.WithString("scope_path", mcp.Description("Restrict to this subtree")),
	), s.handleElementsByType)

	srv.AddTool(mcp.NewTool("sgraph_search_elements_by_attributes",
		mcp.WithDescription("Search for elements carrying all given attribute values. Comparison is type-sensitive: the string \"5\" does not equal the number 5."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithObject("attribute_filters", mcp.Required(), mcp.Description("Mapping of attribute name to expected value (string, number, or boolean)")),
		mcp.WithString("scope_path", mcp.Description("Restrict to this subtree")),
	), s.handleSearchByAttributes)
}

func (s *Service) handleSearchByName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	g, err := s.cache.Get(modelID)
	if err != nil {
		return s.errorResult(err), nil
	}

	elements, err := query.SearchByName(g,
		pattern,
		query.PatternKind(req.GetString("pattern_kind", string(query.PatternRegex))),
		req.GetString("element_type", ""),
		req.GetString("scope_path", ""))
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(api.SearchResult{
		Elements: query.ElementViews(elements),
		Count:    len(elements),
	})
}

func (s *Service) handleElementsByType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	elementType, err := req.RequireString("element_type")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	g, err := s.cache.Get(modelID)
	if err != nil {
		return s.errorResult(err), nil
	}

	elements, err := query.SearchByType(g, elementType, req.GetString("scope_path", ""))
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(api.SearchResult{
		Elements: query.ElementViews(elements),
		Count:    len(elements),
	})
}

func (s *Service) handleSearchByAttributes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	g, err := s.cache.Get(modelID)
	if err != nil {
		return s.errorResult(err), nil
	}

	rawFilters, ok := req.GetArguments()["attribute_filters"].(map[string]any)
	if !ok || len(rawFilters) == 0 {
		return argumentError("attribute_filters must be a non-empty object"), nil
	}
	filters := make(map[string]model.AttrValue, len(rawFilters))
	for k, v := range rawFilters {
		av, ok := model.AttrFromAny(v)
		if !ok {
			return argumentError(fmt.Sprintf("attribute %q: value must be a string, number, or boolean", k)), nil
		}
		filters[k] = av
	}

	elements, err := query.SearchByAttributes(g, filters, req.GetString("scope_path", ""))
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(api.SearchResult{
		Elements: query.ElementViews(elements),
		Count:    len(elements),
	})
}
