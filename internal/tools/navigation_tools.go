package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/depscope/internal/query"
)

func (s *Service) registerNavigationTools(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("sgraph_get_root_element",
		mcp.WithDescription("Get the root element of a model."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
	), s.handleRootElement)

	srv.AddTool(mcp.NewTool("sgraph_get_element",
		mcp.WithDescription("Get a single element by path."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithString("element_path", mcp.Required(), mcp.Description("Path of the element")),
	), s.handleGetElement)

	srv.AddTool(mcp.NewTool("sgraph_get_element_incoming_associations",
		mcp.WithDescription("Get the incoming associations of a single element, children excluded."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithString("element_path", mcp.Required(), mcp.Description("Path of the element")),
	), s.handleIncomingAssociations)

	srv.AddTool(mcp.NewTool("sgraph_get_element_outgoing_associations",
		mcp.WithDescription("Get the outgoing associations of a single element, children excluded."),
		mcp.WithString("model_id", mcp.Required(), mcp.Description("Identifier returned by sgraph_load_model")),
		mcp.WithString("element_path", mcp.Required(), mcp.Description("Path of the element")),
	), s.handleOutgoingAssociations)
}

func (s *Service) handleRootElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return argumentError(err.Error()), nil
	}
	g, err := s.cache.Get(modelID)
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(query.ElementView(g.Root()))
}

func (s *Service) handleGetElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
	el, err := g.Resolve(elementPath)
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(query.ElementView(el))
}

func (s *Service) handleIncomingAssociations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleElementAssociations(req, query.DirectionIncoming)
}

func (s *Service) handleOutgoingAssociations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handleElementAssociations(req, query.DirectionOutgoing)
}

func (s *Service) handleElementAssociations(req mcp.CallToolRequest, dir query.Direction) (*mcp.CallToolResult, error) {
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
	list, err := query.ElementAssociations(g, elementPath, dir)
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(list)
}
