package tools

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agentic-research/depscope/internal/cache"
	"github.com/agentic-research/depscope/internal/model"
	"github.com/agentic-research/depscope/internal/query"
)

// toolError is the wire shape of a failed tool call. Kind is machine
// checkable; Message is for humans. No tool ever returns an ambiguous empty
// success.
type toolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	kindLoadError        = "load_error"
	kindNotLoaded        = "not_loaded"
	kindElementNotFound  = "element_not_found"
	kindNotFound         = "not_found"
	kindInvalidPattern   = "invalid_pattern"
	kindInvalidDirection = "invalid_direction"
	kindInvalidArgument  = "invalid_argument"
	kindInternal         = "internal"
)

// errorResult maps an engine error to its wire kind. Anything outside the
// user-error taxonomy is a defect: it is logged loudly and reported as
// internal so callers triage it differently from their own bad input.
func (s *Service) errorResult(err error) *mcp.CallToolResult {
	kind := kindInternal
	var loadErr *cache.LoadError
	switch {
	case errors.As(err, &loadErr):
		kind = kindLoadError
	case errors.Is(err, cache.ErrNotLoaded):
		kind = kindNotLoaded
	case errors.Is(err, model.ErrElementNotFound):
		kind = kindElementNotFound
	case errors.Is(err, model.ErrScopeNotFound):
		kind = kindNotFound
	case errors.Is(err, query.ErrInvalidPattern):
		kind = kindInvalidPattern
	case errors.Is(err, query.ErrInvalidDirection):
		kind = kindInvalidDirection
	}
	if kind == kindInternal {
		s.logger.Error("internal error in tool call", slog.String("error", err.Error()))
	}
	return errorPayload(kind, err.Error())
}

func argumentError(msg string) *mcp.CallToolResult {
	return errorPayload(kindInvalidArgument, msg)
}

func errorPayload(kind, msg string) *mcp.CallToolResult {
	data, err := json.Marshal(map[string]toolError{"error": {Kind: kind, Message: msg}})
	if err != nil {
		return mcp.NewToolResultError(msg)
	}
	res := mcp.NewToolResultText(string(data))
	res.IsError = true
	return res
}
