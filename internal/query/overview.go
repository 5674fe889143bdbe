package query

import (
	"github.com/agentic-research/depscope/api"
	"github.com/agentic-research/depscope/internal/model"
)

// Overview builds a depth-bounded summary tree rooted at the scope element
// (the graph root when scopePath is empty). Children appear in declared
// order. Elements beyond maxDepth are never visited: subtrees cut off at the
// boundary are summarized as a single per-type aggregate computed from the
// type bitmap index in constant time per type.
func Overview(g *model.Graph, scopePath string, maxDepth int, includeCounts bool) (*api.Overview, error) {
	scope, err := resolveScope(g, scopePath)
	if err != nil {
		return nil, err
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	// Pre-order collection of the visited slice, bounded by depth.
	type frame struct {
		el    *model.Element
		depth int
	}
	var visited []frame
	stack := []frame{{el: scope, depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited = append(visited, f)
		if f.depth >= maxDepth {
			continue
		}
		for i := len(f.el.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{el: f.el.Children[i], depth: f.depth + 1})
		}
	}

	summary := api.OverviewSummary{
		DepthCounts:      make(map[int]int),
		TypeDistribution: make(map[string]int),
	}

	// Nodes assemble bottom-up: children precede parents in reversed
	// pre-order, so every child node is complete before its parent collects
	// it. This keeps the build iterative regardless of depth.
	nodes := make(map[*model.Element]*api.OverviewNode, len(visited))
	for i := len(visited) - 1; i >= 0; i-- {
		f := visited[i]
		el := f.el

		node := &api.OverviewNode{
			Name:  el.Name,
			Path:  el.Path,
			Type:  el.Type,
			Depth: f.depth,
		}
		if includeCounts {
			node.ChildCount = len(el.Children)
			node.IncomingCount = len(g.Incoming(el))
			node.OutgoingCount = len(g.Outgoing(el))
		}

		if f.depth < maxDepth {
			for _, child := range el.Children {
				node.Children = append(node.Children, *nodes[child])
			}
		} else if len(el.Children) > 0 {
			node.Unexpanded = boundaryAggregate(g, el)
		}

		nodes[el] = node

		summary.TotalElements++
		summary.DepthCounts[f.depth]++
		summary.TypeDistribution[el.Type]++
	}

	return &api.Overview{
		RootPath: scope.Path,
		MaxDepth: maxDepth,
		Tree:     *nodes[scope],
		Summary:  summary,
	}, nil
}

// boundaryAggregate summarizes el's descendants without walking them: a rank
// difference on each type bitmap, minus el itself.
func boundaryAggregate(g *model.Graph, el *model.Element) *api.SubtreeAggregate {
	types := g.TypesWithin(el)
	if n := types[el.Type]; n <= 1 {
		delete(types, el.Type)
	} else {
		types[el.Type] = n - 1
	}
	return &api.SubtreeAggregate{
		Elements: el.SubtreeSize() - 1,
		Types:    types,
	}
}
