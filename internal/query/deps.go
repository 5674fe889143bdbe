package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agentic-research/depscope/api"
	"github.com/agentic-research/depscope/internal/model"
)

// ErrInvalidDirection is returned for a direction other than incoming or
// outgoing.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction selects which way a chain expansion follows associations.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing" // follow from -> to
	DirectionIncoming Direction = "incoming" // follow to -> from
)

// ParseDirection validates a caller-supplied direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionOutgoing:
		return DirectionOutgoing, nil
	case DirectionIncoming:
		return DirectionIncoming, nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidDirection, s, DirectionIncoming, DirectionOutgoing)
}

// externalSegment marks third-party subtrees by naming convention. The model
// itself stays convention-agnostic; external-ness is recomputed here from the
// path on each query.
const externalSegment = "External"

func isExternalPath(path string) bool {
	return strings.HasSuffix(path, "/"+externalSegment) ||
		strings.Contains(path, "/"+externalSegment+"/")
}

// Chain performs a breadth-first expansion of associations from startPath up
// to maxDepth hops. Depth 0 is the start element with no association. Each
// element is visited at most once, keyed by path, so cyclic association
// graphs terminate. Elements newly reached at the same depth are ordered by
// path. A non-positive maxDepth degrades to depth 0 rather than erroring.
func Chain(g *model.Graph, startPath string, dir Direction, maxDepth int) (*api.DependencyChain, error) {
	if _, err := ParseDirection(string(dir)); err != nil {
		return nil, err
	}
	start, err := g.Resolve(startPath)
	if err != nil {
		return nil, err
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	result := &api.DependencyChain{
		RootPath:  start.Path,
		Direction: string(dir),
		MaxDepth:  maxDepth,
		Levels: []api.ChainLevel{{
			Depth: 0,
			Hops:  []api.ChainHop{{Element: ElementView(start)}},
		}},
	}

	visited := map[string]bool{start.Path: true}
	frontier := []*model.Element{start}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		type reached struct {
			el  *model.Element
			via *model.Association
		}
		var newly []reached

		// The frontier is already path-ordered from the previous level (the
		// start alone at level 0); association lists are in load order. The
		// first association to reach an element is the one reported.
		for _, el := range frontier {
			var assocs []*model.Association
			if dir == DirectionOutgoing {
				assocs = g.Outgoing(el)
			} else {
				assocs = g.Incoming(el)
			}
			for _, a := range assocs {
				target := a.To
				if dir == DirectionIncoming {
					target = a.From
				}
				if visited[target] {
					continue
				}
				visited[target] = true
				newly = append(newly, reached{el: g.MustResolve(target), via: a})
			}
		}
		if len(newly) == 0 {
			break
		}

		sort.Slice(newly, func(i, j int) bool { return newly[i].el.Path < newly[j].el.Path })

		level := api.ChainLevel{Depth: depth, Hops: make([]api.ChainHop, 0, len(newly))}
		frontier = frontier[:0]
		for _, r := range newly {
			via := AssociationView(r.via)
			level.Hops = append(level.Hops, api.ChainHop{Element: ElementView(r.el), Via: &via})
			frontier = append(frontier, r.el)
		}
		result.Levels = append(result.Levels, level)
	}

	return result, nil
}

// SubtreeDependencies partitions every association touching the scope's
// subtree into internal, incoming, and outgoing sets. Membership is always
// decided against the full subtree, so the partition is exact at any depth
// bound; maxDepth only limits which elements are listed and expanded, with
// deeper associations attributed to their nearest listed ancestor. A negative
// maxDepth means unbounded. With includeExternal false, incoming and outgoing
// associations whose outside endpoint lies under an External subtree are
// suppressed.
func SubtreeDependencies(g *model.Graph, rootPath string, includeExternal bool, maxDepth int) (*api.SubtreeDependencies, error) {
	scope, err := g.Resolve(rootPath)
	if err != nil {
		return nil, err
	}

	result := &api.SubtreeDependencies{
		RootPath: scope.Path,
		Internal: []api.SubtreeDependency{},
		Incoming: []api.SubtreeDependency{},
		Outgoing: []api.SubtreeDependency{},
	}

	// Depth-bounded pre-order listing over the subtree. boundary marks
	// listed elements whose children are beyond the bound.
	type frame struct {
		el    *model.Element
		depth int
	}
	var listed []frame
	stack := []frame{{el: scope, depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		listed = append(listed, f)
		if maxDepth >= 0 && f.depth >= maxDepth {
			continue
		}
		for i := len(f.el.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{el: f.el.Children[i], depth: f.depth + 1})
		}
	}

	result.SubtreeElements = make([]api.ElementView, 0, len(listed))
	for _, f := range listed {
		result.SubtreeElements = append(result.SubtreeElements, ElementView(f.el))
	}

	classify := func(owner *model.Element, attributedTo string) {
		for _, a := range g.Outgoing(owner) {
			dep := api.SubtreeDependency{AssociationView: AssociationView(a), AttributedTo: attributedTo}
			if scope.Contains(g.MustResolve(a.To)) {
				result.Internal = append(result.Internal, dep)
			} else {
				if !includeExternal && isExternalPath(a.To) {
					continue
				}
				result.Outgoing = append(result.Outgoing, dep)
			}
		}
		for _, a := range g.Incoming(owner) {
			if scope.Contains(g.MustResolve(a.From)) {
				continue // internal, already recorded from its From side
			}
			if !includeExternal && isExternalPath(a.From) {
				continue
			}
			result.Incoming = append(result.Incoming, api.SubtreeDependency{
				AssociationView: AssociationView(a),
				AttributedTo:    attributedTo,
			})
		}
	}

	for _, f := range listed {
		expanded := maxDepth < 0 || f.depth < maxDepth
		if expanded || len(f.el.Children) == 0 {
			classify(f.el, f.el.Path)
			continue
		}
		// Boundary element: its unexpanded subtree's associations are
		// attributed to it.
		for _, inner := range g.Subtree(f.el) {
			classify(inner, f.el.Path)
		}
	}

	return result, nil
}
