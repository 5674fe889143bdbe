package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

var (
	// ErrElementNotFound is returned when a path does not resolve in a graph.
	ErrElementNotFound = errors.New("element not found")
	// ErrScopeNotFound is returned when a scope path does not resolve. It is
	// distinct from ErrElementNotFound so callers can tell "bad scope" apart
	// from "no matches" and from a bad start element.
	ErrScopeNotFound = errors.New("scope not found")
)

// Graph is one fully loaded model: a root element, the closure of its
// descendants, and the intra-graph associations among them. A Graph is
// immutable after NewGraph returns, so concurrent readers need no locking.
type Graph struct {
	root     *Element
	byPath   map[string]*Element
	preorder []*Element
	assocs   []*Association

	// Association adjacency keyed by endpoint path.
	outgoing map[string][]*Association
	incoming map[string][]*Association

	// Roaring bitmap per element type over pre-order ranks. Because ranks of
	// a subtree form the contiguous interval [ord, end), the number of
	// elements of a type inside any subtree is a rank difference on the
	// bitmap, without visiting the subtree.
	types map[string]*roaring.Bitmap
}

// NewGraph validates and indexes a loaded hierarchy. It walks the tree
// iteratively, assigns paths and pre-order ranks, sets parent back-references,
// and rejects duplicate paths, hierarchy cycles, and associations with
// dangling endpoints. On error the graph is discarded wholesale.
func NewGraph(root *Element, assocs []*Association) (*Graph, error) {
	if root == nil {
		return nil, errors.New("nil root element")
	}

	g := &Graph{
		root:     root,
		byPath:   make(map[string]*Element),
		outgoing: make(map[string][]*Association),
		incoming: make(map[string][]*Association),
		types:    make(map[string]*roaring.Bitmap),
	}

	// Pre-order walk with an explicit stack; children pushed in reverse so
	// they pop in declared order. parentIdx drives the subtree-size pass.
	type frame struct {
		el     *Element
		parent int // index into preorder, -1 for root
	}
	seen := make(map[*Element]bool)
	var parentIdx []int
	stack := []frame{{el: root, parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		el := f.el

		if seen[el] {
			return nil, fmt.Errorf("hierarchy cycle or shared element at %q", el.Name)
		}
		seen[el] = true

		if f.parent < 0 {
			el.Parent = nil
			if el.Name == "" {
				el.Path = ""
			} else {
				el.Path = "/" + el.Name
			}
		} else {
			p := g.preorder[f.parent]
			el.Parent = p
			el.Path = p.Path + "/" + el.Name
		}
		if strings.Contains(el.Name, "/") {
			return nil, fmt.Errorf("element name %q contains a path separator", el.Name)
		}
		if _, dup := g.byPath[el.Path]; dup {
			return nil, fmt.Errorf("duplicate element path %q", el.Path)
		}

		idx := len(g.preorder)
		el.ord = uint32(idx)
		g.byPath[el.Path] = el
		g.preorder = append(g.preorder, el)
		parentIdx = append(parentIdx, f.parent)

		for i := len(el.Children) - 1; i >= 0; i-- {
			if el.Children[i] == nil {
				return nil, fmt.Errorf("nil child under %q", el.Path)
			}
			stack = append(stack, frame{el: el.Children[i], parent: idx})
		}
	}

	// Subtree extents: every element covers [ord, ord+size). Reverse pass
	// accumulates child sizes into parents.
	sizes := make([]uint32, len(g.preorder))
	for i := range sizes {
		sizes[i] = 1
	}
	for i := len(g.preorder) - 1; i > 0; i-- {
		sizes[parentIdx[i]] += sizes[i]
	}
	for i, el := range g.preorder {
		el.end = el.ord + sizes[i]
	}

	for _, el := range g.preorder {
		bm := g.types[el.Type]
		if bm == nil {
			bm = roaring.New()
			g.types[el.Type] = bm
		}
		bm.Add(el.ord)
	}

	for _, a := range assocs {
		if a == nil {
			return nil, errors.New("nil association")
		}
		from := NormalizePath(a.From)
		to := NormalizePath(a.To)
		if _, ok := g.byPath[from]; !ok {
			return nil, fmt.Errorf("association %s -> %s: dangling endpoint %q", a.From, a.To, a.From)
		}
		if _, ok := g.byPath[to]; !ok {
			return nil, fmt.Errorf("association %s -> %s: dangling endpoint %q", a.From, a.To, a.To)
		}
		a.From, a.To = from, to
		g.assocs = append(g.assocs, a)
		g.outgoing[from] = append(g.outgoing[from], a)
		g.incoming[to] = append(g.incoming[to], a)
	}

	return g, nil
}

// NormalizePath canonicalizes a caller-supplied path: leading slash enforced,
// trailing slash stripped. The empty string addresses an unnamed root.
func NormalizePath(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}

// Root returns the root element.
func (g *Graph) Root() *Element { return g.root }

// ElementCount returns the number of elements in the graph.
func (g *Graph) ElementCount() int { return len(g.preorder) }

// AssociationCount returns the number of associations in the graph.
func (g *Graph) AssociationCount() int { return len(g.assocs) }

// Resolve maps a path to its element, or ErrElementNotFound.
func (g *Graph) Resolve(path string) (*Element, error) {
	el, ok := g.byPath[NormalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrElementNotFound, path)
	}
	return el, nil
}

// UnderScope returns every element whose path has the scope as a prefix, in
// pre-order, the scope element first. An empty scopePath selects the whole
// graph. A scope path that does not resolve yields ErrScopeNotFound.
//
// The result aliases the graph's pre-order slice; callers must not mutate it.
func (g *Graph) UnderScope(scopePath string) ([]*Element, error) {
	norm := NormalizePath(scopePath)
	if norm == "" {
		// Absent scope, "/", or an unnamed root: the whole graph.
		return g.preorder, nil
	}
	el, ok := g.byPath[norm]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrScopeNotFound, scopePath)
	}
	return g.preorder[el.ord:el.end:el.end], nil
}

// Subtree returns the pre-order slice rooted at el.
func (g *Graph) Subtree(el *Element) []*Element {
	return g.preorder[el.ord:el.end:el.end]
}

// Outgoing returns the associations whose From endpoint is the given element.
func (g *Graph) Outgoing(el *Element) []*Association { return g.outgoing[el.Path] }

// Incoming returns the associations whose To endpoint is the given element.
func (g *Graph) Incoming(el *Element) []*Association { return g.incoming[el.Path] }

// Associations returns all associations in load order.
func (g *Graph) Associations() []*Association { return g.assocs }

// MustResolve is Resolve for endpoints already validated at load time. A miss
// here is a defect in the graph invariants, not a user error, so it panics
// rather than returning a user-facing error.
func (g *Graph) MustResolve(path string) *Element {
	el, ok := g.byPath[path]
	if !ok {
		panic(fmt.Sprintf("graph invariant violated: validated path %q no longer resolves", path))
	}
	return el
}

// TypeCountWithin counts elements of the given type inside scope's subtree
// without visiting the subtree: a rank difference on the type's bitmap.
func (g *Graph) TypeCountWithin(typ string, scope *Element) int {
	bm := g.types[typ]
	if bm == nil {
		return 0
	}
	hi := bm.Rank(scope.end - 1)
	var lo uint64
	if scope.ord > 0 {
		lo = bm.Rank(scope.ord - 1)
	}
	return int(hi - lo)
}

// TypesWithin returns the distribution of element types inside scope's
// subtree, scope included. Cost is proportional to the number of distinct
// types in the graph, not the subtree size.
func (g *Graph) TypesWithin(scope *Element) map[string]int {
	dist := make(map[string]int)
	for typ := range g.types {
		if n := g.TypeCountWithin(typ, scope); n > 0 {
			dist[typ] = n
		}
	}
	return dist
}

// ElementsOfType returns the elements of the given type in pre-order,
// restricted to scope when non-nil. Roaring iteration is ascending over
// ranks, which is exactly pre-order.
func (g *Graph) ElementsOfType(typ string, scope *Element) []*Element {
	bm := g.types[typ]
	if bm == nil {
		return nil
	}
	var out []*Element
	it := bm.Iterator()
	if scope != nil {
		it.AdvanceIfNeeded(scope.ord)
	}
	for it.HasNext() {
		ord := it.Next()
		if scope != nil && ord >= scope.end {
			break
		}
		out = append(out, g.preorder[ord])
	}
	return out
}
