package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/depscope/api"
	"github.com/agentic-research/depscope/internal/model"
)

func TestOverview_FullDepth(t *testing.T) {
	g := fixtureGraph(t)

	ov, err := Overview(g, "", 10, true)
	require.NoError(t, err)

	assert.Equal(t, "/P", ov.RootPath)
	require.Len(t, ov.Tree.Children, 3)
	assert.Equal(t, []string{"/P/a", "/P/b", "/P/External"}, childPaths(ov.Tree))
	assert.Nil(t, ov.Tree.Unexpanded)

	a := ov.Tree.Children[0]
	require.Len(t, a.Children, 1)
	assert.Equal(t, "/P/a/Foo", a.Children[0].Path)
	assert.Equal(t, 2, a.Children[0].Depth)

	assert.Equal(t, 7, ov.Summary.TotalElements)
	assert.Equal(t, map[int]int{0: 1, 1: 3, 2: 3}, ov.Summary.DepthCounts)
	assert.Equal(t, map[string]int{
		"repository": 1, "file": 2, "class": 2, "directory": 1, "library": 1,
	}, ov.Summary.TypeDistribution)
}

func TestOverview_Counts(t *testing.T) {
	g := fixtureGraph(t)

	ov, err := Overview(g, "", 10, true)
	require.NoError(t, err)

	a := ov.Tree.Children[0]
	assert.Equal(t, 1, a.ChildCount)
	assert.Equal(t, 1, a.OutgoingCount, "a -> Foo contains")

	foo := a.Children[0]
	assert.Equal(t, 2, foo.OutgoingCount, "call + import")
	assert.Equal(t, 2, foo.IncomingCount, "Bar call + a contains")

	// With includeCounts false all counts stay zero.
	ov, err = Overview(g, "", 10, false)
	require.NoError(t, err)
	assert.Zero(t, ov.Tree.ChildCount)
	assert.Zero(t, ov.Tree.Children[0].OutgoingCount)
}

func TestOverview_BoundaryAggregate(t *testing.T) {
	g := fixtureGraph(t)

	ov, err := Overview(g, "", 1, false)
	require.NoError(t, err)

	// Depth 1 lists a, b, External but not their children; each boundary
	// node with hidden descendants carries an aggregate instead.
	require.Len(t, ov.Tree.Children, 3)
	a := ov.Tree.Children[0]
	assert.Empty(t, a.Children)
	require.NotNil(t, a.Unexpanded)
	assert.Equal(t, 1, a.Unexpanded.Elements)
	assert.Equal(t, map[string]int{"class": 1}, a.Unexpanded.Types)

	ext := ov.Tree.Children[2]
	require.NotNil(t, ext.Unexpanded)
	assert.Equal(t, map[string]int{"library": 1}, ext.Unexpanded.Types)

	// Visited elements only: hidden descendants never enter the summary.
	assert.Equal(t, 4, ov.Summary.TotalElements)
	assert.Equal(t, map[int]int{0: 1, 1: 3}, ov.Summary.DepthCounts)
}

func TestOverview_DepthZero(t *testing.T) {
	g := fixtureGraph(t)

	for _, depth := range []int{0, -5} {
		ov, err := Overview(g, "/P/a", depth, false)
		require.NoError(t, err)
		assert.Equal(t, "/P/a", ov.RootPath)
		assert.Zero(t, ov.MaxDepth)
		assert.Empty(t, ov.Tree.Children)
		require.NotNil(t, ov.Tree.Unexpanded)
		assert.Equal(t, 1, ov.Tree.Unexpanded.Elements)
		assert.Equal(t, 1, ov.Summary.TotalElements)
	}
}

func TestOverview_LeafBoundaryHasNoAggregate(t *testing.T) {
	g := fixtureGraph(t)

	ov, err := Overview(g, "/P/a/Foo", 0, false)
	require.NoError(t, err)
	assert.Nil(t, ov.Tree.Unexpanded)
}

func TestOverview_ScopeNotFound(t *testing.T) {
	g := fixtureGraph(t)

	_, err := Overview(g, "/P/ghost", 3, false)
	assert.ErrorIs(t, err, model.ErrScopeNotFound)
}

func childPaths(node api.OverviewNode) []string {
	out := make([]string, 0, len(node.Children))
	for _, c := range node.Children {
		out = append(out, c.Path)
	}
	return out
}
