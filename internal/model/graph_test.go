package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds the fixture used across the package:
//
//	/P (repository)
//	  /P/a (file)
//	    /P/a/Foo (class)
//	  /P/b (file)
//	    /P/b/Bar (class)
//	  /P/External (directory)
//	    /P/External/libz (library)
func testTree() *Element {
	return &Element{
		Name: "P", Type: "repository",
		Children: []*Element{
			{Name: "a", Type: "file", Children: []*Element{
				{Name: "Foo", Type: "class"},
			}},
			{Name: "b", Type: "file", Children: []*Element{
				{Name: "Bar", Type: "class"},
			}},
			{Name: "External", Type: "directory", Children: []*Element{
				{Name: "libz", Type: "library"},
			}},
		},
	}
}

func testGraph(t *testing.T, assocs ...*Association) *Graph {
	t.Helper()
	g, err := NewGraph(testTree(), assocs)
	require.NoError(t, err)
	return g
}

func TestNewGraph_AssignsPathsAndParents(t *testing.T) {
	g := testGraph(t)

	foo, err := g.Resolve("/P/a/Foo")
	require.NoError(t, err)
	assert.Equal(t, "/P/a/Foo", foo.Path)
	assert.Equal(t, "Foo", foo.Name)
	require.NotNil(t, foo.Parent)
	assert.Equal(t, "/P/a", foo.Parent.Path)

	root := g.Root()
	assert.Nil(t, root.Parent)
	assert.Equal(t, "/P", root.Path)
	assert.Equal(t, 7, g.ElementCount())
}

func TestResolve_RoundTripsEveryPath(t *testing.T) {
	g := testGraph(t)

	all, err := g.UnderScope("")
	require.NoError(t, err)
	require.Len(t, all, g.ElementCount())
	for _, el := range all {
		got, err := g.Resolve(el.Path)
		require.NoError(t, err)
		assert.Same(t, el, got, "resolve(%s)", el.Path)
	}
}

func TestResolve_NormalizesInput(t *testing.T) {
	g := testGraph(t)

	for _, p := range []string{"/P/a", "P/a", "/P/a/"} {
		el, err := g.Resolve(p)
		require.NoError(t, err, "resolve(%q)", p)
		assert.Equal(t, "/P/a", el.Path)
	}
}

func TestResolve_Miss(t *testing.T) {
	g := testGraph(t)

	_, err := g.Resolve("/P/nope")
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestUnderScope_PreOrderScopeFirst(t *testing.T) {
	g := testGraph(t)

	els, err := g.UnderScope("/P/a")
	require.NoError(t, err)
	paths := elementPaths(els)
	assert.Equal(t, []string{"/P/a", "/P/a/Foo"}, paths)

	whole, err := g.UnderScope("")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/P", "/P/a", "/P/a/Foo", "/P/b", "/P/b/Bar", "/P/External", "/P/External/libz",
	}, elementPaths(whole))
}

func TestUnderScope_BadScope(t *testing.T) {
	g := testGraph(t)

	_, err := g.UnderScope("/P/missing")
	assert.ErrorIs(t, err, ErrScopeNotFound)
	assert.NotErrorIs(t, err, ErrElementNotFound)
}

func TestNewGraph_RejectsDuplicatePaths(t *testing.T) {
	root := &Element{
		Name: "P",
		Children: []*Element{
			{Name: "a", Type: "file"},
			{Name: "a", Type: "file"},
		},
	}
	_, err := NewGraph(root, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewGraph_RejectsHierarchyCycle(t *testing.T) {
	a := &Element{Name: "a"}
	b := &Element{Name: "b"}
	a.Children = []*Element{b}
	b.Children = []*Element{a}
	root := &Element{Name: "P", Children: []*Element{a}}

	_, err := NewGraph(root, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestNewGraph_RejectsDanglingAssociation(t *testing.T) {
	_, err := NewGraph(testTree(), []*Association{
		{From: "/P/a/Foo", To: "/P/ghost", Type: "call"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangling")
}

func TestNewGraph_AllowsSelfLoopsAndParallelEdges(t *testing.T) {
	g := testGraph(t,
		&Association{From: "/P/a/Foo", To: "/P/a/Foo", Type: "call"},
		&Association{From: "/P/a/Foo", To: "/P/b/Bar", Type: "call"},
		&Association{From: "/P/a/Foo", To: "/P/b/Bar", Type: "import"},
	)
	foo, err := g.Resolve("/P/a/Foo")
	require.NoError(t, err)
	assert.Len(t, g.Outgoing(foo), 3)
	assert.Len(t, g.Incoming(foo), 1)
}

func TestContains(t *testing.T) {
	g := testGraph(t)
	a, _ := g.Resolve("/P/a")
	foo, _ := g.Resolve("/P/a/Foo")
	bar, _ := g.Resolve("/P/b/Bar")

	assert.True(t, a.Contains(a))
	assert.True(t, a.Contains(foo))
	assert.False(t, a.Contains(bar))
	assert.True(t, g.Root().Contains(bar))
}

func TestTypeCountWithin(t *testing.T) {
	g := testGraph(t)
	root := g.Root()
	a, _ := g.Resolve("/P/a")

	assert.Equal(t, 2, g.TypeCountWithin("class", root))
	assert.Equal(t, 1, g.TypeCountWithin("class", a))
	assert.Equal(t, 0, g.TypeCountWithin("library", a))
	assert.Equal(t, map[string]int{"file": 1, "class": 1}, g.TypesWithin(a))
}

func TestElementsOfType_PreOrderWithinScope(t *testing.T) {
	g := testGraph(t)

	classes := g.ElementsOfType("class", nil)
	assert.Equal(t, []string{"/P/a/Foo", "/P/b/Bar"}, elementPaths(classes))

	b, _ := g.Resolve("/P/b")
	scoped := g.ElementsOfType("class", b)
	assert.Equal(t, []string{"/P/b/Bar"}, elementPaths(scoped))

	assert.Empty(t, g.ElementsOfType("enum", nil))
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"":       "",
		"/":      "",
		"P":      "/P",
		"/P":     "/P",
		"/P/a/":  "/P/a",
		"P/a/b/": "/P/a/b",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePath(in), "NormalizePath(%q)", in)
	}
}

func elementPaths(els []*Element) []string {
	out := make([]string, 0, len(els))
	for _, el := range els {
		out = append(out, el.Path)
	}
	return out
}
