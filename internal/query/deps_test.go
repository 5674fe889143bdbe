package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/depscope/api"
	"github.com/agentic-research/depscope/internal/model"
)

func TestParseDirection(t *testing.T) {
	for _, ok := range []string{"incoming", "outgoing"} {
		_, err := ParseDirection(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "both", "sideways", "OUTGOING"} {
		_, err := ParseDirection(bad)
		assert.ErrorIs(t, err, ErrInvalidDirection, bad)
	}
}

func TestChain_DepthZero(t *testing.T) {
	g := fixtureGraph(t)

	for _, depth := range []int{0, -1, -100} {
		chain, err := Chain(g, "/P/a/Foo", DirectionOutgoing, depth)
		require.NoError(t, err)
		require.Len(t, chain.Levels, 1)
		assert.Equal(t, 0, chain.Levels[0].Depth)
		require.Len(t, chain.Levels[0].Hops, 1)
		assert.Equal(t, "/P/a/Foo", chain.Levels[0].Hops[0].Element.Path)
		assert.Nil(t, chain.Levels[0].Hops[0].Via)
	}
}

func TestChain_Outgoing(t *testing.T) {
	g := fixtureGraph(t)

	chain, err := Chain(g, "/P/a/Foo", DirectionOutgoing, 3)
	require.NoError(t, err)

	// Depth 1: Bar and requests, ordered by path.
	require.GreaterOrEqual(t, len(chain.Levels), 2)
	level1 := chain.Levels[1]
	assert.Equal(t, 1, level1.Depth)
	assert.Equal(t, []string{"/P/External/requests", "/P/b/Bar"}, hopPaths(level1.Hops))
	for _, hop := range level1.Hops {
		require.NotNil(t, hop.Via)
		assert.Equal(t, "/P/a/Foo", hop.Via.From)
	}
}

func TestChain_CycleSafe(t *testing.T) {
	g := fixtureGraph(t)

	// Foo -> Bar -> Foo is a cycle; expansion must terminate and never
	// revisit a path.
	chain, err := Chain(g, "/P/a/Foo", DirectionOutgoing, 50)
	require.NoError(t, err)

	seen := map[string]int{}
	total := 0
	for _, level := range chain.Levels {
		for _, hop := range level.Hops {
			seen[hop.Element.Path]++
			total++
		}
	}
	for p, n := range seen {
		assert.Equal(t, 1, n, "path %s reported %d times", p, n)
	}
	assert.LessOrEqual(t, total, g.ElementCount())
}

func TestChain_Incoming(t *testing.T) {
	g := fixtureGraph(t)

	chain, err := Chain(g, "/P/a/Foo", DirectionIncoming, 1)
	require.NoError(t, err)
	require.Len(t, chain.Levels, 2)
	assert.Equal(t, []string{"/P/a", "/P/b/Bar"}, hopPaths(chain.Levels[1].Hops))
}

func TestChain_StartNotFound(t *testing.T) {
	g := fixtureGraph(t)

	_, err := Chain(g, "/P/ghost", DirectionOutgoing, 3)
	assert.ErrorIs(t, err, model.ErrElementNotFound)
}

func TestChain_InvalidDirection(t *testing.T) {
	g := fixtureGraph(t)

	_, err := Chain(g, "/P/a/Foo", Direction("both"), 3)
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestSubtreeDependencies_Classification(t *testing.T) {
	g := fixtureGraph(t)

	result, err := SubtreeDependencies(g, "/P/a", true, -1)
	require.NoError(t, err)

	assert.Equal(t, []string{"/P/a", "/P/a/Foo"}, viewPaths(result.SubtreeElements))

	// /P/a -> /P/a/Foo: both endpoints inside.
	require.Len(t, result.Internal, 1)
	assert.Equal(t, "contains", result.Internal[0].Type)

	// Foo -> Bar and Foo -> requests leave the scope.
	assert.Equal(t, []string{"/P/b/Bar", "/P/External/requests"}, depTargets(result.Outgoing))

	// Bar -> Foo enters the scope.
	require.Len(t, result.Incoming, 1)
	assert.Equal(t, "/P/b/Bar", result.Incoming[0].From)
}

func TestSubtreeDependencies_PartitionIsExact(t *testing.T) {
	g := fixtureGraph(t)

	result, err := SubtreeDependencies(g, "/P/a", true, -1)
	require.NoError(t, err)

	// Every association touching the scope appears in exactly one set.
	type key struct{ from, to, typ string }
	counts := map[key]int{}
	for _, set := range [][]api.SubtreeDependency{result.Internal, result.Incoming, result.Outgoing} {
		for _, d := range set {
			counts[key{d.From, d.To, d.Type}]++
		}
	}
	scope, _ := g.Resolve("/P/a")
	touching := 0
	for _, a := range g.Associations() {
		from, to := g.MustResolve(a.From), g.MustResolve(a.To)
		if scope.Contains(from) || scope.Contains(to) {
			touching++
			assert.Equal(t, 1, counts[key{a.From, a.To, a.Type}], "association %s->%s", a.From, a.To)
		}
	}
	assert.Equal(t, touching, len(result.Internal)+len(result.Incoming)+len(result.Outgoing))
}

func TestSubtreeDependencies_ExcludeExternal(t *testing.T) {
	g := fixtureGraph(t)

	result, err := SubtreeDependencies(g, "/P/a", false, -1)
	require.NoError(t, err)

	// Foo -> requests is suppressed; Foo -> Bar stays.
	assert.Equal(t, []string{"/P/b/Bar"}, depTargets(result.Outgoing))
	require.Len(t, result.Incoming, 1)
	require.Len(t, result.Internal, 1)
}

func TestSubtreeDependencies_DepthBoundAttribution(t *testing.T) {
	g := fixtureGraph(t)

	// Depth 0: only /P/a is listed; Foo's associations are attributed to it.
	result, err := SubtreeDependencies(g, "/P/a", true, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"/P/a"}, viewPaths(result.SubtreeElements))

	for _, d := range result.Outgoing {
		assert.Equal(t, "/P/a", d.AttributedTo)
		assert.Equal(t, "/P/a/Foo", d.From, "true endpoint is preserved")
	}
	// Partition unchanged by the depth bound.
	assert.Len(t, result.Internal, 1)
	assert.Len(t, result.Incoming, 1)
	assert.Len(t, result.Outgoing, 2)
}

func TestSubtreeDependencies_ScopeNotFound(t *testing.T) {
	g := fixtureGraph(t)

	_, err := SubtreeDependencies(g, "/P/ghost", true, -1)
	assert.ErrorIs(t, err, model.ErrElementNotFound)
}

func hopPaths(hops []api.ChainHop) []string {
	out := make([]string, 0, len(hops))
	for _, h := range hops {
		out = append(out, h.Element.Path)
	}
	return out
}

func viewPaths(views []api.ElementView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Path)
	}
	return out
}

func depTargets(deps []api.SubtreeDependency) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		out = append(out, d.To)
	}
	return out
}
