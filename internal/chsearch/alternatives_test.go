package chsearch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
)

// buildDiamond constructs a two-route fixture: node 1 ("S") reaches node 4
// ("T") via node 2 at total weight 20, or via node 3 at total weight 22,
// plus a dangling edge 0->1 used only to seed the source phantom (its own
// weight never enters a route). Node 3 outranks node 4, so both searches
// settle node 3 and it becomes a via candidate, while the route via node 2
// is found by the forward search alone.
func buildDiamond(t *testing.T) facade.DataFacade {
	nodes := []graph.Node{
		{ID: 0, OrderPos: 0},
		{ID: 1, OrderPos: 1},
		{ID: 2, OrderPos: 2},
		{ID: 3, OrderPos: 4},
		{ID: 4, OrderPos: 3},
	}
	mk := func(from, to int32, w float64) graph.Edge {
		return graph.Edge{From: from, To: to, Weight: w, Flags: graph.FlagForward | graph.FlagBackward, ShortcutMiddle: -1}
	}
	fwd := []graph.Edge{
		mk(0, 1, 5),
		mk(1, 2, 10), mk(2, 4, 10),
		mk(1, 3, 11), mk(3, 4, 11),
	}
	rev := []graph.Edge{
		mk(1, 0, 5),
		mk(2, 1, 10), mk(4, 2, 10),
		mk(3, 1, 11), mk(4, 3, 11),
	}
	outCSR := graph.BuildCSR(5, fwd)
	inCSR := graph.BuildCSR(5, rev)
	return facade.NewInMemory(outCSR, inCSR, nodes, nil, graph.NewGeometryTable(), graph.NewNameTable(), graph.NewIntersectionMetadata(), nil, nil, nil, 0, "")
}

func TestAlternativesReturnsBestRouteFirst(t *testing.T) {
	f := buildDiamond(t)
	s := New(f)

	source := graph.PhantomEndpoint{Forward: graph.DirectedSegment{
		EdgeID: f.BeginEdges(0), Enabled: true, Weight: 5, Offset: 0,
	}}
	target := graph.PhantomEndpoint{Forward: graph.DirectedSegment{
		EdgeID: f.BeginEdges(3), Enabled: true, Weight: 11, Offset: 0,
	}}

	alts, err := s.Alternatives(source, target, 2)
	require.NoError(t, err)
	require.NotEmpty(t, alts)
	require.Equal(t, int32(-1), alts[0].ViaNode)
	require.Equal(t, 20.0, alts[0].Weight)
}

func TestAlternativesFindsDistinctViaNode(t *testing.T) {
	f := buildDiamond(t)
	s := New(f)

	source := graph.PhantomEndpoint{Forward: graph.DirectedSegment{
		EdgeID: f.BeginEdges(0), Enabled: true, Weight: 5, Offset: 0,
	}}
	target := graph.PhantomEndpoint{Forward: graph.DirectedSegment{
		EdgeID: f.BeginEdges(3), Enabled: true, Weight: 11, Offset: 0,
	}}

	alts, err := s.Alternatives(source, target, 2)
	require.NoError(t, err)
	require.Len(t, alts, 2)

	best, extra := alts[0], alts[1]
	require.Equal(t, int32(-1), best.ViaNode)
	require.Equal(t, int32(3), extra.ViaNode)
	require.Equal(t, 22.0, extra.Weight)
	require.Greater(t, extra.Weight, best.Weight)
}

func TestAlternativesFallsBackToSingleRouteWithoutForwardPhantom(t *testing.T) {
	f := buildDiamond(t)
	s := New(f)

	source := graph.PhantomEndpoint{
		Location: graph.NewCoordinate(1, 0),
		Backward: graph.DirectedSegment{EdgeID: f.BeginEdges(1), Enabled: true, Weight: 5, Offset: 0},
	}
	target := graph.PhantomEndpoint{
		Location: graph.NewCoordinate(0, 1),
		Forward:  graph.DirectedSegment{EdgeID: f.BeginEdges(3), Enabled: true, Weight: 11, Offset: 0},
	}

	alts, err := s.Alternatives(source, target, 2)
	require.NoError(t, err)
	require.Len(t, alts, 1)
	require.Equal(t, int32(-1), alts[0].ViaNode)
}
