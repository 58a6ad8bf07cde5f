package chsearch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/spatial"
)

// buildPhantomLine builds a 4-node line A-B-C-D, each hop weight 10, with a
// real packed R-tree over it, so a query coordinate goes through
// spatial.Index.NearestPhantomNodes and toPhantom's ratio split exactly as
// a live router would, rather than arriving as a hand-built PhantomEndpoint.
func buildPhantomLine(t *testing.T) (facade.DataFacade, *spatial.Index) {
	t.Helper()

	nodes := []graph.Node{
		{ID: 0, Lat: 0, Lon: 0, OrderPos: 0},  // A
		{ID: 1, Lat: 0, Lon: 10, OrderPos: 1}, // B
		{ID: 2, Lat: 0, Lon: 20, OrderPos: 2}, // C
		{ID: 3, Lat: 0, Lon: 30, OrderPos: 3}, // D
	}

	geometry := graph.NewGeometryTable()
	mk := func(from, to int32, w float64) graph.Edge {
		gid := geometry.Append([]graph.GeometryPoint{{ViaNode: -1, Weight: w}})
		return graph.Edge{From: from, To: to, Weight: w, Dist: w, Flags: graph.FlagForward | graph.FlagBackward, ShortcutMiddle: -1, GeometryID: gid}
	}
	fwd := []graph.Edge{mk(0, 1, 10), mk(1, 2, 10), mk(2, 3, 10)}
	rev := []graph.Edge{mk(1, 0, 10), mk(2, 1, 10), mk(3, 2, 10)}

	outCSR := graph.BuildCSR(4, fwd)
	inCSR := graph.BuildCSR(4, rev)

	f := facade.NewInMemory(outCSR, inCSR, nodes, nil, geometry, graph.NewNameTable(), graph.NewIntersectionMetadata(), nil, nil, nil, 0, "")

	var leaves []spatial.Leaf
	for edgeID := int32(0); edgeID < int32(len(fwd)); edgeID++ {
		e := outCSR.GetEdge(edgeID)
		from, to := nodes[e.From], nodes[e.To]
		leaves = append(leaves, spatial.Leaf{
			EdgeID: edgeID, Forward: true,
			FromLat: from.Lat, FromLon: from.Lon,
			ToLat: to.Lat, ToLon: to.Lon,
			Bound: spatial.BoundingBox{
				MinLat: from.Lat, MinLon: from.Lon,
				MaxLat: to.Lat, MaxLon: to.Lon,
			},
		})
	}
	tree := spatial.BuildRtree(leaves)
	return f, spatial.NewIndex(tree, f, nil, nil)
}

// TestRoutePhantomsMidEdgeSnap is the "two-coord direct route" scenario of
// §8: two query coordinates snap to the midpoints of two adjacent edges,
// so the route must sum the two partial weights toPhantom produced rather
// than the full edge weights. Drives NearestPhantomNodes end to end
// instead of constructing PhantomEndpoints by hand.
func TestRoutePhantomsMidEdgeSnap(t *testing.T) {
	f, idx := buildPhantomLine(t)

	sourceCandidates := idx.NearestPhantomNodes(0, 5, 1, 0, 0, 0, false)
	targetCandidates := idx.NearestPhantomNodes(0, 15, 1, 0, 0, 0, false)
	require.Len(t, sourceCandidates, 1)
	require.Len(t, targetCandidates, 1)

	source, target := sourceCandidates[0], targetCandidates[0]
	require.EqualValues(t, 0, source.Forward.EdgeID)
	require.EqualValues(t, 1, target.Forward.EdgeID)
	require.Equal(t, 5.0, source.Forward.Offset)
	require.Equal(t, 5.0, target.Forward.Offset)

	route, err := New(f).RoutePhantoms(source, target)
	require.NoError(t, err)
	require.Equal(t, 10.0, route.Weight)
}

// TestRoutePhantomsMidEdgeSnapReversed is the same midpoint snap in the
// opposite travel direction, exercising the Backward segments toPhantom
// produced instead of the Forward ones.
func TestRoutePhantomsMidEdgeSnapReversed(t *testing.T) {
	f, idx := buildPhantomLine(t)

	sourceCandidates := idx.NearestPhantomNodes(0, 15, 1, 0, 0, 0, false)
	targetCandidates := idx.NearestPhantomNodes(0, 5, 1, 0, 0, 0, false)
	source, target := sourceCandidates[0], targetCandidates[0]

	route, err := New(f).RoutePhantoms(source, target)
	require.NoError(t, err)
	require.Equal(t, 10.0, route.Weight)
}
