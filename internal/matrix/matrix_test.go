package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
)

// buildLine constructs the spec's worked 3x3 table fixture: nodes A,B,C
// linear with A-B=5, B-C=5.
func buildLine(t *testing.T) facade.DataFacade {
	nodes := []graph.Node{
		{ID: 0, OrderPos: 0},
		{ID: 1, OrderPos: 1},
		{ID: 2, OrderPos: 2},
	}
	mk := func(from, to int32, w float64) graph.Edge {
		return graph.Edge{From: from, To: to, Weight: w, Flags: graph.FlagForward | graph.FlagBackward, ShortcutMiddle: -1}
	}
	fwd := []graph.Edge{mk(0, 1, 5), mk(1, 2, 5)}
	rev := []graph.Edge{mk(1, 0, 5), mk(2, 1, 5)}
	outCSR := graph.BuildCSR(3, fwd)
	inCSR := graph.BuildCSR(3, rev)
	return facade.NewInMemory(outCSR, inCSR, nodes, nil, graph.NewGeometryTable(), graph.NewNameTable(), graph.NewIntersectionMetadata(), nil, nil, nil, 0, "")
}

func TestManyLinearTable(t *testing.T) {
	f := buildLine(t)
	// Each phantom sits exactly at its node, forward-seeded on the edge
	// leaving it (or, for the last node, on the edge arriving at it).
	a := graph.PhantomEndpoint{Forward: graph.DirectedSegment{Enabled: true, EdgeID: 0, Offset: 0, Weight: 5}}
	b := graph.PhantomEndpoint{Forward: graph.DirectedSegment{Enabled: true, EdgeID: 1, Offset: 0, Weight: 5}}
	c := graph.PhantomEndpoint{Backward: graph.DirectedSegment{Enabled: true, EdgeID: 1, Offset: 5, Weight: 5}}

	points := []graph.PhantomEndpoint{a, b, c}
	result := Many(f, points, points)
	require.Len(t, result, 3)
	require.Equal(t, 0.0, result[0][0])
	require.Equal(t, 5.0, result[0][1])
	require.Equal(t, 10.0, result[0][2])
}
