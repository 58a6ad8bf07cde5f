package chsearch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
)

// buildSquare constructs the four-node square fixture from the spec's
// worked example: A-B=10, B-C=10, C-D=10, A-D=40, with a trivial CH order
// (rank == id): every forward relaxation goes upward, while the backward
// search from D, the highest-ranked node, relaxes nothing.
func buildSquare(t *testing.T) facade.DataFacade {
	nodes := []graph.Node{
		{ID: 0, OrderPos: 0}, // A
		{ID: 1, OrderPos: 1}, // B
		{ID: 2, OrderPos: 2}, // C
		{ID: 3, OrderPos: 3}, // D
	}
	mk := func(from, to int32, w float64) graph.Edge {
		return graph.Edge{From: from, To: to, Weight: w, Flags: graph.FlagForward | graph.FlagBackward, ShortcutMiddle: -1}
	}
	fwd := []graph.Edge{
		mk(0, 1, 10), mk(1, 2, 10), mk(2, 3, 10), mk(0, 3, 40),
	}
	rev := []graph.Edge{
		mk(1, 0, 10), mk(2, 1, 10), mk(3, 2, 10), mk(3, 0, 40),
	}
	outCSR := graph.BuildCSR(4, fwd)
	inCSR := graph.BuildCSR(4, rev)
	return facade.NewInMemory(outCSR, inCSR, nodes, nil, graph.NewGeometryTable(), graph.NewNameTable(), graph.NewIntersectionMetadata(), nil, nil, nil, 0, "")
}

func TestBidirectionalSearchFindsShortestPath(t *testing.T) {
	f := buildSquare(t)
	s := New(f)
	res, err := s.QueryNodes(0, 3, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 30.0, res.Weight)
}

func TestBidirectionalSearchSameNode(t *testing.T) {
	f := buildSquare(t)
	s := New(f)
	res, err := s.QueryNodes(1, 1, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, res.Weight)
}
