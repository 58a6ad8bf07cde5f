package extractbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/graph"
)

// chain returns nodeCoord entries for n nodes spaced roughly 100m apart
// along a meridian, ids starting at base.
func chain(base int64, n int) map[int64]nodeCoord {
	out := make(map[int64]nodeCoord, n)
	for i := 0; i < n; i++ {
		out[base+int64(i)] = nodeCoord{lat: float64(i) * 0.0009, lon: 0}
	}
	return out
}

func TestBuildGraphSpansWholeWayWhenNoInteriorJunction(t *testing.T) {
	p := &parsedOSM{
		nodeRole:     map[int64]nodeRole{1: roleEnd, 2: roleBetween, 3: roleBetween, 4: roleEnd},
		nodeCoord:    chain(1, 4),
		barrierNode:  map[int64]bool{},
		trafficLight: map[int64]bool{},
		ways: []wayInfo{
			{id: 1, name: "Main St", nodes: []int64{1, 2, 3, 4}, maxspeedKMH: 36},
		},
	}

	res, err := buildGraph(p)
	require.NoError(t, err)

	require.Len(t, res.Nodes, 2, "only the way's two true endpoints become V-nodes")
	require.Len(t, res.Edges, 2, "a two-way street produces one edge per direction")

	var sawForward, sawBackward bool
	for _, e := range res.Edges {
		if e.From == 0 && e.To == 1 {
			sawForward = true
		}
		if e.From == 1 && e.To == 0 {
			sawBackward = true
		}
		require.Greater(t, e.Weight, 0.0)
	}
	require.True(t, sawForward)
	require.True(t, sawBackward)
}

func TestBuildGraphSplitsAtInteriorJunction(t *testing.T) {
	p := &parsedOSM{
		nodeRole:     map[int64]nodeRole{1: roleJunction, 2: roleJunction, 3: roleJunction},
		nodeCoord:    chain(1, 3),
		barrierNode:  map[int64]bool{},
		trafficLight: map[int64]bool{},
		ways: []wayInfo{
			{id: 1, name: "One Way St", nodes: []int64{1, 2, 3}, maxspeedKMH: 36, oneWay: true, forward: true},
		},
	}

	res, err := buildGraph(p)
	require.NoError(t, err)

	// node 2 (the middle junction) becomes a segment boundary, so the way
	// yields two one-way edges over three V-nodes; the trailing single-node
	// run left after the split at node 3 is dropped rather than flushed.
	require.Len(t, res.Nodes, 3)
	require.Len(t, res.Edges, 2)
	require.Equal(t, graph.FlagForward, res.Edges[0].Flags&graph.FlagBackward|graph.FlagForward)
}

func TestBuildGraphSplitsSegmentAtBarrierNode(t *testing.T) {
	p := &parsedOSM{
		nodeRole:     map[int64]nodeRole{1: roleEnd, 2: roleBetween, 3: roleEnd},
		nodeCoord:    chain(1, 3),
		barrierNode:  map[int64]bool{2: true},
		trafficLight: map[int64]bool{},
		ways: []wayInfo{
			{id: 1, name: "Gate Rd", nodes: []int64{1, 2, 3}, maxspeedKMH: 36},
		},
	}

	res, err := buildGraph(p)
	require.NoError(t, err)

	// a barrier at node 2 splits the one segment into two, so node 2 also
	// becomes a V-node instead of a plain via-point.
	require.Len(t, res.Nodes, 3)
	require.Len(t, res.Edges, 4) // two segments, two directions each
}

func TestDedupNearbyNodesMergesCloseIDs(t *testing.T) {
	p := &parsedOSM{
		nodeRole: map[int64]nodeRole{1: roleEnd, 2: roleEnd},
		nodeCoord: map[int64]nodeCoord{
			1: {lat: 10.0, lon: 20.0},
			2: {lat: 10.0 + 1e-7, lon: 20.0}, // a few centimeters away
		},
		barrierNode:  map[int64]bool{},
		trafficLight: map[int64]bool{1: true},
		ways: []wayInfo{
			{id: 1, name: "A", nodes: []int64{1}},
			{id: 2, name: "B", nodes: []int64{2}},
		},
	}

	dedupNearbyNodes(p)

	require.Len(t, p.nodeCoord, 1, "the two close ids should collapse to one node")
	for id := range p.nodeCoord {
		require.True(t, p.trafficLight[id], "the merged node keeps the signal flag from either original id")
		require.Equal(t, p.ways[0].nodes[0], id)
		require.Equal(t, p.ways[1].nodes[0], id)
	}
}
