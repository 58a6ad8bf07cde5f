package chsearch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/facade"
)

// TestUnpackPathAppliesTrafficLightPenaltyAtSignaledViaNode checks that a
// signal on an intermediate node (B, between A and D on the square
// fixture's shortest A-B-C-D path) adds the fixed penalty to the edge
// leading into it, while the path's own source and destination never get
// charged even when signaled.
func TestUnpackPathAppliesTrafficLightPenaltyAtSignaledViaNode(t *testing.T) {
	f := buildSquare(t).(*facade.InMemory)
	f.SetTrafficLights([]bool{true, true, false, true}) // A, B, D signaled; C not

	s := New(f)
	res, err := s.QueryNodes(0, 3, 0, 0)
	require.NoError(t, err)

	edges := s.UnpackPath(0, 3, res.Meeting)
	require.Len(t, edges, 3) // A-B, B-C, C-D

	var total float64
	for _, e := range edges {
		total += e.Weight
	}
	// base weight 30 plus one penalty for the signal at B (a via-node);
	// the signal at A (source) and D (destination) must not be charged.
	require.Equal(t, 30.0+trafficLightPenaltyDeciseconds, total)
}

func TestUnpackPathNoPenaltyWhenNoSignals(t *testing.T) {
	f := buildSquare(t)
	s := New(f)
	res, err := s.QueryNodes(0, 3, 0, 0)
	require.NoError(t, err)

	edges := s.UnpackPath(0, 3, res.Meeting)
	var total float64
	for _, e := range edges {
		total += e.Weight
	}
	require.Equal(t, 30.0, total)
}
