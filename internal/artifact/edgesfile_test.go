package artifact

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/graph"
)

func TestWriteReadEdgesFileRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	edges := []RawEdge{
		{From: 0, To: 1, Weight: 120, Dist: 45.5, GeometryID: 3, NameID: 7, Flags: graph.FlagForward},
		{From: 1, To: 0, Weight: 120, Dist: 45.5, GeometryID: 4, NameID: 7, Flags: graph.FlagBackward},
	}

	require.NoError(t, WriteEdgesFile(&buf, 0x1234, edges))

	got, err := ReadEdgesFile(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, edges[0].From, got[0].From)
	require.Equal(t, edges[0].Weight, got[0].Weight)
	require.InDelta(t, edges[0].Dist, got[0].Dist, 0.01)
	require.Equal(t, edges[0].GeometryID, got[0].GeometryID)
	require.Equal(t, edges[1].Flags, got[1].Flags)
}
