package leg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
)

func buildSingleEdgeFacade(t *testing.T) (facade.DataFacade, int32) {
	geom := graph.NewGeometryTable()
	gid := geom.Append([]graph.GeometryPoint{
		{ViaNode: 0, Weight: 10, Coord: graph.NewCoordinate(0, 0)},
		{ViaNode: 1, Weight: 10, Coord: graph.NewCoordinate(0, 1)},
	})
	nodes := []graph.Node{{ID: 0, OrderPos: 0}, {ID: 1, OrderPos: 1}}
	edges := []graph.Edge{{ID: 0, From: 0, To: 1, Weight: 20, Flags: graph.FlagForward, GeometryID: gid}}
	outCSR := graph.BuildCSR(2, edges)
	f := facade.NewInMemory(outCSR, outCSR, nodes, nil, geom, graph.NewNameTable(), graph.NewIntersectionMetadata(), nil, nil, nil, 0, "")
	return f, gid
}

func TestAssembleBuildsGeometryAndDistance(t *testing.T) {
	f, _ := buildSingleEdgeFacade(t)
	source := graph.PhantomEndpoint{Location: graph.NewCoordinate(0, 0)}
	target := graph.PhantomEndpoint{Location: graph.NewCoordinate(0, 1)}

	l := Assemble(f, source, target, []chsearch.UnpackedEdge{{From: 0, To: 1, EdgeID: 0, Weight: 20}})

	require.Equal(t, 2.0, l.Duration)
	require.Greater(t, l.Distance, 0.0)
	require.Equal(t, len(l.Geometry.Coordinates)-1, len(l.Geometry.SegmentDistances))
}
