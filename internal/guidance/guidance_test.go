package guidance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/leg"
)

// buildRoundaboutFacade builds a 4-node ring A->B->C->D->A where B is the
// roundabout entry, C is a pass-through exit-candidate, and D is the exit
// taken, matching §4.9's "enter, stay, exit" roundabout scenario.
func buildRoundaboutFacade(t *testing.T) (facade.DataFacade, []chsearch.UnpackedEdge, graph.PhantomEndpoint, graph.PhantomEndpoint) {
	geom := graph.NewGeometryTable()
	names := graph.NewNameTable()
	mainRoad := names.Append("Main Street", "", "", "")
	ring := names.Append("Roundabout", "", "", "")

	mk := func(a, b graph.Coordinate) int32 {
		return geom.Append([]graph.GeometryPoint{
			{ViaNode: 0, Weight: 10, Coord: a},
			{ViaNode: 1, Weight: 10, Coord: b},
		})
	}
	g0 := mk(graph.NewCoordinate(0, 0), graph.NewCoordinate(0, 1))
	g1 := mk(graph.NewCoordinate(0, 1), graph.NewCoordinate(1, 1))
	g2 := mk(graph.NewCoordinate(1, 1), graph.NewCoordinate(1, 0))

	nodes := []graph.Node{{ID: 0, OrderPos: 0}, {ID: 1, OrderPos: 1}, {ID: 2, OrderPos: 2}, {ID: 3, OrderPos: 3}}
	edges := []graph.Edge{
		{ID: 0, From: 0, To: 1, Weight: 10, Flags: graph.FlagForward, GeometryID: g0, NameID: int32(mainRoad)},
		{ID: 1, From: 1, To: 2, Weight: 10, Flags: graph.FlagForward, GeometryID: g1, NameID: int32(ring)},
		{ID: 2, From: 2, To: 3, Weight: 10, Flags: graph.FlagForward, GeometryID: g2, NameID: int32(ring)},
	}
	outCSR := graph.BuildCSR(4, edges)

	turns := []facade.TurnInstruction{
		{Type: facade.TurnNoTurn},
		{Type: facade.TurnEnterRoundabout},
		{Type: facade.TurnExitRoundabout},
	}
	modes := []graph.TravelMode{graph.ModeDriving, graph.ModeDriving, graph.ModeDriving}

	f := facade.NewInMemory(outCSR, outCSR, nodes, nil, geom, names,
		graph.NewIntersectionMetadata(), turns, modes, nil, 0, "")

	source := graph.PhantomEndpoint{
		NameID: mainRoad, InputLocation: graph.NewCoordinate(0, 0), Location: graph.NewCoordinate(0, 0),
		ForwardTravelMode: graph.ModeDriving,
	}
	target := graph.PhantomEndpoint{
		NameID: ring, InputLocation: graph.NewCoordinate(1, 0), Location: graph.NewCoordinate(1, 0),
		ForwardTravelMode: graph.ModeDriving,
	}

	edgesUsed := []chsearch.UnpackedEdge{
		{From: 0, To: 1, EdgeID: 0, Weight: 10},
		{From: 1, To: 2, EdgeID: 1, Weight: 10},
		{From: 2, To: 3, EdgeID: 2, Weight: 10},
	}
	return f, edgesUsed, source, target
}

func TestPostProcessAccumulatesRoundaboutExit(t *testing.T) {
	f, edges, source, target := buildRoundaboutFacade(t)
	l := leg.Assemble(f, source, target, edges)

	route := PostProcess(f, source, target, edges, l.Geometry)

	var found bool
	for _, s := range route.Steps {
		if s.Maneuver.Type == facade.TurnEnterRoundabout {
			found = true
			require.Equal(t, 1, s.Maneuver.ExitNumber)
			require.Equal(t, "Roundabout", s.RotaryName)
		}
	}
	require.True(t, found, "expected a surviving roundabout-enter step")
}

func TestPostProcessResyncsGeometryOffsets(t *testing.T) {
	f, edges, source, target := buildRoundaboutFacade(t)
	l := leg.Assemble(f, source, target, edges)

	route := PostProcess(f, source, target, edges, l.Geometry)

	require.Equal(t, len(route.Steps)+1, len(route.Geometry.SegmentOffsets))
	for i, s := range route.Steps {
		require.Equal(t, s.GeometryEnd-s.GeometryBegin, route.Geometry.SegmentOffsets[i+1]-route.Geometry.SegmentOffsets[i])
	}
}

func TestPostProcessAttachesTurnLanes(t *testing.T) {
	f, edges, source, target := buildRoundaboutFacade(t)
	im := f.(*facade.InMemory)
	im.SetTurnLanes([][]artifact.TurnLaneMask{
		nil,
		{artifact.LaneStraight, artifact.LaneLeft},
		nil,
	})
	l := leg.Assemble(f, source, target, edges)

	route := PostProcess(f, source, target, edges, l.Geometry)

	var sawLanes bool
	for _, s := range route.Steps {
		if len(s.Intersections) == 0 {
			continue
		}
		last := s.Intersections[len(s.Intersections)-1]
		if len(last.Lanes) == 2 {
			sawLanes = true
			require.Equal(t, []facade.DirectionModifier{facade.ModifierStraight}, last.Lanes[0].Directions)
			require.Equal(t, []facade.DirectionModifier{facade.ModifierLeft}, last.Lanes[1].Directions)
		}
	}
	require.True(t, sawLanes, "expected the edge-1 step to carry a decoded lane row")
}

func TestAccumulateRoundaboutsHandlesMidTripStart(t *testing.T) {
	steps := []RouteStep{
		newStep(facade.TurnNoTurn, "start", 0, 1),
		newStep(facade.TurnExitRoundabout, "Main St", 1, 2),
		newStep(facade.TurnNoTurn, "end", 2, 3),
	}
	for i := range steps {
		steps[i].valid = true
	}

	out := AccumulateRoundabouts(steps)

	require.Equal(t, facade.TurnEnterRoundabout, out[1].Maneuver.Type)
	require.Equal(t, 1, out[1].Maneuver.ExitNumber)
}

func TestSweepInvalidDropsSilentNonWaypointSteps(t *testing.T) {
	steps := []RouteStep{
		newStep(facade.TurnNoTurn, "depart", 0, 1),
		newStep(facade.TurnNoTurn, "mid", 1, 2),
	}
	steps[0].isWaypoint = true

	out := sweepInvalid(steps)

	require.Len(t, out, 1)
	require.True(t, out[0].isWaypoint)
}
