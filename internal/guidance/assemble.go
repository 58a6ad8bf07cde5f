package guidance

import (
	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/geo"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/leg"
)

// Assemble implements §4.9 Step 1: one RouteStep per unpacked edge plus a
// depart and arrive sentinel, with bearings computed from the leg's flat
// coordinate list and a single-intersection entry filled from the node's
// bearing/entry class (§4.1).
func Assemble(f facade.DataFacade, source, target graph.PhantomEndpoint, edges []chsearch.UnpackedEdge, geometry leg.LegGeometry) []RouteStep {
	steps := make([]RouteStep, 0, len(edges)+2)

	departBearing := 0.0
	if len(geometry.Coordinates) > 1 {
		departBearing = geo.BearingTo(geometry.Coordinates[0].Lat, geometry.Coordinates[0].Lon, geometry.Coordinates[1].Lat, geometry.Coordinates[1].Lon)
	}
	depart := newStep(facade.TurnNoTurn, f.GetNameForID(source.NameID), 0, 1)
	depart.isWaypoint = true
	depart.Maneuver.BearingAfter = departBearing
	depart.Maneuver.Location = geometry.Coordinates[0]
	depart.Mode = source.ForwardTravelMode
	steps = append(steps, depart)

	idx := 0
	node := int32(-1)
	if len(edges) > 0 {
		node = edges[0].From
	}
	for i, e := range edges {
		edgeData := f.GetEdgeData(e.EdgeID)
		points := f.GetGeometry(edgeData.GeometryID)
		begin := idx
		end := idx + len(points)
		if end >= len(geometry.Coordinates) {
			end = len(geometry.Coordinates) - 1
		}
		idx = end

		turn := f.GetTurnInstructionForEdgeID(e.EdgeID)
		step := newStep(turn.Type, f.GetNameForID(int(edgeData.NameID)), begin, end)
		step.EdgeID = e.EdgeID
		step.Ref = f.GetRefForID(int(edgeData.NameID))
		step.Destinations = f.GetDestinationsForID(int(edgeData.NameID))
		step.Mode = f.GetTravelModeForEdgeID(e.EdgeID)
		step.Maneuver.Modifier = turn.Modifier
		step.Maneuver.Location = geometry.Coordinates[begin]
		if begin > 0 {
			step.Maneuver.BearingBefore = geo.BearingTo(geometry.Coordinates[begin-1].Lat, geometry.Coordinates[begin-1].Lon, geometry.Coordinates[begin].Lat, geometry.Coordinates[begin].Lon)
		}
		if end < len(geometry.Coordinates) {
			step.Maneuver.BearingAfter = geo.BearingTo(geometry.Coordinates[begin].Lat, geometry.Coordinates[begin].Lon, geometry.Coordinates[end].Lat, geometry.Coordinates[end].Lon)
		}
		for k := begin + 1; k <= end && k < len(geometry.Coordinates); k++ {
			step.Distance += geometry.SegmentDistances[k-1]
		}
		step.Duration = e.Weight / 10.0

		node = e.To
		bc := f.GetBearingClass(node)
		ec := f.GetEntryClass(e.EdgeID)
		entry := make([]bool, len(bc.Bearings))
		for b := range bc.Bearings {
			entry[b] = ec.CanEnter(b)
		}
		step.Intersections = []Intersection{{
			Location: geometry.Coordinates[begin],
			Bearings: bc.Bearings,
			Entry:    entry,
		}}

		steps = append(steps, step)
		_ = i
	}

	arriveBearing := 0.0
	n := len(geometry.Coordinates)
	if n > 1 {
		arriveBearing = geo.BearingTo(geometry.Coordinates[n-2].Lat, geometry.Coordinates[n-2].Lon, geometry.Coordinates[n-1].Lat, geometry.Coordinates[n-1].Lon)
	}
	arrive := newStep(facade.TurnNoTurn, f.GetNameForID(target.NameID), n-1, n)
	arrive.isWaypoint = true
	arrive.Maneuver.BearingBefore = arriveBearing
	arrive.Maneuver.Location = geometry.Coordinates[n-1]
	arrive.Mode = target.ForwardTravelMode
	steps = append(steps, arrive)

	return steps
}
