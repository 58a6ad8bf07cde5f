package guidance

import (
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/geo"
	"github.com/zummach/osrm/internal/graph"
)

const (
	uTurnMinSnapMeters = 5.0
	uTurnMaxSnapMeters = 300.0
)

var turnDirectionToModifier = map[geo.TurnDirection]facade.DirectionModifier{
	geo.ContinueOnStreet: facade.ModifierStraight,
	geo.TurnSlightLeft:   facade.ModifierSlightLeft,
	geo.TurnSlightRight:  facade.ModifierSlightRight,
	geo.TurnLeft:         facade.ModifierLeft,
	geo.TurnRight:        facade.ModifierRight,
	geo.TurnSharpLeft:    facade.ModifierSharpLeft,
	geo.TurnSharpRight:   facade.ModifierSharpRight,
}

// AssignRelativeLocations implements §4.9 Step 7: the depart and arrive
// waypoint's modifier is derived from the angle between the user's raw
// input location, the snapped location, and the road's first/last
// direction of travel, rather than from any turn instruction (waypoints
// carry none). When the snap distance falls in [5m, 300m] and the
// implied angle is a near-reversal, the step is flagged a U-turn instead
// — a close snap or a far one isn't reliable evidence the traveler
// actually backtracked.
func AssignRelativeLocations(steps []RouteStep, source, target graph.PhantomEndpoint) []RouteStep {
	if len(steps) == 0 {
		return steps
	}

	depart := &steps[0]
	assignWaypointModifier(depart, source.InputLocation, source.Location, depart.Maneuver.Location, true)

	last := &steps[len(steps)-1]
	assignWaypointModifier(last, target.InputLocation, target.Location, last.Maneuver.Location, false)

	return steps
}

func assignWaypointModifier(step *RouteStep, input, snap, onward graph.Coordinate, outgoing bool) {
	snapDist := geo.HaversineMeters(input.Lat, input.Lon, snap.Lat, snap.Lon)
	if snapDist < 1e-6 {
		step.Maneuver.Modifier = facade.ModifierStraight
		return
	}

	baseBearing := geo.CalcOrientation(input.Lat, input.Lon, snap.Lat, snap.Lon)
	var dir geo.TurnDirection
	if outgoing {
		dir = geo.ClassifyTurn(snap.Lat, snap.Lon, onward.Lat, onward.Lon, baseBearing)
	} else {
		dir = geo.ClassifyTurn(input.Lat, input.Lon, snap.Lat, snap.Lon, geo.CalcOrientation(onward.Lat, onward.Lon, snap.Lat, snap.Lon))
	}

	modifier, ok := turnDirectionToModifier[dir]
	if !ok {
		modifier = facade.ModifierStraight
	}

	if snapDist >= uTurnMinSnapMeters && snapDist <= uTurnMaxSnapMeters &&
		(dir == geo.TurnSharpLeft || dir == geo.TurnSharpRight) {
		modifier = facade.ModifierUTurn
	}

	step.Maneuver.Modifier = modifier
}
