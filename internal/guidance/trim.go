package guidance

import "github.com/zummach/osrm/internal/facade"

const trimShortEndMeters = 1.0

// TrimShortEnds implements §4.9 Step 6: when the segment adjoining the
// depart or arrive waypoint is effectively zero-length, the waypoint's
// bearing is meaningless (it was computed against a near-duplicate
// coordinate) and its turn lanes don't apply to the real first/last road,
// so the neighboring step absorbs it instead.
func TrimShortEnds(steps []RouteStep) []RouteStep {
	if len(steps) < 2 {
		return steps
	}

	depart := &steps[0]
	next := &steps[1]
	if next.valid && next.Distance <= trimShortEndMeters && next.GeometryEnd > next.GeometryBegin {
		depart.GeometryEnd = next.GeometryBegin + 1
		if len(next.Intersections) > 0 {
			depart.Maneuver.BearingAfter = next.Intersections[0].Bearings[leadingOutBearing(next.Intersections[0])]
		}
		next.Intersections = nil
	}

	last := &steps[len(steps)-1]
	prev := &steps[len(steps)-2]
	if prev.valid && prev.Distance <= trimShortEndMeters && prev.GeometryEnd > prev.GeometryBegin {
		last.GeometryBegin = prev.GeometryEnd - 1
		prev.Intersections = nil
	}

	for i := range steps {
		if steps[i].valid && steps[i].Maneuver.Type == facade.TurnUseLane && steps[i].Distance <= trimShortEndMeters {
			steps[i].Intersections = nil
		}
	}

	return steps
}

func leadingOutBearing(in Intersection) int {
	for i, e := range in.Entry {
		if e {
			return i
		}
	}
	if len(in.Bearings) > 0 {
		return 0
	}
	return 0
}
