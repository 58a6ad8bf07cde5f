package guidance

import "github.com/zummach/osrm/internal/facade"

// BuildIntersections implements §4.9 Step 5: any step still carrying a
// Suppressed instruction contributes no instruction of its own, so its
// intersection list is absorbed into the previous step, and a step whose
// maneuver is EndOfRoad is demoted to a plain Turn when the previous step
// passed through fewer than two intersections (there was no real choice
// to make, so "end of road" reads as a false positive).
func BuildIntersections(steps []RouteStep) []RouteStep {
	for i := 1; i < len(steps); i++ {
		s := &steps[i]
		if !s.valid {
			continue
		}
		prev := &steps[i-1]

		if s.Maneuver.Type == facade.TurnSuppressed && prev.valid {
			prev.Intersections = append(prev.Intersections, s.Intersections...)
			prev.Distance += s.Distance
			prev.Duration += s.Duration
			s.valid = false
			continue
		}

		if s.Maneuver.Type == facade.TurnEndOfRoad && len(prev.Intersections) < 2 {
			s.Maneuver.Type = facade.TurnTurn
		}
	}
	return sweepInvalid(steps)
}
