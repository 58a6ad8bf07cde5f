package guidance

import (
	"math"

	"github.com/zummach/osrm/internal/facade"
)

const (
	veryShortMeters      = 30.0
	staggeredMaxMeters   = 3.0
	sameNameOscillationM = 60.0
)

// collapsible reports whether a step's instruction is one of the "silent"
// family that may be folded into its predecessor. It checks only the
// instruction type; callers check that the modes match with sameMode
// (§4.9 Step 3, "modes must match to collapse").
func collapsible(s RouteStep, precedingMode facade.TurnType) bool {
	switch s.Maneuver.Type {
	case facade.TurnNewName, facade.TurnContinue, facade.TurnSuppressed, facade.TurnUseLane:
		return true
	}
	return false
}

func sameMode(a, b RouteStep) bool { return a.Mode == b.Mode }

func isNearUTurn(bearingBefore, bearingAfter float64) bool {
	diff := math.Mod(math.Abs(bearingBefore-bearingAfter-180)+180, 360) - 180
	return math.Abs(diff) < 35
}

// mergeInto folds `from` into `to`: distance/duration accumulate, the
// name travels forward to whichever of the two is geometrically later,
// and `from` is invalidated in place.
func mergeInto(to, from *RouteStep, nameForward bool) {
	to.Distance += from.Distance
	to.Duration += from.Duration
	if nameForward {
		to.Name = from.Name
		to.Destinations = from.Destinations
		to.Ref = from.Ref
	}
	if from.GeometryBegin < to.GeometryBegin {
		to.GeometryBegin = from.GeometryBegin
	}
	if from.GeometryEnd > to.GeometryEnd {
		to.GeometryEnd = from.GeometryEnd
	}
	to.Intersections = append(to.Intersections, from.Intersections...)
	from.valid = false
}

// Collapse implements §4.9 Step 3: a left-to-right walk folding
// collapsible, very-short, staggered, sliproad and name-oscillation runs
// of steps into their neighbors, then sweeping invalidated/silent steps.
func Collapse(steps []RouteStep) []RouteStep {
	for i := 2; i < len(steps); i++ {
		twoBack, oneBack, current := &steps[i-2], &steps[i-1], &steps[i]
		if !oneBack.valid || !twoBack.valid {
			continue
		}

		// Very short new-name / choiceless continuation: fold oneBack
		// into twoBack when it is silent-collapsible.
		if collapsible(*oneBack, twoBack.Maneuver.Type) && sameMode(*oneBack, *twoBack) {
			upgradeContinuationToTurn(oneBack, twoBack)
			mergeInto(twoBack, oneBack, true)
			continue
		}

		// Very short segment after a turn: elongate oneBack with current,
		// detecting a U-turn from reversed bearings.
		if oneBack.valid && oneBack.Distance <= veryShortMeters && current.valid && sameMode(*oneBack, *current) {
			if isNearUTurn(oneBack.Maneuver.BearingBefore, current.Maneuver.BearingAfter) {
				current.Maneuver.Modifier = facade.ModifierUTurn
			}
			mergeInto(oneBack, current, true)
			continue
		}

		// Staggered intersection: two short (<3m) opposite turns zig-zag
		// back to a straight-through collapse into twoBack.
		if oneBack.Distance <= staggeredMaxMeters && current.valid && isZigZag(oneBack.Maneuver.Modifier, current.Maneuver.Modifier) {
			mergeInto(twoBack, oneBack, false)
			mergeInto(twoBack, current, true)
			twoBack.Maneuver.Modifier = facade.ModifierStraight
			continue
		}

		// Sliproad: treat as Continue or Turn depending on whether the
		// post-sliproad name matches the pre-sliproad name.
		if oneBack.Maneuver.Type == facade.TurnSliproad {
			if isSameName(twoBack.Name, current.Name) {
				oneBack.Maneuver.Type = facade.TurnContinue
			} else {
				oneBack.Maneuver.Type = facade.TurnTurn
			}
		}

		// Name oscillation: A -> B -> A within a short distance.
		if isSameName(twoBack.Name, current.Name) && !isSameName(twoBack.Name, oneBack.Name) &&
			oneBack.Distance+current.Distance < sameNameOscillationM {
			mergeInto(twoBack, oneBack, false)
			mergeInto(twoBack, current, false)
			continue
		}
	}

	// Final Sliproad: if the last non-trivial instruction is Sliproad,
	// promote it to Turn.
	for i := len(steps) - 1; i >= 0; i-- {
		if !steps[i].valid || steps[i].isWaypoint {
			continue
		}
		if steps[i].Maneuver.Type == facade.TurnSliproad {
			steps[i].Maneuver.Type = facade.TurnTurn
		}
		break
	}

	return sweepInvalid(steps)
}

// upgradeContinuationToTurn implements §4.9's "upgrade a Continue/Merge/
// Suppressed/UseLane to Turn when the back-bearing array has >2 options
// and the modifier is non-straight".
func upgradeContinuationToTurn(oneBack, twoBack *RouteStep) {
	if len(twoBack.Intersections) == 0 {
		return
	}
	options := 0
	for _, in := range twoBack.Intersections[len(twoBack.Intersections)-1].Entry {
		if in {
			options++
		}
	}
	if options > 2 && oneBack.Maneuver.Modifier != facade.ModifierStraight {
		switch oneBack.Maneuver.Type {
		case facade.TurnContinue, facade.TurnMerge, facade.TurnSuppressed, facade.TurnUseLane:
			oneBack.Maneuver.Type = facade.TurnTurn
		}
	}
}

func isZigZag(a, b facade.DirectionModifier) bool {
	rightish := func(m facade.DirectionModifier) bool {
		return m == facade.ModifierRight || m == facade.ModifierSlightRight || m == facade.ModifierSharpRight
	}
	leftish := func(m facade.DirectionModifier) bool {
		return m == facade.ModifierLeft || m == facade.ModifierSlightLeft || m == facade.ModifierSharpLeft
	}
	return (rightish(a) && leftish(b)) || (leftish(a) && rightish(b))
}

func isSameName(a, b string) bool { return a == b }

// sweepInvalid removes any step whose instruction is NO_TURN and which
// is not a depart/arrive waypoint (§4.9 Step 3's closing sweep), and any
// step explicitly invalidated by a merge above. A removed NO_TURN step's
// distance, duration and geometry fold into the step kept before it, so
// the remaining steps still cover the route's geometry without gaps.
func sweepInvalid(steps []RouteStep) []RouteStep {
	out := steps[:0]
	for _, s := range steps {
		if !s.valid {
			continue
		}
		if s.Maneuver.Type == facade.TurnNoTurn && !s.isWaypoint {
			if len(out) > 0 {
				mergeInto(&out[len(out)-1], &s, false)
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// CollapseUseLane implements §4.9 Step 4: a UseLane step whose lanes
// touch only "through"/"none" on both flanks carries no information and
// elongates into its predecessor.
func CollapseUseLane(steps []RouteStep) []RouteStep {
	for i := 1; i < len(steps); i++ {
		s := &steps[i]
		if !s.valid || s.Maneuver.Type != facade.TurnUseLane {
			continue
		}
		if !lanesAreInformative(s) {
			prev := &steps[i-1]
			if prev.valid {
				mergeInto(prev, s, false)
			}
		}
	}
	return sweepInvalid(steps)
}

func lanesAreInformative(s *RouteStep) bool {
	if len(s.Intersections) == 0 {
		return false
	}
	for _, lane := range s.Intersections[len(s.Intersections)-1].Lanes {
		for _, d := range lane.Directions {
			if d != facade.ModifierStraight {
				return true
			}
		}
	}
	return false
}
