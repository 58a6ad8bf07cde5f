package guidance

import "github.com/zummach/osrm/internal/facade"

func isRoundaboutEnter(t facade.TurnType) bool {
	switch t {
	case facade.TurnEnterRoundabout, facade.TurnEnterRotary,
		facade.TurnEnterRoundaboutIntersection, facade.TurnEnterRoundaboutAtExit,
		facade.TurnEnterRotaryAtExit, facade.TurnEnterRoundaboutIntersectionAtExit:
		return true
	}
	return false
}

func isRoundaboutStay(t facade.TurnType) bool { return t == facade.TurnStayOnRoundabout }

func isRoundaboutExit(t facade.TurnType) bool {
	switch t {
	case facade.TurnExitRoundabout, facade.TurnExitRotary:
		return true
	}
	return false
}

// normalizeAtExit collapses a combined enter+exit instruction (e.g. a
// roundabout entered and left within the same step) into a plain enter
// type with exit count 1, per §4.9 Step 2.
func normalizeAtExit(t facade.TurnType) facade.TurnType {
	switch t {
	case facade.TurnEnterRoundaboutAtExit:
		return facade.TurnEnterRoundabout
	case facade.TurnEnterRotaryAtExit:
		return facade.TurnEnterRotary
	case facade.TurnEnterRoundaboutIntersectionAtExit:
		return facade.TurnEnterRoundaboutIntersection
	}
	return t
}

// AccumulateRoundabouts implements §4.9 Step 2: a forward scan that
// counts exits passed along a roundabout's circumference and folds that
// count back onto the entering step.
func AccumulateRoundabouts(steps []RouteStep) []RouteStep {
	enterIdx := -1
	rotaryName := ""

	for i := range steps {
		s := &steps[i]
		if !s.valid {
			continue
		}
		t := s.Maneuver.Type

		switch {
		case isRoundaboutEnter(t):
			wasAtExit := t == facade.TurnEnterRoundaboutAtExit || t == facade.TurnEnterRotaryAtExit || t == facade.TurnEnterRoundaboutIntersectionAtExit
			s.Maneuver.Type = normalizeAtExit(t)
			if wasAtExit {
				s.Maneuver.ExitNumber = 1
			}
			enterIdx = i
			rotaryName = s.Name

		case isRoundaboutStay(t):
			if enterIdx != -1 {
				steps[enterIdx].Maneuver.ExitNumber++
			}
			s.valid = false

		case isRoundaboutExit(t):
			if enterIdx != -1 {
				steps[enterIdx].Maneuver.ExitNumber++
				steps[enterIdx].RotaryName = rotaryName
				enterIdx = -1
			} else {
				// trip begins mid-roundabout: promote this step itself to
				// a synthesized enter instruction (§4.9 "if the trip
				// begins on a roundabout ... promote the first post-depart
				// step").
				s.Maneuver.Type = facade.TurnEnterRoundabout
				s.Maneuver.ExitNumber = 1
			}
		}
	}

	// trip ends while still on the roundabout: clear the exit count and
	// rewrite the enter type to a plain stay.
	if enterIdx != -1 {
		steps[enterIdx].Maneuver.ExitNumber = 0
		steps[enterIdx].Maneuver.Type = facade.TurnStayOnRoundabout
	}

	return steps
}
