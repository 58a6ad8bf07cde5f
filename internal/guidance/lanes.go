package guidance

import (
	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/facade"
)

var laneBitToModifier = []struct {
	bit      artifact.TurnLaneMask
	modifier facade.DirectionModifier
}{
	{artifact.LaneSharpRight, facade.ModifierSharpRight},
	{artifact.LaneRight, facade.ModifierRight},
	{artifact.LaneSlightRight, facade.ModifierSlightRight},
	{artifact.LaneStraight, facade.ModifierStraight},
	{artifact.LaneSlightLeft, facade.ModifierSlightLeft},
	{artifact.LaneLeft, facade.ModifierLeft},
	{artifact.LaneSharpLeft, facade.ModifierSharpLeft},
	{artifact.LaneUTurn, facade.ModifierUTurn},
}

// decodeLane turns one lane's bitmask into the list of directions it
// permits. LaneMergeToLeft/LaneMergeToRight carry no turn-modifier
// equivalent and are dropped; LaneNone yields an empty, uninformative
// lane.
func decodeLane(mask artifact.TurnLaneMask) TurnLaneDescription {
	var dirs []facade.DirectionModifier
	for _, e := range laneBitToModifier {
		if mask&e.bit != 0 {
			dirs = append(dirs, e.modifier)
		}
	}
	return TurnLaneDescription{Directions: dirs}
}

// decodeLaneRow builds the TurnLaneDescription list for one edge's lanes
// (§12 supplemented feature: turn-lane handling), marking a lane
// ValidForTurn when one of its permitted directions matches the step's
// chosen modifier.
func decodeLaneRow(row []artifact.TurnLaneMask, chosenModifier facade.DirectionModifier) []TurnLaneDescription {
	lanes := make([]TurnLaneDescription, len(row))
	for i, mask := range row {
		lane := decodeLane(mask)
		for _, d := range lane.Directions {
			if d == chosenModifier {
				lane.ValidForTurn = true
				break
			}
		}
		lanes[i] = lane
	}
	return lanes
}

// AttachTurnLanes fills in the Lanes field of a step's final (maneuver)
// intersection from the edge's decoded lane row, looked up by the edge
// id the step's maneuver was taken from.
func AttachTurnLanes(steps []RouteStep, laneRowForEdge func(edgeID int32) []artifact.TurnLaneMask, edgeIDForStep func(stepIndex int) (int32, bool)) []RouteStep {
	for i := range steps {
		s := &steps[i]
		if !s.valid || len(s.Intersections) == 0 {
			continue
		}
		edgeID, ok := edgeIDForStep(i)
		if !ok {
			continue
		}
		row := laneRowForEdge(edgeID)
		if len(row) == 0 {
			continue
		}
		last := len(s.Intersections) - 1
		s.Intersections[last].Lanes = decodeLaneRow(row, s.Maneuver.Modifier)
	}
	return steps
}
