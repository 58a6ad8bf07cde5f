// Package guidance implements C9: transforming an assembled V-edge
// sequence (via C8's LegGeometry) into an ordered list of RouteSteps,
// per §4.9's eight-step pipeline (assemble, roundabout accumulation,
// collapse, collapse-use-lane, build intersections, trim short ends,
// assign relative locations, resync geometry). The coarse turn
// classification is grounded in the teacher's pkg/guidance
// (driving_instruction.go, instruction_turn.go); the step-collapse state
// machine itself has no teacher counterpart (the teacher emits one flat
// instruction per edge with no later collapse pass), so it is built
// directly from §4.9, written in the teacher's plain imperative style.
// Maneuver type/modifier reuse facade.TurnType/DirectionModifier — the
// same vocabulary the edge's stored turn instruction already speaks —
// rather than introducing a parallel enum.
package guidance

import (
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
)

// roundabout-family, sliproad and use-lane are expressed with
// facade.TurnType; a few composite states this package needs that the
// facade's wire vocabulary doesn't carry (the post-collapse "silent
// suppressed step" marker) reuse TurnSuppressed.

// TurnLaneDescription is one lane's available directions at an
// intersection, decoded from the artifact turn-lane mask (§3 supplemented
// feature: Turn-lane handling).
type TurnLaneDescription struct {
	Directions   []facade.DirectionModifier
	ValidForTurn bool
}

// Maneuver is the turn instruction carried by one RouteStep.
type Maneuver struct {
	Type          facade.TurnType
	Modifier      facade.DirectionModifier
	BearingBefore float64
	BearingAfter  float64
	ExitNumber    int // roundabout exit count; 0 when not on a roundabout
	Location      graph.Coordinate
}

// Intersection is one junction passed through or used as a maneuver
// point (§4.9 Step 1/5).
type Intersection struct {
	Location graph.Coordinate
	Bearings []float64
	Entry    []bool
	In, Out  int // index into Bearings of the incoming/outgoing road
	Lanes    []TurnLaneDescription
}

// RouteStep is one instruction in the final guidance output.
type RouteStep struct {
	Maneuver      Maneuver
	Name          string
	Destinations  string
	Ref           string
	RotaryName    string
	Mode          graph.TravelMode
	Distance      float64 // meters
	Duration      float64 // seconds
	Intersections []Intersection

	// EdgeID is the CH edge this step's maneuver was taken from, -1 for
	// the synthetic depart/arrive steps; used by AttachTurnLanes to look
	// up the step's lane row (§12 supplemented turn-lane handling).
	EdgeID int32

	// GeometryBegin/GeometryEnd index into the leg's flat coordinate
	// list (§4.8); End is exclusive.
	GeometryBegin int
	GeometryEnd   int

	// valid is cleared by collapse passes instead of physically removing
	// the step mid-scan (§4.9 Step 3: "invalidated steps are left in
	// place; a sweep removes..."); isWaypoint marks depart/arrive
	// sentinels that survive the sweep even when instruction is NoTurn.
	valid      bool
	isWaypoint bool
}

func newStep(maneuverType facade.TurnType, name string, begin, end int) RouteStep {
	return RouteStep{
		Maneuver:      Maneuver{Type: maneuverType},
		Name:          name,
		EdgeID:        -1,
		GeometryBegin: begin,
		GeometryEnd:   end,
		valid:         true,
	}
}
