// Package facade implements C1: an immutable, read-only view over the
// CH graph, coordinate table, name table, geometry table, R-tree and
// intersection metadata. Two concrete implementations — InMemory (owns
// its slices) and MemoryMapped (borrows them from an mmap'd byte range)
// — share the DataFacade capability interface so query code never knows
// which one it is talking to, matching §4.1/§9 ("Two facade
// implementations ... share a capability interface").
package facade

import (
	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/graph"
)

// DataFacade is the full set of read accessors required by every
// query-time component (§4.1). Every method is referentially transparent
// for the life of the snapshot.
type DataFacade interface {
	GetTarget(edge int32) int32
	GetEdgeData(edge int32) graph.Edge
	BeginEdges(node int32) int32
	EndEdges(node int32) int32
	GetAdjacentEdgeRange(node int32) (int32, int32)
	FindEdge(u, v int32) (int32, bool)
	FindEdgeInEitherDirection(u, v int32) (int32, bool, bool)

	GetNode(node int32) graph.Node
	GetCoordinateOfNode(node int32) graph.Coordinate
	NumNodes() int

	GetUncompressedGeometry(edgeID int32) []int32
	GetUncompressedWeights(edgeID int32) []float64
	GetGeometry(geometryID int32) []graph.GeometryPoint

	GetNameForID(nameID int) string
	GetRefForID(nameID int) string
	GetPronunciationForID(nameID int) string
	GetDestinationsForID(nameID int) string

	IsCoreNode(node int32) bool

	GetTurnInstructionForEdgeID(edgeID int32) TurnInstruction
	GetTravelModeForEdgeID(edgeID int32) graph.TravelMode

	GetBearingClass(node int32) graph.BearingClass
	GetEntryClass(edgeID int32) graph.EntryClass
	GetTurnDescription(edgeID int32) string

	// GetTurnLanesForEdgeID returns edgeID's decoded lane row (§12
	// supplemented turn-lane handling), or nil if the snapshot carries no
	// turn-lane file or the edge has none.
	GetTurnLanesForEdgeID(edgeID int32) []artifact.TurnLaneMask

	// IsTrafficLight reports whether node carries a traffic signal (§12
	// supplemented traffic-light penalty), read from the nodes file's
	// TrafficLight bit.
	IsTrafficLight(node int32) bool

	Checksum() uint32
	Timestamp() string

	OutCSR() *graph.CSR
	InCSR() *graph.CSR
}

// TurnInstruction is the sum type of (TurnType, DirectionModifier) from
// §9 "Variant instructions".
type TurnInstruction struct {
	Type     TurnType
	Modifier DirectionModifier
}

type TurnType uint8

const (
	TurnInvalid TurnType = iota
	TurnNewName
	TurnContinue
	TurnTurn
	TurnMerge
	TurnOnRamp
	TurnOffRamp
	TurnFork
	TurnEndOfRoad
	TurnNotification
	TurnEnterRoundabout
	TurnExitRoundabout
	TurnEnterRotary
	TurnExitRotary
	TurnEnterRoundaboutIntersection
	TurnExitRoundaboutIntersection
	TurnEnterRoundaboutAtExit
	TurnEnterRotaryAtExit
	TurnEnterRoundaboutIntersectionAtExit
	TurnStayOnRoundabout
	TurnSliproad
	TurnSuppressed
	TurnNoTurn
	TurnUseLane
)

type DirectionModifier uint8

const (
	ModifierUTurn DirectionModifier = iota
	ModifierSharpRight
	ModifierRight
	ModifierSlightRight
	ModifierStraight
	ModifierSlightLeft
	ModifierLeft
	ModifierSharpLeft
)

var turnTypeNames = [...]string{
	"invalid", "new name", "continue", "turn", "merge", "on ramp",
	"off ramp", "fork", "end of road", "notification", "roundabout",
	"exit roundabout", "rotary", "exit rotary", "roundabout turn",
	"exit roundabout turn", "roundabout", "rotary", "roundabout turn",
	"roundabout", "sliproad", "suppressed", "no turn", "use lane",
}

// String renders the wire name apiserver's route response uses for a
// step's maneuver type, matching OSRM's "type" vocabulary.
func (t TurnType) String() string {
	if int(t) < len(turnTypeNames) {
		return turnTypeNames[t]
	}
	return "unknown"
}

var directionModifierNames = [...]string{
	"uturn", "sharp right", "right", "slight right",
	"straight", "slight left", "left", "sharp left",
}

func (m DirectionModifier) String() string {
	if int(m) < len(directionModifierNames) {
		return directionModifierNames[m]
	}
	return "unknown"
}
