package facade

import (
	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/graph"
)

// InMemory is the owning DataFacade implementation: used by tests, by the
// contractor's own verification passes, and as the fallback when a
// snapshot is small enough to load fully into the process heap instead of
// being mapped. Grounded in the teacher's in-process ContractedGraph
// (pkg/contractor/contraction_hierarchies.go), generalized behind
// DataFacade.
type InMemory struct {
	outCSR *graph.CSR
	inCSR  *graph.CSR

	nodes []graph.Node
	core  *graph.CoreMarker

	geometry *graph.GeometryTable
	names    *graph.NameTable

	intersections *graph.IntersectionMetadata

	turnInstructions []TurnInstruction
	travelModes      []graph.TravelMode
	turnDescriptions []string
	turnLanes        [][]artifact.TurnLaneMask
	trafficLights    []bool

	checksum  uint32
	timestamp string
}

// NewInMemory builds a facade over already-constructed tables. All slices
// are taken by reference; callers must not mutate them afterwards, since
// the facade contract promises referential transparency for the life of
// the snapshot.
func NewInMemory(
	outCSR, inCSR *graph.CSR,
	nodes []graph.Node,
	core *graph.CoreMarker,
	geometry *graph.GeometryTable,
	names *graph.NameTable,
	intersections *graph.IntersectionMetadata,
	turnInstructions []TurnInstruction,
	travelModes []graph.TravelMode,
	turnDescriptions []string,
	checksum uint32,
	timestamp string,
) *InMemory {
	return &InMemory{
		outCSR: outCSR, inCSR: inCSR, nodes: nodes, core: core,
		geometry: geometry, names: names, intersections: intersections,
		turnInstructions: turnInstructions, travelModes: travelModes,
		turnDescriptions: turnDescriptions,
		checksum:         checksum, timestamp: timestamp,
	}
}

func (f *InMemory) GetTarget(edge int32) int32        { return f.outCSR.GetTarget(edge) }
func (f *InMemory) GetEdgeData(edge int32) graph.Edge  { return f.outCSR.GetEdge(edge) }
func (f *InMemory) BeginEdges(node int32) int32        { return f.outCSR.BeginEdges(node) }
func (f *InMemory) EndEdges(node int32) int32          { return f.outCSR.EndEdges(node) }
func (f *InMemory) GetAdjacentEdgeRange(node int32) (int32, int32) {
	return f.outCSR.EdgeRange(node)
}
func (f *InMemory) FindEdge(u, v int32) (int32, bool) { return f.outCSR.FindEdge(u, v) }

func (f *InMemory) FindEdgeInEitherDirection(u, v int32) (int32, bool, bool) {
	if e, ok := f.outCSR.FindEdge(u, v); ok {
		return e, true, false
	}
	if e, ok := f.inCSR.FindEdge(v, u); ok {
		return e, true, true
	}
	return -1, false, false
}

func (f *InMemory) GetNode(node int32) graph.Node { return f.nodes[node] }
func (f *InMemory) GetCoordinateOfNode(node int32) graph.Coordinate {
	n := f.nodes[node]
	return graph.NewCoordinate(n.Lat, n.Lon)
}
func (f *InMemory) NumNodes() int { return len(f.nodes) }

func (f *InMemory) GetUncompressedGeometry(edgeID int32) []int32 {
	gid := f.outCSR.GetEdge(edgeID).GeometryID
	pts := f.geometry.Get(gid)
	out := make([]int32, len(pts))
	for i, p := range pts {
		out[i] = p.ViaNode
	}
	return out
}

func (f *InMemory) GetUncompressedWeights(edgeID int32) []float64 {
	gid := f.outCSR.GetEdge(edgeID).GeometryID
	pts := f.geometry.Get(gid)
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Weight
	}
	return out
}

func (f *InMemory) GetGeometry(geometryID int32) []graph.GeometryPoint {
	return f.geometry.Get(geometryID)
}

func (f *InMemory) GetNameForID(nameID int) string          { return f.names.Name(nameID) }
func (f *InMemory) GetRefForID(nameID int) string            { return f.names.Ref(nameID) }
func (f *InMemory) GetPronunciationForID(nameID int) string  { return f.names.Pronunciation(nameID) }
func (f *InMemory) GetDestinationsForID(nameID int) string   { return f.names.Destinations(nameID) }

func (f *InMemory) IsCoreNode(node int32) bool { return f.core == nil || f.core.IsCore(node) }

func (f *InMemory) GetTurnInstructionForEdgeID(edgeID int32) TurnInstruction {
	if int(edgeID) >= len(f.turnInstructions) {
		return TurnInstruction{}
	}
	return f.turnInstructions[edgeID]
}

func (f *InMemory) GetTravelModeForEdgeID(edgeID int32) graph.TravelMode {
	if int(edgeID) >= len(f.travelModes) {
		return graph.ModeDriving
	}
	return f.travelModes[edgeID]
}

func (f *InMemory) GetBearingClass(node int32) graph.BearingClass {
	return f.intersections.BearingClassFor(node)
}
func (f *InMemory) GetEntryClass(edgeID int32) graph.EntryClass {
	return f.intersections.EntryClassFor(edgeID)
}
func (f *InMemory) GetTurnDescription(edgeID int32) string {
	if int(edgeID) >= len(f.turnDescriptions) {
		return ""
	}
	return f.turnDescriptions[edgeID]
}

// SetTurnLanes attaches the decoded turn-lane adjacency array (as produced
// by artifact.ReadTurnLaneFile) to an already-built facade. Kept as a
// post-construction setter rather than a NewInMemory parameter since most
// snapshots (and every existing test fixture) carry no turn-lane file.
func (f *InMemory) SetTurnLanes(masks [][]artifact.TurnLaneMask) { f.turnLanes = masks }

func (f *InMemory) GetTurnLanesForEdgeID(edgeID int32) []artifact.TurnLaneMask {
	if edgeID < 0 || int(edgeID) >= len(f.turnLanes) {
		return nil
	}
	return f.turnLanes[edgeID]
}

// SetTrafficLights attaches the nodes file's per-node TrafficLight bit
// (artifact.ExternalMemoryNode.TrafficLight) to an already-built facade,
// following the same post-construction-setter pattern as SetTurnLanes.
func (f *InMemory) SetTrafficLights(trafficLights []bool) { f.trafficLights = trafficLights }

func (f *InMemory) IsTrafficLight(node int32) bool {
	if node < 0 || int(node) >= len(f.trafficLights) {
		return false
	}
	return f.trafficLights[node]
}

func (f *InMemory) Checksum() uint32   { return f.checksum }
func (f *InMemory) Timestamp() string  { return f.timestamp }
func (f *InMemory) OutCSR() *graph.CSR { return f.outCSR }
func (f *InMemory) InCSR() *graph.CSR  { return f.inCSR }
