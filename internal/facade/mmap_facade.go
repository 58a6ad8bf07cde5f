package facade

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/zummach/osrm/internal/artifact"
	"github.com/zummach/osrm/internal/graph"
)

// mappedEdge is a byte-for-byte stand-in for the 17-byte CH edge record of
// §6 ("source u32, target u32, weight i32, flags u8, shortcut_middle
// u32"), laid out so the mmap'd byte range can be reinterpreted as
// []mappedEdge without a read syscall — the same trick the pack uses in
// fbenz-osmrouting/src/graph/mmap.go, where a raw syscall.Mmap result is
// recast via reflect.SliceHeader rather than parsed field by field.
type mappedEdge struct {
	Source, Target uint32
	Weight         int32
	Flags          uint8
	_              [3]uint8 // pad to the in-memory struct's 4-byte alignment
	ShortcutMiddle uint32
}

const mappedEdgeStride = 17 // on-disk stride; the in-memory struct above is padded to 20

// MemoryMapped is the borrowing DataFacade implementation for C10's hot
// reload path. The CH edge array lives entirely in the kernel page cache
// behind an mmap'd region and is reinterpreted in place; building the CSR
// offset table still requires one pass over the Source field (the file is
// already sorted by source per the writer's invariant, so this is a single
// linear scan, not a copy of edge payloads). The remaining tables (names,
// geometry, intersections) are read once into owned memory since they
// aren't on the per-edge hot path the way traversal is.
type MemoryMapped struct {
	region *artifact.MappedRegion
	edges  []mappedEdge
	offsets []int32

	inner *InMemory
}

// OpenMemoryMapped maps chPath and wires the already-loaded companion
// tables into an InMemory-shaped snapshot, then overrides edge access with
// the mmap'd array.
func OpenMemoryMapped(chPath string, nodes []graph.Node, core *graph.CoreMarker,
	geometry *graph.GeometryTable, names *graph.NameTable,
	intersections *graph.IntersectionMetadata, turnInstructions []TurnInstruction,
	travelModes []graph.TravelMode, turnDescriptions []string,
	checksum uint32, timestamp string) (*MemoryMapped, error) {

	region, err := artifact.MapFile(chPath)
	if err != nil {
		return nil, fmt.Errorf("facade: map %s: %w", chPath, err)
	}
	data := region.Bytes()
	if len(data) < artifact.FingerprintSize+4 {
		region.Unmap()
		return nil, fmt.Errorf("facade: %s too small to be a CH file", chPath)
	}
	countBuf := data[artifact.FingerprintSize : artifact.FingerprintSize+4]
	_ = countBuf // count is redundant with len(payload)/stride; kept in the format for readers that skip maxNodeID

	payload := data[artifact.FingerprintSize+8:]
	numEdges := len(payload) / mappedEdgeStride

	var edges []mappedEdge
	if numEdges > 0 {
		hdr := (*reflect.SliceHeader)(unsafe.Pointer(&edges))
		hdr.Data = uintptr(unsafe.Pointer(&payload[0]))
		hdr.Len = numEdges
		hdr.Cap = numEdges
	}

	offsets := make([]int32, len(nodes)+1)
	idx := 0
	for n := 0; n < len(nodes); n++ {
		offsets[n] = int32(idx)
		for idx < numEdges && int(edges[idx].Source) == n {
			idx++
		}
	}
	offsets[len(nodes)] = int32(idx)

	inner := NewInMemory(nil, nil, nodes, core, geometry, names, intersections,
		turnInstructions, travelModes, turnDescriptions, checksum, timestamp)

	return &MemoryMapped{region: region, edges: edges, offsets: offsets, inner: inner}, nil
}

func (f *MemoryMapped) Close() error { return f.region.Unmap() }

func (f *MemoryMapped) edgeAt(i int32) graph.Edge {
	e := f.edges[i]
	return graph.Edge{
		ID:             i,
		From:           int32(e.Source),
		To:             int32(e.Target),
		Weight:         float64(e.Weight),
		Flags:          graph.EdgeFlags(e.Flags),
		ShortcutMiddle: int32(e.ShortcutMiddle),
	}
}

func (f *MemoryMapped) GetTarget(edge int32) int32        { return int32(f.edges[edge].Target) }
func (f *MemoryMapped) GetEdgeData(edge int32) graph.Edge { return f.edgeAt(edge) }

func (f *MemoryMapped) BeginEdges(node int32) int32 { return f.offsets[node] }
func (f *MemoryMapped) EndEdges(node int32) int32   { return f.offsets[node+1] }
func (f *MemoryMapped) GetAdjacentEdgeRange(node int32) (int32, int32) {
	return f.offsets[node], f.offsets[node+1]
}

func (f *MemoryMapped) FindEdge(u, v int32) (int32, bool) {
	for e := f.offsets[u]; e < f.offsets[u+1]; e++ {
		if int32(f.edges[e].Target) == v {
			return e, true
		}
	}
	return -1, false
}

// FindEdgeInEitherDirection has no reverse CSR in the mapped layout (the
// file stores only the forward-sorted CH edge array); it falls back to a
// scan of v's range looking for u, matching the unidirectional §6 layout.
func (f *MemoryMapped) FindEdgeInEitherDirection(u, v int32) (int32, bool, bool) {
	if e, ok := f.FindEdge(u, v); ok {
		return e, true, false
	}
	if e, ok := f.FindEdge(v, u); ok {
		return e, true, true
	}
	return -1, false, false
}

func (f *MemoryMapped) GetNode(node int32) graph.Node { return f.inner.GetNode(node) }
func (f *MemoryMapped) GetCoordinateOfNode(node int32) graph.Coordinate {
	return f.inner.GetCoordinateOfNode(node)
}
func (f *MemoryMapped) NumNodes() int { return f.inner.NumNodes() }

func (f *MemoryMapped) GetUncompressedGeometry(edgeID int32) []int32 {
	pts := f.inner.GetGeometry(f.edgeAt(edgeID).GeometryID)
	out := make([]int32, len(pts))
	for i, p := range pts {
		out[i] = p.ViaNode
	}
	return out
}
func (f *MemoryMapped) GetUncompressedWeights(edgeID int32) []float64 {
	pts := f.inner.GetGeometry(f.edgeAt(edgeID).GeometryID)
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Weight
	}
	return out
}
func (f *MemoryMapped) GetGeometry(geometryID int32) []graph.GeometryPoint {
	return f.inner.GetGeometry(geometryID)
}

func (f *MemoryMapped) GetNameForID(nameID int) string          { return f.inner.GetNameForID(nameID) }
func (f *MemoryMapped) GetRefForID(nameID int) string           { return f.inner.GetRefForID(nameID) }
func (f *MemoryMapped) GetPronunciationForID(nameID int) string { return f.inner.GetPronunciationForID(nameID) }
func (f *MemoryMapped) GetDestinationsForID(nameID int) string  { return f.inner.GetDestinationsForID(nameID) }

func (f *MemoryMapped) IsCoreNode(node int32) bool { return f.inner.IsCoreNode(node) }

func (f *MemoryMapped) GetTurnInstructionForEdgeID(edgeID int32) TurnInstruction {
	return f.inner.GetTurnInstructionForEdgeID(edgeID)
}
func (f *MemoryMapped) GetTravelModeForEdgeID(edgeID int32) graph.TravelMode {
	return f.inner.GetTravelModeForEdgeID(edgeID)
}

func (f *MemoryMapped) GetBearingClass(node int32) graph.BearingClass {
	return f.inner.GetBearingClass(node)
}
func (f *MemoryMapped) GetEntryClass(edgeID int32) graph.EntryClass {
	return f.inner.GetEntryClass(edgeID)
}
func (f *MemoryMapped) GetTurnDescription(edgeID int32) string {
	return f.inner.GetTurnDescription(edgeID)
}

func (f *MemoryMapped) GetTurnLanesForEdgeID(edgeID int32) []artifact.TurnLaneMask {
	return f.inner.GetTurnLanesForEdgeID(edgeID)
}

// SetTurnLanes attaches a decoded turn-lane adjacency array to the
// borrowed inner snapshot; see InMemory.SetTurnLanes.
func (f *MemoryMapped) SetTurnLanes(masks [][]artifact.TurnLaneMask) { f.inner.SetTurnLanes(masks) }

func (f *MemoryMapped) IsTrafficLight(node int32) bool { return f.inner.IsTrafficLight(node) }

// SetTrafficLights attaches the nodes file's per-node TrafficLight bit
// to the borrowed inner snapshot; see InMemory.SetTrafficLights.
func (f *MemoryMapped) SetTrafficLights(trafficLights []bool) { f.inner.SetTrafficLights(trafficLights) }

func (f *MemoryMapped) Checksum() uint32   { return f.inner.Checksum() }
func (f *MemoryMapped) Timestamp() string  { return f.inner.Timestamp() }
func (f *MemoryMapped) OutCSR() *graph.CSR { return nil }
func (f *MemoryMapped) InCSR() *graph.CSR  { return nil }
