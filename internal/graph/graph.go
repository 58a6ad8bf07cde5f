// Package graph holds the core edge-based data model shared by every
// query-time component: the adjacency-array graph, coordinate/geometry/name
// tables, intersection metadata and the phantom endpoint representation of a
// snapped query coordinate.
package graph

import "math"

// InvalidNode is the sentinel node id used when no node applies.
const InvalidNode int32 = -1

// MaxWeight is the sentinel "unreachable" weight used by matrix cells and
// failed searches.
const MaxWeight float64 = math.MaxFloat64

// Coordinate is a (lon,lat) pair. Persisted artifacts store these as
// fixed-point micro-degrees (§3 Coordinate table); in memory we keep
// float64 degrees, matching the teacher's CHNode.Lat/Lon convention.
type Coordinate struct {
	Lat float64
	Lon float64
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// Node is a V-node: one directional instance of an original road segment.
type Node struct {
	ID       int32
	Lat      float64
	Lon      float64
	OrderPos int32 // CH rank; used by upward-edge invariant
}

// EdgeFlags packs the direction/shortcut bits carried by every edge (§3).
type EdgeFlags uint8

const (
	FlagForward EdgeFlags = 1 << iota
	FlagBackward
	FlagShortcut
	FlagRoundabout
)

func (f EdgeFlags) Has(bit EdgeFlags) bool { return f&bit != 0 }

// Edge is a directed CH edge. Weight is in deci-seconds per §3 ("integer
// weight (deci-seconds, ≥1)"); Dist is meters. ShortcutMiddle is only
// meaningful when Flags.Has(FlagShortcut).
type Edge struct {
	ID             int32
	From           int32
	To             int32
	Weight         float64
	Dist           float64
	Flags          EdgeFlags
	ShortcutMiddle int32
	GeometryID     int32
	NameID         int32
}

func (e Edge) IsShortcut() bool { return e.Flags.Has(FlagShortcut) }
func (e Edge) IsForward() bool  { return e.Flags.Has(FlagForward) }
func (e Edge) IsBackward() bool { return e.Flags.Has(FlagBackward) }

// GeometryPoint is one (via-node, segment-weight, datasource) tuple of a
// packed geometry entry (§3 Geometry table).
type GeometryPoint struct {
	ViaNode    int32
	Weight     float64
	Datasource uint8
	Coord      Coordinate
}

// Names is the four-tuple addressed by a name_id (§3 Name table).
type Names struct {
	Name           string
	Destinations   string
	Pronunciation  string
	Ref            string
}

// BearingClass is the list of bearings of roads incident to a node.
type BearingClass struct {
	Bearings []float64
}

// EntryClass is a bitset of which incident roads may be entered from a
// given edge.
type EntryClass struct {
	Bits uint64
}

func (e EntryClass) CanEnter(i int) bool {
	if i < 0 || i >= 64 {
		return false
	}
	return e.Bits&(1<<uint(i)) != 0
}

// TravelMode enumerates how an edge is traversed (driving/walking/...);
// the core only needs to carry it through to guidance, not interpret it.
type TravelMode uint8

const (
	ModeInaccessible TravelMode = 0
	ModeDriving      TravelMode = 1
	ModeWalking      TravelMode = 2
	ModeCycling      TravelMode = 3
)

// SegmentID + Offset describe the partial-edge state a PhantomEndpoint
// snaps onto; "enabled" mirrors the open question in §9: a disabled
// direction's offset must never be read.
type DirectedSegment struct {
	EdgeID  int32
	Enabled bool
	Weight  float64 // full directed edge weight
	Offset  float64 // weight of the partial edge from snap point to this segment's far endpoint
}

// PhantomEndpoint is a snapped point on an edge (§3 PhantomEndpoint).
type PhantomEndpoint struct {
	Forward  DirectedSegment
	Backward DirectedSegment

	NameID int

	ComponentID    int32
	TinyComponent  bool

	InputLocation   Coordinate
	Location        Coordinate

	ForwardTravelMode  TravelMode
	BackwardTravelMode TravelMode

	FwdSegmentPosition int // position of this phantom within its packed geometry

	GeometryID int32
}

// Valid implements the PhantomEndpoint invariant from §3.
func (p PhantomEndpoint) Valid() bool {
	if p.Location == (Coordinate{}) && p.InputLocation == (Coordinate{}) {
		return false
	}
	if !p.Forward.Enabled && !p.Backward.Enabled {
		return false
	}
	if p.NameID < 0 {
		return false
	}
	return true
}

// IsSameEdge reports whether two phantoms lie on the same underlying edge,
// used by the CH search's loop-edge rule (§4.4).
func (p PhantomEndpoint) IsSameEdge(other PhantomEndpoint) bool {
	return p.Forward.EdgeID == other.Forward.EdgeID && p.Forward.EdgeID != 0
}

// BucketEntry is a (target_column, weight_from_target_to_node) pair
// produced by the matrix backward sweep (§4.5).
type BucketEntry struct {
	Column int
	Weight float64
}
