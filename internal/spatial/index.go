package spatial

import (
	"errors"
	"math"
	"sort"

	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/geo"
	"github.com/zummach/osrm/internal/graph"
)

// ErrNoSegment is the §7 taxonomy member for a nearest-family query whose
// candidate search radius contained no usable road segment — the spatial
// counterpart of chsearch.ErrNoRoute. NearestPhantomNodes itself stays a
// plain slice-returning accessor (matching the teacher's R-tree lookup
// style); callers translate an empty result into this sentinel at the
// point they must produce an error, per apiserver's errors.Is mapping.
var ErrNoSegment = errors.New("spatial: no segment found")

// Index wraps a packed Rtree with the facade lookups needed to turn a
// query coordinate into one or two PhantomEndpoints, implementing the
// NearestPhantomNodes family of §4.2.
type Index struct {
	tree       *Rtree
	f          facade.DataFacade
	components []int32 // per-node strongly-connected component id
	tinySCC    map[int32]bool
}

func NewIndex(tree *Rtree, f facade.DataFacade, components []int32, tinySCC map[int32]bool) *Index {
	return &Index{tree: tree, f: f, components: components, tinySCC: tinySCC}
}

// Tree exposes the packed R-tree for consumers that need a raw bounding-box
// search rather than a nearest-phantom query, such as apiserver's tile
// endpoint.
func (idx *Index) Tree() *Rtree { return idx.tree }

// candidateSnap is one leaf plus its projected foot-of-perpendicular,
// used before expanding into one PhantomEndpoint per enabled direction.
type candidateSnap struct {
	leaf     Leaf
	distance float64
	ratio    float64 // 0..1 fraction along the segment where the foot falls
	foot     graph.Coordinate
}

// project finds the foot of the perpendicular from (lat,lon) onto leaf l's
// great-circle segment, grounded in the teacher's pkg/geo/s2_geo.go
// ProjectPointToLineCoord (s2.Project) rather than a planar equirectangular
// approximation.
func (idx *Index) project(lat, lon float64, l Leaf) candidateSnap {
	footLat, footLon, ratio := geo.ProjectPointToLineCoord(lat, lon, l.FromLat, l.FromLon, l.ToLat, l.ToLon)
	foot := graph.NewCoordinate(footLat, footLon)
	dist := geo.HaversineMeters(lat, lon, foot.Lat, foot.Lon)
	return candidateSnap{leaf: l, distance: dist, ratio: ratio, foot: foot}
}

// NearestPhantomNodes implements §4.2's primary query: up to maxResults
// candidates sorted by snap distance, optionally capped by maxDistance and
// filtered to an allowed bearing window.
func (idx *Index) NearestPhantomNodes(lat, lon float64, maxResults int, maxDistance float64, bearing, bearingRange float64, useBearing bool) []graph.PhantomEndpoint {
	pool := maxResults * 4
	if pool < 16 {
		pool = 16
	}
	leaves := idx.tree.NearestLeaves(lat, lon, pool)

	snaps := make([]candidateSnap, 0, len(leaves))
	for _, l := range leaves {
		s := idx.project(lat, lon, l)
		if maxDistance > 0 && s.distance > maxDistance {
			continue
		}
		if useBearing && !bearingMatches(idx.leafBearing(l), bearing, bearingRange) {
			continue
		}
		snaps = append(snaps, s)
	}

	// §4.2's Open Question resolution: tie-break by (edge_id, direction)
	// for a deterministic, stable ordering among equal-distance snaps.
	sort.SliceStable(snaps, func(i, j int) bool {
		if snaps[i].distance != snaps[j].distance {
			return snaps[i].distance < snaps[j].distance
		}
		if snaps[i].leaf.EdgeID != snaps[j].leaf.EdgeID {
			return snaps[i].leaf.EdgeID < snaps[j].leaf.EdgeID
		}
		return snaps[i].leaf.Forward && !snaps[j].leaf.Forward
	})

	out := make([]graph.PhantomEndpoint, 0, maxResults)
	for _, s := range snaps {
		if len(out) >= maxResults {
			break
		}
		out = append(out, idx.toPhantom(lat, lon, s))
	}
	return out
}

// NearestPhantomNodesInRange returns every candidate within maxDistance,
// per §4.2.
func (idx *Index) NearestPhantomNodesInRange(lat, lon, maxDistance, bearing, bearingRange float64, useBearing bool) []graph.PhantomEndpoint {
	return idx.NearestPhantomNodes(lat, lon, idx.tree.Size(), maxDistance, bearing, bearingRange, useBearing)
}

// NearestPhantomNodeWithAlternativeFromBigComponent returns the absolute
// nearest snap and, separately, the nearest snap lying in a non-tiny
// strongly-connected component, so a route request always has a routable
// fallback even when the closest road segment is an unconnected island.
// If no big-component alternative exists within the search window, the
// primary is returned twice, per §4.2.
func (idx *Index) NearestPhantomNodeWithAlternativeFromBigComponent(lat, lon, maxDistance, bearing, bearingRange float64, useBearing bool) (graph.PhantomEndpoint, graph.PhantomEndpoint) {
	candidates := idx.NearestPhantomNodes(lat, lon, 32, maxDistance, bearing, bearingRange, useBearing)
	if len(candidates) == 0 {
		return graph.PhantomEndpoint{}, graph.PhantomEndpoint{}
	}
	primary := candidates[0]
	for _, c := range candidates {
		if !c.TinyComponent {
			return primary, c
		}
	}
	return primary, primary
}

func (idx *Index) leafBearing(l Leaf) float64 {
	return geo.BearingTo(l.FromLat, l.FromLon, l.ToLat, l.ToLon)
}

func bearingMatches(edgeBearing, target, allowedRange float64) bool {
	diff := math.Mod(math.Abs(edgeBearing-target)+180, 360) - 180
	return math.Abs(diff) <= allowedRange
}

// toPhantom expands one projected snap into a PhantomEndpoint, splitting
// the edge's unpacked weight list at the projection ratio per §4.2:
// "forward/reverse weights computed by partitioning the edge's unpacked
// weight list at the projection ratio, rounded toward nearest integer,
// minimum 1". Each DirectedSegment's Offset carries that partial weight
// (the §4.4 forward_offset/reverse_offset quantity), not the raw ratio,
// so chsearch and matrix can seed a search directly from it.
func (idx *Index) toPhantom(queryLat, queryLon float64, s candidateSnap) graph.PhantomEndpoint {
	edge := idx.f.GetEdgeData(s.leaf.EdgeID)
	weights := idx.f.GetUncompressedWeights(s.leaf.EdgeID)
	total := 0.0
	for _, w := range weights {
		total += w
	}
	fwdWeight := math.Round(total * s.ratio)
	if fwdWeight < 1 {
		fwdWeight = 1
	}
	revWeight := total - fwdWeight
	if revWeight < 1 {
		revWeight = 1
	}

	comp := int32(-1)
	tiny := false
	if idx.components != nil && int(edge.From) < len(idx.components) {
		comp = idx.components[edge.From]
		tiny = idx.tinySCC[comp]
	}

	p := graph.PhantomEndpoint{
		NameID:            int(edge.NameID),
		ComponentID:       comp,
		TinyComponent:     tiny,
		InputLocation:     graph.NewCoordinate(queryLat, queryLon),
		Location:          s.foot,
		ForwardTravelMode: idx.f.GetTravelModeForEdgeID(s.leaf.EdgeID),
		GeometryID:        edge.GeometryID,
	}
	if edge.IsForward() {
		// Forward's far endpoint is the edge's downstream node, so the
		// offset owed is the remaining (reverse) partial weight.
		p.Forward = graph.DirectedSegment{EdgeID: s.leaf.EdgeID, Enabled: true, Weight: total, Offset: revWeight}
	}
	if edge.IsBackward() {
		// Backward's far endpoint is the edge's upstream node, so the
		// offset owed is the already-covered (forward) partial weight.
		p.Backward = graph.DirectedSegment{EdgeID: s.leaf.EdgeID, Enabled: true, Weight: total, Offset: fwdWeight}
		p.BackwardTravelMode = idx.f.GetTravelModeForEdgeID(s.leaf.EdgeID)
	}
	return p
}
