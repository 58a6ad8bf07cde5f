// Package spatial implements C2: the static packed R-tree used to snap a
// query coordinate onto a road segment. Grounded in the teacher's dynamic
// R-tree (pkg/datastructure/rtree.go) — this module keeps its bounding-box
// math and its incremental best-first nearest-neighbor search
// (incrementalNearestNeighbor, itself citing Hjaltason & Samet's 1999
// paper in the teacher's own comment) but replaces the teacher's
// insert-and-split dynamic tree with a bulk-loaded, sort-tile-recursive
// static tree, since §4.2 calls for a build-once packed structure rather
// than an online-insertable one.
package spatial

import "math"

// BoundingBox is a 2D (lat,lon) axis-aligned box, the teacher's
// RtreeBoundingBox specialized to two dimensions since every leaf here is
// a road segment endpoint pair.
type BoundingBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

func UnionBox(a, b BoundingBox) BoundingBox {
	return BoundingBox{
		MinLat: math.Min(a.MinLat, b.MinLat),
		MinLon: math.Min(a.MinLon, b.MinLon),
		MaxLat: math.Max(a.MaxLat, b.MaxLat),
		MaxLon: math.Max(a.MaxLon, b.MaxLon),
	}
}

func boxOf(boxes ...BoundingBox) BoundingBox {
	out := boxes[0]
	for _, b := range boxes[1:] {
		out = UnionBox(out, b)
	}
	return out
}

// minDistSquared is the teacher's Point.MinDist ported to 2D and squared
// distance (avoids a sqrt on every heap push during best-first search).
// Longitude is scaled by cosLatFactor like pointToSegmentDistSquared, so
// a box's distance never exceeds the exact distance of a segment inside it.
func minDistSquared(lat, lon float64, b BoundingBox) float64 {
	clampedLat := clamp(lat, b.MinLat, b.MaxLat)
	clampedLon := clamp(lon, b.MinLon, b.MaxLon)
	dLat := lat - clampedLat
	dLon := (lon - clampedLon) * cosLatFactor(lat)
	return dLat*dLat + dLon*dLon
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Leaf is one indexed road segment: the directed CH edge it belongs to,
// its endpoint coordinates for projection, and its bounding box.
type Leaf struct {
	EdgeID   int32
	Forward  bool
	FromLat  float64
	FromLon  float64
	ToLat    float64
	ToLon    float64
	Bound    BoundingBox
}

type node struct {
	bound    BoundingBox
	children []*node // non-leaf-level nodes
	leaves   []Leaf  // leaf-level entries
	isLeafLevel bool
}

// Rtree is the static packed tree of §4.2.
type Rtree struct {
	root *node
	size int
}

const defaultFanout = 16

// BuildRtree bulk-loads leaves into a packed tree with the
// sort-tile-recursive algorithm: sort by one axis into vertical strips,
// then sort each strip by the other axis into pages, matching how the
// teacher's own extraction step batches spatial data before insertion
// (pkg/datastructure/rtree.go's bulk paths) but performed once up front
// instead of via repeated InsertLeaf calls.
func BuildRtree(leaves []Leaf) *Rtree {
	if len(leaves) == 0 {
		return &Rtree{root: &node{isLeafLevel: true}}
	}
	root := strBuild(leaves, defaultFanout)
	return &Rtree{root: root, size: len(leaves)}
}

func strBuild(leaves []Leaf, fanout int) *node {
	if len(leaves) <= fanout {
		n := &node{isLeafLevel: true, leaves: leaves}
		bounds := make([]BoundingBox, len(leaves))
		for i, l := range leaves {
			bounds[i] = l.Bound
		}
		n.bound = boxOf(bounds...)
		return n
	}

	numLeaves := len(leaves)
	numGroups := (numLeaves + fanout - 1) / fanout
	numStrips := int(math.Ceil(math.Sqrt(float64(numGroups))))
	stripSize := numStrips * fanout

	sorted := append([]Leaf(nil), leaves...)
	sortLeavesBy(sorted, func(l Leaf) float64 { return (l.FromLat + l.ToLat) / 2 })

	var children []*node
	for s := 0; s < len(sorted); s += stripSize {
		end := s + stripSize
		if end > len(sorted) {
			end = len(sorted)
		}
		strip := sorted[s:end]
		sortLeavesBy(strip, func(l Leaf) float64 { return (l.FromLon + l.ToLon) / 2 })
		for p := 0; p < len(strip); p += fanout {
			pe := p + fanout
			if pe > len(strip) {
				pe = len(strip)
			}
			children = append(children, strBuild(strip[p:pe], fanout))
		}
	}

	n := &node{children: children}
	bounds := make([]BoundingBox, len(children))
	for i, c := range children {
		bounds[i] = c.bound
	}
	n.bound = boxOf(bounds...)
	return n
}

func sortLeavesBy(leaves []Leaf, key func(Leaf) float64) {
	// insertion sort; strBuild calls it once on all leaves of a level and
	// then on each strip of numStrips*fanout leaves
	for i := 1; i < len(leaves); i++ {
		j := i
		for j > 0 && key(leaves[j-1]) > key(leaves[j]) {
			leaves[j-1], leaves[j] = leaves[j], leaves[j-1]
			j--
		}
	}
}

func (rt *Rtree) Size() int { return rt.size }
