package spatial

import (
	"container/heap"
	"math"
)

// candidate is one entry on the best-first priority queue: either an
// inner node or a leaf, ranked by squared distance to the query point.
// Grounded in the teacher's NewPriorityQueueNodeRtree2/isObjectBoundingRectangle
// two-phase enqueue trick (pkg/datastructure/rtree.go
// incrementalNearestNeighbor): a node is pushed once by its bounding-box
// distance, then re-pushed by its exact distance once popped, so exact
// distances never overtake an unexplored subtree that could still contain
// something closer.
type candidate struct {
	dist   float64
	node   *node
	leaf   *Leaf
	exact  bool
}

type candidateHeap []candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NearestLeaves runs the best-first incremental nearest-neighbor search
// and returns up to k leaves in increasing distance order, stopping early
// once k exact distances have been confirmed.
func (rt *Rtree) NearestLeaves(lat, lon float64, k int) []Leaf {
	if rt.root == nil || k <= 0 {
		return nil
	}
	pq := &candidateHeap{}
	heap.Init(pq)
	heap.Push(pq, candidate{dist: minDistSquared(lat, lon, rt.root.bound), node: rt.root})

	out := make([]Leaf, 0, k)
	for pq.Len() > 0 && len(out) < k {
		top := heap.Pop(pq).(candidate)

		if top.leaf != nil {
			if top.exact {
				out = append(out, *top.leaf)
				continue
			}
			exactDist := pointToSegmentDistSquared(lat, lon, *top.leaf)
			heap.Push(pq, candidate{dist: exactDist, leaf: top.leaf, exact: true})
			continue
		}

		n := top.node
		if n.isLeafLevel {
			for i := range n.leaves {
				l := &n.leaves[i]
				heap.Push(pq, candidate{dist: minDistSquared(lat, lon, l.Bound), leaf: l})
			}
		} else {
			for _, c := range n.children {
				heap.Push(pq, candidate{dist: minDistSquared(lat, lon, c.bound), node: c})
			}
		}
	}
	return out
}

// Search returns every leaf whose bounding box overlaps box, used by the
// tile endpoint to collect the segments inside a tile. The bearing-filtered
// snapping variants draw their pool from NearestLeaves instead.
func (rt *Rtree) Search(box BoundingBox) []Leaf {
	var out []Leaf
	var walk func(n *node)
	walk = func(n *node) {
		if !overlaps(n.bound, box) {
			return
		}
		if n.isLeafLevel {
			for _, l := range n.leaves {
				if overlaps(l.Bound, box) {
					out = append(out, l)
				}
			}
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	if rt.root != nil {
		walk(rt.root)
	}
	return out
}

func overlaps(a, b BoundingBox) bool {
	return a.MinLat <= b.MaxLat && b.MinLat <= a.MaxLat &&
		a.MinLon <= b.MaxLon && b.MinLon <= a.MaxLon
}

// pointToSegmentDistSquared uses an equirectangular projection valid at
// road-network scale, the same approximation as the teacher's
// euclidianDistanceEquiRectangularAprox.
func pointToSegmentDistSquared(lat, lon float64, l Leaf) float64 {
	px, py := lat, lon*cosLatFactor(lat)
	ax, ay := l.FromLat, l.FromLon*cosLatFactor(lat)
	bx, by := l.ToLat, l.ToLon*cosLatFactor(lat)

	dx, dy := bx-ax, by-ay
	if dx == 0 && dy == 0 {
		return (px-ax)*(px-ax) + (py-ay)*(py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	projX, projY := ax+t*dx, ay+t*dy
	return (px-projX)*(px-projX) + (py-projY)*(py-projY)
}

func cosLatFactor(lat float64) float64 {
	const degToRad = math.Pi / 180.0
	return math.Cos(lat * degToRad)
}
