// Package matrix implements C5: the many-to-many matrix via a bucketed
// backward sweep from every target followed by a forward sweep from every
// source, avoiding O(n*m) independent bidirectional searches. Grounded in
// §4.5 and the bucket/column-weight vocabulary of the GLOSSARY; the
// teacher has no many-to-many algorithm of its own (its routing layer only
// exposes point-to-point ShortestPathBiDijkstraCH), so this module is
// built directly against the CH upward-graph primitives the teacher's
// search uses, reusing internal/queryheap for the sweep's own heap.
package matrix

import (
	"math"

	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/queryheap"
)

const invalid = math.MaxFloat64

// Many computes the |sources| x |targets| weight matrix between phantom
// endpoints.
func Many(f facade.DataFacade, sources, targets []graph.PhantomEndpoint) [][]float64 {
	buckets := make([]map[int]float64, f.NumNodes())

	for col, target := range targets {
		backwardSweep(f, target, col, buckets)
	}

	out := make([][]float64, len(sources))
	for row, source := range sources {
		out[row] = forwardSweep(f, source, buckets, len(targets))
	}
	return out
}

// backwardSweep runs a single-source Dijkstra from target over the
// reverse (incoming) CSR, attaching a (column, weight) bucket entry to
// every settled node — the GLOSSARY's "Bucket (matrix)" entry.
func backwardSweep(f facade.DataFacade, target graph.PhantomEndpoint, col int, buckets []map[int]float64) {
	inCSR := f.InCSR()
	if inCSR == nil {
		return
	}
	heapv := queryheap.New[struct{}](f.NumNodes())

	seed := func(edgeID int32, offset float64) {
		node := f.GetEdgeData(edgeID).From
		if !heapv.WasInserted(node) {
			heapv.Insert(node, -offset, struct{}{})
		} else if heapv.InHeap(node) && -offset < heapv.GetKey(node) {
			heapv.DecreaseKey(node, -offset, struct{}{})
		}
	}
	if target.Backward.Enabled {
		seed(target.Backward.EdgeID, target.Backward.Offset)
	}
	if target.Forward.Enabled {
		seed(target.Forward.EdgeID, target.Forward.Offset)
	}

	settled := make(map[int32]bool)
	for !heapv.Empty() {
		u, key := heapv.DeleteMin()
		if settled[u] {
			continue
		}
		settled[u] = true

		if buckets[u] == nil {
			buckets[u] = make(map[int]float64)
		}
		if existing, ok := buckets[u][col]; !ok || key < existing {
			buckets[u][col] = key
		}

		uNode := f.GetNode(u)
		for e := inCSR.BeginEdges(u); e < inCSR.EndEdges(u); e++ {
			edge := inCSR.GetEdge(e)
			w := edge.To
			if settled[w] {
				continue
			}
			wNode := f.GetNode(w)
			if uNode.OrderPos >= wNode.OrderPos {
				continue
			}
			newCost := key + edge.Weight
			if !heapv.WasInserted(w) {
				heapv.Insert(w, newCost, struct{}{})
			} else if heapv.InHeap(w) && newCost < heapv.GetKey(w) {
				heapv.DecreaseKey(w, newCost, struct{}{})
			}
		}
	}
}

// forwardSweep runs a single-source Dijkstra from source over the
// outgoing CSR, and for every settled node consults its buckets to
// produce a final source-to-column weight.
func forwardSweep(f facade.DataFacade, source graph.PhantomEndpoint, buckets []map[int]float64, numTargets int) []float64 {
	row := make([]float64, numTargets)
	for i := range row {
		row[i] = invalid
	}

	outCSR := f.OutCSR()
	if outCSR == nil {
		return row
	}
	heapv := queryheap.New[struct{}](f.NumNodes())

	seed := func(edgeID int32, offset float64) {
		node := f.GetTarget(edgeID)
		if !heapv.WasInserted(node) {
			heapv.Insert(node, -offset, struct{}{})
		} else if heapv.InHeap(node) && -offset < heapv.GetKey(node) {
			heapv.DecreaseKey(node, -offset, struct{}{})
		}
	}
	if source.Forward.Enabled {
		seed(source.Forward.EdgeID, source.Forward.Offset)
	}
	if source.Backward.Enabled {
		seed(source.Backward.EdgeID, source.Backward.Offset)
	}

	settled := make(map[int32]bool)
	consume := func(u int32, key float64) {
		for col, bucketWeight := range buckets[u] {
			total := key + bucketWeight
			// §4.5's single-edge special rule: a negative combined weight
			// means source and target fall on the same edge within the
			// seed offsets; substitute the node's self-loop weight (the
			// minimum direction-retaining loop) if that keeps the total
			// non-negative.
			if total < 0 {
				if loop, ok := selfLoopWeight(f, u); ok && total+loop >= 0 {
					total += loop
				}
			}
			if total < row[col] {
				row[col] = total
			}
		}
	}

	for !heapv.Empty() {
		u, key := heapv.DeleteMin()
		if settled[u] {
			continue
		}
		settled[u] = true
		if buckets[u] != nil {
			consume(u, key)
		}

		uNode := f.GetNode(u)
		for e := outCSR.BeginEdges(u); e < outCSR.EndEdges(u); e++ {
			edge := outCSR.GetEdge(e)
			v := edge.To
			if settled[v] {
				continue
			}
			vNode := f.GetNode(v)
			if uNode.OrderPos >= vNode.OrderPos {
				continue
			}
			newCost := key + edge.Weight
			if !heapv.WasInserted(v) {
				heapv.Insert(v, newCost, struct{}{})
			} else if heapv.InHeap(v) && newCost < heapv.GetKey(v) {
				heapv.DecreaseKey(v, newCost, struct{}{})
			}
		}
	}
	return row
}

// selfLoopWeight scans u's outgoing edges for the minimum-weight edge that
// loops back to u itself, used by §4.5's single-edge negative-weight rule.
func selfLoopWeight(f facade.DataFacade, u int32) (float64, bool) {
	outCSR := f.OutCSR()
	if outCSR == nil {
		return 0, false
	}
	best := invalid
	found := false
	for e := outCSR.BeginEdges(u); e < outCSR.EndEdges(u); e++ {
		edge := outCSR.GetEdge(e)
		if edge.To == u && edge.Weight < best {
			best = edge.Weight
			found = true
		}
	}
	return best, found
}
