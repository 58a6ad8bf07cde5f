package graph

import "sort"

// CSR is the adjacency-array storage described in §3: a node array
// indexed by node id giving the offset into a contiguous edge array, with
// edges of node n occupying [offset(n), offset(n+1)). Forward and reverse
// directions are stored as separate CSRs (ContractedOutEdges /
// ContractedInEdges in the teacher), since the CH search walks them
// independently.
type CSR struct {
	offsets []int32 // len = numNodes+1
	edges   []Edge
}

// BuildCSR sorts edges by From (stable, so equal-From ties keep their
// input order — the tie-break referenced by §3's invariant) and builds the
// offset table. numNodes must be an upper bound on all From/To ids.
func BuildCSR(numNodes int, edges []Edge) *CSR {
	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	offsets := make([]int32, numNodes+1)
	idx := 0
	for n := 0; n < numNodes; n++ {
		offsets[n] = int32(idx)
		for idx < len(sorted) && sorted[idx].From == int32(n) {
			idx++
		}
	}
	offsets[numNodes] = int32(idx)

	return &CSR{offsets: offsets, edges: sorted}
}

func (c *CSR) NumNodes() int { return len(c.offsets) - 1 }
func (c *CSR) NumEdges() int { return len(c.edges) }

// BeginEdges/EndEdges give the half-open edge-id range of a node's
// outgoing (or incoming, for the reverse CSR) edges.
func (c *CSR) BeginEdges(node int32) int32 { return c.offsets[node] }
func (c *CSR) EndEdges(node int32) int32   { return c.offsets[node+1] }

func (c *CSR) Edges(node int32) []Edge {
	return c.edges[c.offsets[node]:c.offsets[node+1]]
}

func (c *CSR) GetEdge(edgeID int32) Edge { return c.edges[edgeID] }
func (c *CSR) GetTarget(edgeID int32) int32 { return c.edges[edgeID].To }

// FindEdge implements §4.1 FindEdge(u,v): a scan of u's range for an edge
// landing on v. Edges of a node are contiguous but not sorted by target,
// so a plain linear scan is used, matching the invariant in §3 ("may be
// found by linear or binary scan of u's range").
func (c *CSR) FindEdge(u, v int32) (int32, bool) {
	for e := c.BeginEdges(u); e < c.EndEdges(u); e++ {
		if c.edges[e].To == v {
			return e, true
		}
	}
	return -1, false
}

// EdgeRange mirrors GetAdjacentEdgeRange(node) from §4.1.
func (c *CSR) EdgeRange(node int32) (int32, int32) {
	return c.BeginEdges(node), c.EndEdges(node)
}
