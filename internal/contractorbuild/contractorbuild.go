// Package contractorbuild implements the offline contraction step behind
// the `contract` CLI: it takes the raw directed edge list produced by
// extractbuild and returns the same graph with shortcut edges added and
// every node assigned a CH rank (graph.Node.OrderPos), ready to hand to
// graph.BuildCSR and artifact.WriteCHFile.
//
// Grounded in the teacher's pkg/contractor/contraction_hierarchies.go:
// the node-importance formula (calculatePriority), the witness-search
// shortcut test (findAndHandleShortcuts) and the lazy-priority
// contraction loop (Contraction) are all carried over. Two deliberate
// departures from the teacher:
//
//   - The teacher's node-ordering queue (NewMinHeap[int32]) is a
//     duplicate-tolerant, non-addressable heap that was never actually
//     present in the retrieved contractor package; it is rebuilt here on
//     container/heap with the same lazy stale-entry discipline, since no
//     pack library offers a generic priority queue and this is a
//     data-structure detail rather than a domain dependency.
//   - The teacher's per-node OutEdgeOrigCount/InEdgeOrigCount bookkeeping
//     assigns each node the *global* running edge counter rather than a
//     per-node count, which would make calculatePriority's original-edge
//     term meaningless; this keeps a real per-node count instead.
package contractorbuild

import (
	"container/heap"
	"fmt"

	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/queryheap"
)

// maxPollFactorHeuristic/maxPollFactorContraction bound the witness
// search's node budget as a multiple of the graph's running mean degree,
// exactly as in the teacher.
const (
	maxPollFactorHeuristic   = 5
	maxPollFactorContraction = 200
)

// Edge is one directed input edge to the contractor, before any
// shortcuts are added.
type Edge struct {
	From, To   int32
	Weight     float64
	Dist       float64
	GeometryID int32
	NameID     int32
	Flags      graph.EdgeFlags
}

// Result is the contracted graph: every input node with OrderPos filled
// in, and the edge set (originals plus shortcuts).
type Result struct {
	Nodes         []graph.Node
	Edges         []graph.Edge
	ShortcutCount int
}

// noGeometry/noName mark a shortcut edge's GeometryID/NameID: shortcuts
// are never rendered directly, chsearch.UnpackPath always expands them
// into real edges first, so these values are never read.
const noGeometry int32 = -1
const noName int32 = -1

// edgeRec is one adjacency-list entry, kept on both the out[] and in[]
// side of the node it points at.
type edgeRec struct {
	other          int32
	weight         float64
	dist           float64
	isShortcut     bool
	shortcutMiddle int32
	geometryID     int32
	nameID         int32
	flags          graph.EdgeFlags
}

type builder struct {
	out, in       [][]edgeRec
	contracted    []bool
	degree        []int
	outOrigCount  []int
	inOrigCount   []int
	meanDegree    float64
	shortcutCount int
	witnessHeap   *queryheap.Heap[struct{}]
}

func newBuilder(numNodes int, edges []Edge) (*builder, error) {
	b := &builder{
		out:          make([][]edgeRec, numNodes),
		in:           make([][]edgeRec, numNodes),
		contracted:   make([]bool, numNodes),
		degree:       make([]int, numNodes),
		outOrigCount: make([]int, numNodes),
		inOrigCount:  make([]int, numNodes),
	}

	seen := make([]map[int32]bool, numNodes)
	for _, e := range edges {
		if e.From < 0 || int(e.From) >= numNodes || e.To < 0 || int(e.To) >= numNodes {
			return nil, fmt.Errorf("contractorbuild: edge %d->%d out of range for %d nodes", e.From, e.To, numNodes)
		}
		if seen[e.From] == nil {
			seen[e.From] = make(map[int32]bool)
		}
		if seen[e.From][e.To] {
			continue // drop parallel duplicate, matching the teacher's InitCHGraph dedup
		}
		seen[e.From][e.To] = true

		b.out[e.From] = append(b.out[e.From], edgeRec{
			other: e.To, weight: e.Weight, dist: e.Dist,
			geometryID: e.GeometryID, nameID: e.NameID, flags: e.Flags,
		})
		b.in[e.To] = append(b.in[e.To], edgeRec{
			other: e.From, weight: e.Weight, dist: e.Dist,
			geometryID: e.GeometryID, nameID: e.NameID, flags: e.Flags,
		})
		b.degree[e.From]++
		b.degree[e.To]++
		b.outOrigCount[e.From]++
		b.inOrigCount[e.To]++
	}

	if len(edges) > 0 {
		b.meanDegree = float64(len(edges)) / float64(numNodes)
	}
	return b, nil
}

type pqItem struct {
	node     int32
	priority float64
}

type nodeHeap []pqItem

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].priority < h[j].priority }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(pqItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Build runs the full node-ordering and shortcut-contraction pipeline.
// coreFraction (§6 ContractorConfig.CoreFraction) is the fraction of
// nodes contracted before contraction stops early (n*coreFraction nodes);
// the nodes left over form the uncontracted core and still need an OrderPos (the upward-edge invariant requires every
// node to have one), so they're assigned ranks in heap-priority order
// without further shortcut search — a faster but less-optimized tail,
// the documented tradeoff CoreFraction<1 buys.
func Build(nodes []graph.Node, edges []Edge, coreFraction float64) (*Result, error) {
	if coreFraction < 0 || coreFraction > 1 {
		return nil, fmt.Errorf("contractorbuild: core fraction must be in [0,1], got %f", coreFraction)
	}
	n := len(nodes)
	b, err := newBuilder(n, edges)
	if err != nil {
		return nil, err
	}

	pq := make(nodeHeap, 0, n)
	for v := int32(0); v < int32(n); v++ {
		pq = append(pq, pqItem{node: v, priority: b.calculatePriority(v)})
	}
	heap.Init(&pq)

	target := n
	if coreFraction < 1 {
		target = int(float64(n) * coreFraction)
	}

	order := int32(0)
	for pq.Len() > 0 && int(order) < target {
		top := heap.Pop(&pq).(pqItem)
		if b.contracted[top.node] {
			continue
		}
		fresh := b.calculatePriority(top.node)
		if pq.Len() > 0 && fresh > pq[0].priority {
			heap.Push(&pq, pqItem{node: top.node, priority: fresh})
			continue
		}

		nodes[top.node].OrderPos = order
		b.contractNode(top.node)
		b.contracted[top.node] = true
		order++
	}

	// Remaining nodes (the uncontracted core, or leftover stale entries)
	// still need a rank; assign them in heap-priority order with no
	// further search.
	for pq.Len() > 0 {
		top := heap.Pop(&pq).(pqItem)
		if b.contracted[top.node] {
			continue
		}
		nodes[top.node].OrderPos = order
		b.contracted[top.node] = true
		order++
	}

	return &Result{Nodes: nodes, Edges: b.exportEdges(), ShortcutCount: b.shortcutCount}, nil
}

func (b *builder) exportEdges() []graph.Edge {
	var out []graph.Edge
	for from, recs := range b.out {
		for _, e := range recs {
			flags := e.flags
			if e.isShortcut {
				flags |= graph.FlagShortcut
			}
			out = append(out, graph.Edge{
				From:           int32(from),
				To:             e.other,
				Weight:         e.weight,
				Dist:           e.dist,
				Flags:          flags,
				ShortcutMiddle: e.shortcutMiddle,
				GeometryID:     e.geometryID,
				NameID:         e.nameID,
			})
		}
	}
	return out
}
