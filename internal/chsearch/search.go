// Package chsearch implements C4: bidirectional Dijkstra over the
// contracted upward graph, with stall-on-demand pruning and shortcut
// unpacking. Grounded in the teacher's RouteAlgorithm.ShortestPathBiDijkstraCH
// (pkg/engine/routingalgorithm/bidirectional_dijkstra_ch.go), generalized
// to use internal/queryheap.Heap instead of the teacher's map-based
// distance tracking, and extended with the stall-on-demand and loop-edge
// rules the teacher's version omits.
package chsearch

import (
	"errors"
	"math"

	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/queryheap"
)

var ErrNoRoute = errors.New("chsearch: no route")

// pred is the heap payload: the edge used to reach this node and the node
// it came from, mirroring the teacher's cameFromPair.
type pred struct {
	edgeID int32
	from   int32
	valid  bool
}

// Search runs one bidirectional CH query between two nodes with seed
// offsets. RoutePhantoms and Alternatives seed it from phantom endpoints;
// the map matcher (C6) calls RoutePhantoms on it for transition weights.
// The many-to-many matrix does not use it.
type Search struct {
	f facade.DataFacade

	forward  *queryheap.Heap[pred]
	backward *queryheap.Heap[pred]

	settledF map[int32]bool
	settledB map[int32]bool
	distF    map[int32]float64
	distB    map[int32]float64
}

func New(f facade.DataFacade) *Search {
	n := f.NumNodes()
	return &Search{
		f:        f,
		forward:  queryheap.New[pred](n),
		backward: queryheap.New[pred](n),
		settledF: make(map[int32]bool),
		settledB: make(map[int32]bool),
		distF:    make(map[int32]float64),
		distB:    make(map[int32]float64),
	}
}

// Reset clears both heaps and settled sets so the Search can be reused
// for the next query, matching §5's "cleared (not freed) between
// requests" thread-local heap policy.
func (s *Search) Reset() {
	s.forward.Clear()
	s.backward.Clear()
	s.settledF = make(map[int32]bool)
	s.settledB = make(map[int32]bool)
	s.distF = make(map[int32]float64)
	s.distB = make(map[int32]float64)
}

// Result is the outcome of a raw node-to-node CH query: the meeting node
// and the total weight, before phantom-offset adjustment.
type Result struct {
	Meeting int32
	Weight  float64
}

// QueryNodes runs the bidirectional search between two graph nodes with a
// given seed weight on each side (0,0 for a plain node-to-node query;
// nonzero to account for partial-edge phantom offsets).
func (s *Search) QueryNodes(from, to int32, seedForward, seedBackward float64) (Result, error) {
	s.Reset()
	if from == to {
		return Result{Meeting: from, Weight: math.Max(seedForward, 0) + math.Max(seedBackward, 0)}, nil
	}

	s.forward.Insert(from, seedForward, pred{valid: false})
	s.backward.Insert(to, seedBackward, pred{valid: false})

	best := math.MaxFloat64
	bestNode := int32(-1)

	turnForward := true

	for {
		if s.forward.Empty() && s.backward.Empty() {
			break
		}
		// Termination (§4.4): stop when the sum of the two heaps' minimum
		// keys exceeds the best meeting distance found so far.
		if !s.forward.Empty() && !s.backward.Empty() {
			fMin := s.forward.GetKey(s.forward.PeekMin())
			bMin := s.backward.GetKey(s.backward.PeekMin())
			if fMin+bMin >= best {
				break
			}
		}

		forwardDir := turnForward
		heapPtr := s.forward
		settled, otherSettled := s.settledF, s.settledB
		if !forwardDir {
			heapPtr = s.backward
			settled, otherSettled = s.settledB, s.settledF
		}
		turnForward = !turnForward

		if heapPtr.Empty() {
			continue
		}

		u, key := heapPtr.DeleteMin()
		if key >= best {
			continue
		}

		if !s.stalled(u, key, forwardDir) {
			settled[u] = true
			if forwardDir {
				s.distF[u] = key
			} else {
				s.distB[u] = key
			}
			if otherSettled[u] {
				other := s.distF[u]
				if forwardDir {
					other = s.distB[u]
				}
				if key+other < best {
					best = key + other
					bestNode = u
				}
			}
			s.relax(u, key, forwardDir)
		}
	}

	if bestNode == -1 || best == math.MaxFloat64 {
		return Result{}, ErrNoRoute
	}
	return Result{Meeting: bestNode, Weight: best}, nil
}

// stalled implements stall-on-demand: before settling u in direction D,
// scan incoming edges (w,u) in the reverse direction; if a neighbor w
// already offers a strictly better path to u, u is stalled and left for
// a later, correct settlement (or never settled at all, since the better
// path already dominates it).
func (s *Search) stalled(u int32, key float64, forwardDir bool) bool {
	var inCSR *graph.CSR
	var heapPtr *queryheap.Heap[pred]
	var distMap map[int32]float64
	var settled map[int32]bool
	if forwardDir {
		inCSR = s.f.InCSR()
		heapPtr = s.forward
		distMap = s.distF
		settled = s.settledF
	} else {
		inCSR = s.f.OutCSR()
		heapPtr = s.backward
		distMap = s.distB
		settled = s.settledB
	}
	if inCSR == nil {
		return false
	}
	for e := inCSR.BeginEdges(u); e < inCSR.EndEdges(u); e++ {
		edge := inCSR.GetEdge(e)
		w := edge.To
		var wKey float64
		switch {
		case settled[w]:
			wKey = distMap[w]
		case heapPtr.InHeap(w):
			wKey = heapPtr.GetKey(w)
		default:
			continue
		}
		if wKey+edge.Weight < key {
			return true
		}
	}
	return false
}

func (s *Search) relax(u int32, key float64, forwardDir bool) {
	var csr *graph.CSR
	var heapPtr *queryheap.Heap[pred]
	var settled map[int32]bool
	if forwardDir {
		csr = s.f.OutCSR()
		heapPtr = s.forward
		settled = s.settledF
	} else {
		csr = s.f.InCSR()
		heapPtr = s.backward
		settled = s.settledB
	}
	if csr == nil {
		return
	}
	uNode := s.f.GetNode(u)
	for e := csr.BeginEdges(u); e < csr.EndEdges(u); e++ {
		edge := csr.GetEdge(e)
		v := edge.To
		if settled[v] {
			continue
		}
		vNode := s.f.GetNode(v)
		// CH upward-edge invariant: only relax to higher-ranked nodes.
		if uNode.OrderPos >= vNode.OrderPos {
			continue
		}
		newCost := key + edge.Weight
		if !heapPtr.WasInserted(v) {
			heapPtr.Insert(v, newCost, pred{edgeID: e, from: u, valid: true})
		} else if heapPtr.InHeap(v) && newCost < heapPtr.GetKey(v) {
			heapPtr.DecreaseKey(v, newCost, pred{edgeID: e, from: u, valid: true})
		}
	}
}
