package chsearch

import "github.com/zummach/osrm/internal/graph"

// UnpackedEdge is one V-edge in the final path, after shortcut expansion.
type UnpackedEdge struct {
	From, To int32
	EdgeID   int32
	Weight   float64
}

// unpackEdge recursively expands a shortcut edge (u,v) with middle m into
// (u,m) then (m,v), terminating at non-shortcut edges. Grounded in the
// teacher's unpackForward/unpackBackward (bidirectional_dijkstra_ch.go),
// generalized into one direction-agnostic recursion since both of the
// teacher's copies did the same thing mirrored.
//
// The middle-node field induces a DAG by construction (the middle always
// has strictly lower CH rank than its shortcut), so recursion terminates;
// maxUnpackDepth guards against a corrupt artifact turning that DAG into a
// cycle.
const maxUnpackDepth = 64

func unpackEdge(f dataFacadeForUnpack, u, v, edgeID int32, depth int, out *[]UnpackedEdge) {
	edge := f.GetEdgeData(edgeID)
	if !edge.IsShortcut() || depth >= maxUnpackDepth {
		*out = append(*out, UnpackedEdge{From: u, To: v, EdgeID: edgeID, Weight: edge.Weight})
		return
	}
	m := edge.ShortcutMiddle
	leftID, leftOK := f.FindEdge(u, m)
	rightID, rightOK := f.FindEdge(m, v)
	if !leftOK || !rightOK {
		// malformed artifact: fall back to treating the shortcut as atomic
		// rather than panicking mid-query.
		*out = append(*out, UnpackedEdge{From: u, To: v, EdgeID: edgeID, Weight: edge.Weight})
		return
	}
	unpackEdge(f, u, m, leftID, depth+1, out)
	unpackEdge(f, m, v, rightID, depth+1, out)
}

// dataFacadeForUnpack is the minimal slice of DataFacade unpacking needs,
// kept narrow so tests can fake it without building a whole facade.
type dataFacadeForUnpack interface {
	GetEdgeData(edgeID int32) graph.Edge
	FindEdge(u, v int32) (int32, bool)
}

// UnpackPath follows parent pointers from the meeting node outward in
// both directions and expands every shortcut, yielding the full sequence
// of V-edges from source to target.
func (s *Search) UnpackPath(from, to, meeting int32) []UnpackedEdge {
	var forwardEdges []UnpackedEdge
	v := meeting
	for v != from {
		p := s.forward.GetData(v)
		if !p.valid {
			break
		}
		var seg []UnpackedEdge
		unpackEdge(s.f, p.from, v, p.edgeID, 0, &seg)
		forwardEdges = append(seg, forwardEdges...)
		v = p.from
	}

	var backwardEdges []UnpackedEdge
	v = meeting
	for v != to {
		p := s.backward.GetData(v)
		if !p.valid {
			break
		}
		// the backward heap's edge is a reverse-CSR edge; the physical edge
		// runs from v to p.from, so look it up in the forward CSR.
		edgeID := p.edgeID
		if id, ok := s.f.FindEdge(v, p.from); ok {
			edgeID = id
		}
		var seg []UnpackedEdge
		unpackEdge(s.f, v, p.from, edgeID, 0, &seg)
		backwardEdges = append(backwardEdges, seg...)
		v = p.from
	}

	edges := append(forwardEdges, backwardEdges...)
	applyTrafficLightPenalty(s.f, edges)
	return edges
}

// trafficLightPenaltyDeciseconds is the fixed cost added at every signaled
// junction the unpacked path passes through, generalizing the teacher's
// "+= 3.0 seconds" convention (bidirectional_dijkstra_ch.go,
// bidirectional_dijsktra_xchv.go, a_star2.go) to this package's
// deci-second weight unit. Applied here during unpacking rather than
// during search relaxation, so it never touches the core search's
// proof-obligated cost accounting.
const trafficLightPenaltyDeciseconds = 30.0

// applyTrafficLightPenalty charges the penalty on the edge leading into
// each signaled intermediate node (every via-node strictly between the
// path's source and target). The true source and destination never get
// charged even if they carry a signal.
func applyTrafficLightPenalty(f interface{ IsTrafficLight(int32) bool }, edges []UnpackedEdge) {
	for i := 0; i < len(edges)-1; i++ {
		if f.IsTrafficLight(edges[i].To) {
			edges[i].Weight += trafficLightPenaltyDeciseconds
		}
	}
}

func reverseSeg(seg []UnpackedEdge) []UnpackedEdge {
	out := make([]UnpackedEdge, len(seg))
	for i, e := range seg {
		out[len(seg)-1-i] = UnpackedEdge{From: e.To, To: e.From, EdgeID: e.EdgeID, Weight: e.Weight}
	}
	return out
}
