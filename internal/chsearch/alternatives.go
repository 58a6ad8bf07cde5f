package chsearch

import (
	"math"
	"sort"

	"github.com/zummach/osrm/internal/graph"
)

// AlternativeRoute is one ranked candidate from Alternatives: a full
// Route plus the via-node that generated it (ViaNode is -1 for the best
// shortest path itself, which is always returned first).
type AlternativeRoute struct {
	Route
	ViaNode int32
}

// X-CHV's three tuning constants (Luxen & Schieferdecker,
// "Candidate Sets for Alternative Routes in Road Networks"), unchanged
// from the teacher's AlternativeRouteXCHV defaults.
const (
	xchvGamma   = 0.8  // max fraction of Opt a candidate may share with it
	xchvEpsilon = 0.25 // max relative stretch of a candidate over Opt
	defaultMaxAlternatives = 2
)

// viaCandidate is one node settled by both search directions of the main
// query, the X-CHV "meeting point on both trees" criterion.
type viaCandidate struct {
	node int32
	dist float64 // distF[node] + distB[node]
}

// Alternatives implements §12's supplemented alternative-routes feature:
// X-CHV's via-node candidate generation over the same bidirectional CH
// search RoutePhantoms already runs, grounded in the teacher's
// AlternativeRouteXCHV.RunAlternativeRouteXCHV
// (pkg/engine/routingalgorithm/alternative_route_xchv.go). Scoped to the
// common source.Forward/target.Forward case — the teacher's version is
// likewise single-direction (ShortestPathBiDijkstraXCHV takes plain
// node ids, not phantom endpoints) — and to the gamma/epsilon filters;
// the teacher's additional plateau-length "T-test" local-optimality
// refinement is not reproduced (see DESIGN.md), since it needs a
// per-node in/out-tree walk this module's heap payload doesn't carry.
func (s *Search) Alternatives(source, target graph.PhantomEndpoint, maxK int) ([]AlternativeRoute, error) {
	if maxK <= 0 {
		maxK = defaultMaxAlternatives
	}
	if !source.Forward.Enabled || !target.Forward.Enabled {
		route, err := s.RoutePhantoms(source, target)
		if err != nil {
			return nil, err
		}
		return []AlternativeRoute{{Route: route, ViaNode: -1}}, nil
	}

	fromNode, seedF := s.forwardSeed(source)
	toNode, seedB := s.forwardSeed(target)

	res, err := s.QueryNodes(fromNode, toNode, seedF, seedB)
	if err != nil {
		return nil, err
	}
	bestWeight := res.Weight
	bestEdges := s.UnpackPath(fromNode, toNode, res.Meeting)
	bestNodes := edgeNodeSet(bestEdges)

	best := AlternativeRoute{Route: Route{Weight: bestWeight, Edges: bestEdges}, ViaNode: -1}
	alternatives := []AlternativeRoute{best}

	// s.settledF/settledB/distF/distB hold the state of the query just
	// run above; they are snapshotted here before any further QueryNodes
	// call (each of which starts with Reset()) overwrites them.
	candidates := make([]viaCandidate, 0)
	for node := range s.settledF {
		if !s.settledB[node] {
			continue
		}
		total := s.distF[node] + s.distB[node]
		if total > (1+xchvEpsilon)*bestWeight {
			continue
		}
		candidates = append(candidates, viaCandidate{node: node, dist: total})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })

	for _, c := range candidates {
		if len(alternatives) >= maxK {
			break
		}
		if c.node == fromNode || c.node == toNode {
			continue
		}

		svRes, err := s.QueryNodes(fromNode, c.node, seedF, 0)
		if err != nil {
			continue
		}
		svEdges := s.UnpackPath(fromNode, c.node, svRes.Meeting)

		vtRes, err := s.QueryNodes(c.node, toNode, 0, seedB)
		if err != nil {
			continue
		}
		vtEdges := s.UnpackPath(c.node, toNode, vtRes.Meeting)

		pvWeight := svRes.Weight + vtRes.Weight
		pvEdges := append(append([]UnpackedEdge{}, svEdges...), vtEdges...)

		shared := sharedWeight(pvEdges, bestNodes)
		if shared/bestWeight >= xchvGamma {
			continue
		}
		lengthPvExcludeOpt := pvWeight - shared
		lengthOptExcludeOpt := bestWeight - shared
		if lengthOptExcludeOpt <= 0 || lengthPvExcludeOpt >= (1+xchvEpsilon)*lengthOptExcludeOpt {
			continue
		}

		alternatives = append(alternatives, AlternativeRoute{
			Route:   Route{Weight: pvWeight, Edges: pvEdges},
			ViaNode: c.node,
		})
	}

	return alternatives, nil
}

func edgeNodeSet(edges []UnpackedEdge) map[int32]bool {
	set := make(map[int32]bool, len(edges)*2)
	for _, e := range edges {
		set[e.From] = true
		set[e.To] = true
	}
	return set
}

// sharedWeight approximates the X-CHV paper's sigma(v) "distance share
// with the shortest path": the total weight of edges in candidate whose
// endpoints both lie on the best path, the node-membership proxy for the
// teacher's exact from/to edge-overlap check in calculateDistanceShare.
func sharedWeight(candidate []UnpackedEdge, bestNodes map[int32]bool) float64 {
	total := 0.0
	for _, e := range candidate {
		if bestNodes[e.From] && bestNodes[e.To] {
			total += e.Weight
		}
	}
	return math.Min(total, math.MaxFloat64)
}
