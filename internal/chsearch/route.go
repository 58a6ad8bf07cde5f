package chsearch

import (
	"math"

	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
)

// Route is the result of a phantom-to-phantom query: the weight and the
// unpacked V-edge sequence ready for leg assembly (§4.8).
type Route struct {
	Weight float64
	Edges  []UnpackedEdge
}

// RoutePhantoms seeds the bidirectional search from source/target phantom
// endpoints per §4.4's initialization rule, and applies the loop-edge
// special case before falling back to the through-graph search.
func (s *Search) RoutePhantoms(source, target graph.PhantomEndpoint) (Route, error) {
	if !source.Valid() || !target.Valid() {
		return Route{}, ErrNoRoute
	}

	if direct, ok := loopEdgeCandidate(source, target); ok {
		through, err := s.routeThroughGraph(source, target)
		if err == nil && through.Weight <= direct.Weight {
			return through, nil
		}
		if err != nil {
			return direct, nil
		}
		return direct, nil
	}

	return s.routeThroughGraph(source, target)
}

// loopEdgeCandidate implements §4.4's loop-edge rule: if the forward and
// reverse phantom map to the same edge and the source sits further along
// that direction than the target, the direct on-edge weight must be
// considered as a candidate route. Forward.Offset shrinks as a point
// moves further along the edge (it is the remaining weight to the
// downstream node), so "source ahead of target" reads as
// source.Offset < target.Offset there; Backward.Offset grows the same
// way the source moves, so the comparison flips.
func loopEdgeCandidate(source, target graph.PhantomEndpoint) (Route, bool) {
	if source.Forward.Enabled && target.Forward.Enabled && source.Forward.EdgeID == target.Forward.EdgeID {
		if source.Forward.Offset < target.Forward.Offset {
			return Route{Weight: target.Forward.Offset - source.Forward.Offset}, true
		}
	}
	if source.Backward.Enabled && target.Backward.Enabled && source.Backward.EdgeID == target.Backward.EdgeID {
		if source.Backward.Offset > target.Backward.Offset {
			return Route{Weight: source.Backward.Offset - target.Backward.Offset}, true
		}
	}
	return Route{}, false
}

func (s *Search) routeThroughGraph(source, target graph.PhantomEndpoint) (Route, error) {
	bestWeight := math.MaxFloat64
	var bestResult Result
	var bestFromNode, bestToNode int32
	found := false

	trySide := func(fromNode int32, seedF float64, toNode int32, seedB float64, hasF, hasB bool) {
		if !hasF || !hasB {
			return
		}
		res, err := s.QueryNodes(fromNode, toNode, seedF, seedB)
		if err != nil {
			return
		}
		if res.Weight < bestWeight {
			bestWeight = res.Weight
			bestResult = res
			bestFromNode = fromNode
			bestToNode = toNode
			found = true
		}
	}

	sourceFromF, sourceSeedF := s.forwardSeed(source)
	sourceFromB, sourceSeedB := s.backwardSeed(source)
	targetToF, targetSeedF := s.forwardSeed(target)
	targetToB, targetSeedB := s.backwardSeed(target)

	trySide(sourceFromF, sourceSeedF, targetToF, targetSeedF, source.Forward.Enabled, target.Forward.Enabled)
	trySide(sourceFromF, sourceSeedF, targetToB, targetSeedB, source.Forward.Enabled, target.Backward.Enabled)
	trySide(sourceFromB, sourceSeedB, targetToF, targetSeedF, source.Backward.Enabled, target.Forward.Enabled)
	trySide(sourceFromB, sourceSeedB, targetToB, targetSeedB, source.Backward.Enabled, target.Backward.Enabled)

	if !found {
		return Route{}, ErrNoRoute
	}

	edges := s.UnpackPath(bestFromNode, bestToNode, bestResult.Meeting)
	return Route{Weight: bestWeight, Edges: edges}, nil
}

// forwardSeed resolves the node a forward-direction search should start
// from (the forward segment's downstream node) and the seed weight, the
// negative forward_offset convention of §4.4 ("the negative forward seed
// lets the algorithm credit the partial edge weight during the first
// relaxation").
func (s *Search) forwardSeed(p graph.PhantomEndpoint) (int32, float64) {
	if !p.Forward.Enabled {
		return -1, 0
	}
	return s.f.GetTarget(p.Forward.EdgeID), -p.Forward.Offset
}

// backwardSeed resolves the node a backward-direction search should start
// from: the reverse segment's upstream node (its From), since the search
// travels the reverse CSR away from the phantom toward lower offsets.
func (s *Search) backwardSeed(p graph.PhantomEndpoint) (int32, float64) {
	if !p.Backward.Enabled {
		return -1, 0
	}
	return s.f.GetEdgeData(p.Backward.EdgeID).From, -p.Backward.Offset
}

var _ = facade.DataFacade(nil)
