package guidance

import (
	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/leg"
)

// Route is the final post-processed output of one leg: its steps and the
// geometry table resynced to match them.
type Route struct {
	Steps    []RouteStep
	Geometry leg.LegGeometry
}

// PostProcess runs §4.9's full eight-step pipeline over one leg, turning
// its raw per-edge assembly into the collapsed, trimmed instruction list
// a client renders.
func PostProcess(f facade.DataFacade, source, target graph.PhantomEndpoint, edges []chsearch.UnpackedEdge, geometry leg.LegGeometry) Route {
	steps := Assemble(f, source, target, edges, geometry)
	steps = AccumulateRoundabouts(steps)
	steps = Collapse(steps)
	steps = CollapseUseLane(steps)
	steps = BuildIntersections(steps)
	steps = AttachTurnLanes(steps, f.GetTurnLanesForEdgeID, func(i int) (int32, bool) {
		return steps[i].EdgeID, steps[i].EdgeID >= 0
	})
	steps = TrimShortEnds(steps)
	steps = AssignRelativeLocations(steps, source, target)
	resynced := ResyncGeometry(steps, geometry)

	return Route{Steps: steps, Geometry: resynced}
}
