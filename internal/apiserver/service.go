// Package apiserver implements the router's external HTTP surface: the
// six operations of §6 (route, table, nearest, match, trip, tile) behind
// a go-chi router, request validation, prometheus metrics and swagger
// docs. Grounded in the teacher's pkg/server/mm_rest/handlers.go, which
// is the only HTTP layer in the retrieval pack built on the same
// chi+render+validator stack SPEC_FULL.md's dependency table calls for;
// the teacher's own pkg/server/rest package (referenced from
// cmd/engine/main.go but not present in the pack) supplies the
// metrics-middleware and top-level router-composition idiom this package
// follows for NewRouter/Metrics.
package apiserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/guidance"
	"github.com/zummach/osrm/internal/hint"
	"github.com/zummach/osrm/internal/leg"
	"github.com/zummach/osrm/internal/matching"
	"github.com/zummach/osrm/internal/matrix"
	"github.com/zummach/osrm/internal/spatial"
	"github.com/zummach/osrm/internal/trip"
)

// ErrInvalidInput is the §7 taxonomy member for a request whose
// coordinates/parameters cannot be resolved against the graph at all
// (distinct from a validation failure, which never reaches the service
// layer because go-playground/validator rejects it at the HTTP boundary
// and ErrValidationResponse renders it).
var ErrInvalidInput = errors.New("apiserver: invalid input")

// Coordinate is the engine-facing (lon/lat-free of JSON concerns) query
// point, mirroring the teacher's use of plain datastructure.Coordinate
// as its service-layer parameter type rather than an HTTP DTO.
type Coordinate struct {
	Lat, Lon float64
}

// WaypointQuery is one input coordinate plus its optional per-point
// hints (§4.2's bearing filter, a search radius override, and a
// previously-issued location hint to skip re-snapping).
type WaypointQuery struct {
	Coordinate
	HasBearing   bool
	Bearing      float64
	BearingRange float64
	Radius       float64 // 0 means "use the server default"
	Hint         string
}

// RouteQuery is §6's route operation parameters.
type RouteQuery struct {
	Waypoints    []WaypointQuery
	Steps        bool // include turn-by-turn guidance in the response
	Alternatives bool // §12: also return X-CHV via-node alternatives
}

// RouteResult is one computed route: total distance/duration, the leg
// geometry and, when requested, guidance steps.
type RouteResult struct {
	Distance     float64
	Duration     float64
	Geometry     leg.LegGeometry
	Legs         []guidance.Route
	Alternatives []AlternativeResult
}

// AlternativeResult is one X-CHV via-node candidate alongside the primary
// route returned in RouteResult, populated only when RouteQuery.Alternatives
// is set and the route has exactly one leg (source-to-target), matching the
// teacher's own AlternativeRouteXCHV scope of a single origin/destination
// pair rather than a multi-waypoint chain.
type AlternativeResult struct {
	Distance float64
	Duration float64
	Geometry leg.LegGeometry
}

// TableQuery is §6's table operation parameters: an independent
// sources/targets split over the same coordinate pool, as OSRM's own
// table service allows.
type TableQuery struct {
	Waypoints []WaypointQuery
	Sources   []int // indices into Waypoints; empty means "all"
	Targets   []int
}

type TableResult struct {
	Durations [][]float64
}

// NearestQuery is §6's nearest operation parameters.
type NearestQuery struct {
	Coordinate
	Number int // how many candidates to return
}

type NearestResult struct {
	Phantoms []graph.PhantomEndpoint
	Names    []string
}

// MatchQuery is §6's match operation parameters: an ordered GPS trace.
type MatchQuery struct {
	Trace []matching.TracePoint
}

type MatchResult struct {
	SubMatches []matching.SubMatch
}

// TripQuery is §6's trip operation parameters.
type TripQuery struct {
	Waypoints  []WaypointQuery
	Roundtrip  bool
	FixedStart bool
	StartIndex int
	FixedEnd   bool
	EndIndex   int
}

type TripResult struct {
	Order    []int
	Distance float64
}

// Service is the capability interface apiserver's handlers depend on,
// the way MapMatchingHandler depends on MapMatchingService rather than a
// concrete engine type — letting handler tests fake it without standing
// up a real graph.
type Service interface {
	Route(ctx context.Context, q RouteQuery) (RouteResult, error)
	Table(ctx context.Context, q TableQuery) (TableResult, error)
	Nearest(ctx context.Context, q NearestQuery) (NearestResult, error)
	Match(ctx context.Context, q MatchQuery) (MatchResult, error)
	Trip(ctx context.Context, q TripQuery) (TripResult, error)
	Tile(ctx context.Context, z, x, y int) (TileResult, error)
}

const defaultSnapRadiusMeters = 1000.0
const defaultNearestCandidates = 1

// Engine is the production Service: it resolves every waypoint through
// the spatial index (or a hint, when supplied) and drives the query
// components (C4 chsearch, C5 matrix, C6 matching, C7 trip, C8 leg, C9
// guidance) the way cmd/engine/main.go wires routingalgorithm/hungarian/
// heuristics into service.NewNavigationService.
type Engine struct {
	Facade  facade.DataFacade
	Index   *spatial.Index
	Matcher *matching.Matcher
}

func NewEngine(f facade.DataFacade, index *spatial.Index, matcher *matching.Matcher) *Engine {
	return &Engine{Facade: f, Index: index, Matcher: matcher}
}

func (e *Engine) resolve(w WaypointQuery) (graph.PhantomEndpoint, error) {
	if w.Hint != "" {
		p, err := hint.Decode(w.Hint, e.Facade.Checksum(), func(edgeID int32) int32 {
			return e.Facade.GetEdgeData(edgeID).GeometryID
		})
		if err == nil {
			return p, nil
		}
		// fall through to a fresh snap if the hint no longer applies
		// (checksum mismatch after a hot-swap, most commonly).
	}

	radius := w.Radius
	if radius <= 0 {
		radius = defaultSnapRadiusMeters
	}
	candidates := e.Index.NearestPhantomNodes(w.Lat, w.Lon, defaultNearestCandidates, radius, w.Bearing, w.BearingRange, w.HasBearing)
	if len(candidates) == 0 {
		return graph.PhantomEndpoint{}, spatial.ErrNoSegment
	}
	return candidates[0], nil
}

func (e *Engine) resolveAll(ws []WaypointQuery) ([]graph.PhantomEndpoint, error) {
	out := make([]graph.PhantomEndpoint, len(ws))
	for i, w := range ws {
		p, err := e.resolve(w)
		if err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Route implements §6's route operation over a sequence of waypoints,
// chaining one chsearch.RoutePhantoms + leg.Assemble per consecutive
// pair, matching the teacher's per-leg accumulation in
// routingalgorithm.ShortestPathBiDijkstraCH's multi-waypoint callers.
func (e *Engine) Route(ctx context.Context, q RouteQuery) (RouteResult, error) {
	if len(q.Waypoints) < 2 {
		return RouteResult{}, fmt.Errorf("%w: route requires at least 2 coordinates", ErrInvalidInput)
	}
	phantoms, err := e.resolveAll(q.Waypoints)
	if err != nil {
		return RouteResult{}, err
	}

	search := chsearch.New(e.Facade)

	var result RouteResult
	for i := 0; i+1 < len(phantoms); i++ {
		search.Reset()
		source, target := phantoms[i], phantoms[i+1]
		route, err := search.RoutePhantoms(source, target)
		if err != nil {
			return RouteResult{}, err
		}

		legGeom := leg.Assemble(e.Facade, source, target, route.Edges)
		result.Distance += legGeom.Distance
		result.Duration += legGeom.Duration
		result.Geometry.Coordinates = append(result.Geometry.Coordinates, legGeom.Geometry.Coordinates...)

		if q.Steps {
			result.Legs = append(result.Legs, guidance.PostProcess(e.Facade, source, target, route.Edges, legGeom.Geometry))
		}

		if q.Alternatives && len(phantoms) == 2 {
			search.Reset()
			alts, err := search.Alternatives(source, target, 0)
			if err == nil {
				for _, a := range alts {
					if a.ViaNode == -1 {
						continue
					}
					altGeom := leg.Assemble(e.Facade, source, target, a.Edges)
					result.Alternatives = append(result.Alternatives, AlternativeResult{
						Distance: altGeom.Distance,
						Duration: altGeom.Duration,
						Geometry: altGeom.Geometry,
					})
				}
			}
		}
	}
	return result, nil
}

// Table implements §6's table operation, defaulting sources/targets to
// the full waypoint list per OSRM convention when either is omitted.
func (e *Engine) Table(ctx context.Context, q TableQuery) (TableResult, error) {
	if len(q.Waypoints) == 0 {
		return TableResult{}, fmt.Errorf("%w: table requires at least 1 coordinate", ErrInvalidInput)
	}
	phantoms, err := e.resolveAll(q.Waypoints)
	if err != nil {
		return TableResult{}, err
	}

	sourceIdx, targetIdx := q.Sources, q.Targets
	if len(sourceIdx) == 0 {
		sourceIdx = identityIndices(len(phantoms))
	}
	if len(targetIdx) == 0 {
		targetIdx = identityIndices(len(phantoms))
	}

	sources := selectPhantoms(phantoms, sourceIdx)
	targets := selectPhantoms(phantoms, targetIdx)
	return TableResult{Durations: matrix.Many(e.Facade, sources, targets)}, nil
}

func identityIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func selectPhantoms(all []graph.PhantomEndpoint, idx []int) []graph.PhantomEndpoint {
	out := make([]graph.PhantomEndpoint, len(idx))
	for i, j := range idx {
		out[i] = all[j]
	}
	return out
}

// Nearest implements §6's nearest operation.
func (e *Engine) Nearest(ctx context.Context, q NearestQuery) (NearestResult, error) {
	n := q.Number
	if n <= 0 {
		n = 1
	}
	candidates := e.Index.NearestPhantomNodes(q.Lat, q.Lon, n, defaultSnapRadiusMeters, 0, 0, false)
	if len(candidates) == 0 {
		return NearestResult{}, spatial.ErrNoSegment
	}
	names := make([]string, len(candidates))
	for i, p := range candidates {
		names[i] = e.Facade.GetNameForID(p.NameID)
	}
	return NearestResult{Phantoms: candidates, Names: names}, nil
}

// Match implements §6's match operation via the HMM matcher (C6).
func (e *Engine) Match(ctx context.Context, q MatchQuery) (MatchResult, error) {
	subs, err := e.Matcher.MapMatch(q.Trace)
	if err != nil {
		return MatchResult{}, err
	}
	return MatchResult{SubMatches: subs}, nil
}

// Trip implements §6's trip operation: resolve waypoints, build the
// weight matrix (C5) and hand it to the TSP solver (C7).
func (e *Engine) Trip(ctx context.Context, q TripQuery) (TripResult, error) {
	if len(q.Waypoints) < 2 {
		return TripResult{}, fmt.Errorf("%w: trip requires at least 2 coordinates", ErrInvalidInput)
	}
	phantoms, err := e.resolveAll(q.Waypoints)
	if err != nil {
		return TripResult{}, err
	}

	m := matrix.Many(e.Facade, phantoms, phantoms)
	result := trip.Solve(m, trip.Options{
		Roundtrip:  q.Roundtrip,
		FixedStart: q.FixedStart,
		StartIndex: q.StartIndex,
		FixedEnd:   q.FixedEnd,
		EndIndex:   q.EndIndex,
	})
	return TripResult{Order: result.Order, Distance: result.Weight}, nil
}
