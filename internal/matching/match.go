package matching

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/geo"
	"github.com/zummach/osrm/internal/graph"
	"github.com/zummach/osrm/internal/spatial"
)

// ErrEmptyTrace is returned when MapMatch is given no trace points.
var ErrEmptyTrace = errors.New("matching: empty trace")

// TracePoint is one observed GPS fix (§4.6's "ordered trace of
// (coordinate, optional timestamp, optional accuracy radius)").
type TracePoint struct {
	Lat, Lon     float64
	Timestamp    time.Time
	HasTimestamp bool
	Radius       float64 // meters; accuracy-derived candidate search radius
}

// Candidate is one hidden-state candidate at a trace point: a phantom
// snap plus its distance from the observation, mirroring the teacher's
// ViterbiNode/State fused into one value carrying its own phantom.
type Candidate struct {
	ID           int
	Phantom      graph.PhantomEndpoint
	SnapDistance float64
}

// SubMatch is one unbroken run of matched trace points, the unit §4.6
// says the trace is split into at "broken" transitions.
type SubMatch struct {
	TraceIndices []int
	Phantoms     []graph.PhantomEndpoint
}

const (
	defaultCandidatesPerPoint = 5
	maxTransitionDistMeters   = 15000.0
	defaultSearchRadiusMeters = 50.0
)

// Matcher runs §4.6's HMM map-matching using a spatial index for
// candidate generation and one chsearch.Search per unbroken run, reused
// for every transition's route-weight lookup in that run.
type Matcher struct {
	index *spatial.Index
	f     facade.DataFacade
	cache *H3CandidateCache // optional, widens sparse candidate sets
}

func NewMatcher(index *spatial.Index, f facade.DataFacade, cache *H3CandidateCache) *Matcher {
	return &Matcher{index: index, f: f, cache: cache}
}

// MapMatch implements §4.6 end to end: candidate collection, HMM
// construction, Viterbi decoding, and break-driven splitting into
// sub-matches, each ready for §4.8/§4.9 leg assembly.
func (m *Matcher) MapMatch(trace []TracePoint) ([]SubMatch, error) {
	if len(trace) == 0 {
		return nil, ErrEmptyTrace
	}

	candidateLists := make([][]Candidate, len(trace))
	nextID := 0
	for i, pt := range trace {
		candidateLists[i] = m.collectCandidates(pt, &nextID)
	}

	var subMatches []SubMatch
	start := 0
	for start < len(trace) {
		if len(candidateLists[start]) == 0 {
			start++
			continue
		}
		sub, consumed := m.matchRun(trace, candidateLists, start)
		if len(sub.TraceIndices) > 0 {
			subMatches = append(subMatches, sub)
		}
		start += consumed
	}

	return subMatches, nil
}

// matchRun runs the Viterbi forward pass starting at trace index `start`
// until either the trace ends or a transition breaks (§4.6: "split the
// trace into sub-matches at points where all transitions exceed a broken
// threshold"), returning the sub-match and how many observations it
// consumed.
func (m *Matcher) matchRun(trace []TracePoint, candidateLists [][]Candidate, start int) (SubMatch, int) {
	search := chsearch.New(m.f)

	v := NewViterbi(candidateLists[start])
	indices := []int{start}

	i := start + 1
	for ; i < len(trace); i++ {
		if len(candidateLists[i]) == 0 {
			break
		}
		linear := geo.HaversineMeters(trace[i-1].Lat, trace[i-1].Lon, trace[i].Lat, trace[i].Lon)

		ok := v.Step(candidateLists[i], func(from, to Candidate) (float64, bool) {
			route, err := search.RoutePhantoms(from.Phantom, to.Phantom)
			if err != nil {
				return 0, false
			}
			routeWeight := route.Weight
			if math.Abs(routeWeight-linear) >= maxTransitionDistMeters {
				return 0, false
			}
			return transitionLogProb(routeWeight, linear), true
		})
		if !ok {
			break
		}
		indices = append(indices, i)
	}

	seq := v.MostLikelySequence()
	phantoms := make([]graph.PhantomEndpoint, len(seq))
	for j, c := range seq {
		phantoms[j] = c.Phantom
	}

	consumed := i - start
	if consumed == 0 {
		consumed = 1
	}
	return SubMatch{TraceIndices: indices, Phantoms: phantoms}, consumed
}

func (m *Matcher) collectCandidates(pt TracePoint, nextID *int) []Candidate {
	radius := pt.Radius
	if radius <= 0 {
		radius = defaultSearchRadiusMeters
	}
	phantoms := m.index.NearestPhantomNodesInRange(pt.Lat, pt.Lon, radius, 0, 0, false)
	if len(phantoms) > defaultCandidatesPerPoint*4 {
		phantoms = phantoms[:defaultCandidatesPerPoint*4]
	}
	if m.cache != nil && len(phantoms) < defaultCandidatesPerPoint {
		phantoms = append(phantoms, m.cache.Widen(pt.Lat, pt.Lon, radius)...)
	}

	out := make([]Candidate, 0, len(phantoms))
	for _, p := range phantoms {
		dist := geo.HaversineMeters(pt.Lat, pt.Lon, p.Location.Lat, p.Location.Lon)
		out = append(out, Candidate{ID: *nextID, Phantom: p, SnapDistance: dist})
		*nextID++
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SnapDistance < out[j].SnapDistance })
	if len(out) > defaultCandidatesPerPoint {
		out = out[:defaultCandidatesPerPoint]
	}
	return out
}
