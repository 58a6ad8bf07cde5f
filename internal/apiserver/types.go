package apiserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/zummach/osrm/internal/matching"
)

// Coord is the wire representation of a coordinate, the teacher's
// mm_rest.Coord generalized with the optional per-point knobs §6's route/
// table/trip/nearest operations share (bearing filter, radius override,
// a previously-issued hint string).
type Coord struct {
	Lat          float64  `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon          float64  `json:"lon" validate:"required,lt=180,gt=-180"`
	Bearing      *float64 `json:"bearing,omitempty" validate:"omitempty,gte=0,lt=360"`
	BearingRange float64  `json:"bearing_range,omitempty" validate:"omitempty,gte=0,lte=180"`
	Radius       float64  `json:"radius,omitempty" validate:"omitempty,gt=0"`
	Hint         string   `json:"hint,omitempty"`
}

func (c Coord) toWaypointQuery() WaypointQuery {
	w := WaypointQuery{
		Coordinate: Coordinate{Lat: c.Lat, Lon: c.Lon},
		Radius:     c.Radius,
		Hint:       c.Hint,
	}
	if c.Bearing != nil {
		w.HasBearing = true
		w.Bearing = *c.Bearing
		w.BearingRange = c.BearingRange
	}
	return w
}

func toWaypointQueries(coords []Coord) []WaypointQuery {
	out := make([]WaypointQuery, len(coords))
	for i, c := range coords {
		out[i] = c.toWaypointQuery()
	}
	return out
}

// RouteRequest model info
//
//	@Description	request body for a route query
type RouteRequest struct {
	Coordinates  []Coord `json:"coordinates" validate:"required,min=2,dive"`
	Steps        bool    `json:"steps,omitempty"`
	Alternatives bool    `json:"alternatives,omitempty"`
}

func (req *RouteRequest) Bind(r *http.Request) error {
	if len(req.Coordinates) < 2 {
		return errors.New("route requires at least 2 coordinates")
	}
	return nil
}

// RouteResponse model info
//
//	@Description	response body for a route query
type RouteResponse struct {
	Distance     float64                `json:"distance"`
	Duration     float64                `json:"duration"`
	Geometry     []LatLon               `json:"geometry"`
	Legs         []RouteLegSteps        `json:"legs,omitempty"`
	Alternatives []AlternativeRouteView `json:"alternatives,omitempty"`
}

type AlternativeRouteView struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Geometry []LatLon `json:"geometry"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type RouteLegSteps struct {
	Steps []RouteStepView `json:"steps"`
}

type RouteStepView struct {
	Type         string  `json:"type"`
	Modifier     string  `json:"modifier,omitempty"`
	Name         string  `json:"name,omitempty"`
	Distance     float64 `json:"distance"`
	Duration     float64 `json:"duration"`
	ExitNumber   int     `json:"exit_number,omitempty"`
	RotaryName   string  `json:"rotary_name,omitempty"`
}

func renderRoute(res RouteResult) *RouteResponse {
	out := &RouteResponse{Distance: res.Distance, Duration: res.Duration}
	for _, c := range res.Geometry.Coordinates {
		out.Geometry = append(out.Geometry, LatLon{Lat: c.Lat, Lon: c.Lon})
	}
	for _, leg := range res.Legs {
		var steps []RouteStepView
		for _, s := range leg.Steps {
			steps = append(steps, RouteStepView{
				Type:       s.Maneuver.Type.String(),
				Modifier:   s.Maneuver.Modifier.String(),
				Name:       s.Name,
				Distance:   s.Distance,
				Duration:   s.Duration,
				ExitNumber: s.Maneuver.ExitNumber,
				RotaryName: s.RotaryName,
			})
		}
		out.Legs = append(out.Legs, RouteLegSteps{Steps: steps})
	}
	for _, alt := range res.Alternatives {
		view := AlternativeRouteView{Distance: alt.Distance, Duration: alt.Duration}
		for _, c := range alt.Geometry.Coordinates {
			view.Geometry = append(view.Geometry, LatLon{Lat: c.Lat, Lon: c.Lon})
		}
		out.Alternatives = append(out.Alternatives, view)
	}
	return out
}

// TableRequest model info
//
//	@Description	request body for a many-to-many duration table query
type TableRequest struct {
	Coordinates []Coord `json:"coordinates" validate:"required,min=1,dive"`
	Sources     []int   `json:"sources,omitempty"`
	Targets     []int   `json:"targets,omitempty"`
}

func (req *TableRequest) Bind(r *http.Request) error {
	if len(req.Coordinates) == 0 {
		return errors.New("table requires at least 1 coordinate")
	}
	return nil
}

type TableResponse struct {
	Durations [][]float64 `json:"durations"`
}

// NearestRequest model info
//
//	@Description	request body for a nearest-road-segment query
type NearestRequest struct {
	Lat    float64 `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon    float64 `json:"lon" validate:"required,lt=180,gt=-180"`
	Number int     `json:"number,omitempty" validate:"omitempty,gt=0"`
}

func (req *NearestRequest) Bind(r *http.Request) error {
	if req.Lat == 0 && req.Lon == 0 {
		return errors.New("invalid coordinate")
	}
	return nil
}

type NearestResponse struct {
	Waypoints []NearestWaypoint `json:"waypoints"`
}

type NearestWaypoint struct {
	Location LatLon `json:"location"`
	Name     string `json:"name"`
}

func renderNearest(res NearestResult) *NearestResponse {
	out := &NearestResponse{}
	for i, p := range res.Phantoms {
		out.Waypoints = append(out.Waypoints, NearestWaypoint{
			Location: LatLon{Lat: p.Location.Lat, Lon: p.Location.Lon},
			Name:     res.Names[i],
		})
	}
	return out
}

// MatchRequest model info
//
//	@Description	request body for a map-matching query
type MatchRequest struct {
	Coordinates []Coord    `json:"coordinates" validate:"required,min=2,dive"`
	Timestamps  []int64    `json:"timestamps,omitempty"`
	Radiuses    []float64  `json:"radiuses,omitempty"`
}

func (req *MatchRequest) Bind(r *http.Request) error {
	if len(req.Coordinates) < 2 {
		return errors.New("match requires at least 2 coordinates")
	}
	if len(req.Timestamps) != 0 && len(req.Timestamps) != len(req.Coordinates) {
		return errors.New("timestamps must match coordinates length")
	}
	return nil
}

func (req *MatchRequest) toTrace() []matching.TracePoint {
	trace := make([]matching.TracePoint, len(req.Coordinates))
	for i, c := range req.Coordinates {
		tp := matching.TracePoint{Lat: c.Lat, Lon: c.Lon}
		if len(req.Radiuses) == len(req.Coordinates) {
			tp.Radius = req.Radiuses[i]
		}
		if len(req.Timestamps) == len(req.Coordinates) {
			tp.Timestamp = time.Unix(req.Timestamps[i], 0)
			tp.HasTimestamp = true
		}
		trace[i] = tp
	}
	return trace
}

type MatchResponse struct {
	Matchings []MatchedLeg `json:"matchings"`
}

type MatchedLeg struct {
	Indices  []int    `json:"indices"`
	Geometry []LatLon `json:"geometry"`
}

func renderMatch(res MatchResult) *MatchResponse {
	out := &MatchResponse{}
	for _, sub := range res.SubMatches {
		leg := MatchedLeg{Indices: sub.TraceIndices}
		for _, p := range sub.Phantoms {
			leg.Geometry = append(leg.Geometry, LatLon{Lat: p.Location.Lat, Lon: p.Location.Lon})
		}
		out.Matchings = append(out.Matchings, leg)
	}
	return out
}

// TripRequest model info
//
//	@Description	request body for a traveling-salesman trip query
type TripRequest struct {
	Coordinates []Coord `json:"coordinates" validate:"required,min=2,dive"`
	Roundtrip   bool    `json:"roundtrip,omitempty"`
	Source      string  `json:"source,omitempty" validate:"omitempty,oneof=any first"`
	Destination string  `json:"destination,omitempty" validate:"omitempty,oneof=any last"`
}

func (req *TripRequest) Bind(r *http.Request) error {
	if len(req.Coordinates) < 2 {
		return errors.New("trip requires at least 2 coordinates")
	}
	return nil
}

func (req *TripRequest) toQuery() TripQuery {
	q := TripQuery{
		Waypoints: toWaypointQueries(req.Coordinates),
		Roundtrip: req.Roundtrip,
	}
	if req.Source == "first" {
		q.FixedStart = true
		q.StartIndex = 0
	}
	if req.Destination == "last" {
		q.FixedEnd = true
		q.EndIndex = len(req.Coordinates) - 1
	}
	return q
}

type TripResponse struct {
	WaypointOrder []int   `json:"waypoint_order"`
	Distance      float64 `json:"distance"`
}
