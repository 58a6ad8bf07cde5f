// Package leg implements C8: turning an unpacked CH path into a
// LegGeometry plus per-segment metadata, ready for guidance (C9) to carve
// into RouteSteps. No teacher file builds this exact structure (the
// teacher returns a flat []datastructure.Coordinate from its routing
// algorithm and leaves segmentation to the caller); this module is
// grounded in the teacher's geometry-table accessors
// (pkg/datastructure/contracted_graph.go GetEdgePointsInBetween) and
// generalized into the segment-offset bookkeeping §4.8 requires.
package leg

import (
	"github.com/zummach/osrm/internal/chsearch"
	"github.com/zummach/osrm/internal/facade"
	"github.com/zummach/osrm/internal/geo"
	"github.com/zummach/osrm/internal/graph"
)

// LegGeometry is the flat coordinate list backing one leg (§4.8): the
// start phantom's snap, every interior via-node, and the end phantom's
// snap, plus the per-segment bookkeeping guidance refines.
type LegGeometry struct {
	Coordinates      []graph.Coordinate
	SegmentDistances []float64 // great-circle meters, one per coordinate pair
	SegmentNodeIDs   []int32   // surrogate OSM/via-node id, one per segment
	SegmentModes     []graph.TravelMode
	// SegmentOffsets partitions Coordinates into one interval per step;
	// initialized to identity (one coordinate pair per offset) and
	// refined by guidance's collapse passes (§4.9 Step 8).
	SegmentOffsets []int
}

// Leg is one source-to-target leg of a route: its geometry plus the
// aggregate distance/duration §4.8 requires.
type Leg struct {
	Geometry LegGeometry
	Distance float64 // meters
	Duration float64 // seconds
}

// Assemble builds a Leg from a source/target phantom pair and the
// unpacked V-edge sequence the CH search produced between them.
func Assemble(f facade.DataFacade, source, target graph.PhantomEndpoint, edges []chsearch.UnpackedEdge) Leg {
	geometry := LegGeometry{}
	geometry.Coordinates = append(geometry.Coordinates, source.Location)
	geometry.SegmentOffsets = append(geometry.SegmentOffsets, 0)

	totalWeight := 0.0

	for _, e := range edges {
		points := f.GetGeometry(f.GetEdgeData(e.EdgeID).GeometryID)
		mode := f.GetTravelModeForEdgeID(e.EdgeID)

		for _, p := range points {
			prev := geometry.Coordinates[len(geometry.Coordinates)-1]
			dist := geo.HaversineMeters(prev.Lat, prev.Lon, p.Coord.Lat, p.Coord.Lon)

			geometry.Coordinates = append(geometry.Coordinates, p.Coord)
			geometry.SegmentDistances = append(geometry.SegmentDistances, dist)
			geometry.SegmentNodeIDs = append(geometry.SegmentNodeIDs, p.ViaNode)
			geometry.SegmentModes = append(geometry.SegmentModes, mode)
			geometry.SegmentOffsets = append(geometry.SegmentOffsets, len(geometry.Coordinates)-1)
		}
		totalWeight += e.Weight
	}

	// close the geometry at the target's snap if the last unpacked point
	// didn't already land there (e.g. a direct loop-edge route).
	if last := geometry.Coordinates[len(geometry.Coordinates)-1]; last != target.Location {
		dist := geo.HaversineMeters(last.Lat, last.Lon, target.Location.Lat, target.Location.Lon)
		geometry.Coordinates = append(geometry.Coordinates, target.Location)
		geometry.SegmentDistances = append(geometry.SegmentDistances, dist)
		geometry.SegmentNodeIDs = append(geometry.SegmentNodeIDs, graph.InvalidNode)
		geometry.SegmentModes = append(geometry.SegmentModes, target.ForwardTravelMode)
		geometry.SegmentOffsets = append(geometry.SegmentOffsets, len(geometry.Coordinates)-1)
	}

	totalDistance := 0.0
	for _, d := range geometry.SegmentDistances {
		totalDistance += d
	}

	return Leg{
		Geometry: geometry,
		Distance: totalDistance,
		Duration: totalWeight / 10.0, // deci-seconds to seconds, per §4.8
	}
}
