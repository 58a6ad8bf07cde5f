package guidance

import "github.com/zummach/osrm/internal/leg"

// ResyncGeometry implements §4.9 Step 8: after collapse has merged and
// dropped steps, the leg's per-segment offset table (built assuming one
// entry per original edge) no longer lines up with the final step list.
// This rebuilds it so offsets[i] is the geometry index where step i
// begins, with a trailing sentinel closing the last step's span —
// satisfying |segment_offsets|-1 == |steps| and offset-delta ==
// step geometry span (Testable Property 8).
func ResyncGeometry(steps []RouteStep, geometry leg.LegGeometry) leg.LegGeometry {
	offsets := make([]int, 0, len(steps)+1)
	for _, s := range steps {
		offsets = append(offsets, s.GeometryBegin)
	}
	if len(steps) > 0 {
		offsets = append(offsets, steps[len(steps)-1].GeometryEnd)
	} else {
		offsets = append(offsets, 0)
	}
	geometry.SegmentOffsets = offsets
	return geometry
}
