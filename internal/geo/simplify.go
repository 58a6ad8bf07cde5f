package geo

import (
	"container/list"
	"math"

	"github.com/zummach/osrm/internal/graph"
)

// DouglasPeuckerThresholdMeters is the teacher's simplification tolerance
// (pkg/geo/helper.go DOUGLAS_PEUCKER_THRESHOLDS), used when collapsing
// leg geometry into the overview polyline of §4.8.
const DouglasPeuckerThresholdMeters = 7.0

// PointLinePerpendicularDistance is the perpendicular distance in meters
// from point p to the line through a and b, via an equirectangular
// projection valid at road-network scales. The teacher's helper.go calls
// this function but its body is absent from the retrieved tree; this is
// the standard point-to-line distance used for polyline simplification.
func PointLinePerpendicularDistance(a, b, p graph.Coordinate) float64 {
	toXY := func(c graph.Coordinate) (float64, float64) {
		x := toRad(c.Lon) * math.Cos(toRad(a.Lat)) * earthRadiusM
		y := toRad(c.Lat) * earthRadiusM
		return x, y
	}
	ax, ay := toXY(a)
	bx, by := toXY(b)
	px, py := toXY(p)

	dx, dy := bx-ax, by-ay
	if dx == 0 && dy == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	projX, projY := ax+t*dx, ay+t*dy
	return math.Hypot(px-projX, py-projY)
}

// SimplifyDouglasPeucker collapses coords to its topologically significant
// subset, ported from the teacher's RamesDouglasPeucker.
func SimplifyDouglasPeucker(coords []graph.Coordinate) []graph.Coordinate {
	size := len(coords)
	if size < 2 {
		return coords
	}

	kept := make([]bool, size)
	kept[0], kept[size-1] = true, true

	stack := list.New()
	stack.PushBack([2]int{0, size - 1})

	for stack.Len() > 0 {
		pair := stack.Remove(stack.Back()).([2]int)
		left, right := pair[0], pair[1]
		var maxDist float64
		farthest := left

		for i := left + 1; i < right; i++ {
			dist := PointLinePerpendicularDistance(coords[left], coords[right], coords[i])
			if dist > maxDist && dist > DouglasPeuckerThresholdMeters {
				maxDist = dist
				farthest = i
			}
		}

		if maxDist > DouglasPeuckerThresholdMeters {
			kept[farthest] = true
			if left < farthest {
				stack.PushBack([2]int{left, farthest})
			}
			if farthest < right {
				stack.PushBack([2]int{farthest, right})
			}
		}
	}

	out := make([]graph.Coordinate, 0, size)
	for i, keep := range kept {
		if keep {
			out = append(out, coords[i])
		}
	}
	return out
}
