package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/graph"
)

func TestHaversineMetersKnownDistance(t *testing.T) {
	// Jakarta to Bandung, roughly 118km as the crow flies.
	d := HaversineMeters(-6.2088, 106.8456, -6.9175, 107.6191)
	assert.InDelta(t, 118000, d, 6000)
}

func TestBearingToCardinalDirections(t *testing.T) {
	assert.InDelta(t, 0, BearingTo(0, 0, 1, 0), 1)
	assert.InDelta(t, 90, BearingTo(0, 0, 0, 1), 1)
	assert.InDelta(t, 180, BearingTo(0, 0, -1, 0), 1)
	assert.InDelta(t, 270, BearingTo(0, 0, 0, -1), 1)
}

func TestClassifyTurnStraightAhead(t *testing.T) {
	prevOrientation := CalcOrientation(0, 0, 0, 1)
	dir := ClassifyTurn(0, 1, 0, 2, prevOrientation)
	require.Equal(t, ContinueOnStreet, dir)
}

func TestClassifyTurnSharpRight(t *testing.T) {
	prevOrientation := CalcOrientation(0, 0, 0, 1)
	dir := ClassifyTurn(0, 1, -1, 1, prevOrientation)
	assert.Contains(t, []TurnDirection{TurnRight, TurnSharpRight}, dir)
}

func TestSimplifyDouglasPeuckerCollapsesStraightLine(t *testing.T) {
	coords := []graph.Coordinate{
		graph.NewCoordinate(0, 0),
		graph.NewCoordinate(0, 0.0001),
		graph.NewCoordinate(0, 0.0002),
		graph.NewCoordinate(0, 0.0003),
	}
	out := SimplifyDouglasPeucker(coords)
	assert.Equal(t, 2, len(out))
}

func TestSimplifyDouglasPeuckerKeepsSharpCorner(t *testing.T) {
	coords := []graph.Coordinate{
		graph.NewCoordinate(0, 0),
		graph.NewCoordinate(0, 0.01),
		graph.NewCoordinate(0.01, 0.01),
	}
	out := SimplifyDouglasPeucker(coords)
	assert.Equal(t, 3, len(out))
}
