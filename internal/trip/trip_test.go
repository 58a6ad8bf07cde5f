package trip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// square is a 4-point unit square with diagonal weight 2; the optimal
// roundtrip visits the perimeter (weight 4), never crossing the diagonals
// (weight 2+1+2+1 = 6).
func square() [][]float64 {
	return [][]float64{
		{0, 1, 2, 1},
		{1, 0, 1, 2},
		{2, 1, 0, 1},
		{1, 2, 1, 0},
	}
}

func TestSolveRoundtripFindsPerimeterTour(t *testing.T) {
	res := Solve(square(), Options{Roundtrip: true})
	require.Len(t, res.Order, 4)
	require.InDelta(t, 4.0, res.Weight, 1e-9)
}

func TestSolveSingleNode(t *testing.T) {
	res := Solve([][]float64{{0}}, Options{})
	require.Equal(t, []int{0}, res.Order)
	require.Equal(t, 0.0, res.Weight)
}

func TestSolveEmptyMatrix(t *testing.T) {
	res := Solve(nil, Options{})
	require.Nil(t, res.Order)
}
