package matching

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestViterbiPrefersCloserCandidate(t *testing.T) {
	near := Candidate{ID: 0, SnapDistance: 1}
	far := Candidate{ID: 1, SnapDistance: 50}

	v := NewViterbi([]Candidate{near, far})
	ok := v.Step([]Candidate{{ID: 2, SnapDistance: 1}, {ID: 3, SnapDistance: 50}}, func(from, to Candidate) (float64, bool) {
		return 0, true
	})
	require.True(t, ok)

	seq := v.MostLikelySequence()
	require.Len(t, seq, 2)
	require.Equal(t, 0, seq[0].ID)
	require.Equal(t, 2, seq[1].ID)
}

func TestViterbiReportsBreakWhenNoTransitionSurvives(t *testing.T) {
	v := NewViterbi([]Candidate{{ID: 0, SnapDistance: 1}})
	ok := v.Step([]Candidate{{ID: 1, SnapDistance: 1}}, func(from, to Candidate) (float64, bool) {
		return 0, false
	})
	require.False(t, ok)
}

func TestEmissionLogProbPeaksAtZeroDistance(t *testing.T) {
	require.Greater(t, emissionLogProb(0), emissionLogProb(10))
}

func TestTransitionLogProbPenalizesMismatch(t *testing.T) {
	exact := transitionLogProb(100, 100)
	mismatched := transitionLogProb(100, 500)
	require.Greater(t, exact, mismatched)
	require.False(t, math.IsNaN(exact))
}
