package guidance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zummach/osrm/internal/facade"
)

func validStep(mt facade.TurnType, name string, distance float64) RouteStep {
	s := newStep(mt, name, 0, 1)
	s.Distance = distance
	return s
}

func TestCollapseFoldsChoicelessNewName(t *testing.T) {
	steps := []RouteStep{
		newStep(facade.TurnNoTurn, "depart", 0, 1),
		validStep(facade.TurnTurn, "Elm Street", 200),
		validStep(facade.TurnNewName, "Elm Street Extension", 20),
		validStep(facade.TurnTurn, "Oak Avenue", 200),
		newStep(facade.TurnNoTurn, "arrive", 3, 4),
	}
	steps[0].isWaypoint = true
	steps[4].isWaypoint = true

	out := Collapse(steps)

	for _, s := range out {
		require.NotEqual(t, facade.TurnNewName, s.Maneuver.Type, "the NewName step should have folded into its predecessor")
	}
	require.Contains(t, namesOf(out), "Elm Street Extension")
}

func TestCollapseMergesNameOscillation(t *testing.T) {
	steps := []RouteStep{
		newStep(facade.TurnNoTurn, "depart", 0, 1),
		validStep(facade.TurnTurn, "Main Street", 40),
		validStep(facade.TurnTurn, "Bypass Loop", 35),
		validStep(facade.TurnTurn, "Main Street", 20),
		newStep(facade.TurnNoTurn, "arrive", 3, 4),
	}
	steps[0].isWaypoint = true
	steps[4].isWaypoint = true

	out := Collapse(steps)

	count := 0
	for _, s := range out {
		if s.Name == "Main Street" {
			count++
		}
	}
	require.Equal(t, 1, count, "the Main St -> Bypass -> Main St oscillation should merge into a single step")
}

func TestCollapseUseLaneDropsUninformativeLanes(t *testing.T) {
	steps := []RouteStep{
		validStep(facade.TurnTurn, "Main Street", 100),
		validStep(facade.TurnUseLane, "Main Street", 50),
	}
	steps[1].Intersections = []Intersection{{
		Lanes: []TurnLaneDescription{{Directions: []facade.DirectionModifier{facade.ModifierStraight}}},
	}}

	out := CollapseUseLane(steps)

	require.Len(t, out, 1)
	require.Equal(t, 150.0, out[0].Distance)
}

func TestCollapseUseLaneKeepsInformativeLanes(t *testing.T) {
	steps := []RouteStep{
		validStep(facade.TurnTurn, "Main Street", 100),
		validStep(facade.TurnUseLane, "Main Street", 50),
	}
	steps[1].Intersections = []Intersection{{
		Lanes: []TurnLaneDescription{{Directions: []facade.DirectionModifier{facade.ModifierRight}}},
	}}

	out := CollapseUseLane(steps)

	require.Len(t, out, 2)
}

func namesOf(steps []RouteStep) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}
