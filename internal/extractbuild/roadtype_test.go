package extractbuild

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcceptWaySkipsFootway(t *testing.T) {
	require.False(t, acceptWay("footway", "", ""))
	require.True(t, acceptWay("residential", "", ""))
	require.True(t, acceptWay("", "road", ""))
	require.True(t, acceptWay("", "", "roundabout"))
	require.False(t, acceptWay("", "", ""))
}

func TestDefaultSpeedForHighway(t *testing.T) {
	require.Equal(t, 100.0, defaultSpeedForHighway("motorway"))
	require.Equal(t, defaultRoadSpeedKMH, defaultSpeedForHighway("unknown_tag"))
}

func TestParseMaxspeedUnits(t *testing.T) {
	v, ok := parseMaxspeed("50")
	require.True(t, ok)
	require.Equal(t, 50.0, v)

	v, ok = parseMaxspeed("30 mph")
	require.True(t, ok)
	require.InDelta(t, 48.2802, v, 0.001)

	v, ok = parseMaxspeed("60 km/h")
	require.True(t, ok)
	require.Equal(t, 60.0, v)

	_, ok = parseMaxspeed("walk")
	require.False(t, ok)
}

func TestIsRestrictedAccess(t *testing.T) {
	require.True(t, isRestrictedAccess("no"))
	require.True(t, isRestrictedAccess("private"))
	require.False(t, isRestrictedAccess("yes"))
	require.False(t, isRestrictedAccess(""))
}
