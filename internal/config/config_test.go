package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRouterFlagsRequiresBaseXorSharedMemory(t *testing.T) {
	_, err := ParseRouterFlags([]string{"--port", "5001"})
	require.ErrorIs(t, err, ErrUsage)

	_, err = ParseRouterFlags([]string{"--shared-memory", "mybase"})
	require.ErrorIs(t, err, ErrUsage)
}

func TestParseRouterFlagsAcceptsBaseOnly(t *testing.T) {
	cfg, err := ParseRouterFlags([]string{"--port", "6000", "--threads", "4", "mybase"})
	require.NoError(t, err)
	require.Equal(t, "mybase", cfg.Base)
	require.False(t, cfg.SharedMemory)
	require.Equal(t, 6000, cfg.Port)
	require.Equal(t, 4, cfg.Threads)
}

func TestParseRouterFlagsAcceptsSharedMemoryOnly(t *testing.T) {
	cfg, err := ParseRouterFlags([]string{"--shared-memory"})
	require.NoError(t, err)
	require.True(t, cfg.SharedMemory)
	require.Equal(t, "", cfg.Base)
}

func TestParseContractorFlagsValidatesCoreFraction(t *testing.T) {
	_, err := ParseContractorFlags([]string{"--core-fraction", "1.5", "mybase"})
	require.ErrorIs(t, err, ErrUsage)

	cfg, err := ParseContractorFlags([]string{"--core-fraction", "0.6", "mybase"})
	require.NoError(t, err)
	require.Equal(t, 0.6, cfg.CoreFraction)
}

func TestParseExtractorFlagsRequiresTwoArgs(t *testing.T) {
	_, err := ParseExtractorFlags([]string{"onlybase"})
	require.ErrorIs(t, err, ErrUsage)

	cfg, err := ParseExtractorFlags([]string{"mybase", "map.osm.pbf"})
	require.NoError(t, err)
	require.Equal(t, "mybase", cfg.Base)
	require.Equal(t, "map.osm.pbf", cfg.OSMFile)
}
