package hotswap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurrentReturnsErrNoSnapshotBeforeFirstSwap(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Current()
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSwapPublishesAndPersistsTriple(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	err = c.Swap(&Snapshot{Triple: Triple{LayoutGen: 1, DataGen: 1, Timestamp: "2026-08-02T00:00:00Z"}})
	require.NoError(t, err)

	snap, err := c.Current()
	require.NoError(t, err)
	require.Equal(t, int64(1), snap.DataGen)

	err = c.Swap(&Snapshot{Triple: Triple{LayoutGen: 1, DataGen: 2, Timestamp: "2026-08-02T01:00:00Z"}})
	require.NoError(t, err)

	snap2, err := c.Current()
	require.NoError(t, err)
	require.Equal(t, int64(2), snap2.DataGen)
	require.NotSame(t, snap, snap2, "Swap must publish a new pointer, never mutate the one in-flight readers hold")
}

func TestReopenLoadsPersistedTriple(t *testing.T) {
	dir := t.TempDir()

	c1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c1.Swap(&Snapshot{Triple: Triple{LayoutGen: 3, DataGen: 5, Timestamp: "ts"}}))
	require.NoError(t, c1.Close())

	c2, err := Open(dir)
	require.NoError(t, err)
	defer c2.Close()

	snap, err := c2.Current()
	require.NoError(t, err)
	require.Equal(t, int64(5), snap.DataGen)
}
