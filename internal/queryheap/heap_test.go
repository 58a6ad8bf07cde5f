package queryheap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapSortedExtraction(t *testing.T) {
	const n = 2000
	h := New[int32](n)

	for i := int32(0); i < n; i++ {
		h.Insert(i, float64(rand.Intn(100000)), i)
	}

	require.Equal(t, n, h.Size())

	prev := -1.0
	for !h.Empty() {
		_, key := h.DeleteMin()
		require.GreaterOrEqual(t, key, prev)
		prev = key
	}
}

func TestHeapDecreaseKey(t *testing.T) {
	h := New[int32](8)
	for i := int32(0); i < 8; i++ {
		h.Insert(i, 1000, i)
	}
	h.DecreaseKey(5, 1, 5)

	node, key := h.DeleteMin()
	require.Equal(t, int32(5), node)
	require.Equal(t, 1.0, key)
}

func TestHeapClearReusesCapacity(t *testing.T) {
	h := New[int32](4)
	h.Insert(0, 1, 0)
	h.Insert(1, 2, 1)
	require.True(t, h.WasInserted(0))

	h.Clear()
	require.False(t, h.WasInserted(0))
	require.True(t, h.Empty())

	h.Insert(2, 5, 2)
	require.Equal(t, 1, h.Size())
}

func TestNegativeKeysAllowed(t *testing.T) {
	h := New[int32](2)
	h.Insert(0, -5.0, 0)
	h.Insert(1, 3.0, 1)

	node, key := h.DeleteMin()
	require.Equal(t, int32(0), node)
	require.Equal(t, -5.0, key)
}
