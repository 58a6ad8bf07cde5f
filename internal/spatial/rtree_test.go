package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridLeaves() []Leaf {
	leaves := make([]Leaf, 0, 100)
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			lat, lon := float64(i)*0.01, float64(j)*0.01
			leaves = append(leaves, Leaf{
				EdgeID:  int32(i*10 + j),
				Forward: true,
				FromLat: lat, FromLon: lon,
				ToLat: lat, ToLon: lon + 0.005,
				Bound: BoundingBox{MinLat: lat, MaxLat: lat, MinLon: lon, MaxLon: lon + 0.005},
			})
		}
	}
	return leaves
}

func TestBuildRtreeSize(t *testing.T) {
	tree := BuildRtree(gridLeaves())
	require.Equal(t, 100, tree.Size())
}

func TestNearestLeavesReturnsClosestFirst(t *testing.T) {
	tree := BuildRtree(gridLeaves())
	nearest := tree.NearestLeaves(0.051, 0.051, 3)
	require.Len(t, nearest, 3)
	assert.Equal(t, int32(55), nearest[0].EdgeID)
}

func TestSearchReturnsOverlappingLeaves(t *testing.T) {
	tree := BuildRtree(gridLeaves())
	hits := tree.Search(BoundingBox{MinLat: 0, MaxLat: 0.021, MinLon: 0, MaxLon: 0.021})
	assert.NotEmpty(t, hits)
	for _, h := range hits {
		assert.LessOrEqual(t, h.FromLat, 0.021)
	}
}

func TestEmptyTree(t *testing.T) {
	tree := BuildRtree(nil)
	assert.Equal(t, 0, tree.Size())
	assert.Empty(t, tree.NearestLeaves(0, 0, 5))
}
