package apiserver

import (
	"context"
	"fmt"
	"math"

	polyline "github.com/twpayne/go-polyline"

	"github.com/zummach/osrm/internal/spatial"
)

// TileEdge is one road segment overlapping a requested tile, carried as
// an encoded overview polyline rather than a raw coordinate list to keep
// the thin tile endpoint's payload small (§12's supplemented "tile
// operation as thin apiserver endpoint" feature — no teacher or pack
// repo serves vector tiles, so the wire shape here is this module's own,
// built on top of spatial's existing R-tree bbox search rather than a
// new spatial structure).
type TileEdge struct {
	EdgeID   int32  `json:"edge_id"`
	Forward  bool   `json:"forward"`
	Polyline string `json:"polyline"`
}

type TileResult struct {
	Edges []TileEdge `json:"edges"`
}

// Tile implements §12's tile operation: every indexed road segment whose
// bounding box overlaps the standard XYZ slippy-map tile (z, x, y).
func (e *Engine) Tile(ctx context.Context, z, x, y int) (TileResult, error) {
	box, err := tileBounds(z, x, y)
	if err != nil {
		return TileResult{}, err
	}

	leaves := e.Index.Tree().Search(box)
	out := make([]TileEdge, 0, len(leaves))
	for _, l := range leaves {
		coords := [][]float64{{l.FromLat, l.FromLon}, {l.ToLat, l.ToLon}}
		out = append(out, TileEdge{
			EdgeID:   l.EdgeID,
			Forward:  l.Forward,
			Polyline: string(polyline.EncodeCoords(coords)),
		})
	}
	return TileResult{Edges: out}, nil
}

// tileBounds converts a standard Web Mercator XYZ tile address into a
// lat/lon bounding box, the inverse of the usual lon/lat->tile formula.
func tileBounds(z, x, y int) (spatial.BoundingBox, error) {
	if z < 0 || z > 22 {
		return spatial.BoundingBox{}, fmt.Errorf("%w: tile zoom %d out of range", ErrInvalidInput, z)
	}
	n := math.Exp2(float64(z))
	if x < 0 || float64(x) >= n || y < 0 || float64(y) >= n {
		return spatial.BoundingBox{}, fmt.Errorf("%w: tile %d/%d/%d out of range", ErrInvalidInput, z, x, y)
	}

	lonAt := func(xf float64) float64 { return xf/n*360.0 - 180.0 }
	latAt := func(yf float64) float64 {
		rad := math.Atan(math.Sinh(math.Pi * (1 - 2*yf/n)))
		return rad * 180.0 / math.Pi
	}

	minLon, maxLon := lonAt(float64(x)), lonAt(float64(x+1))
	maxLat, minLat := latAt(float64(y)), latAt(float64(y+1))

	return spatial.BoundingBox{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}, nil
}
