package matching

import (
	"encoding/json"

	badger "github.com/dgraph-io/badger/v4"
	h3 "github.com/uber/h3-go/v4"

	"github.com/zummach/osrm/internal/graph"
)

// h3Resolution is chosen so a cell edge is roughly 175m on average, comfortably
// covering the typical GPS accuracy radii used as candidate search windows.
const h3Resolution = 9

// H3CandidateCache is a badger-backed index from H3 cell to the phantom
// snaps known to fall in that cell, consulted only when the live R-tree
// search under-fills a trace point's candidate set (sparse coverage near
// tile boundaries, or a deliberately small search radius). Grounded in
// the teacher's pkg/kv/kv_db.go embedded-badger pattern; the teacher has
// no H3 usage of its own, so the bucketing scheme is adopted from the
// rest of the retrieval pack's h3-go dependency.
type H3CandidateCache struct {
	db *badger.DB
}

// OpenH3CandidateCache opens (or creates) a badger store at dir.
func OpenH3CandidateCache(dir string) (*H3CandidateCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &H3CandidateCache{db: db}, nil
}

func (c *H3CandidateCache) Close() error { return c.db.Close() }

type cachedPhantom struct {
	EdgeID            int32   `json:"e"`
	ForwardEnabled    bool    `json:"fe"`
	BackwardEnabled   bool    `json:"be"`
	ForwardWeight     float64 `json:"fw"`
	BackwardWeight    float64 `json:"bw"`
	ForwardOffset     float64 `json:"fo"`
	BackwardOffset    float64 `json:"bo"`
	Lat, Lon          float64
	NameID            int
	GeometryID        int32
	ForwardTravelMode graph.TravelMode `json:"ftm"`
}

func cellKey(cell h3.Cell) []byte {
	return []byte(cell.String())
}

// Put indexes a phantom under its location's H3 cell, called during
// artifact build from the full phantom catalogue (every edge's midpoint).
func (c *H3CandidateCache) Put(p graph.PhantomEndpoint) error {
	cell := h3.LatLngToCell(h3.NewLatLng(p.Location.Lat, p.Location.Lon), h3Resolution)
	rec := cachedPhantom{
		EdgeID: p.Forward.EdgeID, ForwardEnabled: p.Forward.Enabled, BackwardEnabled: p.Backward.Enabled,
		ForwardWeight: p.Forward.Weight, BackwardWeight: p.Backward.Weight,
		ForwardOffset: p.Forward.Offset, BackwardOffset: p.Backward.Offset,
		Lat: p.Location.Lat, Lon: p.Location.Lon, NameID: p.NameID, GeometryID: p.GeometryID,
		ForwardTravelMode: p.ForwardTravelMode,
	}
	buf, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		key := append(cellKey(cell), []byte(":"+recordSuffix(p))...)
		return txn.Set(key, buf)
	})
}

func recordSuffix(p graph.PhantomEndpoint) string {
	return h3.LatLng{Lat: p.Location.Lat, Lng: p.Location.Lon}.String()
}

// Widen looks up the query point's H3 cell plus its immediate ring
// (h3.GridDisk of size 1) and returns any cached phantoms found,
// supplementing a sparse live R-tree result.
func (c *H3CandidateCache) Widen(lat, lon, radiusMeters float64) []graph.PhantomEndpoint {
	center := h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
	ring := center.GridDisk(1)

	var out []graph.PhantomEndpoint
	_ = c.db.View(func(txn *badger.Txn) error {
		for _, cell := range ring {
			prefix := cellKey(cell)
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					var rec cachedPhantom
					if err := json.Unmarshal(val, &rec); err != nil {
						return nil
					}
					out = append(out, graph.PhantomEndpoint{
						Forward: graph.DirectedSegment{
							EdgeID: rec.EdgeID, Enabled: rec.ForwardEnabled,
							Weight: rec.ForwardWeight, Offset: rec.ForwardOffset,
						},
						Backward: graph.DirectedSegment{
							EdgeID: rec.EdgeID, Enabled: rec.BackwardEnabled,
							Weight: rec.BackwardWeight, Offset: rec.BackwardOffset,
						},
						Location:          graph.NewCoordinate(rec.Lat, rec.Lon),
						NameID:            rec.NameID,
						GeometryID:        rec.GeometryID,
						ForwardTravelMode: rec.ForwardTravelMode,
					})
					return nil
				})
			}
			it.Close()
		}
		return nil
	})
	return out
}
