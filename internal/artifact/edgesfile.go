package artifact

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zummach/osrm/internal/graph"
)

// RawEdge is one directed pre-contraction edge, the extractor's output
// and the contractor's input. Unlike the post-contraction .ch file, a
// raw edge always carries its own GeometryID/NameID, since the
// contractor has not yet folded any of these into shortcuts.
type RawEdge struct {
	From, To   int32
	Weight     float64
	Dist       float64
	GeometryID int32
	NameID     int32
	Flags      graph.EdgeFlags
}

const rawEdgeRecordSize = 25

// WriteEdgesFile persists the extractor's edge list ahead of contraction:
// u32 edge count, then packed (source u32, target u32, weight i32,
// dist_cm u32, geometry_id i32, name_id i32, flags u8) records. Distance
// is stored in centimeters to keep the record fixed-width and integral,
// the same tradeoff the rest of this package makes for weight.
func WriteEdgesFile(w io.Writer, checksum uint32, edges []RawEdge) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(len(edges)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	rec := make([]byte, rawEdgeRecordSize)
	for _, e := range edges {
		binary.LittleEndian.PutUint32(rec[0:4], uint32(e.From))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(e.To))
		binary.LittleEndian.PutUint32(rec[8:12], uint32(int32(e.Weight)))
		binary.LittleEndian.PutUint32(rec[12:16], uint32(int32(e.Dist*100)))
		binary.LittleEndian.PutUint32(rec[16:20], uint32(e.GeometryID))
		binary.LittleEndian.PutUint32(rec[20:24], uint32(e.NameID))
		rec[24] = byte(e.Flags)
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func ReadEdgesFile(r io.Reader) ([]RawEdge, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, err
	}
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("artifact: read edges header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr)

	edges := make([]RawEdge, count)
	rec := make([]byte, rawEdgeRecordSize)
	for i := range edges {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, fmt.Errorf("artifact: read edge %d: %w", i, err)
		}
		edges[i] = RawEdge{
			From:       int32(binary.LittleEndian.Uint32(rec[0:4])),
			To:         int32(binary.LittleEndian.Uint32(rec[4:8])),
			Weight:     float64(int32(binary.LittleEndian.Uint32(rec[8:12]))),
			Dist:       float64(int32(binary.LittleEndian.Uint32(rec[12:16]))) / 100,
			GeometryID: int32(binary.LittleEndian.Uint32(rec[16:20])),
			NameID:     int32(binary.LittleEndian.Uint32(rec[20:24])),
			Flags:      graph.EdgeFlags(rec[24]),
		}
	}
	return edges, nil
}
