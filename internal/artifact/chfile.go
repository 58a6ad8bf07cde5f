package artifact

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zummach/osrm/internal/graph"
)

// WriteCHFile serializes the CH edge array per §6: u32 edge count, u32
// max_node_id, then packed (source u32, target u32, weight i32, flags
// u8, shortcut_middle u32) records. Weight is stored as integer
// deci-seconds per §3.
func WriteCHFile(w io.Writer, checksum uint32, maxNodeID int32, edges []graph.Edge) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}
	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(edges)))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(maxNodeID))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	rec := make([]byte, 17)
	for _, e := range edges {
		binary.LittleEndian.PutUint32(rec[0:4], uint32(e.From))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(e.To))
		binary.LittleEndian.PutUint32(rec[8:12], uint32(int32(e.Weight)))
		rec[12] = byte(e.Flags)
		binary.LittleEndian.PutUint32(rec[13:17], uint32(e.ShortcutMiddle))
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func ReadCHFile(r io.Reader) ([]graph.Edge, int32, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, 0, err
	}
	hdr := make([]byte, 8)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, 0, fmt.Errorf("artifact: read ch header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr[0:4])
	maxNodeID := int32(binary.LittleEndian.Uint32(hdr[4:8]))

	edges := make([]graph.Edge, count)
	rec := make([]byte, 17)
	for i := range edges {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, 0, fmt.Errorf("artifact: read ch edge %d: %w", i, err)
		}
		edges[i] = graph.Edge{
			ID:             int32(i),
			From:           int32(binary.LittleEndian.Uint32(rec[0:4])),
			To:             int32(binary.LittleEndian.Uint32(rec[4:8])),
			Weight:         float64(int32(binary.LittleEndian.Uint32(rec[8:12]))),
			Flags:          graph.EdgeFlags(rec[12]),
			ShortcutMiddle: int32(binary.LittleEndian.Uint32(rec[13:17])),
		}
	}
	return edges, maxNodeID, nil
}
