package artifact

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zummach/osrm/internal/graph"
)

// ExternalMemoryNode is the on-disk node record of §6: lon/lat as i32
// micro-degrees, an OSM id, and two single-bit flags.
type ExternalMemoryNode struct {
	Lon          int32
	Lat          int32
	OSMID        uint64
	Barrier      bool
	TrafficLight bool
}

const microDegreeScale = 1e6

func ToMicroDegrees(v float64) int32 { return int32(v * microDegreeScale) }
func FromMicroDegrees(v int32) float64 { return float64(v) / microDegreeScale }

func WriteNodesFile(w io.Writer, checksum uint32, nodes []ExternalMemoryNode) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(len(nodes)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	rec := make([]byte, 17)
	for _, n := range nodes {
		binary.LittleEndian.PutUint32(rec[0:4], uint32(n.Lon))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(n.Lat))
		binary.LittleEndian.PutUint64(rec[8:16], n.OSMID)
		var flags byte
		if n.Barrier {
			flags |= 1
		}
		if n.TrafficLight {
			flags |= 2
		}
		rec[16] = flags
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func ReadNodesFile(r io.Reader) ([]graph.Node, []ExternalMemoryNode, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, nil, err
	}
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, nil, fmt.Errorf("artifact: read nodes header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr)

	nodes := make([]graph.Node, count)
	raw := make([]ExternalMemoryNode, count)
	rec := make([]byte, 17)
	for i := range nodes {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, nil, fmt.Errorf("artifact: read node %d: %w", i, err)
		}
		lon := int32(binary.LittleEndian.Uint32(rec[0:4]))
		lat := int32(binary.LittleEndian.Uint32(rec[4:8]))
		osmID := binary.LittleEndian.Uint64(rec[8:16])
		flags := rec[16]
		raw[i] = ExternalMemoryNode{
			Lon: lon, Lat: lat, OSMID: osmID,
			Barrier:      flags&1 != 0,
			TrafficLight: flags&2 != 0,
		}
		nodes[i] = graph.Node{
			ID:  int32(i),
			Lat: FromMicroDegrees(lat),
			Lon: FromMicroDegrees(lon),
		}
	}
	return nodes, raw, nil
}
