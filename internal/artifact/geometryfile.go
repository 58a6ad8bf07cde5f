package artifact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/DataDog/zstd"
	"github.com/zummach/osrm/internal/graph"
)

// WriteGeometryFile serializes a prefix-sum table (u32 per id, one
// sentinel) followed by packed (via-node u32, weight u32, datasource u8)
// tuples, per §6. The packed tuple blob is zstd-compressed on disk —
// geometry is the single largest artifact on a continental graph and
// this is the same compression path the teacher applies to stored edge
// payloads in pkg/kv/zstd_compression.go.
func WriteGeometryFile(w io.Writer, checksum uint32, table *graph.GeometryTable, count int32) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}

	var body bytes.Buffer
	offsets := make([]int32, count+1)
	var running int32
	for id := int32(0); id < count; id++ {
		offsets[id] = running
		pts := table.Get(id)
		running += int32(len(pts))
		for _, p := range pts {
			rec := make([]byte, 9)
			binary.LittleEndian.PutUint32(rec[0:4], uint32(p.ViaNode))
			binary.LittleEndian.PutUint32(rec[4:8], uint32(int32(p.Weight)))
			rec[8] = p.Datasource
			body.Write(rec)
		}
	}
	offsets[count] = running

	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(count))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	offBuf := make([]byte, 4*len(offsets))
	for i, o := range offsets {
		binary.LittleEndian.PutUint32(offBuf[4*i:4*i+4], uint32(o))
	}
	if _, err := w.Write(offBuf); err != nil {
		return err
	}

	compressed, err := zstd.Compress(nil, body.Bytes())
	if err != nil {
		return fmt.Errorf("artifact: compress geometry: %w", err)
	}
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(compressed)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err = w.Write(compressed)
	return err
}

func ReadGeometryFile(r io.Reader) (*graph.GeometryTable, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, err
	}
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("artifact: read geometry header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr)

	offBuf := make([]byte, 4*(count+1))
	if _, err := io.ReadFull(r, offBuf); err != nil {
		return nil, fmt.Errorf("artifact: read geometry offsets: %w", err)
	}
	offsets := make([]int32, count+1)
	for i := range offsets {
		offsets[i] = int32(binary.LittleEndian.Uint32(offBuf[4*i : 4*i+4]))
	}

	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, fmt.Errorf("artifact: read geometry blob length: %w", err)
	}
	blobLen := binary.LittleEndian.Uint32(lenBuf)
	compressed := make([]byte, blobLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("artifact: read geometry blob: %w", err)
	}
	body, err := zstd.Decompress(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("artifact: decompress geometry: %w", err)
	}

	table := graph.NewGeometryTable()
	for id := uint32(0); id < count; id++ {
		start, end := offsets[id], offsets[id+1]
		pts := make([]graph.GeometryPoint, 0, end-start)
		for off := start * 9; off < end*9; off += 9 {
			pts = append(pts, graph.GeometryPoint{
				ViaNode:    int32(binary.LittleEndian.Uint32(body[off : off+4])),
				Weight:     float64(int32(binary.LittleEndian.Uint32(body[off+4 : off+8]))),
				Datasource: body[off+8],
			})
		}
		table.Append(pts)
	}
	return table, nil
}
