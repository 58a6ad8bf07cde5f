package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/zummach/osrm/internal/graph"
)

// WriteIntersectionFile serializes the bearing-class and entry-class range
// tables of §6: per-node class indices, then the distinct bearing-class and
// entry-class pools they index into.
func WriteIntersectionFile(w io.Writer, checksum uint32, meta *graph.IntersectionMetadata, numNodes int32) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}
	hdr := make([]byte, 12)
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(numNodes))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(meta.BearingClasses)))
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(meta.EntryClasses)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	idxBuf := make([]byte, 8*numNodes)
	for n := int32(0); n < numNodes; n++ {
		binary.LittleEndian.PutUint32(idxBuf[8*n:8*n+4], uint32(meta.BearingClassOf[n]))
		binary.LittleEndian.PutUint32(idxBuf[8*n+4:8*n+8], uint32(meta.EntryClassOf[n]))
	}
	if _, err := w.Write(idxBuf); err != nil {
		return err
	}

	for _, bc := range meta.BearingClasses {
		cnt := make([]byte, 4)
		binary.LittleEndian.PutUint32(cnt, uint32(len(bc.Bearings)))
		if _, err := w.Write(cnt); err != nil {
			return err
		}
		buf := make([]byte, 8*len(bc.Bearings))
		for i, b := range bc.Bearings {
			binary.LittleEndian.PutUint64(buf[8*i:8*i+8], math.Float64bits(b))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	for _, ec := range meta.EntryClasses {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, ec.Bits)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func ReadIntersectionFile(r io.Reader) (*graph.IntersectionMetadata, int32, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, 0, err
	}
	hdr := make([]byte, 12)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, 0, fmt.Errorf("artifact: read intersection header: %w", err)
	}
	numNodes := int32(binary.LittleEndian.Uint32(hdr[0:4]))
	numBearing := binary.LittleEndian.Uint32(hdr[4:8])
	numEntry := binary.LittleEndian.Uint32(hdr[8:12])

	meta := graph.NewIntersectionMetadata()
	idxBuf := make([]byte, 8*numNodes)
	if _, err := io.ReadFull(r, idxBuf); err != nil {
		return nil, 0, fmt.Errorf("artifact: read intersection indices: %w", err)
	}
	for n := int32(0); n < numNodes; n++ {
		meta.BearingClassOf[n] = int32(binary.LittleEndian.Uint32(idxBuf[8*n : 8*n+4]))
		meta.EntryClassOf[n] = int32(binary.LittleEndian.Uint32(idxBuf[8*n+4 : 8*n+8]))
	}

	for i := uint32(0); i < numBearing; i++ {
		cnt := make([]byte, 4)
		if _, err := io.ReadFull(r, cnt); err != nil {
			return nil, 0, fmt.Errorf("artifact: read bearing-class %d count: %w", i, err)
		}
		n := binary.LittleEndian.Uint32(cnt)
		buf := make([]byte, 8*n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, 0, fmt.Errorf("artifact: read bearing-class %d: %w", i, err)
		}
		bearings := make([]float64, n)
		for j := range bearings {
			bearings[j] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*j : 8*j+8]))
		}
		meta.BearingClasses = append(meta.BearingClasses, graph.BearingClass{Bearings: bearings})
	}
	for i := uint32(0); i < numEntry; i++ {
		buf := make([]byte, 8)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, 0, fmt.Errorf("artifact: read entry-class %d: %w", i, err)
		}
		meta.EntryClasses = append(meta.EntryClasses, graph.EntryClass{Bits: binary.LittleEndian.Uint64(buf)})
	}
	return meta, numNodes, nil
}
