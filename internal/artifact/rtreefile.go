package artifact

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
)

// RtreeLeaf is one packed-R-tree leaf entry: an edge-id/direction pair plus
// its bounding box, matching the teacher's own RtreeBoundingBox/OSMObject
// pairing in pkg/datastructure/rtree.go.
type RtreeLeaf struct {
	EdgeID    int32
	Forward   bool
	MinLat    float64
	MinLon    float64
	MaxLat    float64
	MaxLon    float64
}

// RtreeNode is one inner-tree node: a bounding box and the index range of
// its children (leaves for height-1 nodes, other RtreeNodes otherwise).
type RtreeNode struct {
	MinLat, MinLon, MaxLat, MaxLon float64
	ChildrenStart, ChildrenEnd     int32
	IsLeafLevel                    bool
}

// RtreeData is the whole packed static tree, written to disk as two
// logical files per §6 ("inner-tree index + leaf file") but as one stream
// here since the inner index is small enough to load unconditionally. The
// header holds only the compressed stream's length; no split point between
// the inner nodes and the leaves is recorded, so the leaf section cannot
// be mapped on its own.
type RtreeData struct {
	Nodes  []RtreeNode
	Leaves []RtreeLeaf
}

// WriteRtreeFile gob-encodes the tree, the same encoding the teacher uses
// for its own rtree persistence (pkg/datastructure/rtree.go's
// SerializeRtreeData/DeserializeRtreeData), wrapped with the fingerprint
// header and zstd compression used by the rest of the artifact set.
func WriteRtreeFile(w io.Writer, checksum uint32, data *RtreeData) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return fmt.Errorf("artifact: encode rtree: %w", err)
	}
	compressed, err := zstdCompress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("artifact: compress rtree: %w", err)
	}
	lenBuf := make([]byte, 4)
	putUint32(lenBuf, uint32(len(compressed)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err = w.Write(compressed)
	return err
}

func ReadRtreeFile(r io.Reader) (*RtreeData, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, err
	}
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, fmt.Errorf("artifact: read rtree length: %w", err)
	}
	compressed := make([]byte, getUint32(lenBuf))
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("artifact: read rtree blob: %w", err)
	}
	raw, err := zstdDecompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("artifact: decompress rtree: %w", err)
	}
	var data RtreeData
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&data); err != nil {
		return nil, fmt.Errorf("artifact: decode rtree: %w", err)
	}
	return &data, nil
}
