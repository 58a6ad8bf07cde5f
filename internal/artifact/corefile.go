package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteCoreFile persists each node's CH rank (OrderPos) and whether it
// belongs to the uncontracted core left behind by a CoreFraction<1 build,
// so a later `routed` process can reconstruct the upward-edge search
// invariant and IsCoreNode without recontracting. There is no teacher
// equivalent (its ContractedGraph never leaves process memory between
// contraction and serving), so this follows the same fixed-layout,
// fingerprint-prefixed convention as every other file in this package.
func WriteCoreFile(w io.Writer, checksum uint32, orderPos []int32, core []bool) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(len(orderPos)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	rec := make([]byte, 5)
	for i, pos := range orderPos {
		binary.LittleEndian.PutUint32(rec[0:4], uint32(pos))
		rec[4] = 0
		if i < len(core) && core[i] {
			rec[4] = 1
		}
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func ReadCoreFile(r io.Reader) (orderPos []int32, core []bool, err error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, nil, err
	}
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, nil, fmt.Errorf("artifact: read core header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr)

	orderPos = make([]int32, count)
	core = make([]bool, count)
	rec := make([]byte, 5)
	for i := range orderPos {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, nil, fmt.Errorf("artifact: read core entry %d: %w", i, err)
		}
		orderPos[i] = int32(binary.LittleEndian.Uint32(rec[0:4]))
		core[i] = rec[4] != 0
	}
	return orderPos, core, nil
}
