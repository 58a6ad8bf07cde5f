// Package artifact implements readers and writers for the persisted
// artifact layout of §6: fixed-layout, little-endian binary files with
// explicit integer sizes, each prefixed by a fingerprint header. Large
// variable-length blobs (geometry, names) are zstd-compressed the way
// the teacher's pkg/kv/zstd_compression.go compresses object payloads
// before they hit storage; fixed-size records use encoding/binary
// directly, the way the teacher's own EdgeCH.Serialize/DeserializeEdgeCH
// and EdgeExtraInfo.Serialize (pkg/datastructure/contracted_graph.go)
// hand-roll their wire layout rather than reach for a generic codec.
package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Magic identifies every artifact file produced by this module's
// contractor/extractor pair.
const Magic uint32 = 0x4f53524d // "OSRM"

// Fingerprint is the 16-byte header at the head of every file (§6).
type Fingerprint struct {
	Magic    uint32
	Major    uint8
	Minor    uint8
	Patch    uint8
	_        uint8 // padding to keep the header word-aligned
	Checksum uint32
}

const FingerprintSize = 16

// CurrentVersion is bumped whenever the on-disk layout changes in a way
// that breaks compatibility; a mismatch is the §7 IncompatibleVersion
// fatal error.
var CurrentVersion = struct{ Major, Minor, Patch uint8 }{1, 0, 0}

func WriteFingerprint(w io.Writer, checksum uint32) error {
	buf := make([]byte, FingerprintSize)
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	buf[4] = CurrentVersion.Major
	buf[5] = CurrentVersion.Minor
	buf[6] = CurrentVersion.Patch
	binary.LittleEndian.PutUint32(buf[8:12], checksum)
	_, err := w.Write(buf)
	return err
}

var ErrIncompatibleVersion = fmt.Errorf("artifact: incompatible version")

func ReadFingerprint(r io.Reader) (Fingerprint, error) {
	buf := make([]byte, FingerprintSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Fingerprint{}, fmt.Errorf("artifact: read fingerprint: %w", err)
	}
	fp := Fingerprint{
		Magic:    binary.LittleEndian.Uint32(buf[0:4]),
		Major:    buf[4],
		Minor:    buf[5],
		Patch:    buf[6],
		Checksum: binary.LittleEndian.Uint32(buf[8:12]),
	}
	if fp.Magic != Magic || fp.Major != CurrentVersion.Major {
		return fp, ErrIncompatibleVersion
	}
	return fp, nil
}
