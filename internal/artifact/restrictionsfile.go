package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
)

// TurnRestriction is a from/via/to node triple with an "only" flag
// (only-allowed-turn vs. forbidden-turn), the restriction record named in
// §6's Restrictions file.
type TurnRestriction struct {
	From, Via, To int32
	Only          bool
}

func WriteRestrictionsFile(w io.Writer, checksum uint32, restrictions []TurnRestriction) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(len(restrictions)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	rec := make([]byte, 13)
	for _, r := range restrictions {
		binary.LittleEndian.PutUint32(rec[0:4], uint32(r.From))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(r.Via))
		binary.LittleEndian.PutUint32(rec[8:12], uint32(r.To))
		if r.Only {
			rec[12] = 1
		} else {
			rec[12] = 0
		}
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func ReadRestrictionsFile(r io.Reader) ([]TurnRestriction, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, err
	}
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("artifact: read restrictions header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr)
	out := make([]TurnRestriction, count)
	rec := make([]byte, 13)
	for i := range out {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, fmt.Errorf("artifact: read restriction %d: %w", i, err)
		}
		out[i] = TurnRestriction{
			From: int32(binary.LittleEndian.Uint32(rec[0:4])),
			Via:  int32(binary.LittleEndian.Uint32(rec[4:8])),
			To:   int32(binary.LittleEndian.Uint32(rec[8:12])),
			Only: rec[12] != 0,
		}
	}
	return out, nil
}
