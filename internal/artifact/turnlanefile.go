package artifact

import (
	"encoding/binary"
	"fmt"
	"io"
)

// TurnLaneMask bits enumerate the lane markings of §6's Turn-lane files.
// Sixteen bits wide since the GLOSSARY's lane vocabulary (the eight
// directional markings plus uturn and the two merge variants) doesn't fit
// a single byte.
type TurnLaneMask uint16

const (
	LaneNone TurnLaneMask = 1 << iota
	LaneStraight
	LaneSharpRight
	LaneRight
	LaneSlightRight
	LaneSlightLeft
	LaneLeft
	LaneSharpLeft
	LaneUTurn
	LaneMergeToLeft
	LaneMergeToRight
)

// WriteTurnLaneFile serializes the adjacency array of u32 offsets and u16
// masks described in §6.
func WriteTurnLaneFile(w io.Writer, checksum uint32, offsets []int32, masks [][]TurnLaneMask) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(len(offsets)))
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
	for _, row := range masks {
		rowBuf := make([]byte, 2*len(row))
		for i, m := range row {
			binary.LittleEndian.PutUint16(rowBuf[2*i:2*i+2], uint16(m))
		}
		if _, err := w.Write(rowBuf); err != nil {
			return err
		}
	}
	return nil
}

func ReadTurnLaneFile(r io.Reader) ([]int32, [][]TurnLaneMask, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, nil, err
	}
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, nil, fmt.Errorf("artifact: read turn-lane header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr)
	offBuf := make([]byte, 4*count)
	if _, err := io.ReadFull(r, offBuf); err != nil {
		return nil, nil, fmt.Errorf("artifact: read turn-lane offsets: %w", err)
	}
	offsets := make([]int32, count)
	for i := range offsets {
		offsets[i] = int32(binary.LittleEndian.Uint32(offBuf[4*i : 4*i+4]))
	}

	masks := make([][]TurnLaneMask, 0)
	for i := 0; i+1 < len(offsets); i++ {
		n := offsets[i+1] - offsets[i]
		rowBuf := make([]byte, 2*n)
		if _, err := io.ReadFull(r, rowBuf); err != nil {
			return nil, nil, fmt.Errorf("artifact: read turn-lane row %d: %w", i, err)
		}
		row := make([]TurnLaneMask, n)
		for j := range row {
			row[j] = TurnLaneMask(binary.LittleEndian.Uint16(rowBuf[2*j : 2*j+2]))
		}
		masks = append(masks, row)
	}
	return offsets, masks, nil
}
