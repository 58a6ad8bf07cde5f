package artifact

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/DataDog/zstd"
	"github.com/zummach/osrm/internal/graph"
)

// WriteNamesFile serializes a range-table header (block offsets + per-block
// 16-entry u8 deltas), a total-length u32, then contiguous, zstd-compressed
// char data, per §6. The block/delta scheme keeps random access to any one
// of the four strings for a name_id cheap without decompressing the whole
// blob's offset table — only the byte payload is compressed.
func WriteNamesFile(w io.Writer, checksum uint32, names *graph.NameTable, nameCount int) error {
	if err := WriteFingerprint(w, checksum); err != nil {
		return err
	}

	const blockSize = 16
	numSlots := nameCount * 4
	numBlocks := (numSlots + blockSize - 1) / blockSize

	blockOffsets := make([]int32, numBlocks)
	deltas := make([][blockSize]uint8, numBlocks)
	var blob []byte

	for slot := 0; slot < numSlots; slot++ {
		id, which := slot/4, slot%4
		var s string
		switch which {
		case 0:
			s = names.Name(id)
		case 1:
			s = names.Destinations(id)
		case 2:
			s = names.Pronunciation(id)
		case 3:
			s = names.Ref(id)
		}
		block, idx := slot/blockSize, slot%blockSize
		if idx == 0 {
			blockOffsets[block] = int32(len(blob))
		}
		blob = append(blob, s...)
		deltas[block][idx] = uint8(len(blob) - int(blockOffsets[block]))
	}

	hdr := make([]byte, 8)
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(numBlocks))
	if _, err := w.Write(hdr[0:4]); err != nil {
		return err
	}
	for i := 0; i < numBlocks; i++ {
		b := make([]byte, 4+blockSize)
		binary.LittleEndian.PutUint32(b[0:4], uint32(blockOffsets[i]))
		copy(b[4:], deltas[i][:])
		if _, err := w.Write(b); err != nil {
			return err
		}
	}

	binary.LittleEndian.PutUint32(hdr[4:8], uint32(len(blob)))
	if _, err := w.Write(hdr[4:8]); err != nil {
		return err
	}
	compressed, err := zstd.Compress(nil, blob)
	if err != nil {
		return fmt.Errorf("artifact: compress names: %w", err)
	}
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(compressed)))
	if _, err := w.Write(lenBuf); err != nil {
		return err
	}
	_, err = w.Write(compressed)
	return err
}

func ReadNamesFile(r io.Reader) (*graph.NameTable, error) {
	if _, err := ReadFingerprint(r); err != nil {
		return nil, err
	}
	const blockSize = 16
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("artifact: read names header: %w", err)
	}
	numBlocks := binary.LittleEndian.Uint32(hdr)

	blockOffsets := make([]int32, numBlocks)
	deltas := make([][blockSize]uint8, numBlocks)
	for i := uint32(0); i < numBlocks; i++ {
		b := make([]byte, 4+blockSize)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, fmt.Errorf("artifact: read names block %d: %w", i, err)
		}
		blockOffsets[i] = int32(binary.LittleEndian.Uint32(b[0:4]))
		copy(deltas[i][:], b[4:])
	}

	lenHdr := make([]byte, 8)
	if _, err := io.ReadFull(r, lenHdr); err != nil {
		return nil, fmt.Errorf("artifact: read names length header: %w", err)
	}
	totalLen := binary.LittleEndian.Uint32(lenHdr[0:4])
	compressedLen := binary.LittleEndian.Uint32(lenHdr[4:8])
	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("artifact: read names blob: %w", err)
	}
	blob, err := zstd.Decompress(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("artifact: decompress names: %w", err)
	}
	_ = totalLen

	names := graph.NewNameTable()
	numSlots := int(numBlocks) * blockSize
	strs := make([]string, 0, numSlots)
	for slot := 0; slot < numSlots; slot++ {
		block, idx := slot/blockSize, slot%blockSize
		start := blockOffsets[block]
		if idx > 0 {
			start += int32(deltas[block][idx-1])
		}
		end := blockOffsets[block] + int32(deltas[block][idx])
		if int(end) > len(blob) {
			end = int32(len(blob))
		}
		strs = append(strs, string(blob[start:end]))
	}
	for i := 0; i+3 < len(strs); i += 4 {
		names.Append(strs[i], strs[i+1], strs[i+2], strs[i+3])
	}
	return names, nil
}
