package artifact

import (
	"encoding/binary"

	"github.com/DataDog/zstd"
)

func zstdCompress(p []byte) ([]byte, error)   { return zstd.Compress(nil, p) }
func zstdDecompress(p []byte) ([]byte, error) { return zstd.Decompress(nil, p) }

func putUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func getUint32(b []byte) uint32    { return binary.LittleEndian.Uint32(b) }
