// Package mmap provides read-only memory mapping of whole files, used to
// hand complete table files to the decoder without copying them.
package mmap

import (
	"fmt"
	"os"
)

// Mapping is a read-only byte view of a file's contents. The bytes stay
// valid until Close.
type Mapping struct {
	data   []byte
	mapped bool // false when the fallback read the file into memory
}

// Open maps the file at path. On platforms without mmap support the file
// is read into memory instead; callers see the same interface either way.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if size != int64(int(size)) {
		return nil, fmt.Errorf("mmap: file %s too large to map", path)
	}

	data, mapped, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap: %s: %w", path, err)
	}
	return &Mapping{data: data, mapped: mapped}, nil
}

// Bytes returns the mapped contents. Callers must not modify them.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Close releases the mapping. The byte slice must not be used afterwards.
func (m *Mapping) Close() error {
	data, mapped := m.data, m.mapped
	m.data, m.mapped = nil, false
	if !mapped || data == nil {
		return nil
	}
	return unmapFile(data)
}
