package fdb

import (
	"github.com/relicdb/relicdb/pkg/mmap"
)

// File is a Database backed by a memory-mapped file.
type File struct {
	*Database
	m *mmap.Mapping
}

// Open memory-maps the file at path and decodes it. The caller must keep
// the File open while any view derived from it is in use, and Close it
// when done.
func Open(path string) (*File, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	db, err := Decode(m.Bytes())
	if err != nil {
		m.Close()
		return nil, err
	}
	return &File{Database: db, m: m}, nil
}

// Close releases the underlying mapping.
func (f *File) Close() error {
	return f.m.Close()
}
