package fdb

import (
	"encoding/binary"

	"github.com/relicdb/relicdb/pkg/codec"
)

// Database is a read-only snapshot over one decoded buffer. It is safe for
// concurrent use by any number of readers.
type Database struct {
	buf    []byte
	tables []*Table
}

// Tables returns the tables in file order.
func (d *Database) Tables() []*Table {
	return d.tables
}

// Table returns the first table with the given name, or nil. The raw
// format does not forbid duplicate names; the first match is canonical.
func (d *Database) Table(name string) *Table {
	for _, t := range d.tables {
		if t.name == name {
			return t
		}
	}
	return nil
}

// Table is a read-only view of one table.
type Table struct {
	buf         []byte
	name        string
	columns     []Column
	bucketHeads []uint32
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Columns returns the schema in declaration order. The slice is shared;
// callers must not modify it.
func (t *Table) Columns() []Column {
	return t.columns
}

// BucketCount returns the fixed number of hash buckets.
func (t *Table) BucketCount() int {
	return len(t.bucketHeads)
}

// Rows returns an iterator over every row, in bucket order then chain
// order. That order is the canonical row order of the file. Each call
// returns a fresh iterator.
func (t *Table) Rows() *RowIterator {
	return &RowIterator{buf: t.buf, heads: t.bucketHeads, entry: codec.NullOffset}
}

// Bucket returns an iterator over the collision chain of bucket i. An out
// of range index yields an empty iterator.
func (t *Table) Bucket(i int) *RowIterator {
	if i < 0 || i >= len(t.bucketHeads) {
		return &RowIterator{entry: codec.NullOffset}
	}
	return &RowIterator{buf: t.buf, entry: t.bucketHeads[i]}
}

// Find returns all rows whose field at column col equals key. When col is
// the index column (column 0) only the key's hash bucket is walked;
// otherwise every row is scanned. Both paths return exactly the rows a
// full scan would.
func (t *Table) Find(col int, key Value) []Row {
	if col < 0 || col >= len(t.columns) {
		return nil
	}
	it := t.Rows()
	if col == 0 && len(t.bucketHeads) > 0 {
		it = t.Bucket(BucketIndex(key, len(t.bucketHeads)))
	}
	var matches []Row
	for it.Next() {
		if row := it.Row(); row.Field(col).Equal(key) {
			matches = append(matches, row)
		}
	}
	return matches
}

// RowIterator walks rows bucket by bucket, then along each collision
// chain. It is single-use; obtain a new one to restart.
type RowIterator struct {
	buf    []byte
	heads  []uint32
	bucket int    // next bucket to enter
	entry  uint32 // next chain entry, NullOffset when the chain is done
	row    Row
}

// Next advances to the next row.
func (it *RowIterator) Next() bool {
	for it.entry == codec.NullOffset {
		if it.bucket >= len(it.heads) {
			return false
		}
		it.entry = it.heads[it.bucket]
		it.bucket++
	}
	rowAddr := le32(it.buf, it.entry)
	it.entry = le32(it.buf, it.entry+4)
	it.row = Row{
		buf:        it.buf,
		fieldAddr:  le32(it.buf, rowAddr+4),
		fieldCount: int(le32(it.buf, rowAddr)),
	}
	return true
}

// Row returns the current row. Valid only after Next reported true.
func (it *RowIterator) Row() Row {
	return it.row
}

// Row is a zero-copy view of one row's field block.
type Row struct {
	buf        []byte
	fieldAddr  uint32
	fieldCount int
}

// Len returns the number of fields.
func (r Row) Len() int {
	return r.fieldCount
}

// Field decodes the field at index i. It panics if i is out of range,
// like a slice index.
func (r Row) Field(i int) Value {
	if i < 0 || i >= r.fieldCount {
		panic("fdb: field index out of range")
	}
	addr := r.fieldAddr + uint32(i)*codec.FieldDataSize
	tag := ValueType(le32(r.buf, addr))
	slot := le32(r.buf, addr+4)
	switch tag {
	case TypeInt32:
		return Int32(int32(slot))
	case TypeFloat32:
		// Raw bit passthrough, no normalization.
		return Value{kind: TypeFloat32, num: int64(slot)}
	case TypeBool:
		return Bool(slot != 0)
	case TypeInt64:
		lo := le32(r.buf, slot)
		hi := le32(r.buf, slot+4)
		return Int64(int64(uint64(hi)<<32 | uint64(lo)))
	case TypeText:
		s, _ := codec.DecodeLegacy(r.buf, slot)
		return Text(s)
	case TypeVarChar:
		s, _ := codec.DecodeIndexed(r.buf, slot)
		return VarChar(s)
	}
	return Null()
}

// Fields decodes all fields of the row.
func (r Row) Fields() []Value {
	out := make([]Value, r.fieldCount)
	for i := range out {
		out[i] = r.Field(i)
	}
	return out
}

func le32(b []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}
