package fdb

import (
	"encoding/binary"
	"fmt"

	"github.com/relicdb/relicdb/pkg/codec"
)

// Decode interprets buf as a table file and returns a read-only view over
// it. The buffer is not copied and must not be modified while the returned
// Database or any view derived from it is in use.
//
// Decode validates the entire structure: every offset must resolve inside
// the buffer to a structure of the expected kind, every row chain must
// terminate, every string must decode, and every field kind must match its
// column (NULL is permitted in any column, as shipped files rely on).
// Failures are returned as a *FormatError and never panic; after a nil
// error, no operation on the Database can fail.
func Decode(buf []byte) (*Database, error) {
	r := reader{buf: buf}
	if len(buf) < codec.FileHeaderSize {
		return nil, formatErr(ErrTruncatedBuffer, "", 0, "file header")
	}
	tableCount := r.u32(0)
	listAddr := r.u32(4)
	if err := r.region(listAddr, uint64(tableCount)*codec.TableHeaderSize); err != nil {
		return nil, formatErr(ErrInvalidTableDirectory, "", listAddr,
			fmt.Sprintf("table header list of %d entries", tableCount))
	}

	db := &Database{buf: buf, tables: make([]*Table, 0, tableCount)}
	for i := uint32(0); i < tableCount; i++ {
		addr := listAddr + i*codec.TableHeaderSize
		t, err := r.decodeTable(r.u32(addr), r.u32(addr+4))
		if err != nil {
			return nil, err
		}
		db.tables = append(db.tables, t)
	}
	return db, nil
}

// reader wraps the raw buffer with bounds-checked access. All u32 reads
// assume the caller verified the region first.
type reader struct {
	buf []byte
}

func (r reader) u32(off uint32) uint32 {
	return binary.LittleEndian.Uint32(r.buf[off:])
}

// region verifies that size bytes starting at off lie inside the buffer.
func (r reader) region(off uint32, size uint64) error {
	if uint64(off) > uint64(len(r.buf)) {
		return ErrOffsetOutOfRange
	}
	if uint64(off)+size > uint64(len(r.buf)) {
		return ErrTruncatedBuffer
	}
	return nil
}

func (r reader) decodeTable(defAddr, dataAddr uint32) (*Table, error) {
	if err := r.region(defAddr, codec.TableDefHeaderSize); err != nil {
		return nil, formatErr(err, "", defAddr, "table def header")
	}
	columnCount := r.u32(defAddr)
	nameAddr := r.u32(defAddr + 4)
	columnListAddr := r.u32(defAddr + 8)

	name, err := r.str(nameAddr, "", "table name")
	if err != nil {
		return nil, err
	}

	if err := r.region(columnListAddr, uint64(columnCount)*codec.ColumnHeaderSize); err != nil {
		return nil, formatErr(err, name, columnListAddr,
			fmt.Sprintf("column header list of %d entries", columnCount))
	}
	columns := make([]Column, columnCount)
	for i := uint32(0); i < columnCount; i++ {
		addr := columnListAddr + i*codec.ColumnHeaderSize
		tag := ValueType(r.u32(addr))
		if !tag.Valid() {
			return nil, formatErr(ErrInvalidTableDirectory, name, addr,
				fmt.Sprintf("unknown column type tag %d", uint32(tag)))
		}
		colName, err := r.str(r.u32(addr+4), name, "column name")
		if err != nil {
			return nil, err
		}
		columns[i] = Column{Name: colName, Kind: tag}
	}

	if err := r.region(dataAddr, codec.TableDataHeaderSize); err != nil {
		return nil, formatErr(err, name, dataAddr, "table data header")
	}
	bucketCount := r.u32(dataAddr)
	bucketListAddr := r.u32(dataAddr + 4)
	if err := r.region(bucketListAddr, uint64(bucketCount)*codec.BucketHeaderSize); err != nil {
		return nil, formatErr(err, name, bucketListAddr,
			fmt.Sprintf("bucket header list of %d entries", bucketCount))
	}

	t := &Table{
		buf:         r.buf,
		name:        name,
		columns:     columns,
		bucketHeads: make([]uint32, bucketCount),
	}
	for i := uint32(0); i < bucketCount; i++ {
		head := r.u32(bucketListAddr + i*codec.BucketHeaderSize)
		if err := r.checkChain(t, head); err != nil {
			return nil, err
		}
		t.bucketHeads[i] = head
	}
	return t, nil
}

// checkChain walks one bucket's row chain and validates every row and
// field it reaches. A chain entry occupies at least 8 bytes, so a chain
// with more entries than the buffer can hold must contain a cycle.
func (r reader) checkChain(t *Table, head uint32) error {
	maxEntries := len(r.buf)/codec.RowListEntrySize + 1
	entries := 0
	for addr := head; addr != codec.NullOffset; {
		entries++
		if entries > maxEntries {
			return formatErr(ErrInvalidTableDirectory, t.name, head, "row chain does not terminate")
		}
		if err := r.region(addr, codec.RowListEntrySize); err != nil {
			return formatErr(err, t.name, addr, "row list entry")
		}
		if err := r.checkRow(t, r.u32(addr)); err != nil {
			return err
		}
		addr = r.u32(addr + 4)
	}
	return nil
}

func (r reader) checkRow(t *Table, rowAddr uint32) error {
	if err := r.region(rowAddr, codec.RowHeaderSize); err != nil {
		return formatErr(err, t.name, rowAddr, "row header")
	}
	fieldCount := r.u32(rowAddr)
	fieldListAddr := r.u32(rowAddr + 4)
	if fieldCount != uint32(len(t.columns)) {
		return formatErr(ErrSchemaMismatch, t.name, rowAddr,
			fmt.Sprintf("row has %d fields, schema has %d columns", fieldCount, len(t.columns)))
	}
	if err := r.region(fieldListAddr, uint64(fieldCount)*codec.FieldDataSize); err != nil {
		return formatErr(err, t.name, fieldListAddr, "field data list")
	}

	for i := uint32(0); i < fieldCount; i++ {
		addr := fieldListAddr + i*codec.FieldDataSize
		tag := ValueType(r.u32(addr))
		slot := r.u32(addr + 4)
		if !tag.Valid() {
			return formatErr(ErrSchemaMismatch, t.name, addr,
				fmt.Sprintf("unknown field type tag %d", uint32(tag)))
		}
		if tag != TypeNull && tag != t.columns[i].Kind {
			return formatErr(ErrSchemaMismatch, t.name, addr,
				fmt.Sprintf("field kind %s in column %q of kind %s", tag, t.columns[i].Name, t.columns[i].Kind))
		}
		switch tag {
		case TypeText:
			if _, err := r.str(slot, t.name, "text field"); err != nil {
				return err
			}
		case TypeVarChar:
			if uint64(slot) >= uint64(len(r.buf)) {
				return formatErr(ErrOffsetOutOfRange, t.name, slot, "varchar field")
			}
			if _, err := codec.DecodeIndexed(r.buf, slot); err != nil {
				return formatErr(ErrStringDecode, t.name, slot, err.Error())
			}
		case TypeInt64:
			if err := r.region(slot, codec.Int64CellSize); err != nil {
				return formatErr(err, t.name, slot, "int64 cell")
			}
		}
	}
	return nil
}

// str validates and decodes a legacy string reference.
func (r reader) str(addr uint32, table, what string) (string, error) {
	if uint64(addr) >= uint64(len(r.buf)) {
		return "", formatErr(ErrOffsetOutOfRange, table, addr, what)
	}
	s, err := codec.DecodeLegacy(r.buf, addr)
	if err != nil {
		return "", formatErr(ErrStringDecode, table, addr, what+": "+err.Error())
	}
	return s, nil
}
