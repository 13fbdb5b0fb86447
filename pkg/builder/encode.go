package builder

import (
	"encoding/binary"

	"github.com/relicdb/relicdb/pkg/codec"
	"github.com/relicdb/relicdb/pkg/fdb"
)

// maxEncodedSize keeps every emitted offset below the NullOffset
// sentinel.
const maxEncodedSize = uint64(codec.NullOffset) - 1

// tableLayout holds the resolved base offset of each region of one table.
type tableLayout struct {
	defAddr     uint64
	columnsAddr uint64
	dataAddr    uint64
	bucketsAddr uint64
	entriesAddr uint64
	rowsAddr    uint64
	fieldsAddr  uint64
	cellsAddr   uint64
}

// Encode serializes the database into the flat file layout: header and
// table directory first, then per table the schema block, bucket array
// and row regions in canonical order, with one global string pool
// appended last. Decoding the result yields a database semantically equal
// to d.
//
// Every row is validated against its table's schema and every string
// against the legacy encoding before any bytes are produced; the first
// failure aborts the whole encode.
func (d *Database) Encode() ([]byte, error) {
	for _, t := range d.tables {
		for _, b := range t.buckets {
			for _, row := range b {
				if err := t.checkRow(row); err != nil {
					return nil, err
				}
			}
		}
	}

	pool := newStringPool()
	layouts := make([]tableLayout, len(d.tables))
	cur := uint64(codec.FileHeaderSize) + uint64(codec.TableHeaderSize)*uint64(len(d.tables))

	// Pass 1: register strings and assign every region's offset.
	for i, t := range d.tables {
		if _, err := pool.legacyRef(t.name); err != nil {
			return nil, stringErr(t.name, err)
		}
		for _, c := range t.columns {
			if _, err := pool.legacyRef(c.Name); err != nil {
				return nil, stringErr(t.name, err)
			}
		}

		var cells uint64
		for _, b := range t.buckets {
			for _, row := range b {
				for _, v := range row {
					switch v.Kind() {
					case fdb.TypeInt64:
						cells++
					case fdb.TypeText:
						s, _ := v.AsText()
						if _, err := pool.legacyRef(s); err != nil {
							return nil, stringErr(t.name, err)
						}
					case fdb.TypeVarChar:
						s, _ := v.AsVarChar()
						if _, err := pool.indexedRef(s); err != nil {
							return nil, stringErr(t.name, err)
						}
					}
				}
			}
		}

		nCols := uint64(len(t.columns))
		nRows := uint64(t.Len())
		l := &layouts[i]
		l.defAddr = cur
		cur += codec.TableDefHeaderSize
		l.columnsAddr = cur
		cur += codec.ColumnHeaderSize * nCols
		l.dataAddr = cur
		cur += codec.TableDataHeaderSize
		l.bucketsAddr = cur
		cur += codec.BucketHeaderSize * uint64(len(t.buckets))
		l.entriesAddr = cur
		cur += codec.RowListEntrySize * nRows
		l.rowsAddr = cur
		cur += codec.RowHeaderSize * nRows
		l.fieldsAddr = cur
		cur += codec.FieldDataSize * nCols * nRows
		l.cellsAddr = cur
		cur += codec.Int64CellSize * cells
	}

	poolBase := cur
	total := poolBase + uint64(len(pool.buf))
	if total > maxEncodedSize {
		return nil, &fdb.FormatError{
			Kind:   fdb.ErrOffsetOutOfRange,
			Detail: "encoded size exceeds 32-bit offset space",
		}
	}

	// Pass 2: emit. All offsets are known, so emission is a single
	// forward sweep with no patching.
	buf := make([]byte, total)
	put32(buf, 0, uint32(len(d.tables)))
	put32(buf, 4, codec.FileHeaderSize)

	for i, t := range d.tables {
		l := layouts[i]
		headerAddr := uint64(codec.FileHeaderSize) + uint64(codec.TableHeaderSize)*uint64(i)
		put32(buf, headerAddr, uint32(l.defAddr))
		put32(buf, headerAddr+4, uint32(l.dataAddr))

		put32(buf, l.defAddr, uint32(len(t.columns)))
		put32(buf, l.defAddr+4, uint32(poolBase)+pool.legacy[t.name])
		put32(buf, l.defAddr+8, uint32(l.columnsAddr))
		for c, col := range t.columns {
			addr := l.columnsAddr + uint64(codec.ColumnHeaderSize)*uint64(c)
			put32(buf, addr, uint32(col.Kind))
			put32(buf, addr+4, uint32(poolBase)+pool.legacy[col.Name])
		}

		put32(buf, l.dataAddr, uint32(len(t.buckets)))
		put32(buf, l.dataAddr+4, uint32(l.bucketsAddr))

		var rowIdx, cellIdx uint64
		for b, rows := range t.buckets {
			head := codec.NullOffset
			if len(rows) > 0 {
				head = uint32(l.entriesAddr + codec.RowListEntrySize*rowIdx)
			}
			put32(buf, l.bucketsAddr+uint64(codec.BucketHeaderSize)*uint64(b), head)

			for j, row := range rows {
				entryAddr := l.entriesAddr + codec.RowListEntrySize*rowIdx
				rowAddr := l.rowsAddr + codec.RowHeaderSize*rowIdx
				next := codec.NullOffset
				if j+1 < len(rows) {
					next = uint32(entryAddr + codec.RowListEntrySize)
				}
				put32(buf, entryAddr, uint32(rowAddr))
				put32(buf, entryAddr+4, next)

				fieldAddr := l.fieldsAddr + codec.FieldDataSize*uint64(len(t.columns))*rowIdx
				put32(buf, rowAddr, uint32(len(row)))
				put32(buf, rowAddr+4, uint32(fieldAddr))

				for k, v := range row {
					addr := fieldAddr + uint64(codec.FieldDataSize)*uint64(k)
					put32(buf, addr, uint32(v.Kind()))
					var slot uint32
					switch v.Kind() {
					case fdb.TypeInt32:
						n, _ := v.AsInt32()
						slot = uint32(n)
					case fdb.TypeFloat32:
						slot, _ = v.Float32Bits()
					case fdb.TypeBool:
						if on, _ := v.AsBool(); on {
							slot = 1
						}
					case fdb.TypeInt64:
						n, _ := v.AsInt64()
						cellAddr := l.cellsAddr + codec.Int64CellSize*cellIdx
						cellIdx++
						put32(buf, cellAddr, uint32(uint64(n)))
						put32(buf, cellAddr+4, uint32(uint64(n)>>32))
						slot = uint32(cellAddr)
					case fdb.TypeText:
						s, _ := v.AsText()
						slot = uint32(poolBase) + pool.legacy[s]
					case fdb.TypeVarChar:
						s, _ := v.AsVarChar()
						slot = uint32(poolBase) + pool.indexed[s]
					}
					put32(buf, addr+4, slot)
				}
				rowIdx++
			}
		}
	}

	copy(buf[poolBase:], pool.buf)
	return buf, nil
}

// stringPool assigns pool-relative offsets to deduplicated entries.
// Legacy and indexed entries are tracked separately: equal text encodes
// differently under the two encodings.
type stringPool struct {
	buf     []byte
	legacy  map[string]uint32
	indexed map[string]uint32
}

func newStringPool() *stringPool {
	return &stringPool{
		legacy:  make(map[string]uint32),
		indexed: make(map[string]uint32),
	}
}

func (p *stringPool) legacyRef(s string) (uint32, error) {
	if off, ok := p.legacy[s]; ok {
		return off, nil
	}
	off := uint32(len(p.buf))
	buf, err := codec.AppendLegacy(p.buf, s)
	if err != nil {
		return 0, err
	}
	p.buf = buf
	p.legacy[s] = off
	return off, nil
}

func (p *stringPool) indexedRef(s string) (uint32, error) {
	if off, ok := p.indexed[s]; ok {
		return off, nil
	}
	off := uint32(len(p.buf))
	buf, err := codec.AppendIndexed(p.buf, s)
	if err != nil {
		return 0, err
	}
	p.buf = buf
	p.indexed[s] = off
	return off, nil
}

func stringErr(table string, err error) error {
	return &fdb.FormatError{Kind: fdb.ErrStringDecode, Table: table, Detail: err.Error()}
}

func put32(buf []byte, off uint64, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}
