// Package codec provides the byte-level primitives of the RelicDB table
// file format: the bucket hash function and the two string encodings.
//
// The format ships tabular game data in a single flat file. Every internal
// reference is a little-endian uint32 byte offset from the start of the
// file; the reserved value 0xFFFFFFFF means "no offset" (empty bucket or
// end of a row chain). The overall layout is:
//
//	[FileHeader(8)]
//	[TableHeader(8)] * TableCount
//	per table:
//	  [TableDefHeader(12)][ColumnHeader(8) * ColumnCount]
//	  [TableDataHeader(8)][BucketHeader(4) * BucketCount]
//	  [RowListEntry(8) * RowCount][RowHeader(8) * RowCount]
//	  [FieldData(8) * ColumnCount * RowCount][Int64Cell(8) * ...]
//	[StringPool]
//
// Structures:
//
//	FileHeader:      [TableCount(4)][TableListAddr(4)]
//	TableHeader:     [DefHeaderAddr(4)][DataHeaderAddr(4)]
//	TableDefHeader:  [ColumnCount(4)][TableNameAddr(4)][ColumnListAddr(4)]
//	ColumnHeader:    [TypeTag(4)][ColumnNameAddr(4)]
//	TableDataHeader: [BucketCount(4)][BucketListAddr(4)]
//	BucketHeader:    [HeadEntryAddr(4)]
//	RowListEntry:    [RowHeaderAddr(4)][NextEntryAddr(4)]
//	RowHeader:       [FieldCount(4)][FieldListAddr(4)]
//	FieldData:       [TypeTag(4)][ValueSlot(4)]
//
// A field's 4-byte value slot holds the value inline for Int32, Float32
// (raw IEEE-754 bits) and Bool (non-zero word), and holds an offset for
// the by-reference kinds: Text points at a null-terminated legacy string,
// VarChar at a length-prefixed string, and Int64 at two adjacent 32-bit
// little-endian halves (low word first). The split Int64 cell is inherited
// from the original 32-bit client and is preserved verbatim for file
// compatibility.
//
// # String encodings
//
// Both encodings live in a shared append-only string pool and use the
// legacy single-byte text encoding (latin-1: one byte per code point,
// U+0000..U+00FF):
//
//	legacy:  [Byte * n][0x00]           (no interior NUL allowed)
//	indexed: [Length(4)][Byte * Length]  (may contain NUL)
//
// Encoding a string containing a rune outside latin-1 fails; the codec
// never substitutes replacement characters.
//
// # Hash
//
// Hash is the client's bucket-placement hash for string keys. It must
// match the original bit-for-bit, because files written here have to put
// every row in the bucket the shipped client will look in.
package codec
