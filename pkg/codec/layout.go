package codec

// NullOffset is the reserved "no valid offset" value used for empty
// buckets and chain ends. Offset 0 is a legitimate location (the file
// header), so the sentinel is all ones.
const NullOffset uint32 = 0xFFFFFFFF

// Sizes of the fixed-layout structures, in bytes.
const (
	FileHeaderSize      = 8
	TableHeaderSize     = 8
	TableDefHeaderSize  = 12
	ColumnHeaderSize    = 8
	TableDataHeaderSize = 8
	BucketHeaderSize    = 4
	RowListEntrySize    = 8
	RowHeaderSize       = 8
	FieldDataSize       = 8
	Int64CellSize       = 8
)
