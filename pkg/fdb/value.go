package fdb

import (
	"fmt"
	"math"
	"strconv"

	"github.com/relicdb/relicdb/pkg/codec"
)

// ValueType is the on-disk type tag of a column or field.
type ValueType uint32

// Type tags as stored in column headers and field data. Tags 2 and 7 were
// never assigned by the original client.
const (
	TypeNull    ValueType = 0
	TypeInt32   ValueType = 1
	TypeFloat32 ValueType = 3
	TypeText    ValueType = 4
	TypeBool    ValueType = 5
	TypeInt64   ValueType = 6
	TypeVarChar ValueType = 8
)

// Valid reports whether t is an assigned type tag.
func (t ValueType) Valid() bool {
	switch t {
	case TypeNull, TypeInt32, TypeFloat32, TypeText, TypeBool, TypeInt64, TypeVarChar:
		return true
	}
	return false
}

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeInt32:
		return "INT32"
	case TypeFloat32:
		return "FLOAT"
	case TypeText:
		return "TEXT"
	case TypeBool:
		return "BOOL"
	case TypeInt64:
		return "INT64"
	case TypeVarChar:
		return "VARCHAR"
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint32(t))
}

// Column is one entry of a table schema.
type Column struct {
	Name string
	Kind ValueType
}

// Value is a tagged field value. The zero Value is NULL.
type Value struct {
	kind ValueType
	num  int64 // Int32/Int64 value, Bool as 0/1, Float32 as IEEE bits
	str  string
}

// Null returns the NULL value.
func Null() Value {
	return Value{}
}

// Int32 returns an INT32 value.
func Int32(v int32) Value {
	return Value{kind: TypeInt32, num: int64(v)}
}

// Int64 returns an INT64 value.
func Int64(v int64) Value {
	return Value{kind: TypeInt64, num: v}
}

// Float32 returns a FLOAT value.
func Float32(v float32) Value {
	return Value{kind: TypeFloat32, num: int64(math.Float32bits(v))}
}

// Bool returns a BOOL value.
func Bool(v bool) Value {
	var n int64
	if v {
		n = 1
	}
	return Value{kind: TypeBool, num: n}
}

// Text returns a TEXT value.
func Text(s string) Value {
	return Value{kind: TypeText, str: s}
}

// VarChar returns a VARCHAR value.
func VarChar(s string) Value {
	return Value{kind: TypeVarChar, str: s}
}

// Kind returns the type tag of the value.
func (v Value) Kind() ValueType {
	return v.kind
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool {
	return v.kind == TypeNull
}

// AsInt32 returns the value if it is an INT32.
func (v Value) AsInt32() (int32, bool) {
	if v.kind != TypeInt32 {
		return 0, false
	}
	return int32(v.num), true
}

// AsInt64 returns the value if it is an INT64.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != TypeInt64 {
		return 0, false
	}
	return v.num, true
}

// AsFloat32 returns the value if it is a FLOAT.
func (v Value) AsFloat32() (float32, bool) {
	if v.kind != TypeFloat32 {
		return 0, false
	}
	return math.Float32frombits(uint32(v.num)), true
}

// Float32Bits returns the raw IEEE-754 bit pattern of a FLOAT value.
// Bits pass through decode and encode unchanged, so NaN payloads and
// denormals survive a round trip byte-exactly.
func (v Value) Float32Bits() (uint32, bool) {
	if v.kind != TypeFloat32 {
		return 0, false
	}
	return uint32(v.num), true
}

// AsBool returns the value if it is a BOOL.
func (v Value) AsBool() (bool, bool) {
	if v.kind != TypeBool {
		return false, false
	}
	return v.num != 0, true
}

// AsText returns the value if it is a TEXT.
func (v Value) AsText() (string, bool) {
	if v.kind != TypeText {
		return "", false
	}
	return v.str, true
}

// AsVarChar returns the value if it is a VARCHAR.
func (v Value) AsVarChar() (string, bool) {
	if v.kind != TypeVarChar {
		return "", false
	}
	return v.str, true
}

// Equal reports whether two values have the same kind and payload.
// Floats compare by bit pattern, so NaN equals an identical NaN and
// lookups stay deterministic.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case TypeText, TypeVarChar:
		return v.str == o.str
	}
	return v.num == o.num
}

func (v Value) String() string {
	switch v.kind {
	case TypeNull:
		return "NULL"
	case TypeInt32, TypeInt64:
		return strconv.FormatInt(v.num, 10)
	case TypeFloat32:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(v.num))), 'g', -1, 32)
	case TypeBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case TypeText, TypeVarChar:
		return strconv.Quote(v.str)
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint32(v.kind))
}

// BucketIndex returns the bucket a key value belongs to, matching the
// placement the shipped client expects. Integer keys place at their
// unsigned value mod bucketCount; string keys hash their legacy bytes;
// floats use the raw bit pattern. Placement is total and never fails.
func BucketIndex(key Value, bucketCount int) int {
	if bucketCount <= 0 {
		return 0
	}
	n := uint64(bucketCount)
	switch key.kind {
	case TypeInt32:
		return int(uint64(uint32(key.num)) % n)
	case TypeInt64:
		return int(uint64(key.num) % n)
	case TypeFloat32, TypeBool:
		return int(uint64(uint32(key.num)) % n)
	case TypeText, TypeVarChar:
		return int(uint64(codec.Hash(legacyBytes(key.str))) % n)
	}
	return 0
}

// legacyBytes serializes a key string the way the pool would, minus the
// terminator. Runes outside latin-1 are truncated to their low byte here;
// such strings are rejected later at encode time, but hashing stays total.
func legacyBytes(s string) []byte {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		b = append(b, byte(r))
	}
	return b
}
