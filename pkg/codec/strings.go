package codec

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"
)

// String codec errors. Callers wrap these with table/offset context.
var (
	ErrOutOfRange   = &StringError{"string offset out of range"}
	ErrUnterminated = &StringError{"legacy string has no terminator"}
	ErrUnencodable  = &StringError{"rune not representable in legacy encoding"}
)

// StringError represents a string codec failure.
type StringError struct {
	Message string
}

func (e *StringError) Error() string {
	return e.Message
}

// DecodeLegacy reads a null-terminated legacy string starting at off.
func DecodeLegacy(buf []byte, off uint32) (string, error) {
	if uint64(off) >= uint64(len(buf)) {
		return "", fmt.Errorf("legacy string at %d: %w", off, ErrOutOfRange)
	}
	rest := buf[off:]
	end := -1
	for i, c := range rest {
		if c == 0 {
			end = i
			break
		}
	}
	if end < 0 {
		return "", fmt.Errorf("legacy string at %d: %w", off, ErrUnterminated)
	}
	return decodeLatin1(rest[:end]), nil
}

// DecodeIndexed reads a length-prefixed string starting at off.
func DecodeIndexed(buf []byte, off uint32) (string, error) {
	if uint64(off)+4 > uint64(len(buf)) {
		return "", fmt.Errorf("indexed string at %d: %w", off, ErrOutOfRange)
	}
	n := binary.LittleEndian.Uint32(buf[off:])
	start := uint64(off) + 4
	if start+uint64(n) > uint64(len(buf)) {
		return "", fmt.Errorf("indexed string at %d: length %d: %w", off, n, ErrOutOfRange)
	}
	return decodeLatin1(buf[start : start+uint64(n)]), nil
}

// AppendLegacy appends s in the legacy encoding, including the terminator,
// and returns the extended buffer. It fails on runes outside latin-1 and on
// interior NUL, which the terminator makes unrepresentable.
func AppendLegacy(dst []byte, s string) ([]byte, error) {
	for _, r := range s {
		if r == 0 {
			return nil, fmt.Errorf("legacy string %q contains NUL: %w", s, ErrUnencodable)
		}
		if r > 0xFF {
			return nil, fmt.Errorf("rune %q in %q: %w", r, s, ErrUnencodable)
		}
		dst = append(dst, byte(r))
	}
	return append(dst, 0), nil
}

// AppendIndexed appends s with a length prefix and returns the extended
// buffer. NUL bytes are allowed; runes outside latin-1 are not.
func AppendIndexed(dst []byte, s string) ([]byte, error) {
	n := 0
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("rune %q in %q: %w", r, s, ErrUnencodable)
		}
		n++
	}
	var pre [4]byte
	binary.LittleEndian.PutUint32(pre[:], uint32(n))
	dst = append(dst, pre[:]...)
	for _, r := range s {
		dst = append(dst, byte(r))
	}
	return dst, nil
}

// decodeLatin1 maps each byte to the code point of the same value.
func decodeLatin1(b []byte) string {
	ascii := true
	for _, c := range b {
		if c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + len(b)/2)
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
