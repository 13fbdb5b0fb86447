package codec

// Hash computes the 32-bit bucket hash of data.
//
// This reproduces the game client's string-key placement hash exactly: a
// rolling hash seeded with the input length that mixes consecutive
// little-endian 2-byte windows, with dedicated mixing for a 1-3 byte tail
// and a final avalanche. Trailing single bytes are sign-extended before
// mixing, a quirk inherited from the client's signed-char arithmetic that
// must be kept for byte-identical bucket placement.
//
// Hash is a pure, total function. Reference values:
//
//	Hash(nil)              == 0x00000000
//	Hash([]byte("abcd"))   == 0xdad8b8db
//	Hash([]byte("Activities")) == 0xf274ef10
func Hash(data []byte) uint32 {
	n := len(data)
	if n == 0 {
		return 0
	}
	h := uint32(n)
	i := 0
	for ; n >= 4; n -= 4 {
		h += load16(data, i)
		tmp := (load16(data, i+2) << 11) ^ h
		h = (h << 16) ^ tmp
		i += 4
		h += h >> 11
	}

	switch n {
	case 3:
		h += load16(data, i)
		h ^= h << 16
		h ^= uint32(int32(int8(data[i+2]))) << 18
		h += h >> 11
	case 2:
		h += load16(data, i)
		h ^= h << 11
		h += h >> 17
	case 1:
		h += uint32(int32(int8(data[i])))
		h ^= h << 10
		h += h >> 1
	}

	h ^= h << 3
	h += h >> 5
	h ^= h << 4
	h += h >> 17
	h ^= h << 25
	h += h >> 6
	return h
}

func load16(b []byte, i int) uint32 {
	return uint32(b[i]) | uint32(b[i+1])<<8
}
