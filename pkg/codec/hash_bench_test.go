package codec

import (
	"bytes"
	"testing"
)

func BenchmarkHash_Short(b *testing.B) {
	in := []byte("ItemComponent")
	b.SetBytes(int64(len(in)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Hash(in)
	}
}

func BenchmarkHash_1KB(b *testing.B) {
	in := bytes.Repeat([]byte("k"), 1024)
	b.SetBytes(int64(len(in)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Hash(in)
	}
}
