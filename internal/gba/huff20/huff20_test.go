package huff20

import (
	"bytes"
	"testing"
)

func TestRoundTripVariedInput(t *testing.T) {
	input := []byte("the quick brown fox jumps over the lazy dog, repeatedly, many times over")
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if packed[0]&0xF0 != 0x20 {
		t.Fatalf("header nibble = %#x, want 0x2_", packed[0])
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch: got %q want %q", out, input)
	}
}

func TestRoundTripManySymbols(t *testing.T) {
	input := make([]byte, 0, 256*4)
	for i := 0; i < 256; i++ {
		for j := 0; j < (i%5)+1; j++ {
			input = append(input, byte(i))
		}
	}
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch over 256 distinct symbols")
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := bytes.Repeat([]byte("abcdefgh"), 50)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	n, err := CompressedSize(packed)
	if err != nil {
		t.Fatalf("CompressedSize: %v", err)
	}
	if n > len(packed) {
		t.Fatalf("CompressedSize = %d, exceeds packed length %d", n, len(packed))
	}
}
