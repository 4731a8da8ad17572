package lz77

import (
	"bytes"
	"testing"
)

func TestRoundTripRepeatingPattern(t *testing.T) {
	input := bytes.Repeat([]byte("ABC"), 20)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if packed[0]&0xF0 != 0x10 {
		t.Fatalf("header nibble = %#x, want 0x1_", packed[0])
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripNoRepeats(t *testing.T) {
	input := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch: got %v want %v", out, input)
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := bytes.Repeat([]byte("hello world"), 10)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	n, err := CompressedSize(packed)
	if err != nil {
		t.Fatalf("CompressedSize: %v", err)
	}
	if n != len(packed) {
		t.Fatalf("CompressedSize = %d, want %d", n, len(packed))
	}
}
