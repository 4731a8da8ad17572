package huff50

import (
	"bytes"
	"testing"
)

func TestRoundTripVariedInput(t *testing.T) {
	input := []byte("mississippi river valley compression test data, over and over again")
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if packed[0] != 0x50 {
		t.Fatalf("header byte = %#x, want 0x50", packed[0])
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch: got %q want %q", out, input)
	}
}

func TestRoundTripSingleByteValue(t *testing.T) {
	input := bytes.Repeat([]byte{0x42}, 64)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch for uniform input")
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := bytes.Repeat([]byte("0123456789"), 30)
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
