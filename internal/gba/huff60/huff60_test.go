package huff60

import (
	"bytes"
	"testing"
)

func TestRoundTripBootWithSingleByte(t *testing.T) {
	input := []byte("A")
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if packed[0] != 0x60 {
		t.Fatalf("header byte = %#x, want 0x60", packed[0])
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch: got %q want %q", out, input)
	}
}

func TestRoundTripVariedInput(t *testing.T) {
	input := []byte("adaptive huffman trees grow one leaf at a time, over and over and over")
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
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
	input := make([]byte, 0, 256*3)
	for i := 0; i < 256; i++ {
		for j := 0; j < (i%3)+1; j++ {
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

func TestRoundTripTriggersRebuild(t *testing.T) {
	// A long repeating run pushes the root's weight past the 0x8000
	// rebuild threshold, exercising rebuildTree and the post-rebuild
	// nsearch/updateWeights path.
	input := bytes.Repeat([]byte{0x10, 0x20, 0x30}, 20000)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch across a tree rebuild")
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := bytes.Repeat([]byte("0123456789"), 40)
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

func TestBadSignature(t *testing.T) {
	bad := []byte{0x61, 0, 0, 0}
	if _, err := Decompress(bad); err == nil {
		t.Fatal("expected an error for a non-0x60 signature byte")
	}
}
