package dkcchr

import (
	"bytes"
	"sort"
	"testing"
)

func TestRoundTripVariedInput(t *testing.T) {
	var input []byte
	for i := 0; i < 300; i++ {
		input = append(input, byte(i), byte(i*3+1), byte(i%7))
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
		t.Fatalf("round trip mismatch: got %d bytes want %d", len(out), len(input))
	}
}

func TestRoundTripRepeatingTiles(t *testing.T) {
	input := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 150)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch over a repeating tile pattern")
	}
}

func TestLUTIsSortedAndSized(t *testing.T) {
	input := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog, twice over"), 5)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(packed) < headerSize {
		t.Fatalf("packed output shorter than the LUT header")
	}
	words := make([]uint16, lutSize)
	seen := make(map[uint16]bool, lutSize)
	for i := 0; i < lutSize; i++ {
		w := uint16(packed[i*2])<<8 | uint16(packed[i*2+1])
		words[i] = w
		if seen[w] {
			t.Fatalf("LUT entry %#04x repeated at index %d", w, i)
		}
		seen[w] = true
	}
	if !sort.SliceIsSorted(words, func(i, j int) bool { return words[i] < words[j] }) {
		t.Fatalf("LUT entries are not strictly ascending: %v", words)
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := bytes.Repeat([]byte{0xAA, 0xBB, 0xCC}, 100)
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

func TestInputTooSmallHeader(t *testing.T) {
	if _, err := Decompress(make([]byte, 10)); err == nil {
		t.Fatal("expected an error for input shorter than the LUT header")
	}
}
