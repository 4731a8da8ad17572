package rle

import (
	"bytes"
	"testing"

	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

func TestRoundTripUniform(t *testing.T) {
	input := bytes.Repeat([]byte{0xAA}, 0x1000)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(out), len(input))
	}
	// 0x1000 identical bytes packs into runs of at most 130, so only a
	// handful of RLE control/literal pairs plus the 4-byte header.
	if want := 4 + 2*((0x1000+129)/130); len(packed) > want {
		t.Fatalf("packed size %d larger than expected upper bound %d", len(packed), want)
	}
}

func TestRoundTripMixed(t *testing.T) {
	input := []byte{1, 2, 3, 4, 5, 5, 5, 5, 5, 5, 6, 7, 8, 9, 9, 9}
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch: got %v, want %v", out, input)
	}
}

func TestBadSignature(t *testing.T) {
	_, err := Decompress([]byte{0x10, 0, 0, 0, 0})
	if err != dkerr.ErrSigWrong {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := bytes.Repeat([]byte{7}, 300)
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
