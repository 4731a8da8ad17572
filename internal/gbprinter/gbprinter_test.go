package gbprinter

import (
	"bytes"
	"testing"
)

func makeChunk(fill func(i int) byte) []byte {
	chunk := make([]byte, chunkSize)
	for i := range chunk {
		chunk[i] = fill(i)
	}
	return chunk
}

func TestRoundTripVariedChunk(t *testing.T) {
	input := makeChunk(func(i int) byte { return byte(i*7 + i/13) })
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripUniformChunk(t *testing.T) {
	input := makeChunk(func(i int) byte { return 0x2A })
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch over a uniform chunk")
	}
	// A repeat op covers at most 129 bytes and costs 2 bytes.
	if want := 2 * ((chunkSize + 128) / 129); len(packed) > want {
		t.Fatalf("uniform chunk should compress to at most %d bytes of RLE runs, got %d bytes", want, len(packed))
	}
}

func TestRoundTripMixedRuns(t *testing.T) {
	input := makeChunk(func(i int) byte {
		switch {
		case i < 200:
			return 0x10
		case i < 400:
			return byte(i)
		default:
			return 0x55
		}
	})
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch over mixed runs")
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := makeChunk(func(i int) byte { return byte(i) })
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

func TestChunkSizeEnforced(t *testing.T) {
	if _, err := Compress(make([]byte, chunkSize-1)); err == nil {
		t.Fatal("expected an error for an undersized chunk")
	}
	if _, err := Compress(make([]byte, chunkSize+1)); err == nil {
		t.Fatal("expected an error for an oversized chunk")
	}
}
