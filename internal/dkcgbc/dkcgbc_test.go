package dkcgbc

import (
	"bytes"
	"testing"
)

func TestRoundTripVariedInput(t *testing.T) {
	var input []byte
	for i := 0; i < 500; i++ {
		input = append(input, byte(i), byte(i*5+2), byte(i%11))
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

func TestRoundTripLongRun(t *testing.T) {
	input := bytes.Repeat([]byte{0x7E}, 400)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch over a long byte run")
	}
}

func TestRoundTripRepeatingTileBlock(t *testing.T) {
	input := bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, 40)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch over a repeating tile block")
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := bytes.Repeat([]byte{0xAA, 0xBB}, 90)
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

func TestEmptyInputRejected(t *testing.T) {
	if _, err := Compress(nil); err == nil {
		t.Fatal("expected an error for empty input")
	}
}
