package bd

import (
	"bytes"
	"testing"
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
		t.Fatalf("round trip mismatch over uniform input")
	}
}

func TestRoundTripVariedInput(t *testing.T) {
	var input []byte
	for i := 0; i < 400; i++ {
		input = append(input, byte(i*7), byte(i*7), byte(i*3+1))
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

func TestRoundTripRepeatingWords(t *testing.T) {
	input := bytes.Repeat([]byte{0x10, 0x20, 0x30, 0x40}, 200)
	packed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch over repeating word pattern")
	}
}

func TestInputTooSmall(t *testing.T) {
	if _, err := Compress(make([]byte, 10)); err == nil {
		t.Fatal("expected an error for input under the 128-byte minimum")
	}
}

func TestCompressedSizeMatchesDecompress(t *testing.T) {
	input := bytes.Repeat([]byte("retrogame data, over and over "), 10)
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
