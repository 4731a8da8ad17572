package huffman

import (
	"bytes"
	"testing"
)

func TestRoundTripVariedTiles(t *testing.T) {
	input := make([]byte, 0, tileBytes*40)
	for i := 0; i < 40; i++ {
		for j := 0; j < tileBytes; j++ {
			input = append(input, byte((i*7+j*3)%251))
		}
	}

	tree, err := BuildTree(input)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	packed, err := Encode(input, tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(packed, tree, len(input)/tileBytes)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch: got %v want %v", out, input)
	}
}

func TestRoundTripRepetitiveTiles(t *testing.T) {
	input := bytes.Repeat([]byte{0x00, 0x11, 0x22, 0x33}, tileBytes*5)
	tree, err := BuildTree(input)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	packed, err := Encode(input, tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(packed, tree, len(input)/tileBytes)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch for repetitive input")
	}
}

func TestRoundTripSingleDistinctByte(t *testing.T) {
	input := bytes.Repeat([]byte{0x7F}, tileBytes*3)
	tree, err := BuildTree(input)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	packed, err := Encode(input, tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(packed, tree, len(input)/tileBytes)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch for degenerate single-leaf tree")
	}
}

func TestBuildTreeRejectsEmptyInput(t *testing.T) {
	if _, err := BuildTree(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestDecodeRejectsWrongTreeSize(t *testing.T) {
	if _, err := Decode([]byte{0x00}, make([]byte, 4), 1); err == nil {
		t.Fatalf("expected error for undersized tree")
	}
}

func TestEncodeRejectsWrongTreeSize(t *testing.T) {
	if _, err := Encode([]byte{0x00}, make([]byte, 4)); err == nil {
		t.Fatalf("expected error for undersized tree")
	}
}

func TestEncodeRejectsOversizedInput(t *testing.T) {
	tree, err := BuildTree(bytes.Repeat([]byte{0x01, 0x02}, tileBytes))
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if _, err := Encode(make([]byte, 0x1001), tree); err == nil {
		t.Fatalf("expected error for input over 0x1000 bytes")
	}
}
