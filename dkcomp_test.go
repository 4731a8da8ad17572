package dkcomp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDispatchRoundTripDKL(t *testing.T) {
	input := []byte{0x01, 0x02, 0x03, 0x01, 0x02, 0x03, 0x01, 0x02}
	packed, err := Compress(FormatDKL, input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(FormatDKL, packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch through the dispatcher")
	}
}

func TestDispatchRoundTripGBARLE(t *testing.T) {
	input := bytes.Repeat([]byte{0x11, 0x22}, 40)
	packed, err := Compress(FormatGBARLE, input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	out, err := Decompress(FormatGBARLE, packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("round trip mismatch through the dispatcher")
	}
}

func TestGBAAutoDetectMatchesExplicitFormat(t *testing.T) {
	input := bytes.Repeat([]byte{0x05, 0x06, 0x07}, 30)
	packed, err := Compress(FormatGBARLE, input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	viaAuto, err := Decompress(FormatGBA, packed)
	if err != nil {
		t.Fatalf("Decompress via auto-detect: %v", err)
	}
	viaExplicit, err := Decompress(FormatGBARLE, packed)
	if err != nil {
		t.Fatalf("Decompress explicit: %v", err)
	}
	if !bytes.Equal(viaAuto, viaExplicit) {
		t.Fatalf("auto-detected decode disagrees with explicit decode")
	}
}

func TestGBAAutoDetectUnrecognisedNibble(t *testing.T) {
	input := []byte{0x00, 0x00, 0x00, 0x00, 0x00}
	if _, err := Decompress(FormatGBA, input); err != ErrGbaDetect {
		t.Fatalf("expected ErrGbaDetect, got %v", err)
	}
}

func TestCompressAutoDetectUnsupported(t *testing.T) {
	if _, err := Compress(FormatGBA, []byte{0x01}); err != ErrCompNot {
		t.Fatalf("expected ErrCompNot for FormatGBA, got %v", err)
	}
}

func TestNullInputRejected(t *testing.T) {
	if _, err := Compress(FormatBD, nil); err != ErrNullInput {
		t.Fatalf("expected ErrNullInput, got %v", err)
	}
	if _, err := Decompress(FormatBD, nil); err != ErrNullInput {
		t.Fatalf("expected ErrNullInput, got %v", err)
	}
}

func TestSizeCapPerFormat(t *testing.T) {
	snes, err := SizeCap(FormatBD)
	if err != nil {
		t.Fatalf("SizeCap(BD): %v", err)
	}
	if snes != 1<<16 {
		t.Fatalf("SNES size cap = %d, want %d", snes, 1<<16)
	}
	gba, err := SizeCap(FormatGBAHuff60)
	if err != nil {
		t.Fatalf("SizeCap(Huff60): %v", err)
	}
	if gba != 1<<24 {
		t.Fatalf("GBA size cap = %d, want %d", gba, 1<<24)
	}
}

func TestCompressedSizeWithOffset(t *testing.T) {
	input := bytes.Repeat([]byte{0x33, 0x44}, 40)
	packed, err := Compress(FormatGBARLE, input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	prefix := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	embedded := append(prefix, packed...)

	n, err := CompressedSize(FormatGBARLE, embedded, len(prefix))
	if err != nil {
		t.Fatalf("CompressedSize: %v", err)
	}
	if n > len(packed) {
		t.Fatalf("CompressedSize = %d, exceeds packed length %d", n, len(packed))
	}

	if _, err := CompressedSize(FormatGBARLE, embedded, -1); err != ErrOffsetNeg {
		t.Fatalf("expected ErrOffsetNeg, got %v", err)
	}
	if _, err := CompressedSize(FormatGBARLE, embedded, len(embedded)+1); err != ErrOffsetBig {
		t.Fatalf("expected ErrOffsetBig, got %v", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	input := bytes.Repeat([]byte{0x77, 0x88, 0x99}, 50)

	inPath := filepath.Join(dir, "in.bin")
	packedPath := filepath.Join(dir, "packed.bin")
	outPath := filepath.Join(dir, "out.bin")

	if err := os.WriteFile(inPath, input, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := CompressFile(FormatGBARLE, packedPath, inPath); err != nil {
		t.Fatalf("CompressFile: %v", err)
	}
	if err := DecompressFile(FormatGBARLE, outPath, packedPath); err != nil {
		t.Fatalf("DecompressFile: %v", err)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("file round trip mismatch")
	}
}

func TestDecompressFileAtOffset(t *testing.T) {
	dir := t.TempDir()
	input := bytes.Repeat([]byte{0xAB, 0xCD}, 40)
	packed, err := Compress(FormatGBARLE, input)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	prefix := bytes.Repeat([]byte{0x00}, 16)
	combined := append(prefix, packed...)
	inPath := filepath.Join(dir, "rom.bin")
	outPath := filepath.Join(dir, "out.bin")
	if err := os.WriteFile(inPath, combined, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := DecompressFileAt(FormatGBARLE, outPath, inPath, int64(len(prefix))); err != nil {
		t.Fatalf("DecompressFileAt: %v", err)
	}
	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Fatalf("offset file decompress mismatch")
	}
}
