package verify

import (
	"bytes"
	"testing"

	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

func identity(b []byte) ([]byte, error) { return b, nil }

func TestCompressedAcceptsExactRoundTrip(t *testing.T) {
	original := []byte{1, 2, 3, 4, 5}
	if err := Compressed(original, append([]byte(nil), original...), identity); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestCompressedRejectsDecodeFailure(t *testing.T) {
	failing := func([]byte) ([]byte, error) { return nil, dkerr.ErrBadFormat }
	if err := Compressed([]byte{1, 2, 3}, []byte{1, 2, 3}, failing); err != dkerr.ErrVerifyDec {
		t.Fatalf("expected ErrVerifyDec, got %v", err)
	}
}

func TestCompressedRejectsSizeMismatch(t *testing.T) {
	short := func([]byte) ([]byte, error) { return []byte{1, 2}, nil }
	if err := Compressed([]byte{1, 2, 3}, []byte{1, 2, 3}, short); err != dkerr.ErrVerifySize {
		t.Fatalf("expected ErrVerifySize, got %v", err)
	}
}

func TestCompressedRejectsDataMismatch(t *testing.T) {
	garbled := func([]byte) ([]byte, error) { return []byte{9, 9, 9}, nil }
	if err := Compressed([]byte{1, 2, 3}, []byte{1, 2, 3}, garbled); err != dkerr.ErrVerifyData {
		t.Fatalf("expected ErrVerifyData, got %v", err)
	}
}

func TestCompressedLargeBufferStillMatches(t *testing.T) {
	original := bytes.Repeat([]byte{0x42}, fastRejectThreshold*2)
	if err := Compressed(original, append([]byte(nil), original...), identity); err != nil {
		t.Fatalf("expected success on large buffer, got %v", err)
	}
}

func TestCompressedLargeBufferDetectsMismatch(t *testing.T) {
	original := bytes.Repeat([]byte{0x42}, fastRejectThreshold*2)
	corrupt := append([]byte(nil), original...)
	corrupt[len(corrupt)/2] ^= 0xFF
	mangled := func([]byte) ([]byte, error) { return corrupt, nil }
	if err := Compressed(original, original, mangled); err != dkerr.ErrVerifyData {
		t.Fatalf("expected ErrVerifyData on large mismatched buffer, got %v", err)
	}
}
