// Package verify implements the optional round-trip self-check run after
// compression: re-decode the freshly produced output and confirm it
// reproduces the original input exactly, surfacing VerifyDec/VerifySize/
// VerifyData on failure rather than returning compressed data silently
// wrong. For large buffers it fast-rejects on an xxhash digest mismatch
// before falling back to a byte-for-byte compare.
package verify

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

// fastRejectThreshold is the smallest buffer size at which a digest comparison
// runs before the full byte compare; below it the digest pass buys
// nothing and is skipped.
const fastRejectThreshold = 4096

// Compressed re-decompresses packed with decompress and checks the result
// against original, returning the spec's three-stage verify errors:
// ErrVerifyDec if decompression itself fails, ErrVerifySize if the
// lengths disagree, ErrVerifyData if the lengths match but the bytes
// don't.
func Compressed(original, packed []byte, decompress func([]byte) ([]byte, error)) error {
	roundTrip, err := decompress(packed)
	if err != nil {
		return dkerr.ErrVerifyDec
	}
	if len(roundTrip) != len(original) {
		return dkerr.ErrVerifySize
	}
	if !equal(original, roundTrip) {
		return dkerr.ErrVerifyData
	}
	return nil
}

func equal(a, b []byte) bool {
	if len(a) >= fastRejectThreshold {
		if xxhash.Sum64(a) != xxhash.Sum64(b) {
			return false
		}
	}
	return bytes.Equal(a, b)
}
