// Package dkcgbc implements the DKC GBC tilemap codec: a 4-case format
// with a single-byte-run, a raw copy, and a short-window backref, all
// addressed by a plain control byte (component F of the specification).
package dkcgbc

import "github.com/kingizor/dkcomp-go/internal/dkerr"

// lzWindow bounds the backward distance of a case-3 copy: the distance is
// stored in one byte and must be non-zero, so it is at most lzWindow-1.
const lzWindow = 256

func decodeCore(input []byte, collect bool) ([]byte, int, error) {
	pos := 0
	var out []byte
	outPos := 0

	rb := func() (byte, error) {
		if pos >= len(input) {
			return 0, dkerr.ErrOobInput
		}
		v := input[pos]
		pos++
		return v, nil
	}
	wb := func(v byte) error {
		if collect {
			out = append(out, v)
		}
		outPos++
		return nil
	}
	readOut := func(dist int) (byte, error) {
		addr := outPos - dist
		if addr < 0 || addr >= outPos {
			return 0, dkerr.ErrOobOutputRead
		}
		if !collect {
			return 0, nil
		}
		return out[addr], nil
	}

	for {
		n, err := rb()
		if err != nil {
			return nil, 0, err
		}
		if n == 0 {
			break
		}

		switch n >> 6 {
		case 0, 1: // Single byte, 1-127 times
			v, err := rb()
			if err != nil {
				return nil, 0, err
			}
			for i := int(n); i > 0; i-- {
				if err := wb(v); err != nil {
					return nil, 0, err
				}
			}

		case 2: // 1-63 bytes from input
			count := n & 0x3F
			for i := count; i > 0; i-- {
				v, err := rb()
				if err != nil {
					return nil, 0, err
				}
				if err := wb(v); err != nil {
					return nil, 0, err
				}
			}

		case 3: // 1-63 bytes from output, backref
			dist, err := rb()
			if err != nil {
				return nil, 0, err
			}
			count := n & 0x3F
			for i := count; i > 0; i-- {
				v, err := readOut(int(dist))
				if err != nil {
					return nil, 0, err
				}
				if err := wb(v); err != nil {
					return nil, 0, err
				}
			}
		}
	}
	return out, pos, nil
}

// Decompress expands a DKC GBC compressed block.
func Decompress(input []byte) ([]byte, error) {
	out, _, err := decodeCore(input, true)
	return out, err
}

// CompressedSize reports the number of input bytes a call to Decompress
// would consume.
func CompressedSize(input []byte) (int, error) {
	_, n, err := decodeCore(input, false)
	return n, err
}
