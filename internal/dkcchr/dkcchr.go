// Package dkcchr implements the DKC CHR codec: a 4-case tileset format
// with a 64-word lookup table up front (component E of the specification).
package dkcchr

import "github.com/kingizor/dkcomp-go/internal/dkerr"

// lutSize is the number of 16-bit entries in the lookup table, and
// headerSize the byte length of the table itself.
const (
	lutSize    = 64
	headerSize = lutSize * 2
)

func decodeCore(input []byte, collect bool) ([]byte, int, error) {
	if len(input) < headerSize {
		return nil, 0, dkerr.ErrInputSmall
	}
	addr := headerSize

	var out []byte
	outPos := 0

	rb := func() (byte, error) {
		if addr >= len(input) {
			return 0, dkerr.ErrOobInput
		}
		v := input[addr]
		addr++
		return v, nil
	}
	rw := func() (int, error) {
		lo, err := rb()
		if err != nil {
			return 0, err
		}
		hi, err := rb()
		if err != nil {
			return 0, err
		}
		return int(lo) | int(hi)<<8, nil
	}
	wb := func(v byte) error {
		if collect {
			out = append(out, v)
		}
		outPos++
		return nil
	}
	rbo := func(pos int) (byte, error) {
		if pos < 0 || pos >= outPos {
			return 0, dkerr.ErrOobOutputRead
		}
		if !collect {
			return 0, nil
		}
		return out[pos], nil
	}

	for {
		n, err := rb()
		if err != nil {
			return nil, 0, err
		}
		if n == 0 {
			break
		}
		op := n >> 6
		if op != 0 {
			n &= 0x3F
		}

		switch op {
		case 0: // Copy n bytes from input
			for ; n > 0; n-- {
				b, err := rb()
				if err != nil {
					return nil, 0, err
				}
				if err := wb(b); err != nil {
					return nil, 0, err
				}
			}

		case 1: // Write a byte n times
			c, err := rb()
			if err != nil {
				return nil, 0, err
			}
			for ; n > 0; n-- {
				if err := wb(c); err != nil {
					return nil, 0, err
				}
			}

		case 2: // Copy n bytes from output at a 16-bit absolute offset
			v, err := rw()
			if err != nil {
				return nil, 0, err
			}
			if v >= outPos {
				return nil, 0, dkerr.ErrOobOutputRead
			}
			for ; n > 0; n-- {
				b, err := rbo(v)
				if err != nil {
					return nil, 0, err
				}
				if err := wb(b); err != nil {
					return nil, 0, err
				}
				v++
			}

		case 3: // Emit a word from the LUT
			lutAddr := int(n) << 1
			v0 := input[lutAddr]
			v1 := input[lutAddr+1]
			if err := wb(v0); err != nil {
				return nil, 0, err
			}
			if err := wb(v1); err != nil {
				return nil, 0, err
			}
		}
	}
	return out, addr, nil
}

// Decompress expands a DKC CHR compressed block.
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
