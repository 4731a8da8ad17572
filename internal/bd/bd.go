// Package bd implements the SNES DKC2/DKC3 "big data" codec: a 16-case,
// nibble-aligned format with a 39-byte constant table (two RLE bytes, two
// byte constants, one word constant, and a 16-word lookup table) at the
// front of every compressed block.
package bd

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

// headerSize is the size of the constant table every block starts with;
// case opcodes are read starting at this offset.
const headerSize = 0x27

// outLimit is the SNES bank size every decompressed block is bounded by.
const outLimit = 0x10000

func decodeCore(input []byte, collect bool) ([]byte, int, error) {
	if len(input) < headerSize+1 {
		return nil, 0, dkerr.ErrInputSmall
	}
	in := bitio.NewReader(input)
	in.Pos = headerSize

	var out *bitio.Stream
	if collect {
		out = bitio.NewWriter(make([]byte, outLimit))
	}
	pos := 0

	writeOut := func(v byte) error {
		if pos > 0xFFFF {
			return dkerr.ErrOobOutputWrite
		}
		if collect {
			if err := out.WriteByte(v); err != nil {
				return err
			}
		}
		pos++
		return nil
	}
	readOut := func(dist int) (byte, error) {
		addr := pos - dist
		if addr < 0 || addr > 0xFFFF {
			return 0, dkerr.ErrOobOutputRead
		}
		if !collect {
			return 0, nil
		}
		return out.Data[addr], nil
	}
	rn := func() (byte, error) { return in.ReadNibble() }
	rb := func() (byte, error) { return in.ReadNibbleByte() }
	byteAt := func(idx int) (byte, error) {
		if idx < 0 || idx >= len(in.Data) {
			return 0, dkerr.ErrOobInput
		}
		return in.Data[idx], nil
	}

	for {
		c, err := rn()
		if err != nil {
			return nil, 0, err
		}
		switch c {

		case 0: // Copy n bytes
			n, err := rn()
			if err != nil {
				return nil, 0, err
			}
			if n == 0 {
				goto done
			}
			for ; n > 0; n-- {
				b, err := rb()
				if err != nil {
					return nil, 0, err
				}
				if err := writeOut(b); err != nil {
					return nil, 0, err
				}
			}

		case 2: // Write two bytes
			b, err := rb()
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(b); err != nil {
				return nil, 0, err
			}
			fallthrough

		case 1: // Write a byte
			b, err := rb()
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(b); err != nil {
				return nil, 0, err
			}

		case 3: // Write a byte 3-18
			n, err := rn()
			if err != nil {
				return nil, 0, err
			}
			z, err := rb()
			if err != nil {
				return nil, 0, err
			}
			for i := int(n) + 3; i > 0; i-- {
				if err := writeOut(z); err != nil {
					return nil, 0, err
				}
			}

		case 4, 5: // Write a constant 3-18
			n, err := rn()
			if err != nil {
				return nil, 0, err
			}
			v, err := byteAt(1 + int(c&1))
			if err != nil {
				return nil, 0, err
			}
			for i := int(n) + 3; i > 0; i-- {
				if err := writeOut(v); err != nil {
					return nil, 0, err
				}
			}

		case 6: // Write a word constant
			v0, err := byteAt(5)
			if err != nil {
				return nil, 0, err
			}
			v1, err := byteAt(6)
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(v0); err != nil {
				return nil, 0, err
			}
			if err := writeOut(v1); err != nil {
				return nil, 0, err
			}

		case 7, 8: // Write a byte constant
			v, err := byteAt(3 + int((c^1)&1))
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(v); err != nil {
				return nil, 0, err
			}

		case 9: // Write a recent word
			n, err := rn()
			if err != nil {
				return nil, 0, err
			}
			addr := int(n) + 2
			b, err := readOut(addr)
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(b); err != nil {
				return nil, 0, err
			}
			b, err = readOut(addr)
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(b); err != nil {
				return nil, 0, err
			}

		case 10: // 8-bit window
			n, err := rn()
			if err != nil {
				return nil, 0, err
			}
			count := int(n) + 3
			rbyte, err := rb()
			if err != nil {
				return nil, 0, err
			}
			addr := int(rbyte) + count
			for i := count; i > 0; i-- {
				b, err := readOut(addr)
				if err != nil {
					return nil, 0, err
				}
				if err := writeOut(b); err != nil {
					return nil, 0, err
				}
			}

		case 11: // 12-bit window
			n, err := rn()
			if err != nil {
				return nil, 0, err
			}
			count := int(n) + 3
			hi, err := rb()
			if err != nil {
				return nil, 0, err
			}
			lo, err := rn()
			if err != nil {
				return nil, 0, err
			}
			addr := int(hi)<<4 | int(lo)
			addr += 0x103
			for i := count; i > 0; i-- {
				b, err := readOut(addr)
				if err != nil {
					return nil, 0, err
				}
				if err := writeOut(b); err != nil {
					return nil, 0, err
				}
			}

		case 12: // 16-bit window
			n, err := rn()
			if err != nil {
				return nil, 0, err
			}
			count := int(n) + 3
			hi, err := rb()
			if err != nil {
				return nil, 0, err
			}
			lo, err := rb()
			if err != nil {
				return nil, 0, err
			}
			addr := int(hi)<<8 | int(lo)
			for i := count; i > 0; i-- {
				b, err := readOut(addr)
				if err != nil {
					return nil, 0, err
				}
				if err := writeOut(b); err != nil {
					return nil, 0, err
				}
			}

		case 13: // Repeat last byte
			b, err := readOut(1)
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(b); err != nil {
				return nil, 0, err
			}

		case 14: // Repeat last word
			b, err := readOut(2)
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(b); err != nil {
				return nil, 0, err
			}
			b, err = readOut(2)
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(b); err != nil {
				return nil, 0, err
			}

		case 15: // Word LUT
			n, err := rn()
			if err != nil {
				return nil, 0, err
			}
			addr := int(n)<<1 + 7
			v0, err := byteAt(addr)
			if err != nil {
				return nil, 0, err
			}
			v1, err := byteAt(addr + 1)
			if err != nil {
				return nil, 0, err
			}
			if err := writeOut(v0); err != nil {
				return nil, 0, err
			}
			if err := writeOut(v1); err != nil {
				return nil, 0, err
			}
		}
	}
done:
	if collect {
		return out.Data[:pos], in.NibbleConsumed(), nil
	}
	return nil, in.NibbleConsumed(), nil
}

// Decompress expands a big-data compressed block.
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
