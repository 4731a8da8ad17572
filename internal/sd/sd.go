// Package sd implements the "small data" codec: four optional/mandatory
// bit-packed substreams that OR-accumulate 16-bit words into the output
// buffer, followed by a mandatory run-length main pass (component D of
// the specification).
package sd

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

// headerSize is the byte length of the container header: a sub-pass mask
// byte followed by a little-endian 16-bit output word count.
const headerSize = 3

// mw ORs a 16-bit value into the output buffer at word address addr.
func mw(out []byte, addr, val int) error {
	addr <<= 1
	if addr < 0 || addr+1 >= len(out) {
		return dkerr.ErrOobOutputWrite
	}
	out[addr] |= byte(val)
	out[addr+1] |= byte(val >> 8)
	return nil
}

// subDecompress runs one of the four sub-passes: modes 0-2 pack a single
// bit value into one of the top three bits of the high byte, mode 3 packs
// three bits into the next nibble down.
func subDecompress(r *bitio.MSBBitReader, out []byte, mode int) error {
	var valSize, countSize, shift uint
	if mode == 3 {
		valSize, countSize, shift = 3, 4, 10
	} else {
		valSize, countSize, shift = 1, 6, uint(13+mode)
	}

	addr := 0
	for {
		loop, err := r.ReadBits(1)
		if err != nil {
			return err
		}
		val, err := r.ReadBits(int(valSize))
		if err != nil {
			return err
		}
		val <<= shift

		count := 1
		if loop != 0 {
			c, err := r.ReadBits(int(countSize))
			if err != nil {
				return err
			}
			count = int(c)
		}
		if count == 0 {
			return nil
		}
		for ; count > 0; count-- {
			if err := mw(out, addr, int(val)); err != nil {
				return err
			}
			addr++
		}
	}
}

// mainDecompress runs the mandatory final pass: a 2-bit mode selects
// between a single write, a repeated write, or an incrementing/decrementing
// run, each packing a 10-bit value into the low bits of the output word.
func mainDecompress(r *bitio.MSBBitReader, out []byte) error {
	addr := 0
	for {
		mode, err := r.ReadBits(2)
		if err != nil {
			return err
		}
		val, err := r.ReadBits(10)
		if err != nil {
			return err
		}

		var count int
		switch mode {
		case 0:
			count = 1
		case 1:
			c, err := r.ReadBits(6)
			if err != nil {
				return err
			}
			if c == 0 {
				return nil
			}
			count = int(c)
		default:
			c, err := r.ReadBits(4)
			if err != nil {
				return err
			}
			if c == 0 {
				return dkerr.ErrSdBadExit
			}
			count = int(c)
		}

		for ; count > 0; count-- {
			if err := mw(out, addr, int(val)); err != nil {
				return err
			}
			addr++
			switch mode {
			case 2:
				val = (val + 1) & 0x3FF
			case 3:
				val = (val - 1) & 0x3FF
			}
		}
	}
}

func decodeCore(input []byte) ([]byte, int, error) {
	if len(input) < headerSize {
		return nil, 0, dkerr.ErrInputSmall
	}
	subs := input[0] & 7
	wordCount := int(input[1]) | int(input[2])<<8
	out := make([]byte, wordCount<<1)

	r := bitio.NewMSBBitReader(input)
	r.Pos = headerSize

	for i := 0; i < 3; i++ {
		if subs&(1<<uint(i)) != 0 {
			if err := subDecompress(r, out, i); err != nil {
				return nil, 0, err
			}
		}
	}
	if err := subDecompress(r, out, 3); err != nil {
		return nil, 0, err
	}
	if err := mainDecompress(r, out); err != nil {
		return nil, 0, err
	}
	return out, r.Consumed(), nil
}

// Decompress expands a small-data compressed block into its 16-bit-word
// output buffer.
func Decompress(input []byte) ([]byte, error) {
	out, _, err := decodeCore(input)
	return out, err
}

// CompressedSize reports the number of input bytes a call to Decompress
// would consume.
func CompressedSize(input []byte) (int, error) {
	_, n, err := decodeCore(input)
	return n, err
}
