// Package dkl implements the DKL tileset codec: a nibble-aligned, 7-case
// format (literal byte, long RLE, word repeat, incrementing-byte run,
// long nibble-packed run, and two history-copy variants at 7- and 11-bit
// distances), terminated by opcode 0xEE (component G of the
// specification).
package dkl

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

const (
	caseLiteral = iota
	caseByteRun
	caseWordRepeat
	caseIncRun
	caseNibbleRun
	caseHist7
	caseHist11
	caseTerminator = 0xE
)

func decodeCore(input []byte, collect bool) ([]byte, int, error) {
	in := bitio.NewReader(input)

	var out []byte
	outPos := 0

	wb := func(v byte) error {
		if collect {
			out = append(out, v)
		}
		outPos++
		return nil
	}
	readOut := func(dist int) (byte, error) {
		addr := outPos - dist - 1
		if addr < 0 || addr >= outPos {
			return 0, dkerr.ErrOobOutputRead
		}
		if !collect {
			return 0, nil
		}
		return out[addr], nil
	}
	rn := func() (byte, error) { return in.ReadNibble() }
	rb := func() (byte, error) { return in.ReadNibbleByte() }

	// readCount reads a 1-nibble count (0-14 direct, 15 escapes to a
	// full extra byte), returning count+bias.
	readCount := func(bias int) (int, error) {
		c, err := rn()
		if err != nil {
			return 0, err
		}
		if c == 15 {
			v, err := rb()
			if err != nil {
				return 0, err
			}
			return int(v) + bias, nil
		}
		return int(c) + bias, nil
	}

	for {
		op, err := rn()
		if err != nil {
			return nil, 0, err
		}

		switch op {
		case caseTerminator:
			op2, err := rn()
			if err != nil {
				return nil, 0, err
			}
			if op2 != caseTerminator {
				return nil, 0, dkerr.ErrBadFormat
			}
			if collect {
				return out, in.NibbleConsumed(), nil
			}
			return nil, in.NibbleConsumed(), nil

		case caseLiteral:
			v, err := rb()
			if err != nil {
				return nil, 0, err
			}
			if err := wb(v); err != nil {
				return nil, 0, err
			}

		case caseByteRun: // long RLE: byte, 3-17 times (or escaped higher)
			count, err := readCount(3)
			if err != nil {
				return nil, 0, err
			}
			v, err := rb()
			if err != nil {
				return nil, 0, err
			}
			for ; count > 0; count-- {
				if err := wb(v); err != nil {
					return nil, 0, err
				}
			}

		case caseWordRepeat: // word, 2-16 times (or escaped higher)
			count, err := readCount(2)
			if err != nil {
				return nil, 0, err
			}
			v0, err := rb()
			if err != nil {
				return nil, 0, err
			}
			v1, err := rb()
			if err != nil {
				return nil, 0, err
			}
			for ; count > 0; count-- {
				if err := wb(v0); err != nil {
					return nil, 0, err
				}
				if err := wb(v1); err != nil {
					return nil, 0, err
				}
			}

		case caseIncRun: // incrementing byte, 3-17 times (or escaped higher)
			count, err := readCount(3)
			if err != nil {
				return nil, 0, err
			}
			v, err := rb()
			if err != nil {
				return nil, 0, err
			}
			for ; count > 0; count-- {
				if err := wb(v); err != nil {
					return nil, 0, err
				}
				v++
			}

		case caseNibbleRun: // long nibble-packed run, 19-274 samples
			seed, err := rb()
			if err != nil {
				return nil, 0, err
			}
			fieldLen, err := rb()
			if err != nil {
				return nil, 0, err
			}
			count := int(fieldLen) + 19
			if err := wb(seed); err != nil {
				return nil, 0, err
			}
			carry := seed & 0xF0
			for i := 1; i < count; i++ {
				nib, err := rn()
				if err != nil {
					return nil, 0, err
				}
				b := carry | nib
				if err := wb(b); err != nil {
					return nil, 0, err
				}
				carry = b & 0xF0
			}

		case caseHist7: // history copy, 7-bit distance
			db, err := rb()
			if err != nil {
				return nil, 0, err
			}
			dist := int(db & 0x7F)
			count, err := readCount(4)
			if err != nil {
				return nil, 0, err
			}
			for ; count > 0; count-- {
				b, err := readOut(dist)
				if err != nil {
					return nil, 0, err
				}
				if err := wb(b); err != nil {
					return nil, 0, err
				}
			}

		case caseHist11: // history copy, 11-bit distance
			db, err := rb()
			if err != nil {
				return nil, 0, err
			}
			dn, err := rn()
			if err != nil {
				return nil, 0, err
			}
			dist := int(dn&7)<<8 | int(db)
			count, err := readCount(4)
			if err != nil {
				return nil, 0, err
			}
			for ; count > 0; count-- {
				b, err := readOut(dist)
				if err != nil {
					return nil, 0, err
				}
				if err := wb(b); err != nil {
					return nil, 0, err
				}
			}

		default:
			return nil, 0, dkerr.ErrBadFormat
		}
	}
}

// Decompress expands a DKL compressed block.
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
