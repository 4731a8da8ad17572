// Package gbprinter implements the GB Printer codec: a fixed 0x280-byte
// chunk, two-opcode RLE format (component H of the specification). Files
// must be split into 0x280-byte chunks before compressing, and a chunk
// decompresses to exactly 0x280 bytes.
package gbprinter

import "github.com/kingizor/dkcomp-go/internal/dkerr"

const chunkSize = 0x280

func decodeCore(input []byte, collect bool) ([]byte, int, error) {
	var out []byte
	if collect {
		out = make([]byte, 0, chunkSize)
	}
	pos := 0
	outLen := 0

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
		outLen++
		return nil
	}

	for pos < len(input) && outLen < chunkSize {
		a, err := rb()
		if err != nil {
			return nil, 0, err
		}
		if a&0x80 != 0 { // repeat
			count := int(a&^0x80) + 2
			v, err := rb()
			if err != nil {
				return nil, 0, err
			}
			for ; count > 0; count-- {
				if err := wb(v); err != nil {
					return nil, 0, err
				}
			}
		} else { // copy
			count := int(a&^0x80) + 1
			for ; count > 0; count-- {
				v, err := rb()
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

// Decompress expands a GB Printer compressed chunk to 0x280 bytes.
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
