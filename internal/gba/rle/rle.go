// Package rle implements the GBA BIOS run-length codec (format tag 0x30).
package rle

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
	"github.com/kingizor/dkcomp-go/internal/parser"
)

const (
	caseCopy = 0
	caseRLE  = 1
)

// Decompress expands GBA BIOS RLE-compressed data. The decompressed size
// is read from the 4-byte header.
func Decompress(input []byte) ([]byte, error) {
	if len(input) < 5 {
		return nil, dkerr.ErrInputSmall
	}
	if input[0]&0xF0 != 0x30 {
		return nil, dkerr.ErrSigWrong
	}
	outSize := int(input[3])<<16 | int(input[1]) | int(input[2])<<8
	in := bitio.NewReader(input)
	in.Pos = 4
	out := bitio.NewWriter(make([]byte, outSize))

	for out.Pos < outSize {
		v, err := in.ReadByte()
		if err != nil {
			return nil, err
		}
		count := int(v & 0x7F)
		if v&0x80 != 0 {
			count += 3
			lit, err := in.ReadByte()
			if err != nil {
				return nil, err
			}
			for i := 0; i < count; i++ {
				if err := out.WriteByte(lit); err != nil {
					return nil, err
				}
			}
		} else {
			count++
			for i := 0; i < count; i++ {
				b, err := in.ReadByte()
				if err != nil {
					return nil, err
				}
				if err := out.WriteByte(b); err != nil {
					return nil, err
				}
			}
		}
	}
	return out.Data, nil
}

// CompressedSize reports how many input bytes a call to Decompress would
// consume, without allocating the decompressed output.
func CompressedSize(input []byte) (int, error) {
	if len(input) < 5 {
		return 0, dkerr.ErrInputSmall
	}
	if input[0]&0xF0 != 0x30 {
		return 0, dkerr.ErrSigWrong
	}
	outSize := int(input[3])<<16 | int(input[1]) | int(input[2])<<8
	pos := 4
	produced := 0
	for produced < outSize {
		if pos >= len(input) {
			return 0, dkerr.ErrEarlyEOF
		}
		v := input[pos]
		pos++
		count := int(v & 0x7F)
		if v&0x80 != 0 {
			count += 3
			if pos >= len(input) {
				return 0, dkerr.ErrEarlyEOF
			}
			pos++
			produced += count
		} else {
			count++
			if pos+count > len(input) {
				return 0, dkerr.ErrEarlyEOF
			}
			pos += count
			produced += count
		}
	}
	return pos, nil
}

// Compress encodes input as GBA BIOS RLE data, using a shortest-path parse
// over run-length (cost 2, 3..130 bytes) and literal-copy (cost 1+n, 1..128
// bytes) cases to guarantee minimum output size.
func Compress(input []byte) ([]byte, error) {
	n := len(input)
	arena := parser.NewArena[int](n)

	for i := 0; i < n; i++ {
		a := input[i]
		runLen := 1
		for runLen < 130 && i+runLen < n && input[i+runLen] == a {
			runLen++
		}
		for rl := runLen; rl >= 3; rl-- {
			arena.Propose(i, rl, 2, caseRLE, rl-3)
		}
		copyLimit := n - i
		if copyLimit > 128 {
			copyLimit = 128
		}
		for cl := 1; cl <= copyLimit; cl++ {
			arena.Propose(i, cl, 1+cl, caseCopy, cl-1)
		}
	}

	moves, err := arena.ReversePath()
	if err != nil {
		return nil, err
	}

	outCap := 4 + len(input) + len(input)/127 + 8
	out := bitio.NewWriter(make([]byte, outCap))
	if err := out.WriteByte(0x30); err != nil {
		return nil, err
	}
	if err := out.Write24LE(uint32(n)); err != nil {
		return nil, err
	}
	for _, mv := range moves {
		switch mv.Case {
		case caseRLE:
			count := mv.Arg
			if err := out.WriteByte(byte(count) | 0x80); err != nil {
				return nil, err
			}
			if err := out.WriteByte(input[mv.Pos]); err != nil {
				return nil, err
			}
		case caseCopy:
			count := mv.Arg
			if err := out.WriteByte(byte(count)); err != nil {
				return nil, err
			}
			for i := 0; i <= count; i++ {
				if err := out.WriteByte(input[mv.Pos+i]); err != nil {
					return nil, err
				}
			}
		}
	}
	return out.Data[:out.Pos], nil
}
