// Package lz77 implements the GBA BIOS LZ77 codec (format tag 0x10): an
// 8-entry block-flag byte followed by literal bytes or 12-bit-offset,
// 4-bit-count history copies.
package lz77

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
	"github.com/kingizor/dkcomp-go/internal/parser"
)

const (
	caseLiteral = 0
	caseHistory = 1

	window    = 1 << 12
	maxCount  = 18 // 15 (4-bit count) + 3
	minCount  = 3
)

// Decompress expands GBA BIOS LZ77-compressed data.
func Decompress(input []byte) ([]byte, error) {
	if len(input) < 5 {
		return nil, dkerr.ErrInputSmall
	}
	if input[0]&0xF0 != 0x10 {
		return nil, dkerr.ErrSigWrong
	}
	outSize := int(input[3])<<16 | int(input[1]) | int(input[2])<<8
	in := bitio.NewReader(input)
	in.Pos = 4
	out := bitio.NewWriter(make([]byte, outSize))

	for out.Pos < outSize {
		blocks, err := in.ReadByte()
		if err != nil {
			return nil, err
		}
		for i := 0; i < 8; i++ {
			v1, err := in.ReadByte()
			if err != nil {
				return nil, err
			}
			if blocks&(1<<uint(7^i)) != 0 {
				v2, err := in.ReadByte()
				if err != nil {
					return nil, err
				}
				count := int(v1>>4) + 3
				offset := (int(v1&0xF) << 8) | int(v2)
				if offset > out.Pos-1 {
					return nil, dkerr.ErrLz77Hist
				}
				for count > 0 {
					count--
					if err := out.WriteByte(out.Data[out.Pos-offset-1]); err != nil {
						return nil, err
					}
				}
			} else {
				if err := out.WriteByte(v1); err != nil {
					return nil, err
				}
			}
			if out.Pos == outSize {
				break
			}
		}
	}
	return out.Data, nil
}

// CompressedSize reports the number of input bytes a call to Decompress
// would consume.
func CompressedSize(input []byte) (int, error) {
	if len(input) < 5 {
		return 0, dkerr.ErrInputSmall
	}
	if input[0]&0xF0 != 0x10 {
		return 0, dkerr.ErrSigWrong
	}
	outSize := int(input[3])<<16 | int(input[1]) | int(input[2])<<8
	pos := 4
	produced := 0
	for produced < outSize {
		if pos >= len(input) {
			return 0, dkerr.ErrEarlyEOF
		}
		blocks := input[pos]
		pos++
		for i := 0; i < 8 && produced < outSize; i++ {
			if pos >= len(input) {
				return 0, dkerr.ErrEarlyEOF
			}
			v1 := input[pos]
			pos++
			if blocks&(1<<uint(7^i)) != 0 {
				if pos >= len(input) {
					return 0, dkerr.ErrEarlyEOF
				}
				pos++
				produced += int(v1>>4) + 3
			} else {
				produced++
			}
		}
	}
	return pos, nil
}

// Compress encodes input as GBA BIOS LZ77 data using a shortest-path parse
// over a 4096-byte history window, mirroring the original's constant-cost
// estimate for history matches (since a history entry always costs 2 bytes
// regardless of count, all lengths from the running best up to the new
// longest match are proposed at the same cost).
func Compress(input []byte) ([]byte, error) {
	n := len(input)
	arena := parser.NewArena[int](n)

	for i := 0; i < n; i++ {
		bestCount, bestOffset := 0, 0
		lo := 0
		if i > window {
			lo = i - window
		}
		for j := lo; j < i; j++ {
			cmpLim := maxCount
			if rem := n - i; cmpLim > rem {
				cmpLim = rem
			}
			matched := 0
			for matched < cmpLim && input[i+matched] == input[j+matched] {
				matched++
			}
			if matched >= minCount && bestCount <= matched-minCount {
				for k := bestCount; k <= matched-minCount; k++ {
					arena.Propose(i, k+minCount, 10, caseHistory, i-j-1)
				}
				bestCount = matched - minCount
				bestOffset = j
				if bestCount == 15 {
					break
				}
			}
		}
		_ = bestOffset
		arena.Propose(i, 1, 9, caseLiteral, 0)
	}

	moves, err := arena.ReversePath()
	if err != nil {
		return nil, err
	}

	type entry struct {
		pos, length, ncase, offset int
	}
	full := make([]entry, len(moves))
	for i, mv := range moves {
		next := n
		if i+1 < len(moves) {
			next = moves[i+1].Pos
		}
		full[i] = entry{pos: mv.Pos, length: next - mv.Pos, ncase: mv.Case, offset: mv.Arg}
	}

	outCap := 4 + n + n/8 + 8
	out := bitio.NewWriter(make([]byte, outCap))
	if err := out.WriteByte(0x10); err != nil {
		return nil, err
	}
	if err := out.Write24LE(uint32(n)); err != nil {
		return nil, err
	}
	for idx := 0; idx < len(full); {
		var block byte
		blockLen := 0
		for blockLen < 8 && idx+blockLen < len(full) {
			block <<= 1
			if full[idx+blockLen].ncase == caseHistory {
				block |= 1
			}
			blockLen++
		}
		block <<= uint(8 - blockLen)
		if err := out.WriteByte(block); err != nil {
			return nil, err
		}
		for k := 0; k < blockLen; k++ {
			e := full[idx+k]
			if e.ncase == caseLiteral {
				if err := out.WriteByte(input[e.pos]); err != nil {
					return nil, err
				}
			} else {
				count := e.length - minCount
				b0 := byte(e.offset>>8) | byte(count<<4)
				b1 := byte(e.offset)
				if err := out.WriteByte(b0); err != nil {
					return nil, err
				}
				if err := out.WriteByte(b1); err != nil {
					return nil, err
				}
			}
		}
		idx += blockLen
	}
	return out.Data[:out.Pos], nil
}
