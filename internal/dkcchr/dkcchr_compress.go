package dkcchr

import (
	"sort"

	"github.com/kingizor/dkcomp-go/internal/dkerr"
	"github.com/kingizor/dkcomp-go/internal/parser"
)

const (
	caseLiteral = 0
	caseRLE     = 1
	caseBackref = 2
	caseLUT     = 3
)

type cchrArg struct {
	val    byte // caseRLE
	offset int  // caseBackref: output offset to copy from
	lutIdx int  // caseLUT
}

// proposeCommon offers the literal/RLE/backref proposals shared by both
// parse passes; LUT word matches are offered separately by proposeLUT.
func proposeCommon(a *parser.Arena[cchrArg], input []byte, pos int, byLead map[uint16][]int) {
	n := len(input)

	// Case 0: copy up to 63 bytes from input.
	maxLit := n - pos
	if maxLit > 63 {
		maxLit = 63
	}
	for l := 1; l <= maxLit; l++ {
		a.Propose(pos, l, 1+l, caseLiteral, cchrArg{})
	}

	// Case 1: run of a single byte, up to 63 times.
	if pos < n {
		c := input[pos]
		run := 1
		for pos+run < n && input[pos+run] == c && run < 63 {
			run++
		}
		for l := 1; l <= run; l++ {
			a.Propose(pos, l, 2, caseRLE, cchrArg{val: c})
		}
	}

	// Case 2: copy from an earlier output offset, up to 63 bytes.
	if pos+1 < n {
		key := uint16(input[pos])<<8 | uint16(input[pos+1])
		for _, start := range byLead[key] {
			if start >= pos {
				break
			}
			l := 0
			for l < 63 && pos+l < n && input[start+l] == input[pos+l] {
				l++
			}
			for ln := 1; ln <= l; ln++ {
				a.Propose(pos, ln, 3, caseBackref, cchrArg{offset: start})
			}
		}
	}
}

func proposeLUT(a *parser.Arena[cchrArg], input []byte, pos int, lut []uint16) {
	if pos+1 >= len(input) {
		return
	}
	word := uint16(input[pos])<<8 | uint16(input[pos+1])
	idx := sort.Search(len(lut), func(i int) bool { return lut[i] >= word })
	if idx < len(lut) && lut[idx] == word {
		a.Propose(pos, 2, 1, caseLUT, cchrArg{lutIdx: idx})
	}
}

// backrefIndex maps each leading 2-byte pair to the (ascending) positions
// where it starts, so case-2 proposals don't need an O(n) scan per byte.
func backrefIndex(input []byte) map[uint16][]int {
	idx := make(map[uint16][]int)
	for i := 0; i+1 < len(input); i++ {
		key := uint16(input[i])<<8 | uint16(input[i+1])
		idx[key] = append(idx[key], i)
	}
	return idx
}

func runParse(input []byte, byLead map[uint16][]int, lut []uint16) ([]parser.Move[cchrArg], error) {
	n := len(input)
	a := parser.NewArena[cchrArg](n)
	for pos := 0; pos < n; pos++ {
		if !a.Reached(pos) {
			continue
		}
		proposeCommon(a, input, pos, byLead)
		if lut != nil {
			proposeLUT(a, input, pos, lut)
		}
	}
	return a.ReversePath()
}

// chooseLUT implements the production encoder's "strategy 2": it counts
// 2-byte words at odd byte offsets within the runs an initial LUT-less
// parse encoded as literal copies, and keeps the 64 most frequent distinct
// words as the table.
func chooseLUT(input []byte, byLead map[uint16][]int) ([]uint16, error) {
	path, err := runParse(input, byLead, nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[uint16]int)
	for i, m := range path {
		if m.Case != caseLiteral {
			continue
		}
		end := len(input)
		if i+1 < len(path) {
			end = path[i+1].Pos
		}
		for off := m.Pos; off+1 < end; off++ {
			if off%2 == 1 {
				word := uint16(input[off])<<8 | uint16(input[off+1])
				counts[word]++
			}
		}
	}

	type cand struct {
		word  uint16
		count int
	}
	cands := make([]cand, 0, len(counts))
	for w, c := range counts {
		cands = append(cands, cand{w, c})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].count != cands[j].count {
			return cands[i].count > cands[j].count
		}
		return cands[i].word < cands[j].word
	})
	if len(cands) > lutSize {
		cands = cands[:lutSize]
	}
	lut := make([]uint16, len(cands))
	for i, c := range cands {
		lut[i] = c.word
	}
	sort.Slice(lut, func(i, j int) bool { return lut[i] < lut[j] })
	return lut, nil
}

// Compress packs input into a DKC CHR compressed block.
func Compress(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, dkerr.ErrInputSmall
	}
	byLead := backrefIndex(input)

	lut, err := chooseLUT(input, byLead)
	if err != nil {
		return nil, err
	}
	if len(lut) < lutSize {
		// Pad with unused placeholder words so the table stays exactly
		// 64 entries and strictly ascending. proposeLUT may still offer a
		// padding word wherever that word occurs in input; such a case-3
		// reference decodes to the same word.
		used := make(map[uint16]bool, len(lut))
		for _, w := range lut {
			used[w] = true
		}
		next := uint16(0xFFFF)
		for len(lut) < lutSize {
			for used[next] {
				next--
			}
			lut = append(lut, next)
			used[next] = true
			next--
		}
		sort.Slice(lut, func(i, j int) bool { return lut[i] < lut[j] })
	}

	path, err := runParse(input, byLead, lut)
	if err != nil {
		return nil, err
	}

	out := make([]byte, headerSize, headerSize+len(input))
	for i, w := range lut {
		out[i*2] = byte(w >> 8)
		out[i*2+1] = byte(w)
	}

	for i, m := range path {
		end := len(input)
		if i+1 < len(path) {
			end = path[i+1].Pos
		}
		length := end - m.Pos
		switch m.Case {
		case caseLiteral:
			out = append(out, byte(length))
			out = append(out, input[m.Pos:end]...)
		case caseRLE:
			out = append(out, 0x40|byte(length))
			out = append(out, m.Arg.val)
		case caseBackref:
			out = append(out, 0x80|byte(length))
			out = append(out, byte(m.Arg.offset), byte(m.Arg.offset>>8))
		case caseLUT:
			out = append(out, 0xC0|byte(m.Arg.lutIdx))
		}
	}
	out = append(out, 0) // terminator
	return out, nil
}
