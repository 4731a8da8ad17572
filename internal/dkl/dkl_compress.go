package dkl

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
	"github.com/kingizor/dkcomp-go/internal/parser"
)

type dklArg struct {
	val   byte // caseLiteral, caseByteRun, caseIncRun
	v0    byte // caseWordRepeat
	v1    byte
	seed  byte // caseNibbleRun
	nibs  []byte
	dist  int // caseHist7, caseHist11
}

// The encoder only ever proposes counts within each case's direct
// (non-escaped) nibble-count range; the escape-to-extra-byte form a
// decoder must still accept is simply never emitted.
const (
	byteRunMax  = 17
	wordRepMax  = 16
	incRunMax   = 17
	nibbleMax   = 274
	histCountMax = 18
)

func proposeLiteral(a *parser.Arena[dklArg], input []byte, pos int) {
	a.Propose(pos, 1, 3, caseLiteral, dklArg{val: input[pos]})
}

func proposeByteRun(a *parser.Arena[dklArg], input []byte, pos int) {
	n := len(input)
	limit := byteRunMax
	if n-pos < limit {
		limit = n - pos
	}
	run := 1
	for run < limit && input[pos+run] == input[pos] {
		run++
	}
	for l := 3; l <= run; l++ {
		a.Propose(pos, l, 4, caseByteRun, dklArg{val: input[pos]})
	}
}

func proposeIncRun(a *parser.Arena[dklArg], input []byte, pos int) {
	n := len(input)
	limit := incRunMax
	if n-pos < limit {
		limit = n - pos
	}
	run := 1
	for run < limit && input[pos+run] == byte(int(input[pos])+run) {
		run++
	}
	for l := 3; l <= run; l++ {
		a.Propose(pos, l, 4, caseIncRun, dklArg{val: input[pos]})
	}
}

func proposeWordRepeat(a *parser.Arena[dklArg], input []byte, pos int) {
	n := len(input)
	if pos+1 >= n {
		return
	}
	v0, v1 := input[pos], input[pos+1]
	limit := wordRepMax
	if (n-pos)/2 < limit {
		limit = (n - pos) / 2
	}
	run := 1
	for run < limit && pos+run*2+1 < n && input[pos+run*2] == v0 && input[pos+run*2+1] == v1 {
		run++
	}
	for c := 2; c <= run; c++ {
		a.Propose(pos, c*2, 6, caseWordRepeat, dklArg{v0: v0, v1: v1})
	}
}

func proposeNibbleRun(a *parser.Arena[dklArg], input []byte, pos int) {
	n := len(input)
	limit := nibbleMax
	if n-pos < limit {
		limit = n - pos
	}
	if limit < 19 {
		return
	}
	seed := input[pos]
	// Only the low nibble of each following byte can vary; the high
	// nibble must match the seed's.
	run := 1
	for run < limit && input[pos+run]&0xF0 == seed&0xF0 {
		run++
	}
	if run < 19 {
		return
	}
	nibs := make([]byte, run-1)
	for i := 0; i < run-1; i++ {
		nibs[i] = input[pos+1+i] & 0x0F
	}
	for l := 19; l <= run; l++ {
		cost := 1 + 4 + (l - 1) // op nibble + seed/fieldLen bytes (4 nibbles) + (l-1) packed nibbles
		a.Propose(pos, l, cost, caseNibbleRun, dklArg{seed: seed, nibs: nibs[:l-1]})
	}
}

func proposeHist(a *parser.Arena[dklArg], input []byte, pos int, byLead map[uint16][]int) {
	n := len(input)
	if pos+1 >= n {
		return
	}
	limit := histCountMax
	if n-pos < limit {
		limit = n - pos
	}
	key := uint16(input[pos])<<8 | uint16(input[pos+1])
	for _, start := range byLead[key] {
		if start >= pos {
			break
		}
		dist := pos - start - 1
		if dist > 0x7FF {
			continue
		}
		match := 0
		for match < limit && pos+match < n && input[start+match] == input[pos+match] {
			match++
		}
		if match < 4 {
			continue
		}
		ncase := caseHist11
		cost := 4
		if dist <= 0x7F {
			ncase = caseHist7
			cost = 3
		}
		for l := 4; l <= match; l++ {
			a.Propose(pos, l, cost, ncase, dklArg{dist: dist})
		}
	}
}

func backrefIndex(input []byte) map[uint16][]int {
	idx := make(map[uint16][]int)
	for i := 0; i+1 < len(input); i++ {
		key := uint16(input[i])<<8 | uint16(input[i+1])
		idx[key] = append(idx[key], i)
	}
	return idx
}

// Compress packs input into a DKL compressed block.
func Compress(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, dkerr.ErrInputSmall
	}
	n := len(input)
	byLead := backrefIndex(input)

	a := parser.NewArena[dklArg](n)
	for pos := 0; pos < n; pos++ {
		if !a.Reached(pos) {
			continue
		}
		proposeLiteral(a, input, pos)
		proposeByteRun(a, input, pos)
		proposeIncRun(a, input, pos)
		proposeWordRepeat(a, input, pos)
		proposeNibbleRun(a, input, pos)
		proposeHist(a, input, pos, byLead)
	}
	path, err := a.ReversePath()
	if err != nil {
		return nil, err
	}

	out := bitio.NewWriter(make([]byte, headerSizeEstimate(n)))
	for i, m := range path {
		end := n
		if i+1 < len(path) {
			end = path[i+1].Pos
		}
		length := end - m.Pos

		switch m.Case {
		case caseLiteral:
			if err := out.WriteNibble(caseLiteral); err != nil {
				return nil, err
			}
			if err := out.WriteNibbleByte(m.Arg.val); err != nil {
				return nil, err
			}
		case caseByteRun:
			if err := writeNibbleOpByte(out, caseByteRun, byte(length-3), m.Arg.val); err != nil {
				return nil, err
			}
		case caseIncRun:
			if err := writeNibbleOpByte(out, caseIncRun, byte(length-3), m.Arg.val); err != nil {
				return nil, err
			}
		case caseWordRepeat:
			count := length / 2
			if err := out.WriteNibble(caseWordRepeat); err != nil {
				return nil, err
			}
			if err := out.WriteNibble(byte(count - 2)); err != nil {
				return nil, err
			}
			if err := out.WriteNibbleByte(m.Arg.v0); err != nil {
				return nil, err
			}
			if err := out.WriteNibbleByte(m.Arg.v1); err != nil {
				return nil, err
			}
		case caseNibbleRun:
			if err := out.WriteNibble(caseNibbleRun); err != nil {
				return nil, err
			}
			if err := out.WriteNibbleByte(m.Arg.seed); err != nil {
				return nil, err
			}
			if err := out.WriteNibbleByte(byte(length - 19)); err != nil {
				return nil, err
			}
			for i := 0; i < length-1; i++ {
				if err := out.WriteNibble(m.Arg.nibs[i]); err != nil {
					return nil, err
				}
			}
		case caseHist7:
			if err := out.WriteNibble(caseHist7); err != nil {
				return nil, err
			}
			if err := out.WriteNibbleByte(byte(m.Arg.dist)); err != nil {
				return nil, err
			}
			if err := out.WriteNibble(byte(length - 4)); err != nil {
				return nil, err
			}
		case caseHist11:
			if err := out.WriteNibble(caseHist11); err != nil {
				return nil, err
			}
			if err := out.WriteNibbleByte(byte(m.Arg.dist)); err != nil {
				return nil, err
			}
			if err := out.WriteNibble(byte(m.Arg.dist >> 8)); err != nil {
				return nil, err
			}
			if err := out.WriteNibble(byte(length - 4)); err != nil {
				return nil, err
			}
		}
	}
	if err := out.WriteNibble(caseTerminator); err != nil {
		return nil, err
	}
	if err := out.WriteNibble(caseTerminator); err != nil {
		return nil, err
	}
	if err := out.AlignNibble(); err != nil {
		return nil, err
	}
	return out.Data[:out.Pos], nil
}

func writeNibbleOpByte(out *bitio.Stream, op byte, countNibble byte, val byte) error {
	if err := out.WriteNibble(op); err != nil {
		return err
	}
	if err := out.WriteNibble(countNibble); err != nil {
		return err
	}
	return out.WriteNibbleByte(val)
}

// headerSizeEstimate bounds the worst case output: every input byte
// emitted as its own literal costs 1.5 output bytes.
func headerSizeEstimate(n int) int {
	return n*2 + 8
}
