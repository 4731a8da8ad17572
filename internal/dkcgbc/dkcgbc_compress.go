package dkcgbc

import (
	"github.com/kingizor/dkcomp-go/internal/dkerr"
	"github.com/kingizor/dkcomp-go/internal/parser"
)

const (
	caseRLE     = 0
	caseLiteral = 1
	caseBackref = 2
)

type gbcArg struct {
	val  byte // caseRLE
	dist int  // caseBackref
}

func proposeRLE(a *parser.Arena[gbcArg], input []byte, pos int) {
	n := len(input)
	limit := 128
	if n-pos < limit {
		limit = n - pos
	}
	run := 1
	for run < limit && input[pos+run] == input[pos] {
		run++
	}
	// A control byte folds mode into its top bit, so the longest
	// representable run is 127; searching to 128 (above) lets the loop
	// naturally stop one byte of lookahead past the last usable length.
	if run > 127 {
		run = 127
	}
	for l := 1; l <= run; l++ {
		a.Propose(pos, l, 2, caseRLE, gbcArg{val: input[pos]})
	}
}

func proposeLiteral(a *parser.Arena[gbcArg], input []byte, pos int) {
	n := len(input)
	limit := 63
	if n-pos < limit {
		limit = n - pos
	}
	for l := 1; l <= limit; l++ {
		a.Propose(pos, l, 1+l, caseLiteral, gbcArg{})
	}
}

// proposeBackref searches up to 255 bytes behind pos for the longest
// match, then offers every length from 2 up to that match.
func proposeBackref(a *parser.Arena[gbcArg], input []byte, pos int, byLead map[uint16][]int) {
	n := len(input)
	if pos+1 >= n {
		return
	}
	limit := 63
	if n-pos < limit {
		limit = n - pos
	}

	best := 0
	bestDist := 0
	key := uint16(input[pos])<<8 | uint16(input[pos+1])
	for _, start := range byLead[key] {
		if start >= pos {
			break
		}
		if pos-start >= lzWindow {
			continue
		}
		match := 0
		for match < limit && pos+match < n && input[start+match] == input[pos+match] {
			match++
		}
		if match > best {
			best = match
			bestDist = pos - start
			if best == 63 {
				break
			}
		}
	}
	for l := 2; l <= best; l++ {
		a.Propose(pos, l, 2, caseBackref, gbcArg{dist: bestDist})
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

// Compress packs input into a DKC GBC compressed block.
func Compress(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, dkerr.ErrInputSmall
	}

	n := len(input)
	byLead := backrefIndex(input)

	a := parser.NewArena[gbcArg](n)
	for pos := 0; pos < n; pos++ {
		if !a.Reached(pos) {
			continue
		}
		proposeRLE(a, input, pos)
		proposeLiteral(a, input, pos)
		proposeBackref(a, input, pos, byLead)
	}
	path, err := a.ReversePath()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, n+n/8+1)
	for i, m := range path {
		end := n
		if i+1 < len(path) {
			end = path[i+1].Pos
		}
		length := end - m.Pos
		switch m.Case {
		case caseRLE:
			out = append(out, byte(length), m.Arg.val)
		case caseLiteral:
			out = append(out, 0x80|byte(length))
			out = append(out, input[m.Pos:end]...)
		case caseBackref:
			out = append(out, 0xC0|byte(length), byte(m.Arg.dist))
		}
	}
	out = append(out, 0) // terminator
	return out, nil
}
