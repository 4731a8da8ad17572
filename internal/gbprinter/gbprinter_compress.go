package gbprinter

import (
	"github.com/kingizor/dkcomp-go/internal/dkerr"
	"github.com/kingizor/dkcomp-go/internal/parser"
)

const (
	caseRaw = 0
	caseRLE = 1
)

type gbArg struct {
	val byte // caseRLE
}

func proposeRaw(a *parser.Arena[gbArg], input []byte, pos int) {
	n := len(input)
	limit := 0x80
	if n-pos < limit {
		limit = n - pos
	}
	for l := 1; l <= limit; l++ {
		a.Propose(pos, l, 1+l, caseRaw, gbArg{})
	}
}

func proposeRLE(a *parser.Arena[gbArg], input []byte, pos int) {
	n := len(input)
	if pos+1 >= n {
		return
	}
	limit := 0x81
	if n-pos < limit {
		limit = n - pos
	}
	run := 1
	for run < limit && input[pos+run] == input[pos] {
		run++
	}
	for l := 2; l <= run; l++ {
		a.Propose(pos, l, 2, caseRLE, gbArg{val: input[pos]})
	}
}

// Compress packs a single, exactly-0x280-byte chunk into a GB Printer
// compressed block.
func Compress(input []byte) ([]byte, error) {
	if len(input) < chunkSize {
		return nil, dkerr.ErrInputSmall
	}
	if len(input) > chunkSize {
		return nil, dkerr.ErrInputLarge
	}

	n := len(input)
	a := parser.NewArena[gbArg](n)
	for pos := 0; pos < n; pos++ {
		if !a.Reached(pos) {
			continue
		}
		proposeRaw(a, input, pos)
		proposeRLE(a, input, pos)
	}
	path, err := a.ReversePath()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, n+n/0x80+2)
	for i, m := range path {
		end := n
		if i+1 < len(path) {
			end = path[i+1].Pos
		}
		length := end - m.Pos
		switch m.Case {
		case caseRaw:
			out = append(out, byte(length-1))
			out = append(out, input[m.Pos:end]...)
		case caseRLE:
			out = append(out, 0x80|byte(length-2), m.Arg.val)
		}
	}
	return out, nil
}
