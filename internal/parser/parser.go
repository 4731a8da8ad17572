// Package parser implements the shortest-path optimal parser shared by the
// six LZ-like codecs (DKCCHR, DKCGBC, DKL, GB-Printer, GBA-LZ77,
// GBA-RLE): a forward dynamic-programming pass over every output position,
// followed by a reverse walk that recovers the minimum-cost sequence of
// cases. Every one of those encoders hand-rolls the same
// `struct PATH{link,used,ncase}` / `reverse_path` idiom in the original C;
// this package generalises it once, generic over the codec's own
// case-argument shape.
package parser

import "github.com/kingizor/dkcomp-go/internal/dkerr"

// step is one entry of the DP arena: the cheapest known way to reach a
// given output position.
type step[A any] struct {
	used int // total cost to reach this position; -1 means unreached
	link int // previous position this step was proposed from
	ncase int
	arg  A
}

// Arena holds the forward DP table for an input of n output units (bytes,
// tiles, or whatever unit the codec counts cost in). Position 0 is always
// reached at cost 0; every other position starts unreached.
type Arena[A any] struct {
	steps []step[A]
}

// NewArena allocates a DP arena covering output positions 0..n inclusive.
func NewArena[A any](n int) *Arena[A] {
	steps := make([]step[A], n+1)
	for i := range steps {
		steps[i].used = -1
	}
	steps[0].used = 0
	return &Arena[A]{steps: steps}
}

// Reached reports whether pos has been reached by some proposal yet.
func (a *Arena[A]) Reached(pos int) bool {
	return a.steps[pos].used >= 0
}

// Used returns the current best cost to reach pos, or -1 if unreached.
func (a *Arena[A]) Used(pos int) int {
	return a.steps[pos].used
}

// Propose offers a case that advances from pos by length output units at
// the given additional cost. If pos hasn't been reached yet, or pos+length
// is out of range, the proposal is ignored. If the resulting total is
// cheaper than any previously proposed route to pos+length (or that
// position hasn't been reached yet), the new route replaces it. Propose
// returns whether the proposal was accepted.
func (a *Arena[A]) Propose(pos, length, cost, ncase int, arg A) bool {
	if length <= 0 || cost < 0 {
		return false
	}
	target := pos + length
	if target >= len(a.steps) {
		return false
	}
	if a.steps[pos].used < 0 {
		return false
	}
	total := a.steps[pos].used + cost
	if a.steps[target].used >= 0 && a.steps[target].used <= total {
		return false
	}
	a.steps[target] = step[A]{used: total, link: pos, ncase: ncase, arg: arg}
	return true
}

// Move is one recovered step of the optimal path: the case chosen to
// advance from Pos, and its codec-specific argument.
type Move[A any] struct {
	Pos   int
	Case  int
	Arg   A
}

// ReversePath walks the arena's links back from the final position to 0
// and returns the recovered moves in forward (encode) order. It fails with
// ErrBadFormat if the final position was never reached, meaning no
// combination of proposed cases can reproduce the input exactly.
func (a *Arena[A]) ReversePath() ([]Move[A], error) {
	n := len(a.steps) - 1
	if a.steps[n].used < 0 {
		return nil, dkerr.ErrBadFormat
	}
	var rev []Move[A]
	pos := n
	for pos > 0 {
		s := a.steps[pos]
		rev = append(rev, Move[A]{Pos: s.link, Case: s.ncase, Arg: s.arg})
		pos = s.link
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev, nil
}

// TotalCost returns the accumulated cost of reaching the final position,
// valid only once ReversePath has succeeded.
func (a *Arena[A]) TotalCost() int {
	return a.steps[len(a.steps)-1].used
}
