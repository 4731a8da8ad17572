package bd

import (
	"math"
	"sort"

	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

type window struct{ addr, count int }

type caseParams struct {
	w    [3]window // cases 10, 11, 12
	n    int       // case 0
	rle  [3]int    // cases 3, 4, 5
	wwin int       // case 9
	wlut int       // case 15
}

type node struct {
	cp    caseParams
	prev  int
	next  int
	ratio float64
	cases uint32
	c     byte
}

// nonConstMask keeps only the cases that don't depend on the constant
// table, ahead of the second optimal-parse pass.
const nonConstMask = 1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<9 | 1<<10 | 1<<11 | 1<<12 | 1<<13 | 1<<14

func chooseCases1(input []byte, pos int, byteLoc map[byte][]int) (uint32, caseParams) {
	var cp caseParams
	var cases uint32
	is := input[pos:]
	n := len(input)

	// RLE sourced from a literal input byte.
	{
		x := n - pos
		if x > 18 {
			x = 18
		}
		i := 1
		for ; i < x; i++ {
			if is[0] != is[i] {
				break
			}
		}
		if i > 2 {
			cp.rle[0] = i
			cases |= 1 << 3
		}
	}

	// Byte/word window matches against prior occurrences of is[0].
	for _, i := range byteLoc[is[0]] {
		if i > pos {
			break
		}
		dist := pos - i
		j := 18
		if n-pos < j {
			j = n - pos
		}
		if dist < j {
			j = dist
		}
		k := 0
		for ; k < j; k++ {
			if is[k] != input[i+k] {
				break
			}
		}
		if k > 2 {
			if dist+k < 256 && k > cp.w[0].count {
				cp.w[0].count = k
				cp.w[0].addr = dist - k
				cases |= 1 << 10
			}
			if dist >= 259 && dist <= 4095+259 && k > cp.w[1].count {
				cp.w[1].count = k
				cp.w[1].addr = dist - 259
				cases |= 1 << 11
			}
			if k > cp.w[2].count {
				cp.w[2].count = k
				cp.w[2].addr = dist
				cases |= 1 << 12
			}
		}
		if k >= 2 && dist < 18 {
			cp.wwin = dist
			cases |= 1 << 9
		}
	}

	// Repeats.
	if pos > 0 && is[0] == input[pos-1] {
		cases |= 1 << 13
	}
	if pos > 1 && pos+1 < n && is[0] == input[pos-2] && is[1] == input[pos-1] {
		cases |= 1 << 14
	}

	// Direct copy is always available.
	cases |= 1<<0 | 1<<1 | 1<<2

	return cases, cp
}

func chooseCases2(input []byte, pos int, table [headerSize]byte) (uint32, caseParams) {
	var cp caseParams
	var cases uint32
	is := input[pos:]
	n := len(input)

	{
		x := n - pos
		if x > 18 {
			x = 18
		}
		i := 1
		for ; i < x; i++ {
			if is[0] != is[i] {
				break
			}
		}
		if i > 2 {
			if is[0] == table[1] {
				cp.rle[1] = i
				cases |= 1 << 4
			}
			if is[0] == table[2] {
				cp.rle[2] = i
				cases |= 1 << 5
			}
		}
	}

	if is[0] == table[3] {
		cases |= 1 << 7
	}
	if is[0] == table[4] {
		cases |= 1 << 8
	}

	if pos+1 < n {
		if is[0] == table[5] && is[1] == table[6] {
			cases |= 1 << 6
		}
		for i := 7; i < 38; i += 2 {
			if is[0] == table[i] && is[1] == table[i+1] {
				cp.wlut = (i - 7) / 2
				cases |= 1 << 15
				break
			}
		}
	}

	return cases, cp
}

func generateCases(input []byte, nodes []node) {
	n := len(input)
	for pos := 0; pos < n; pos++ {
		cp := &nodes[pos].cp
		cases := nodes[pos].cases
		base := nodes[pos].ratio

		test := func(c, length int, costIn float64) {
			end := pos + length
			if end > n {
				end = n
			}
			ratio := (base*float64(pos) + costIn) / float64(pos+length)
			if nodes[end].ratio > ratio {
				nodes[end].ratio = ratio
				nodes[end].prev = pos
				nodes[end].c = byte(c)
			}
		}

		if cases&(1<<1) != 0 {
			test(1, 1, 1.5)
		}
		if cases&(1<<2) != 0 {
			test(2, 2, 2.5)
		}
		if cases&(1<<6) != 0 {
			test(6, 2, 0.5)
		}
		if cases&(1<<7) != 0 {
			test(7, 1, 0.5)
		}
		if cases&(1<<8) != 0 {
			test(8, 1, 0.5)
		}
		if cases&(1<<9) != 0 {
			test(9, 2, 1.0)
		}
		if cases&(1<<13) != 0 {
			test(13, 1, 0.5)
		}
		if cases&(1<<14) != 0 {
			test(14, 2, 0.5)
		}
		if cases&(1<<15) != 0 {
			test(15, 2, 1.0)
		}
		if cases&(1<<0) != 0 {
			for ln := 1; ln <= 15 && pos+ln <= n; ln++ {
				test(0, ln, 1.0+float64(ln))
			}
		}
		if cases&(1<<3) != 0 {
			for ln := cp.rle[0]; ln >= 3; ln-- {
				test(3, ln, 2.0)
			}
		}
		if cases&(1<<4) != 0 {
			for ln := cp.rle[1]; ln >= 3; ln-- {
				test(4, ln, 1.0)
			}
		}
		if cases&(1<<5) != 0 {
			for ln := cp.rle[2]; ln >= 3; ln-- {
				test(5, ln, 1.0)
			}
		}
		if cases&(1<<10) != 0 {
			for ln := cp.w[0].count; ln >= 3; ln-- {
				test(10, ln, 2.0)
			}
		}
		if cases&(1<<11) != 0 {
			for ln := cp.w[1].count; ln >= 3; ln-- {
				test(11, ln, 2.5)
			}
		}
		if cases&(1<<12) != 0 {
			for ln := cp.w[2].count; ln >= 3; ln-- {
				test(12, ln, 3.0)
			}
		}
	}

	for i := n; nodes[i].prev >= 0; {
		p := nodes[i].prev
		nodes[p].next = i
		i = p
	}
}

type constant struct{ count, index int }

func topConstants(counts []int, want int) []int {
	items := make([]constant, len(counts))
	for i, c := range counts {
		items[i] = constant{c, i}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].index < items[j].index
	})
	out := make([]int, want)
	for i := 0; i < want; i++ {
		out[i] = items[i].index
	}
	return out
}

// chooseConstants tallies byte/word usage along the path picked by the
// first (non-constant) optimal-parse pass, and picks the most common
// values for the 39-byte constant table every block starts with.
func chooseConstants(input []byte, nodes []node) [headerSize]byte {
	ib := make([]int, 256)
	cb := make([]int, 256)
	iw := make([]int, 65536)

	pos := 0
	for pos < len(input) && nodes[pos].next >= 0 {
		next := nodes[pos].next
		dist := next - pos
		is := input[pos:]
		switch nodes[next].c {
		case 0:
			for i := 0; i < dist; i++ {
				ib[is[i]]++
			}
			for i := 0; i < dist-1 && i*2+1 < len(is); i++ {
				iw[int(is[i*2])<<8|int(is[i*2+1])]++
			}
		case 2:
			if len(is) > 1 {
				iw[int(is[0])<<8|int(is[1])]++
				ib[is[1]]++
			}
			ib[is[0]]++
		case 1:
			ib[is[0]]++
		case 3:
			cb[is[0]]++
		}
		pos = next
	}

	cbTop := topConstants(cb, 2)
	ibTop := topConstants(ib, 2)
	iwTop := topConstants(iw, 17)

	var table [headerSize]byte
	table[1], table[2] = byte(cbTop[0]), byte(cbTop[1])
	table[3], table[4] = byte(ibTop[0]), byte(ibTop[1])
	table[5] = byte(iwTop[0] >> 8)
	table[6] = byte(iwTop[0])
	for i := 0; i < 16; i++ {
		table[7+i*2] = byte(iwTop[1+i] >> 8)
		table[7+i*2+1] = byte(iwTop[1+i])
	}
	return table
}

func encodeCase(out *bitio.Stream, input []byte, inPos *int, cp *caseParams, c, length int) error {
	wn := func(v int) error { return out.WriteNibble(byte(v)) }
	wb := func(v int) error { return out.WriteNibbleByte(byte(v)) }
	ww := func(v int) error {
		if err := wb((v >> 8) & 0xFF); err != nil {
			return err
		}
		return wb(v & 0xFF)
	}
	rb := func() byte {
		b := input[*inPos]
		*inPos++
		return b
	}

	if err := wn(c); err != nil {
		return err
	}

	switch c {
	case 0:
		if err := wn(length); err != nil {
			return err
		}
		for i := 0; i < length; i++ {
			if err := wb(int(rb())); err != nil {
				return err
			}
		}
	case 2:
		if err := wb(int(rb())); err != nil {
			return err
		}
		fallthrough
	case 1:
		if err := wb(int(rb())); err != nil {
			return err
		}
	case 3:
		if err := wn(length - 3); err != nil {
			return err
		}
		z := rb()
		if err := wb(int(z)); err != nil {
			return err
		}
		*inPos += length - 1
	case 4, 5:
		if err := wn(length - 3); err != nil {
			return err
		}
		*inPos += length
	case 7, 8, 13:
		*inPos++
	case 6, 14:
		*inPos += 2
	case 9:
		if err := wn(cp.wwin - 2); err != nil {
			return err
		}
		*inPos += 2
	case 10:
		if err := wn(length - 3); err != nil {
			return err
		}
		if err := wb(cp.w[0].addr + (cp.w[0].count - length)); err != nil {
			return err
		}
		*inPos += length
	case 11:
		if err := wn(length - 3); err != nil {
			return err
		}
		if err := wb((cp.w[1].addr >> 4) & 0xFF); err != nil {
			return err
		}
		if err := wn(cp.w[1].addr & 15); err != nil {
			return err
		}
		*inPos += length
	case 12:
		if err := wn(length - 3); err != nil {
			return err
		}
		if err := ww(cp.w[2].addr); err != nil {
			return err
		}
		*inPos += length
	case 15:
		if err := wn(cp.wlut); err != nil {
			return err
		}
		*inPos += 2
	}
	return nil
}

func writeCases(input []byte, nodes []node, table [headerSize]byte) ([]byte, error) {
	out := bitio.NewWriter(make([]byte, headerSize+len(input)*2+16))
	for _, b := range table {
		if err := out.WriteByte(b); err != nil {
			return nil, err
		}
	}

	pos, inPos := 0, 0
	for pos < len(input) {
		next := nodes[pos].next
		if next < 0 {
			return nil, dkerr.ErrBadFormat
		}
		c := int(nodes[next].c)
		length := next - pos
		if err := encodeCase(out, input, &inPos, &nodes[pos].cp, c, length); err != nil {
			return nil, err
		}
		pos = next
	}

	if err := out.WriteNibbleByte(0); err != nil {
		return nil, err
	}
	if err := out.AlignNibble(); err != nil {
		return nil, err
	}
	return out.Data[:out.Pos], nil
}

// Compress packs input into a big-data compressed block: a constant-table
// header chosen from the input's own byte/word frequencies, followed by an
// optimal parse over the 16 cases, minimizing the output/input byte ratio
// along the path (not a simple minimum byte count) just as the original
// encoder does.
func Compress(input []byte) ([]byte, error) {
	n := len(input)
	if n < 128 {
		return nil, dkerr.ErrInputSmall
	}
	if n > 0x10000 {
		return nil, dkerr.ErrInputLarge
	}

	byteLoc := make(map[byte][]int, 256)
	for i, b := range input {
		byteLoc[b] = append(byteLoc[b], i)
	}

	nodes := make([]node, n+1)
	for i := range nodes {
		nodes[i].prev, nodes[i].next = -1, -1
		nodes[i].ratio = math.MaxFloat64
	}
	nodes[0].ratio = 0

	for pos := 0; pos < n; pos++ {
		nodes[pos].cases, nodes[pos].cp = chooseCases1(input, pos, byteLoc)
	}
	generateCases(input, nodes)
	if nodes[n].prev < 0 && n > 0 {
		return nil, dkerr.ErrBadFormat
	}

	table := chooseConstants(input, nodes)

	for i := range nodes {
		nodes[i].prev, nodes[i].next, nodes[i].c = -1, -1, 0
		if i == 0 {
			nodes[i].ratio = 0
		} else {
			nodes[i].ratio = math.MaxFloat64
		}
		nodes[i].cases &= nonConstMask
	}
	for pos := 0; pos < n; pos++ {
		c2, cp2 := chooseCases2(input, pos, table)
		nodes[pos].cases |= c2
		nodes[pos].cp.rle[1] = cp2.rle[1]
		nodes[pos].cp.rle[2] = cp2.rle[2]
		nodes[pos].cp.wlut = cp2.wlut
	}
	generateCases(input, nodes)
	if nodes[n].prev < 0 && n > 0 {
		return nil, dkerr.ErrBadFormat
	}

	return writeCases(input, nodes, table)
}
