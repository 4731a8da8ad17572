// Package huff50 implements the GBA Huffman variant that stores byte
// frequencies inline near the start of the stream (format tag 0x50), used
// for data segments rather than the BIOS-native Huffman(20) tables.
package huff50

import (
	"sort"

	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

const quitValue = 256

type node struct {
	leaf        bool
	count       int
	parent      int
	left, right int
	value       int
}

func sortNodes(nodes []node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		az, bz := a.count != 0, b.count != 0
		if az != bz {
			return az // nonzero counts sort before zero counts
		}
		if !az {
			return false
		}
		if a.count != b.count {
			return a.count < b.count
		}
		return a.value < b.value
	})
}

func buildTree(leaves []node) (tree []node, root int) {
	lqc, lqp := len(leaves), 0
	nodeQueue, nqp := make([]node, 0, lqc), 0
	tree = make([]node, 0, 2*lqc)
	root = -1

	for lqp < lqc || nqp < len(nodeQueue) {
		for i := 0; i < 2; i++ {
			switch {
			case lqp < lqc && nqp < len(nodeQueue):
				if leaves[lqp].count <= nodeQueue[nqp].count {
					tree = append(tree, leaves[lqp])
					lqp++
				} else {
					tree = append(tree, nodeQueue[nqp])
					nqp++
				}
			case lqp < lqc:
				tree = append(tree, leaves[lqp])
				lqp++
			case nqp < len(nodeQueue):
				tree = append(tree, nodeQueue[nqp])
				nqp++
			}
		}
		ts := len(tree)
		if ts%2 == 1 {
			root = ts - 1
			tree[root].parent = -1
			break
		}
		nn := node{
			left:   ts - 2,
			right:  ts - 1,
			count:  tree[ts-2].count + tree[ts-1].count,
			parent: -1,
		}
		nodeQueue = append(nodeQueue, nn)
	}
	return tree, root
}

func initParent(tree []node, idx int) {
	if tree[idx].leaf {
		return
	}
	l, r := tree[idx].left, tree[idx].right
	tree[l].parent = idx
	tree[r].parent = idx
	if !tree[l].leaf {
		initParent(tree, l)
	}
	if !tree[r].leaf {
		initParent(tree, r)
	}
}

func parseHeader(input []byte) (length, pos int, err error) {
	if len(input) < 4 {
		return 0, 0, dkerr.ErrEarlyEOF
	}
	if input[0] != 0x50 {
		return 0, 0, dkerr.ErrSigWrong
	}
	length = int(input[1]) | int(input[2])<<8 | int(input[3])<<16
	return length, 4, nil
}

func readFrequencyTable(input []byte, pos int) ([]node, int, error) {
	var full [257]node
	count := 0
	for {
		if pos+1 >= len(input) {
			return nil, 0, dkerr.ErrEarlyEOF
		}
		a, b := int(input[pos]), int(input[pos+1])
		pos += 2
		if count > 0 && a == 0 {
			break
		}
		if a > b {
			return nil, 0, dkerr.ErrTableRange
		}
		for ; a <= b; a++ {
			if pos >= len(input) {
				return nil, 0, dkerr.ErrEarlyEOF
			}
			c := int(input[pos])
			pos++
			if count >= 256 {
				return nil, 0, dkerr.ErrTableValue
			}
			full[count] = node{leaf: true, count: c, value: a, parent: -1}
			count++
		}
	}
	full[count] = node{leaf: true, count: 1, value: quitValue, parent: -1}
	count++

	nodes := full[:count]
	sortNodes(nodes)
	n := count
	for i, v := range nodes {
		if v.count == 0 {
			n = i
			break
		}
	}
	nodes = nodes[:n]
	if pos&3 < 2 {
		pos &^= 1
	}
	return nodes, pos, nil
}

func decodeCore(input []byte, collect bool) ([]byte, int, error) {
	length, pos, err := parseHeader(input)
	if err != nil {
		return nil, 0, err
	}
	leaves, pos, err := readFrequencyTable(input, pos)
	if err != nil {
		return nil, 0, err
	}
	tree, root := buildTree(leaves)
	if root < 0 {
		return nil, 0, dkerr.ErrHuffNoLeaf
	}

	r := bitio.NewLinearBitReader(input)
	r.Pos = pos

	var out *bitio.Stream
	if collect {
		out = bitio.NewWriter(make([]byte, length))
	}

	current := root
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return nil, 0, err
		}
		if bit == 1 {
			current = tree[current].right
		} else {
			current = tree[current].left
		}
		if tree[current].leaf {
			if tree[current].value == quitValue {
				break
			}
			if collect {
				if err := out.WriteByte(byte(tree[current].value)); err != nil {
					return nil, 0, err
				}
			}
			current = root
		}
	}
	if collect && out.Pos != length {
		return nil, 0, dkerr.ErrSizeWrong
	}
	if collect {
		return out.Data, r.Consumed(), nil
	}
	return nil, r.Consumed(), nil
}

// Decompress expands GBA Huffman(50)-compressed data.
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

type vlut struct {
	pattern uint32
	bits    int
}

func generateVLUT(tree []node, root int) [257]vlut {
	var lut [257]vlut
	for i := range tree {
		if !tree[i].leaf {
			continue
		}
		idx, bits, pattern := i, 0, uint32(0)
		for idx != root {
			p := tree[idx].parent
			pattern <<= 1
			bits++
			if idx == tree[p].right {
				pattern |= 1
			}
			idx = p
		}
		lut[tree[i].value] = vlut{pattern: pattern, bits: bits}
	}
	return lut
}

func writePattern(w *bitio.LinearBitWriter, v vlut) error {
	p := v.pattern
	for n := 0; n < v.bits; n++ {
		if err := w.WriteBit(byte(p & 1)); err != nil {
			return err
		}
		p >>= 1
	}
	return nil
}

// Compress encodes input as GBA Huffman(50) data: a header carrying the
// scaled byte-frequency table as a run-length list of (start, end, counts)
// blocks, followed by a canonical Huffman body with a quit symbol (value
// 256) marking the end.
func Compress(input []byte) ([]byte, error) {
	var full [257]node
	for i := 0; i < 257; i++ {
		full[i] = node{leaf: true, value: i, parent: -1}
	}
	full[quitValue].count = 1
	for _, b := range input {
		full[b].count++
	}

	hi := 0
	for i := 0; i < 256; i++ {
		if full[i].count > hi {
			hi = full[i].count
		}
	}
	if hi == 0 {
		return nil, dkerr.ErrTableZero
	}
	scale := float64(hi) / 255.0
	for i := 0; i < 256; i++ {
		if full[i].count == 0 {
			continue
		}
		v := int(float64(full[i].count) / scale)
		if v == 0 {
			v = 1
		}
		full[i].count = v
	}

	out := bitio.NewWriter(make([]byte, 4+256*3+len(input)+8))
	if err := out.WriteByte(0x50); err != nil {
		return nil, err
	}
	if err := out.Write24LE(uint32(len(input))); err != nil {
		return nil, err
	}

	p := -1
	writeBlock := func(start, end int) error {
		if start == -1 {
			return nil
		}
		if err := out.WriteByte(byte(start)); err != nil {
			return err
		}
		if err := out.WriteByte(byte(end - 1)); err != nil {
			return err
		}
		for i := start; i < end; i++ {
			if err := out.WriteByte(byte(full[i].count)); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < 256; i++ {
		if full[i].count != 0 {
			if p == -1 {
				p = i
			}
		} else if err := writeBlock(p, i); err != nil {
			return nil, err
		} else {
			p = -1
		}
	}
	if err := writeBlock(p, 256); err != nil {
		return nil, err
	}
	if err := out.WriteByte(0); err != nil {
		return nil, err
	}
	if err := out.WriteByte(0); err != nil {
		return nil, err
	}
	// Same realignment readFrequencyTable applies before the bit body; the
	// terminator's second byte, which the decoder ignores, may be reused.
	if out.Pos&3 < 2 {
		out.Pos &^= 1
	}

	leaves := full[:]
	sortNodes(leaves)
	n := 257
	for i, v := range leaves {
		if v.count == 0 {
			n = i
			break
		}
	}
	leaves = leaves[:n]
	tree, root := buildTree(leaves)
	if root < 0 {
		return nil, dkerr.ErrHuffNoLeaf
	}
	initParent(tree, root)
	lut := generateVLUT(tree, root)

	w := bitio.NewLinearBitWriter(out)
	for _, b := range input {
		if err := writePattern(w, lut[b]); err != nil {
			return nil, err
		}
	}
	if err := writePattern(w, lut[quitValue]); err != nil {
		return nil, err
	}
	if _, err := w.Flush(); err != nil {
		return nil, err
	}
	return out.Data[:out.Pos], nil
}
