// Package huff20 implements the GBA BIOS Huffman codec (format tag 0x20),
// 8-bit leaves only: a canonical static tree stored as a 6-bit-distance
// node table, read with the GBA's 32-bit big-endian bit packing.
package huff20

import (
	"sort"

	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

const (
	stackLimit = 8
	nodeLimit  = 128
	ageLimit   = 125
)

func decodeCore(input []byte, collect bool) ([]byte, int, error) {
	if len(input) < 6 {
		return nil, 0, dkerr.ErrEarlyEOF
	}
	if input[0]&0xF0 != 0x20 {
		return nil, 0, dkerr.ErrSigWrong
	}
	dataSize := int(input[0] & 0xF)
	if dataSize == 0 || dataSize > 8 {
		return nil, 0, dkerr.ErrHuffWrong
	}
	if dataSize != 8 {
		return nil, 0, dkerr.ErrHuffLeaf
	}
	outSize := int(input[1]) | int(input[2])<<8 | int(input[3])<<16
	startPos := 4 + 2*(int(input[4])+1)

	readTree := func(pos int) (int, error) {
		if pos < 0 || pos >= len(input) {
			return 0, dkerr.ErrOobInput
		}
		return int(input[pos]), nil
	}

	r := bitio.NewBigEndian32BitReader(input, startPos)

	var out *bitio.Stream
	var writer *bitio.LinearBitWriter
	if collect {
		out = bitio.NewWriter(make([]byte, outSize))
		writer = bitio.NewLinearBitWriter(out)
	}

	produced := 0
	n, node := 0, 0
	for produced < outSize {
		dirBit, err := r.ReadBit()
		if err != nil {
			return nil, 0, dkerr.ErrOobInput
		}
		dir := int(dirBit)
		isLeaf := (dir == 0 && node&0x80 != 0) || (dir == 1 && node&0x40 != 0)
		v, err := readTree(6 + 2*n + dir)
		if err != nil {
			return nil, 0, err
		}
		node = v
		if isLeaf {
			if collect {
				for i := 0; i < dataSize; i++ {
					bit := byte(0)
					if node&(1<<uint(i)) != 0 {
						bit = 1
					}
					if err := writer.WriteBit(bit); err != nil {
						return nil, 0, err
					}
				}
			}
			produced++
			node, n = 0, 0
		} else {
			n += (node & 0x3F) + 1
		}
	}
	if collect {
		return out.Data, r.Consumed(), nil
	}
	return nil, r.Consumed(), nil
}

// Decompress expands GBA BIOS Huffman(20)-compressed data.
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

// node is a tree element: a leaf carrying a byte value, or an internal
// node carrying indices of its children within the same tree slice.
type node struct {
	leaf        bool
	count       int
	parent      int
	left, right int
	value       byte
}

func generateLeaves(input []byte) []node {
	var count [256]int
	for _, b := range input {
		count[b]++
	}
	type valc struct {
		index int
		count int
	}
	vc := make([]valc, 256)
	for i := range vc {
		vc[i] = valc{index: i, count: count[i]}
	}
	sort.SliceStable(vc, func(i, j int) bool { return vc[i].count > vc[j].count })

	n := 256
	for i, v := range vc {
		if v.count == 0 {
			n = i
			break
		}
	}
	leaves := make([]node, 0, n)
	for i := n - 1; i >= 0; i-- {
		leaves = append(leaves, node{leaf: true, count: vc[i].count, value: byte(vc[i].index), parent: -1})
	}
	return leaves
}

func generateTree(leaves []node) (tree []node, root int) {
	lqc, lqp := len(leaves), 0
	nodeQueue, nqp := make([]node, 0, lqc), 0
	tree = make([]node, 0, 2*lqc)
	root = -1

	for lqp < lqc || nqp < len(nodeQueue) {
		for i := 0; i < 2; i++ {
			switch {
			case lqp < lqc && nqp < len(nodeQueue):
				if leaves[lqp].count < nodeQueue[nqp].count {
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
			leaf:   false,
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

type nodeV struct {
	node  int
	index int
}

// gbaTree places every node of tree (rooted at root) into buf (the output
// bytes starting right after the header's fixed prefix) using the GBA
// BIOS's bounded-distance node encoding: a multi-stack scheduler delays
// placing a node as long as possible (to keep sibling distances within 6
// bits) without letting any node age past 125 output positions.
func gbaTree(tree []node, root int, buf []byte) error {
	stacks := [][]nodeV{{{root, 1}}}
	addr := 2

	place := func(stackIdx int, nv nodeV) error {
		n := tree[nv.node]
		if n.leaf {
			buf[nv.index] = n.value
			return nil
		}
		offset := ((addr &^ 1) - (nv.index &^ 1) - 1) / 2
		if offset >= 0x40 {
			return dkerr.ErrHuffDist
		}
		nvl := nodeV{n.left, addr}
		addr++
		nvr := nodeV{n.right, addr}
		addr++
		if tree[n.right].leaf {
			offset |= 1 << 6
		}
		if tree[n.left].leaf {
			offset |= 1 << 7
		}
		buf[nv.index] = byte(offset)
		if len(stacks[stackIdx])+2 >= nodeLimit {
			return dkerr.ErrHuffNodes
		}
		stacks[stackIdx] = append(stacks[stackIdx], nvr, nvl)
		return nil
	}
	removeEmpty := func(i int) {
		if len(stacks[i]) == 0 {
			stacks = append(stacks[:i], stacks[i+1:]...)
		}
	}

	for len(stacks) > 0 {
		i := 0
		for ; i < len(stacks); i++ {
			if addr-stacks[i][0].index >= ageLimit {
				break
			}
		}

		var target int
		var nv nodeV
		if i == len(stacks) {
			target = 0
			s := stacks[0]
			nv = s[len(s)-1]
			stacks[0] = s[:len(s)-1]
		} else {
			s := stacks[i]
			nv = s[0]
			rest := append([]nodeV(nil), s[1:]...)
			stacks[i] = rest
			removeEmpty(i)
			target = len(stacks)
			stacks = append(stacks, nil)
			if len(stacks) > stackLimit {
				return dkerr.ErrHuffStacks
			}
		}
		if err := place(target, nv); err != nil {
			return err
		}
		removeEmpty(target)
	}
	return nil
}

type vlut struct {
	sequence uint32
	bits     int
}

func createLUT(tree []node, root int) [256]vlut {
	var lut [256]vlut
	for i := range tree {
		if !tree[i].leaf {
			continue
		}
		bits, seq := 0, uint32(0)
		idx := i
		for idx != root {
			p := tree[idx].parent
			seq <<= 1
			bits++
			if idx == tree[p].right {
				seq |= 1
			}
			idx = p
		}
		lut[tree[i].value] = vlut{sequence: seq, bits: bits}
	}
	return lut
}

// Compress encodes input as GBA BIOS Huffman(20) data, 8-bit leaves only.
func Compress(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return nil, dkerr.ErrInputSmall
	}
	leaves := generateLeaves(input)
	if len(leaves) == 0 {
		return nil, dkerr.ErrHuffNoLeaf
	}
	tree, root := generateTree(leaves)

	headerSize := 5 + len(tree)
	tableBytes := make([]byte, len(tree)+2) // +2 slack for index 0/1 addressing
	if err := gbaTree(tree, root, tableBytes); err != nil {
		return nil, err
	}
	initParent(tree, root)
	lut := createLUT(tree, root)

	if headerSize&3 != 0 {
		headerSize += 4 - headerSize&3
	}

	out := bitio.NewWriter(make([]byte, headerSize+len(input)+8))
	if err := out.WriteByte(0x28); err != nil {
		return nil, err
	}
	if err := out.Write24LE(uint32(len(input))); err != nil {
		return nil, err
	}
	// data[4] is filled in after the table; reserve it now.
	if err := out.WriteByte(0); err != nil {
		return nil, err
	}
	for _, b := range tableBytes[1:] {
		if out.Pos >= headerSize {
			break
		}
		if err := out.WriteByte(b); err != nil {
			return nil, err
		}
	}
	for out.Pos < headerSize {
		if err := out.WriteByte(0); err != nil {
			return nil, err
		}
	}
	out.Data[4] = byte((headerSize - 5) / 2)

	w := bitio.NewBigEndian32BitWriter(out)
	for _, b := range input {
		v := lut[b]
		seq := v.sequence
		for n := 0; n < v.bits; n++ {
			if err := w.WriteBit(byte(seq & 1)); err != nil {
				return nil, err
			}
			seq >>= 1
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return out.Data[:out.Pos], nil
}
