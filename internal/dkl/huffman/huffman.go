// Package huffman implements the DKL tileset Huffman codec: a single
// 0x300-byte tree table shared by every Huffman-compressed tileset block
// in a game (component O of the specification), independent of the
// run-length codec in the sibling internal/dkl package.
//
// The tree table layout: bytes [0x000..0x100) hold each node's right-child
// link, [0x100..0x200) hold its left-child link, and [0x200..0x300) hold a
// per-node flag byte where bit 7 means "left child is internal" and bit 3
// means "right child is internal". The root is always node 0xFE.
package huffman

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

const (
	treeSize  = 0x300
	rootNode  = 0xFE
	tileBytes = 0x10
)

// Decode expands a Huffman-compressed tileset block using tree (an
// existing 0x300-byte table), producing exactly count*0x10 bytes.
func Decode(input []byte, tree []byte, count int) ([]byte, error) {
	if len(tree) != treeSize {
		return nil, dkerr.ErrHuffWrong
	}
	out := make([]byte, 0, tileBytes*count)
	r := bitio.NewMSBBitReader(input)
	node := byte(rootNode)

	for len(out) < tileBytes*count {
		flag := tree[0x200|int(node)]
		bit, err := r.ReadBit()
		if err != nil {
			return nil, err
		}

		var internal bool
		var next byte
		if bit == 1 {
			internal = flag&0x80 != 0
			next = tree[0x100|int(node)]
		} else {
			internal = flag&0x08 != 0
			next = tree[int(node)]
		}

		if internal {
			node = next
			continue
		}
		out = append(out, next)
		node = rootNode
	}
	return out, nil
}

// node mirrors internal/gba/huff20's tree element: a leaf carrying a byte
// value, or an internal node carrying indices of its children within the
// same tree slice. DKL reuses the exact canonical two-queue build huff20
// uses (the original credits it as copied from the GBA Huffman(20)
// encoder).
type node struct {
	leaf        bool
	count       int
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
	for i := 1; i < len(vc); i++ {
		for j := i; j > 0 && vc[j].count > vc[j-1].count; j-- {
			vc[j], vc[j-1] = vc[j-1], vc[j]
		}
	}

	n := 256
	for i, v := range vc {
		if v.count == 0 {
			n = i
			break
		}
	}
	leaves := make([]node, 0, n)
	for i := n - 1; i >= 0; i-- {
		leaves = append(leaves, node{leaf: true, count: vc[i].count, value: byte(vc[i].index)})
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
			break
		}
		nn := node{
			left:  ts - 2,
			right: ts - 1,
			count: tree[ts-2].count + tree[ts-1].count,
		}
		nodeQueue = append(nodeQueue, nn)
	}
	return tree, root
}

// placeTree lays tree (rooted at nodeIdx) into buf using the original's
// depth-first, decrementing-position-counter scheme: the node occupying
// *pos is assigned, pos is decremented once, then the left subtree is
// placed (consuming further positions) before the right subtree.
func placeTree(tree []node, nodeIdx int, pos *int, buf []byte) error {
	cpos := *pos
	if cpos < 0 {
		return dkerr.ErrHuffNodeLim
	}
	*pos--

	left, right := tree[nodeIdx].left, tree[nodeIdx].right
	if tree[left].leaf {
		buf[cpos|0x100] = tree[left].value
	} else {
		buf[cpos|0x200] |= 0x80
		buf[cpos|0x100] = byte(*pos)
		if err := placeTree(tree, left, pos, buf); err != nil {
			return err
		}
	}

	if tree[right].leaf {
		buf[cpos] = tree[right].value
	} else {
		buf[cpos|0x200] |= 0x08
		buf[cpos] = byte(*pos)
		if err := placeTree(tree, right, pos, buf); err != nil {
			return err
		}
	}
	return nil
}

// BuildTree counts byte frequencies across input (the concatenation of
// every Huffman-compressed tileset block a game uses, decompressed) and
// produces the shared 0x300-byte tree table every block is then
// (re-)compressed against.
func BuildTree(input []byte) ([]byte, error) {
	leaves := generateLeaves(input)
	if len(leaves) == 0 {
		return nil, dkerr.ErrHuffNoLeaf
	}
	if len(leaves) == 1 {
		// A single distinct byte value has no meaningful tree shape; fold
		// it into a degenerate one-leaf root so Decode/Encode still work.
		tree := make([]byte, treeSize)
		tree[rootNode] = leaves[0].value
		tree[0x100|rootNode] = leaves[0].value
		return tree, nil
	}
	tree, root := generateTree(leaves)

	buf := make([]byte, treeSize)
	pos := rootNode
	if err := placeTree(tree, root, &pos, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

type lutEntry struct {
	path uint32
	bits int
}

func generateLUT(tree []byte, node byte, path uint32, bits int, lut *[256]lutEntry) {
	flag := tree[0x200|int(node)]
	left := tree[0x100|int(node)]
	right := tree[int(node)]

	if flag&0x80 != 0 {
		generateLUT(tree, left, path<<1|1, bits+1, lut)
	} else {
		lut[left] = lutEntry{path: path<<1 | 1, bits: bits + 1}
	}

	if flag&0x08 != 0 {
		generateLUT(tree, right, path<<1, bits+1, lut)
	} else {
		lut[right] = lutEntry{path: path << 1, bits: bits + 1}
	}
}

// Encode packs input (tile data, at most 0x1000 bytes per the original's
// tileset decompression window) against an existing tree.
func Encode(input []byte, tree []byte) ([]byte, error) {
	if len(tree) != treeSize {
		return nil, dkerr.ErrHuffWrong
	}
	if len(input) > 0x1000 {
		return nil, dkerr.ErrInputLarge
	}

	var lut [256]lutEntry
	generateLUT(tree, rootNode, 0, 0, &lut)

	out := bitio.NewWriter(make([]byte, len(input)*2+1))
	w := bitio.NewMSBBitWriter(out)
	for _, b := range input {
		e := lut[b]
		for i := e.bits - 1; i >= 0; i-- {
			bit := byte((e.path >> uint(i)) & 1)
			if err := w.WriteBit(bit); err != nil {
				return nil, err
			}
		}
	}
	if _, err := w.Flush(); err != nil {
		return nil, err
	}
	return out.Data[:out.Pos], nil
}
