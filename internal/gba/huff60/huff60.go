// Package huff60 implements the GBA "RareHuf" adaptive Huffman codec
// (format tag 0x60) used by DKC2/DKC3: the tree starts with just a quit
// leaf and a "new value" escape leaf, and grows one leaf at a time as
// previously-unseen bytes are encountered, with weights rebalanced after
// every symbol and halved whenever the root grows too heavy.
package huff60

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

const (
	nodeLimit  = 515
	quitVal    = 0x100
	newLeafVal = 0x101
)

type hNode struct {
	leaf        bool
	weight      int
	parent      int
	left, right int
	value       int
}

func newTree() ([]hNode, int) {
	tree := make([]hNode, nodeLimit)
	tree[0] = hNode{weight: 2, parent: -1, left: 1, right: 2}
	tree[1] = hNode{leaf: true, weight: 1, parent: 0, value: quitVal}
	tree[2] = hNode{leaf: true, weight: 1, parent: 0, value: newLeafVal}
	return tree, 3
}

func rebuildTree(tree []hNode, nodeCount int) {
	pnode := nodeCount - 1
	for node := nodeCount - 1; node >= 0; node-- {
		if tree[node].leaf {
			tree[pnode] = tree[node]
			tree[pnode].weight = (tree[pnode].weight + 1) / 2
			pnode--
		}
	}

	node := nodeCount - 2
	for node > 0 {
		weight := tree[node].weight + tree[node+1].weight
		rnode := pnode + 1
		for weight < tree[rnode].weight {
			rnode++
		}
		rnode--
		n := rnode - pnode
		copy(tree[pnode:pnode+n], tree[pnode+1:pnode+1+n])
		tree[rnode] = hNode{weight: weight, parent: -1, left: node, right: node + 1}
		node -= 2
		pnode--
	}

	for node := nodeCount - 2; node >= 0; node-- {
		if !tree[node].leaf {
			tree[tree[node].left].parent = node
			tree[tree[node].right].parent = node
		}
	}
}

func addLeaf(tree []hNode, nodeCount int, val int) (int, error) {
	if nodeCount+1 >= nodeLimit {
		return 0, dkerr.ErrHuffNodeLim
	}
	for i := 0; i < nodeCount; i++ {
		if tree[i].leaf && tree[i].value == val {
			return 0, dkerr.ErrHuffLeafVal
		}
	}
	newLeaf := hNode{leaf: true, parent: nodeCount - 1, value: val}
	newNode := hNode{weight: 1, parent: tree[nodeCount-1].parent, left: nodeCount, right: nodeCount + 1}

	tree[nodeCount+1] = newLeaf
	tree[nodeCount] = tree[nodeCount-1]
	tree[nodeCount].parent = nodeCount - 1
	tree[nodeCount-1] = newNode

	return nodeCount + 1, nil
}

// swapNodes exchanges the content of two tree slots. The parent field is a
// property of the slot's position in the structure, not of its content, so
// it is left untouched on both sides.
func swapNodes(tree []hNode, aa, bb int) {
	a, b := tree[aa], tree[bb]
	if !a.leaf {
		tree[a.left].parent = bb
		tree[a.right].parent = bb
	}
	if !b.leaf {
		tree[b.left].parent = aa
		tree[b.right].parent = aa
	}
	pa, pb := a.parent, b.parent
	tree[aa], tree[bb] = b, a
	tree[aa].parent = pa
	tree[bb].parent = pb
}

func updateWeights(tree []hNode, node int) {
	for node >= 0 {
		tree[node].weight++
		pnode := node - 1
		for pnode >= 0 && tree[pnode].weight < tree[node].weight {
			pnode--
		}
		pnode++
		if pnode != node {
			swapNodes(tree, pnode, node)
		}
		node = tree[pnode].parent
	}
}

func nsearch(tree []hNode, nodeCount, val int) int {
	for n := nodeCount - 1; n > 0; n-- {
		if tree[n].leaf && tree[n].value == val {
			return n
		}
	}
	return 0
}

func decodeCore(input []byte, collect bool) ([]byte, int, error) {
	if len(input) < 4 {
		return nil, 0, dkerr.ErrInputSmall
	}
	if input[0] != 0x60 {
		return nil, 0, dkerr.ErrSigWrong
	}
	length := int(input[1]) | int(input[2])<<8 | int(input[3])<<16

	r := bitio.NewLinearBitReader(input)
	r.Pos = 4
	tree, nodeCount := newTree()

	var out *bitio.Stream
	if collect {
		out = bitio.NewWriter(make([]byte, length))
	}
	produced := 0

	for {
		node := 0
		for !tree[node].leaf {
			bit, err := r.ReadBit()
			if err != nil {
				return nil, 0, dkerr.ErrOobInput
			}
			if bit == 0 {
				node = tree[node].left
			} else {
				node = tree[node].right
			}
		}

		var val int
		quit := false
		switch tree[node].value {
		case quitVal:
			quit = true
		case newLeafVal:
			for i := 0; i < 8; i++ {
				bit, err := r.ReadBit()
				if err != nil {
					return nil, 0, dkerr.ErrOobInput
				}
				val = (val << 1) | int(bit)
			}
			var err error
			node, err = addLeaf(tree, nodeCount, val)
			if err != nil {
				return nil, 0, err
			}
			nodeCount += 2
		default:
			val = tree[node].value
		}
		if quit {
			break
		}
		produced++
		if collect {
			if err := out.WriteByte(byte(val)); err != nil {
				return nil, 0, err
			}
		}
		if produced > length {
			return nil, 0, dkerr.ErrSizeWrong
		}
		if tree[0].weight >= 0x8000 {
			rebuildTree(tree, nodeCount)
			node = nsearch(tree, nodeCount, val)
		}
		updateWeights(tree, node)
	}
	if produced != length {
		return nil, 0, dkerr.ErrSizeWrong
	}
	if collect {
		return out.Data, r.Consumed(), nil
	}
	return nil, r.Consumed(), nil
}

// Decompress expands GBA Huffman(60)/RareHuf-compressed data.
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

func encodeLeaf(w *bitio.LinearBitWriter, tree []hNode, n int) error {
	var seq uint32
	bits := 0
	for tree[n].parent != -1 {
		parent := tree[n].parent
		seq <<= 1
		if n == tree[parent].right {
			seq |= 1
		}
		n = parent
		bits++
	}
	for bits > 0 {
		bits--
		bit := byte(seq & 1)
		seq >>= 1
		if err := w.WriteBit(bit); err != nil {
			return err
		}
	}
	return nil
}

// Compress encodes input as GBA Huffman(60)/RareHuf data.
func Compress(input []byte) ([]byte, error) {
	tree, nodeCount := newTree()
	out := bitio.NewWriter(make([]byte, 4+len(input)*2+16))
	if err := out.WriteByte(0x60); err != nil {
		return nil, err
	}
	if err := out.Write24LE(uint32(len(input))); err != nil {
		return nil, err
	}
	w := bitio.NewLinearBitWriter(out)

	for _, b := range input {
		val := int(b)
		node := nsearch(tree, nodeCount, val)
		if node == 0 {
			newLeafNode := nsearch(tree, nodeCount, newLeafVal)
			if err := encodeLeaf(w, tree, newLeafNode); err != nil {
				return nil, err
			}
			for i := 0; i < 8; i++ {
				bit := byte((val >> uint(7^i)) & 1)
				if err := w.WriteBit(bit); err != nil {
					return nil, err
				}
			}
			var err error
			node, err = addLeaf(tree, nodeCount, val)
			if err != nil {
				return nil, err
			}
			nodeCount += 2
		} else if err := encodeLeaf(w, tree, node); err != nil {
			return nil, err
		}

		if tree[0].weight >= 0x8000 {
			rebuildTree(tree, nodeCount)
			node = nsearch(tree, nodeCount, val)
		}
		updateWeights(tree, node)
	}

	quitNode := nsearch(tree, nodeCount, quitVal)
	if err := encodeLeaf(w, tree, quitNode); err != nil {
		return nil, err
	}
	if _, err := w.Flush(); err != nil {
		return nil, err
	}
	return out.Data[:out.Pos], nil
}
