package sd

import (
	"github.com/kingizor/dkcomp-go/internal/bitio"
	"github.com/kingizor/dkcomp-go/internal/dkerr"
)

// subBits holds, for each of the four sub-passes, the mask isolating the
// bits that pass handles within the high byte of every output word.
var subBits = [4]byte{0x20, 0x40, 0x80, 0x1C}

func countBits(b byte) int {
	n := 0
	for b != 0 {
		n++
		b &= b - 1
	}
	return n
}

func trailingZeros(b byte) int {
	n := 0
	for b&1 == 0 {
		n++
		b >>= 1
	}
	return n
}

// bitsActive reports whether any word's high byte uses the bits covered by
// mask, i.e. whether this sub-pass is worth emitting at all.
func bitsActive(input []byte, mask byte) bool {
	for i := 1; i < len(input); i += 2 {
		if input[i]&mask != 0 {
			return true
		}
	}
	return false
}

// encodeSubs emits one sub-pass: runs of words sharing the same masked
// value are either inlined (if that's cheaper than a loop count) or
// written as a single value plus an explicit run length, up to loopLimit.
func encodeSubs(w *bitio.MSBBitWriter, input []byte, mask byte, loopLimit int) error {
	shift := trailingZeros(mask)
	valBits := countBits(mask)

	i := 1
	for i < len(input) {
		word := input[i] & mask
		run := 2
		for run < loopLimit*2 && i+run < len(input) {
			if input[i+run]&mask != word {
				break
			}
			run += 2
		}
		i += run
		run >>= 1

		val := uint32(word) >> uint(shift)

		if run*(1+valBits) < 8 {
			for ; run > 0; run-- {
				if err := w.WriteBits(1+valBits, val); err != nil {
					return err
				}
			}
		} else {
			packed := ((val | (1 << uint(valBits))) << uint(7-valBits)) | uint32(run)
			if err := w.WriteBits(8, packed); err != nil {
				return err
			}
		}
	}
	// Terminator: loop bit set, value 0, count 0.
	return w.WriteBits(8, 1<<7)
}

func rw(input []byte, addr int) (int, bool) {
	if addr < 0 || addr+1 >= len(input) {
		return 0, false
	}
	return int(input[addr]) | int(input[addr+1])<<8, true
}

// Main pass run modes.
const (
	modeUnique = 0
	modeSame   = 1
	modeInc    = 2
	modeDec    = 3
)

// encodeMain emits the mandatory final pass: a run of words that stays
// constant, increments by one, or decrements by one is folded into a
// single mode/value/count triple; anything else falls back to one word
// at a time.
func encodeMain(w *bitio.MSBBitWriter, input []byte) error {
	n := len(input)
	for i := 0; i < n; {
		wv, ok := rw(input, i)
		if !ok {
			return dkerr.ErrOobInput
		}
		w1 := wv & 0x3FF

		mode := modeUnique
		runLen := 0
		if i < n-2 {
			addr := i + 2
			w2v, ok := rw(input, addr)
			if !ok {
				return dkerr.ErrOobInput
			}
			w2 := w2v & 0x3FF
			diff := int(w2) - int(w1)

			lim := 0
			switch diff {
			case 0:
				mode, lim = modeSame, 63
			case 1:
				mode, lim = modeInc, 15
			case -1:
				mode, lim = modeDec, 15
			default:
				mode, lim = modeUnique, 0
			}

			for runLen = 2; runLen < lim; runLen++ {
				addr += 2
				w3v, ok := rw(input, addr)
				if !ok {
					break
				}
				w3 := w3v & 0x3FF
				if int(w3)-int(w2) != diff {
					break
				}
				w2 = w3
			}
		}

		val := uint32(mode<<10) | uint32(w1)
		if mode == modeUnique {
			if err := w.WriteBits(12, val); err != nil {
				return err
			}
			i += 2
		} else {
			countSize := 4
			if mode == modeSame {
				countSize = 6
			}
			if err := w.WriteBits(12+countSize, (val<<uint(countSize))|uint32(runLen)); err != nil {
				return err
			}
			i += runLen * 2
		}
	}
	// Terminator: mode SAME, value 0, count 0.
	return w.WriteBits(18, modeSame<<16)
}

// Compress packs a buffer of little-endian 16-bit words into a small-data
// compressed block.
func Compress(input []byte) ([]byte, error) {
	if len(input) < 2 || len(input)%2 != 0 {
		return nil, dkerr.ErrInputSmall
	}
	if len(input) > 0x1FFFF {
		return nil, dkerr.ErrInputLarge
	}

	wordCount := len(input) / 2
	out := bitio.NewWriter(make([]byte, headerSize+len(input)*3+16))

	if err := out.WriteByte(0); err != nil { // subs byte, patched below
		return nil, err
	}
	if err := out.WriteByte(byte(wordCount)); err != nil {
		return nil, err
	}
	if err := out.WriteByte(byte(wordCount >> 8)); err != nil {
		return nil, err
	}

	w := bitio.NewMSBBitWriter(out)
	var subs byte
	for i := 0; i < 3; i++ {
		if bitsActive(input, subBits[i]) {
			subs |= 1 << uint(i)
			if err := encodeSubs(w, input, subBits[i], 63); err != nil {
				return nil, err
			}
		}
	}
	if err := encodeSubs(w, input, subBits[3], 15); err != nil {
		return nil, err
	}
	if err := encodeMain(w, input); err != nil {
		return nil, err
	}
	if _, err := w.Flush(); err != nil {
		return nil, err
	}

	out.Data[0] = subs
	return out.Data[:out.Pos], nil
}
