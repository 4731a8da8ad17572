// Package dkcomp implements a family of bit-level compression formats used
// by a set of retro-console games: BD, SD, DKCCHR, DKCGBC, and DKL (SNES),
// GBA-LZ77, GBA-Huff20, GBA-RLE, GBA-Huff50, and GBA-Huff60 (Game Boy
// Advance), and GB-Printer. Every format is reached through this uniform
// façade, which dispatches on a Format tag and operates on in-memory byte
// buffers; see file.go for the file-backed variants.
package dkcomp

import "github.com/kingizor/dkcomp-go/internal/verify"

// Compress encodes input using the codec named by format. It returns
// CompNot if that format's compressor isn't wired into the dispatch
// table (this is always true of FormatGBA, the auto-detect tag, which
// only names a decompression strategy).
func Compress(format Format, input []byte) ([]byte, error) {
	if input == nil {
		return nil, ErrNullInput
	}
	row, ok := formatTable[format]
	if !ok || row.compress == nil {
		return nil, ErrCompNot
	}
	return row.compress(input)
}

// Decompress expands input using the codec named by format. FormatGBA
// resolves to one of the five GBA formats by inspecting input byte 0's
// high nibble before dispatch.
func Decompress(format Format, input []byte) ([]byte, error) {
	if input == nil {
		return nil, ErrNullInput
	}
	if format == FormatGBA {
		detected, err := gbaDetect(input)
		if err != nil {
			return nil, err
		}
		format = detected
	}
	row, ok := formatTable[format]
	if !ok || row.decompress == nil {
		return nil, ErrDecompNot
	}
	return row.decompress(input)
}

// CompressVerify is Compress followed by an immediate self-check: the
// freshly produced output is decompressed again and compared against
// input, so a caller never walks away with compressed data that its own
// decoder can't reproduce. It costs one extra decompress pass.
func CompressVerify(format Format, input []byte) ([]byte, error) {
	packed, err := Compress(format, input)
	if err != nil {
		return nil, err
	}
	row, ok := formatTable[format]
	if !ok || row.decompress == nil {
		return nil, ErrDecompNot
	}
	if err := verify.Compressed(input, packed, row.decompress); err != nil {
		return nil, err
	}
	return packed, nil
}

// CompressedSize reports how many bytes of input a compressed stream for
// format consumes, without fully materialising the decompressed output.
func CompressedSize(format Format, input []byte, offset ...int) (int, error) {
	if input == nil {
		return 0, ErrNullInput
	}
	ofs := 0
	if len(offset) > 0 {
		ofs = offset[0]
	}
	if ofs < 0 {
		return 0, ErrOffsetNeg
	}
	if ofs > len(input) {
		return 0, ErrOffsetBig
	}
	input = input[ofs:]

	if format == FormatGBA {
		detected, err := gbaDetect(input)
		if err != nil {
			return 0, err
		}
		format = detected
	}
	row, ok := formatTable[format]
	if !ok || row.compressedSz == nil {
		return 0, ErrDecompNot
	}
	return row.compressedSz(input)
}
