package dkcomp

import (
	"io"
	"os"
)

// CompressFile reads inPath, compresses it under format, and writes the
// result to outPath.
func CompressFile(format Format, outPath, inPath string) error {
	input, err := os.ReadFile(inPath)
	if err != nil {
		return ErrFileInput
	}
	output, err := Compress(format, input)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, output, 0o644); err != nil {
		return ErrFileOutput
	}
	return nil
}

// DecompressFile reads inPath, decompresses it under format, and writes
// the result to outPath.
func DecompressFile(format Format, outPath, inPath string) error {
	return DecompressFileAt(format, outPath, inPath, 0)
}

// DecompressFileAt is DecompressFile with the read starting offset bytes
// into inPath, for formats embedded inside a larger ROM or archive.
func DecompressFileAt(format Format, outPath, inPath string, offset int64) error {
	if offset < 0 {
		return ErrOffsetNeg
	}
	f, err := os.Open(inPath)
	if err != nil {
		return ErrFileInput
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ErrFileInput
	}
	if offset > info.Size() {
		return ErrOffsetBig
	}
	if info.Size()-offset < 1 {
		return ErrOffsetDiff
	}

	if _, err := f.Seek(offset, 0); err != nil {
		return ErrSeekInput
	}
	input := make([]byte, info.Size()-offset)
	if _, err := io.ReadFull(f, input); err != nil {
		return ErrFread
	}

	output, err := Decompress(format, input)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, output, 0o644); err != nil {
		return ErrFileOutput
	}
	return nil
}
