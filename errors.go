package dkcomp

import "github.com/kingizor/dkcomp-go/internal/dkerr"

// Error is a dkcomp library error code, aliasing internal/dkerr.Error so
// every codec package can construct and return the exact values this
// package exposes without importing the root package.
type Error = dkerr.Error

// Error codes, numbered to match the original library's DK_ERROR ordering
// so that a caller porting tooling from dkcomp can keep its exit-code
// tables. DK_SUCCESS has no Go equivalent: Go codec functions return a nil
// error instead of Error(0).
const (
	ErrOobInput       = dkerr.ErrOobInput
	ErrOobOutputRead  = dkerr.ErrOobOutputRead
	ErrOobOutputWrite = dkerr.ErrOobOutputWrite

	ErrAlloc = dkerr.ErrAlloc

	ErrNullInput  = dkerr.ErrNullInput
	ErrFileInput  = dkerr.ErrFileInput
	ErrFileOutput = dkerr.ErrFileOutput
	ErrSeekInput  = dkerr.ErrSeekInput
	ErrFread      = dkerr.ErrFread
	ErrFwrite     = dkerr.ErrFwrite

	ErrOffsetBig  = dkerr.ErrOffsetBig
	ErrOffsetNeg  = dkerr.ErrOffsetNeg
	ErrOffsetDiff = dkerr.ErrOffsetDiff

	ErrInputSmall  = dkerr.ErrInputSmall
	ErrInputLarge  = dkerr.ErrInputLarge
	ErrOutputSmall = dkerr.ErrOutputSmall

	ErrSizeWrong = dkerr.ErrSizeWrong
	ErrEarlyEOF  = dkerr.ErrEarlyEOF

	ErrBadFormat = dkerr.ErrBadFormat
	ErrGbaDetect = dkerr.ErrGbaDetect
	ErrSigWrong  = dkerr.ErrSigWrong

	ErrCompNot   = dkerr.ErrCompNot
	ErrDecompNot = dkerr.ErrDecompNot

	ErrSdBadExit   = dkerr.ErrSdBadExit
	ErrLz77Hist    = dkerr.ErrLz77Hist
	ErrHuffWrong   = dkerr.ErrHuffWrong
	ErrHuffLeaf    = dkerr.ErrHuffLeaf
	ErrHuffDist    = dkerr.ErrHuffDist
	ErrHuffNoLeaf  = dkerr.ErrHuffNoLeaf
	ErrHuffOutsize = dkerr.ErrHuffOutsize
	ErrHuffStacks  = dkerr.ErrHuffStacks
	ErrHuffNodes   = dkerr.ErrHuffNodes
	ErrHuffNodeLim = dkerr.ErrHuffNodeLim
	ErrHuffLeafVal = dkerr.ErrHuffLeafVal

	ErrTableRange = dkerr.ErrTableRange
	ErrTableValue = dkerr.ErrTableValue
	ErrTableZero  = dkerr.ErrTableZero

	ErrVerifyDec  = dkerr.ErrVerifyDec
	ErrVerifySize = dkerr.ErrVerifySize
	ErrVerifyData = dkerr.ErrVerifyData
)

// ErrorName is the exported equivalent of dk_get_error(code): a static
// string for any recognised code, and a fallback for anything else.
func ErrorName(code Error) string {
	return code.Error()
}
