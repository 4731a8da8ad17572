// Command dkdecompress decompresses a file under one of the dkcomp
// formats, optionally starting at a byte offset into the input.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/kingizor/dkcomp-go"
	"github.com/kingizor/dkcomp-go/internal/cliformat"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <format-index> <output-file> <input-file> [offset]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 3 || flag.NArg() > 4 {
		flag.Usage()
		os.Exit(1)
	}

	format, err := cliformat.Parse(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	outPath, inPath := flag.Arg(1), flag.Arg(2)

	var offset int64
	if flag.NArg() == 4 {
		offset, err = strconv.ParseInt(flag.Arg(3), 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if err := dkcomp.DecompressFileAt(format, outPath, inPath, offset); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
