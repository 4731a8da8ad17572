// Command dkcompress compresses a file under one of the dkcomp formats.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kingizor/dkcomp-go"
	"github.com/kingizor/dkcomp-go/internal/cliformat"
)

func main() {
	verify := flag.Bool("verify", false, "re-decompress the output and confirm it reproduces the input")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-verify] <format-index> <output-file> <input-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}

	format, err := cliformat.Parse(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	outPath, inPath := flag.Arg(1), flag.Arg(2)

	input, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var output []byte
	if *verify {
		output, err = dkcomp.CompressVerify(format, input)
	} else {
		output, err = dkcomp.Compress(format, input)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, output, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
