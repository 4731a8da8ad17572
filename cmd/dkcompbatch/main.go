// Command dkcompbatch compresses or decompresses every file matching a
// doublestar glob pattern under a single format, reporting each file's
// input/output size.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kingizor/dkcomp-go"
	"github.com/kingizor/dkcomp-go/internal/cliformat"
)

func main() {
	decompress := flag.Bool("d", false, "decompress instead of compress")
	suffix := flag.String("suffix", ".out", "suffix appended to each matched file's name for its output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-d] [-suffix .out] <format-index> <glob-pattern>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	format, err := cliformat.Parse(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pattern := flag.Arg(1)

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no files matched\n", pattern)
		os.Exit(1)
	}

	failures := 0
	for _, path := range matches {
		if err := processOne(format, path, *suffix, *decompress); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failures++
			continue
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func processOne(format dkcomp.Format, path, suffix string, decompress bool) error {
	input, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var output []byte
	if decompress {
		output, err = dkcomp.Decompress(format, input)
	} else {
		output, err = dkcomp.Compress(format, input)
	}
	if err != nil {
		return err
	}

	outPath := path + suffix
	if err := os.WriteFile(outPath, output, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: %d -> %d bytes (%s)\n", filepath.Base(path), len(input), len(output), outPath)
	return nil
}
