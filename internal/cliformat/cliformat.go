// Package cliformat maps the command-line tools' format arguments (either
// a table index or a case-insensitive name) onto dkcomp.Format, mirroring
// the original library's enum ordering so a caller porting tooling from
// dkcomp can keep its numeric format indices.
package cliformat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kingizor/dkcomp-go"
)

var names = []string{
	"bd", "sd", "dkcchr", "dkcgbc", "dkl",
	"gba-lz77", "gba-huff20", "gba-rle", "gba-huff50", "gba-huff60", "gba",
	"gb-printer",
}

var byName = func() map[string]dkcomp.Format {
	m := make(map[string]dkcomp.Format, len(names))
	for i, n := range names {
		m[n] = dkcomp.Format(i)
	}
	return m
}()

// Parse resolves s to a Format: either a decimal table index or one of the
// names in the table above (case-insensitive).
func Parse(s string) (dkcomp.Format, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(names) {
			return 0, fmt.Errorf("format index %d out of range 0..%d", n, len(names)-1)
		}
		return dkcomp.Format(n), nil
	}
	if f, ok := byName[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unrecognised format %q (want an index 0..%d or one of %s)", s, len(names)-1, strings.Join(names, ", "))
}
