// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package pattern reads initial boards in the plaintext .cells format.
package pattern

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/luxfi/life"
)

// Common errors.
var (
	ErrEmpty         = errors.New("pattern has no rows")
	ErrRaggedRows    = errors.New("pattern rows differ in width")
	ErrUnknownGlyph  = errors.New("unknown cell glyph")
	ErrUnknownSource = errors.New("no such pattern file or built-in")
)

const comment = '!'

func alive(r rune) (bool, bool) {
	switch r {
	case 'O', '*', '#', '1', '█':
		return true, true
	case '.', '0', '░':
		return false, true
	}
	return false, false
}

// Parse reads a .cells pattern. Lines starting with '!' are comments and
// blank lines are skipped. Every remaining line is one row and all rows must
// have the same width.
func Parse(r io.Reader) (life.Grid, error) {
	var (
		rows  [][]bool
		width int
		line  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), " \t\r")
		if text == "" || text[0] == comment {
			continue
		}

		row := make([]bool, 0, len(text))
		for col, ch := range []rune(text) {
			v, ok := alive(ch)
			if !ok {
				return life.Grid{}, fmt.Errorf("line %d column %d: %w %q", line, col+1, ErrUnknownGlyph, ch)
			}
			row = append(row, v)
		}

		if len(rows) == 0 {
			width = len(row)
		} else if len(row) != width {
			return life.Grid{}, fmt.Errorf("line %d: %w: got %d cells, want %d", line, ErrRaggedRows, len(row), width)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return life.Grid{}, fmt.Errorf("read pattern: %w", err)
	}
	if len(rows) == 0 {
		return life.Grid{}, ErrEmpty
	}
	return life.NewGrid(rows)
}

// ParseString parses a pattern held in memory.
func ParseString(s string) (life.Grid, error) {
	return Parse(strings.NewReader(s))
}

var builtins = map[string]string{
	"glider": `! Glider
.O....
..O...
OOO...
......
......
......
`,
	"block": `! Block
....
.OO.
.OO.
....
`,
	"blinker": `! Blinker
.....
..O..
..O..
..O..
.....
`,
}

// Builtins returns the names of the patterns compiled into the binary.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns the named built-in pattern.
func Builtin(name string) (life.Grid, error) {
	src, ok := builtins[name]
	if !ok {
		return life.Grid{}, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return ParseString(src)
}

// Load reads the pattern file at source. If no such file exists and source
// names a built-in, the built-in is returned instead.
func Load(source string) (life.Grid, error) {
	f, err := os.Open(source)
	switch {
	case err == nil:
		defer f.Close()
		g, err := Parse(f)
		if err != nil {
			return life.Grid{}, fmt.Errorf("%s: %w", source, err)
		}
		return g, nil
	case errors.Is(err, os.ErrNotExist):
		if _, ok := builtins[source]; ok {
			return Builtin(source)
		}
		return life.Grid{}, fmt.Errorf("%w: %q (built-ins: %s)", ErrUnknownSource, source, strings.Join(Builtins(), ", "))
	default:
		return life.Grid{}, fmt.Errorf("open pattern: %w", err)
	}
}
