package gaspra

import (
	"regexp"
	"strings"
	"unicode"
)

// Chars tokenizes a string into its Unicode scalar values, the character-mode
// token sequence every [Diff] and [Merge] call can operate on directly.
func Chars(s string) []rune {
	return []rune(s)
}

var lineSplit = regexp.MustCompile(`\r\n?|\n`)

// Lines splits input on line terminators. Adapted from the teacher's
// text.go; kept as the reference line-mode pre-pass since the core treats
// tokenization as an external concern (§4.5) but still ships one.
func Lines(input string) []string {
	return lineSplit.Split(input, -1)
}

// TrimLines right-trims whitespace from every line and drops a trailing run
// of empty lines, matching the teacher's text.go behavior exactly.
func TrimLines(lines []string) []string {
	for i, it := range lines {
		lines[i] = strings.TrimRightFunc(it, unicode.IsSpace)
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// Interner assigns small integer ids to distinct lines so line-mode diffing
// can run over []int tokens, which are cheaper to hash and compare than the
// raw strings. Building the table is the caller's job per §4.5; this is the
// reference implementation the distillation left implicit.
type Interner struct {
	ids   map[string]int
	lines []string
}

// NewInterner creates an empty line table.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]int)}
}

// Intern returns the id for line, assigning a new one the first time it is
// seen.
func (in *Interner) Intern(line string) int {
	if id, ok := in.ids[line]; ok {
		return id
	}
	id := len(in.lines)
	in.ids[line] = id
	in.lines = append(in.lines, line)
	return id
}

// InternAll interns every line in order, returning the token sequence to
// feed into [Build], [Diff], or [Merge].
func (in *Interner) InternAll(lines []string) []int {
	out := make([]int, len(lines))
	for i, line := range lines {
		out[i] = in.Intern(line)
	}
	return out
}

// Line recovers the text for a previously interned id.
func (in *Interner) Line(id int) string {
	return in.lines[id]
}

// Len returns the number of distinct lines interned so far.
func (in *Interner) Len() int {
	return len(in.lines)
}
