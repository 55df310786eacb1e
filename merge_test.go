package gaspra_test

import (
	"testing"

	"github.com/mawicks/gaspra"
	"github.com/stretchr/testify/require"
)

const mergeOriginal = "The quick brown fox jumps over the lazy dog near the riverbank."

// TestMergeLiteralNoConflict checks spec.md §8 scenario S5: two
// non-overlapping sets of edits merge cleanly with no conflict.
func TestMergeLiteralNoConflict(t *testing.T) {
	editor1 := "The quick brown fox leaps over the lazy dogs near the river."
	editor2 := "The quick, clever fox jumps across the lazy dogs by the riverbank."

	ancestor := gaspra.Chars(mergeOriginal)
	stream, err := gaspra.Merge(ancestor, gaspra.Chars(editor1), gaspra.Chars(editor2))
	require.NoError(t, err)
	require.False(t, stream.HasConflict())

	want := "The quick, clever fox leaps across the lazy dogs by the river."
	got := stream.Resolve(ancestor, func(gaspra.Element[rune]) []rune { return nil })
	require.Equal(t, want, string(got))
}

// TestMergeLiteralConflict checks spec.md §8 scenario S6: a conflicting
// edit to the ancestor's final word produces exactly one conflict over the
// {"", "side"} alternatives, with everything else merging cleanly.
func TestMergeLiteralConflict(t *testing.T) {
	editor1 := "The quick brown fox leaps over the lazy dogs near the river."
	conflictsWith1 := "The swift, agile fox leaps over the sleepy dog near the riverside."

	ancestor := gaspra.Chars(mergeOriginal)
	stream, err := gaspra.Merge(ancestor, gaspra.Chars(editor1), gaspra.Chars(conflictsWith1))
	require.NoError(t, err)

	conflicts := stream.Conflicts()
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	require.Equal(t, "bank", string(ancestor[c.Lo:c.Hi]))
	require.Len(t, c.AltA, 1)
	require.Len(t, c.AltB, 1)
	require.Equal(t, "", string(c.AltA[0].Insert))
	require.Equal(t, "side", string(c.AltB[0].Insert))

	resolved := stream.Resolve(ancestor, func(conflict gaspra.Element[rune]) []rune {
		return conflict.AltB[0].Insert
	})
	require.Equal(t, "The swift, agile fox leaps over the sleepy dogs near the riverside.", string(resolved))
}

// TestMergeTrivialSides checks spec.md §8 Testable Property 7:
// merge(A, A, B) and merge(A, B, A) agree with diff(A, B) up to coalescing.
func TestMergeTrivialSides(t *testing.T) {
	a := gaspra.Chars("The quick brown fox jumps over the lazy dog")
	b := gaspra.Chars("A quick brown fox leaps over a lazy dog")

	expected, err := gaspra.Diff(a, b)
	require.NoError(t, err)

	m1, err := gaspra.Merge(a, a, b)
	require.NoError(t, err)
	require.False(t, m1.HasConflict())
	require.Equal(t, streamShape(expected), streamShape(m1))

	m2, err := gaspra.Merge(a, b, a)
	require.NoError(t, err)
	require.False(t, m2.HasConflict())
	require.Equal(t, streamShape(expected), streamShape(m2))
}

// streamShape reduces a Stream to its Kind/Insert/Delete sequence, ignoring
// Lo/Hi, so a diff stream and an equivalent merge stream (whose Run
// boundaries are defined over the same ancestor) can be compared directly.
func streamShape(s gaspra.Stream[rune]) []string {
	out := make([]string, len(s))
	for i, e := range s {
		out[i] = e.Kind.String() + ":" + string(e.Insert) + "|" + string(e.Delete)
	}
	return out
}

// TestMergeIdempotence checks spec.md §8 Testable Property 8:
// merge(A, B, B) produces only runs and changes, reconstructing B.
func TestMergeIdempotence(t *testing.T) {
	a := gaspra.Chars(mergeOriginal)
	b := gaspra.Chars("The quick brown fox leaps over the lazy dogs near the river.")

	stream, err := gaspra.Merge(a, b, b)
	require.NoError(t, err)
	require.False(t, stream.HasConflict())

	got := stream.Resolve(a, func(gaspra.Element[rune]) []rune { return nil })
	require.Equal(t, string(b), string(got))
}

// TestMergeCommutativity checks spec.md §8 Testable Property 9: swapping
// the two edited sides swaps each conflict's alternatives but leaves the
// run backbone and conflict ranges the same.
func TestMergeCommutativity(t *testing.T) {
	a := gaspra.Chars(mergeOriginal)
	x := gaspra.Chars("The quick brown fox leaps over the lazy dogs near the river.")
	y := gaspra.Chars("The swift, agile fox leaps over the sleepy dog near the riverside.")

	xy, err := gaspra.Merge(a, x, y)
	require.NoError(t, err)
	yx, err := gaspra.Merge(a, y, x)
	require.NoError(t, err)

	cxy := xy.Conflicts()
	cyx := yx.Conflicts()
	require.Len(t, cxy, 1)
	require.Len(t, cyx, 1)
	require.Equal(t, cxy[0].Lo, cyx[0].Lo)
	require.Equal(t, cxy[0].Hi, cyx[0].Hi)
	require.Equal(t, cxy[0].AltA[0].Insert, cyx[0].AltB[0].Insert)
	require.Equal(t, cxy[0].AltB[0].Insert, cyx[0].AltA[0].Insert)
}

// TestMergeDisjointNoConflict checks spec.md §8 Testable Property 10:
// when two sides' changes touch disjoint ancestor ranges, no conflict is
// produced.
func TestMergeDisjointNoConflict(t *testing.T) {
	a := gaspra.Chars("one two three four five")
	x := gaspra.Chars("ONE two three four five")
	y := gaspra.Chars("one two three four FIVE")

	stream, err := gaspra.Merge(a, x, y)
	require.NoError(t, err)
	require.False(t, stream.HasConflict())
}

// TestMergeWideChangeAbsorbsMultipleNarrowChanges checks spec.md §4.4's
// "consumed up to the least common right boundary, and scanning continues"
// rule: one side's single wide change spans two of the other side's
// separate, narrower changes. Both of the narrower changes must end up in
// the same conflict's AltB, not leak out as a second, overlapping element.
func TestMergeWideChangeAbsorbsMultipleNarrowChanges(t *testing.T) {
	ancestor := gaspra.Chars("abcdefg")
	sideA := gaspra.Chars("aXg")     // replaces ancestor[1:6) ("bcdef") wholesale
	sideB := gaspra.Chars("abCdeFg") // narrower edits at [2:3) and [5:6)

	stream, err := gaspra.Merge(ancestor, sideA, sideB)
	require.NoError(t, err)

	conflicts := stream.Conflicts()
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	require.Equal(t, "bcdef", string(ancestor[c.Lo:c.Hi]))
	require.Len(t, c.AltA, 1)
	require.Len(t, c.AltB, 2)

	// Every ancestor token appears in exactly one segment of the stream.
	covered := 0
	for _, e := range stream {
		if e.Kind == gaspra.RunKind || e.Kind == gaspra.ConflictKind {
			require.Equal(t, covered, e.Lo, "segment %v does not start where the previous one ended", e)
			covered = e.Hi
		}
	}
	require.Equal(t, len(ancestor), covered)
}
