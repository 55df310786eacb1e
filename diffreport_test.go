package gaspra_test

import (
	"testing"

	"github.com/mawicks/gaspra"
)

// reportDiff logs a readable want/got diff, line by line, the same trick
// tests.go's ScriptTest.OutputDetails played on itself (diffing actual vs
// expected test output with the library's own diff engine instead of two
// raw slices) — rebuilt here on top of Diff instead of the teacher's
// Myers-based Compare.
func reportDiff(t *testing.T, want, got []string) {
	t.Helper()

	stream, err := gaspra.Diff(want, got)
	if err != nil {
		t.Fatalf("diffing report: %v", err)
		return
	}

	for _, e := range stream {
		switch e.Kind {
		case gaspra.RunKind:
			for _, line := range want[e.Lo:e.Hi] {
				t.Logf("  %s", line)
			}
		case gaspra.ChangeKind:
			for _, line := range e.Delete {
				t.Logf("- %s", line)
			}
			for _, line := range e.Insert {
				t.Logf("+ %s", line)
			}
		}
	}
}
