package gaspra

// Merge computes a three-way merge of a and b against their common ancestor
// (§4.4): it diffs ancestor->a and ancestor->b independently, then walks
// both change lists together over a common partition of the ancestor range,
// emitting a single merged stream with conflicts marked wherever the two
// sides touch the same ancestor range with different results.
func Merge[T comparable](ancestor, a, b []T, opts ...DiffOption) (Stream[T], error) {
	cfg := defaultDiffOptions()
	for _, o := range opts {
		o(&cfg)
	}

	da, err := Diff(ancestor, a, WithCoalesce(false), withParallelismFrom(cfg))
	if err != nil {
		return nil, err
	}
	db, err := Diff(ancestor, b, WithCoalesce(false), withParallelismFrom(cfg))
	if err != nil {
		return nil, err
	}

	changesA := onlyChanges(da)
	changesB := onlyChanges(db)

	merged := mergeChangeLists(ancestor, changesA, changesB)
	if cfg.coalesce {
		merged = coalesceMerge(merged)
	}
	return merged, nil
}

func withParallelismFrom(cfg DiffOptions) DiffOption {
	return func(o *DiffOptions) { o.parallelism = cfg.parallelism }
}

func onlyChanges[T any](s Stream[T]) []Element[T] {
	var out []Element[T]
	for _, e := range s {
		if e.Kind == ChangeKind {
			out = append(out, e)
		}
	}
	return out
}

// mergeChangeLists walks changesA and changesB — each already sorted and
// disjoint, since each is the change-only projection of a single diff
// against the shared ancestor — clustering every run of mutually touching
// changes from either side into one group before resolving it (§4.4: "once
// overlap is detected, both sides are consumed up to the least common right
// boundary, and scanning continues"). A group touched by only one side is
// that side's own change(s); a group touched by both sides is a conflict
// (or, if it is a single identical edit from each side, the shared edit),
// with the two sides' own elements kept as that conflict's AltA/AltB so a
// single wide edit on one side that overlaps several narrower edits on the
// other is still resolved as one conflict, not a cascade of overlapping
// ones.
func mergeChangeLists[T comparable](ancestor []T, changesA, changesB []Element[T]) []Element[T] {
	var out []Element[T]
	pos := 0
	i, j := 0, 0

	for i < len(changesA) || j < len(changesB) {
		var groupA, groupB []Element[T]
		var lo, hi int

		if j >= len(changesB) || (i < len(changesA) && changesA[i].Lo <= changesB[j].Lo) {
			lo, hi = changesA[i].Lo, changesA[i].Hi
			groupA = append(groupA, changesA[i])
			i++
		} else {
			lo, hi = changesB[j].Lo, changesB[j].Hi
			groupB = append(groupB, changesB[j])
			j++
		}

		for {
			grew := false
			span := Element[T]{Lo: lo, Hi: hi}
			for i < len(changesA) && touching(span, changesA[i]) {
				lo, hi = min(lo, changesA[i].Lo), max(hi, changesA[i].Hi)
				groupA = append(groupA, changesA[i])
				i++
				span, grew = Element[T]{Lo: lo, Hi: hi}, true
			}
			for j < len(changesB) && touching(span, changesB[j]) {
				lo, hi = min(lo, changesB[j].Lo), max(hi, changesB[j].Hi)
				groupB = append(groupB, changesB[j])
				j++
				span, grew = Element[T]{Lo: lo, Hi: hi}, true
			}
			if !grew {
				break
			}
		}

		if pos < lo {
			out = append(out, Element[T]{Kind: RunKind, Lo: pos, Hi: lo})
		}

		switch {
		case len(groupA) == 0:
			out = append(out, groupB...)
		case len(groupB) == 0:
			out = append(out, groupA...)
		case len(groupA) == 1 && len(groupB) == 1 && identicalChange(groupA[0], groupB[0]):
			out = append(out, groupA[0])
		default:
			out = append(out, Element[T]{
				Kind:   ConflictKind,
				Lo:     lo,
				Hi:     hi,
				Delete: ancestor[lo:hi],
				AltA:   Stream[T](groupA),
				AltB:   Stream[T](groupB),
			})
		}
		pos = hi
	}

	if pos < len(ancestor) {
		out = append(out, Element[T]{Kind: RunKind, Lo: pos, Hi: len(ancestor)})
	}
	return out
}

// touching reports whether two ancestor-range changes must be resolved
// together: their ranges overlap, or they share a starting boundary (the
// case of two insertions, or an insertion landing exactly where the other
// side's change begins).
func touching[T any](a, b Element[T]) bool {
	if a.Lo == b.Lo {
		return true
	}
	return a.Lo < b.Hi && b.Lo < a.Hi
}

func identicalChange[T comparable](a, b Element[T]) bool {
	return a.Lo == b.Lo && a.Hi == b.Hi && equalTokens(a.Insert, b.Insert)
}

func equalTokens[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// coalesceMerge merges adjacent runs and adjacent non-conflict changes, per
// §4.4's closing instruction to coalesce as in §4.3. Conflicts never merge
// with a neighbor.
func coalesceMerge[T any](in []Element[T]) Stream[T] {
	return coalesce(in)
}
