package gaspra

import "github.com/mawicks/gaspra/internal/fanout"

// ElementKind tags the three possible members of a change stream (§3):
// a preserved run, an (insert, delete) change, and — merge streams only —
// a conflict between two irreconcilable changes. One sum type with a
// common ordering position, per the Design Notes' "tagged variants" note,
// replacing the teacher's Kind-as-signed-int (DiffBlock.Kind < 0/== 0/> 0)
// with a proper enum since GASPRA's stream has three variants, not two.
type ElementKind int

const (
	RunKind ElementKind = iota
	ChangeKind
	ConflictKind
)

func (k ElementKind) String() string {
	switch k {
	case RunKind:
		return "run"
	case ChangeKind:
		return "change"
	case ConflictKind:
		return "conflict"
	default:
		return "unknown"
	}
}

// Element is one entry of a change stream. Lo/Hi always describe a
// half-open range into the "base" sequence (the original, for a diff
// stream; the ancestor, for a merge stream):
//
//   - Run: the range is preserved verbatim.
//   - Change: the range is deleted (Delete == base[Lo:Hi]) and Insert is
//     produced in its place. Insert and Delete carry the tokens directly
//     so a Change is self-contained even without the base sequence at hand.
//   - Conflict: Lo/Hi cover the fused ancestor range of the two
//     alternatives and Delete == base[Lo:Hi]; AltA and AltB hold every
//     Change element that side contributed to the conflicting range, in
//     order (one or more per side).
type Element[T any] struct {
	Kind       ElementKind
	Lo, Hi     int
	Insert     []T
	Delete     []T
	AltA, AltB Stream[T]
}

// Stream is an ordered change stream (§3). Diff returns one over
// (original, modified); Merge returns one over (ancestor, a, b) that may
// additionally contain ConflictKind elements.
type Stream[T any] []Element[T]

// HasConflict reports whether the stream contains any conflict, the only
// "result shape" signal a merge failure produces (§7: conflicts are not an
// error).
func (s Stream[T]) HasConflict() bool {
	for _, e := range s {
		if e.Kind == ConflictKind {
			return true
		}
	}
	return false
}

// Conflicts returns every conflict element in order.
func (s Stream[T]) Conflicts() []Element[T] {
	var out []Element[T]
	for _, e := range s {
		if e.Kind == ConflictKind {
			out = append(out, e)
		}
	}
	return out
}

// ReconstructA concatenates every run (read from base) and every change's
// Delete side, in stream order. For a diff stream this reproduces the
// original sequence (Testable Property 4). Not meaningful on a stream that
// contains conflicts — reconstruction of a merged stream's text is the
// caller's responsibility (§4.5).
func (s Stream[T]) ReconstructA(base []T) []T {
	var out []T
	for _, e := range s {
		switch e.Kind {
		case RunKind:
			out = append(out, base[e.Lo:e.Hi]...)
		case ChangeKind:
			out = append(out, e.Delete...)
		}
	}
	return out
}

// ReconstructB concatenates every run (read from base) and every change's
// Insert side. For a diff stream this reproduces the modified sequence
// (Testable Property 4).
func (s Stream[T]) ReconstructB(base []T) []T {
	var out []T
	for _, e := range s {
		switch e.Kind {
		case RunKind:
			out = append(out, base[e.Lo:e.Hi]...)
		case ChangeKind:
			out = append(out, e.Insert...)
		}
	}
	return out
}

// Resolve reconstructs a merge stream's tokens by reading runs from
// ancestor and calling resolve for every conflict to pick a side (or splice
// in something else entirely). This is the one piece of "reconstruction"
// logic the core ships, since it needs no judgment call the caller hasn't
// already been asked to make.
func (s Stream[T]) Resolve(ancestor []T, resolve func(conflict Element[T]) []T) []T {
	var out []T
	for _, e := range s {
		switch e.Kind {
		case RunKind:
			out = append(out, ancestor[e.Lo:e.Hi]...)
		case ChangeKind:
			out = append(out, e.Insert...)
		case ConflictKind:
			out = append(out, resolve(e)...)
		}
	}
	return out
}

// DiffOptions configures Diff and Merge; see WithParallelism and
// WithCoalesce.
type DiffOptions struct {
	parallelism int
	coalesce    bool
}

// DiffOption mutates a DiffOptions.
type DiffOption func(*DiffOptions)

// WithParallelism lets the diff recursion fork its two halves to a bounded
// pool of up to n goroutines instead of running purely sequentially. This
// is the implementer's-choice optimization §5 names explicitly; emission
// order is always preserved regardless of n. n <= 1 keeps the default
// single-threaded behavior.
func WithParallelism(n int) DiffOption {
	return func(o *DiffOptions) { o.parallelism = n }
}

// WithCoalesce controls the §4.3 coalescing pass that merges adjacent runs
// and adjacent changes. It defaults to true; tests that want to inspect the
// pre-coalescing recursive shape can disable it.
func WithCoalesce(enabled bool) DiffOption {
	return func(o *DiffOptions) { o.coalesce = enabled }
}

func defaultDiffOptions() DiffOptions {
	return DiffOptions{parallelism: 1, coalesce: true}
}

// Diff computes the change stream that turns original into modified
// (§4.3): a recursive decomposition around the two slices' longest common
// substring, emitting a run for the match and recursing on either side.
func Diff[T comparable](original, modified []T, opts ...DiffOption) (Stream[T], error) {
	cfg := defaultDiffOptions()
	for _, o := range opts {
		o(&cfg)
	}

	var lim *fanout.Limiter
	if cfg.parallelism > 1 {
		lim = fanout.NewLimiter(cfg.parallelism - 1)
	}

	elems, err := diffRange(original, modified, 0, len(original), 0, len(modified), lim)
	if err != nil {
		return nil, err
	}
	if cfg.coalesce {
		elems = coalesce(elems)
	}
	return elems, nil
}

func diffRange[T comparable](a, b []T, loA, hiA, loB, hiB int, lim *fanout.Limiter) ([]Element[T], error) {
	if hiA == loA && hiB == loB {
		return nil, nil
	}
	if hiA == loA || hiB == loB {
		return []Element[T]{{
			Kind:   ChangeKind,
			Lo:     loA,
			Hi:     hiA,
			Insert: b[loB:hiB],
			Delete: a[loA:hiA],
		}}, nil
	}

	result, err := FindLCS(a[loA:hiA], b[loB:hiB])
	if err != nil {
		return nil, err
	}
	if result.Length == 0 {
		return []Element[T]{{
			Kind:   ChangeKind,
			Lo:     loA,
			Hi:     hiA,
			Insert: b[loB:hiB],
			Delete: a[loA:hiA],
		}}, nil
	}

	sa := loA + result.StartA
	sb := loB + result.StartB
	matchLen := result.Length

	var left, right []Element[T]
	var errLeft, errRight error

	if lim != nil && lim.TryAcquire() {
		done := make(chan struct{})
		go func() {
			defer lim.Release()
			defer close(done)
			right, errRight = diffRange(a, b, sa+matchLen, hiA, sb+matchLen, hiB, lim)
		}()
		left, errLeft = diffRange(a, b, loA, sa, loB, sb, lim)
		<-done
	} else {
		left, errLeft = diffRange(a, b, loA, sa, loB, sb, lim)
		if errLeft == nil {
			right, errRight = diffRange(a, b, sa+matchLen, hiA, sb+matchLen, hiB, lim)
		}
	}

	if errLeft != nil {
		return nil, errLeft
	}
	if errRight != nil {
		return nil, errRight
	}

	out := make([]Element[T], 0, len(left)+1+len(right))
	out = append(out, left...)
	out = append(out, Element[T]{Kind: RunKind, Lo: sa, Hi: sa + matchLen})
	out = append(out, right...)
	return out, nil
}

// coalesce merges adjacent runs and adjacent changes, per §4.3 and §4.4's
// post-processing pass. Conflicts are never merged with a neighbor.
func coalesce[T any](in []Element[T]) Stream[T] {
	out := make(Stream[T], 0, len(in))
	for _, e := range in {
		if n := len(out); n > 0 && out[n-1].Kind == e.Kind {
			last := &out[n-1]
			switch e.Kind {
			case RunKind:
				last.Hi = e.Hi
				continue
			case ChangeKind:
				// Insert/Delete may alias the caller's sequences; the full
				// slice expression forces append to copy instead of writing
				// past their ends.
				last.Insert = append(last.Insert[:len(last.Insert):len(last.Insert)], e.Insert...)
				last.Delete = append(last.Delete[:len(last.Delete):len(last.Delete)], e.Delete...)
				last.Hi = e.Hi
				continue
			}
		}
		out = append(out, e)
	}
	return out
}
