package gaspra

import "sync"

// stateID is an index into Automaton.states. States never move once
// appended, so a stateID is stable for the automaton's lifetime. This is
// the arena-of-states-with-integer-handles representation the Design Notes
// call for, grounded on coregx-coregex/nfa/builder.go's StateID-addressed
// []State arena (the pack's only example of this shape).
type stateID int32

const root stateID = 0
const invalidState stateID = -1

// maxIndexedLength bounds Build's input so every stateID (int32) and every
// first-position (int, but clamped to the same range) stays addressable
// with room for the up-to-(2n-1) states the construction can create.
const maxIndexedLength = (1<<31 - 1) / 2

// state is one node of the automaton. Edges are a map keyed by token since
// §4.1 requires "a small associative map, not a dense array" so that
// Unicode or line-id alphabets of unbounded size don't inflate memory —
// grounded directly on the reference automaton in
// other_examples/..._saint2706-Programming-Challenges-5.../automaton.go.go,
// whose State.Next is exactly map[rune]int.
type state[T comparable] struct {
	length   int
	link     stateID
	firstPos int // earliest source index where a string ending here completed
	isClone  bool
	edges    map[T]stateID
}

// Automaton is a suffix automaton over a fixed token sequence: the minimal
// deterministic acceptor of all of that sequence's substrings (§3). Built
// once by [Build], read-only afterward, and safe to share across goroutines
// without synchronization (§5).
type Automaton[T comparable] struct {
	states []state[T]
	last   stateID
	length int

	children        [][]stateID // suffix-link tree, built lazily by ensureChildren
	lengthOrderDesc []stateID   // states sorted by length descending, built lazily

	childrenOnce, lengthOrderOnce sync.Once // guard the lazy caches above
}

// Build constructs the suffix automaton of seq in time amortized linear in
// len(seq) (§4.1). It fails only when seq is too long to index.
func Build[T comparable](seq []T) (*Automaton[T], error) {
	if len(seq) > maxIndexedLength {
		return nil, newError(ErrTooLarge, "sequence length %d exceeds maximum indexed length %d", len(seq), maxIndexedLength)
	}

	sa := &Automaton[T]{
		states: make([]state[T], 1, 2*len(seq)+1),
	}
	sa.states[0] = state[T]{link: invalidState}
	sa.last = root

	for i, t := range seq {
		sa.extend(t, i)
	}
	return sa, nil
}

// Len returns the length of the indexed sequence.
func (sa *Automaton[T]) Len() int {
	return sa.length
}

// StateCount returns the number of states, which the construction
// guarantees never exceeds 2*Len()-1 for Len() >= 2 (§3).
func (sa *Automaton[T]) StateCount() int {
	return len(sa.states)
}

// extend appends token t, occurring at source position i, following the
// online construction of §4.1.
func (sa *Automaton[T]) extend(t T, i int) {
	cur := sa.newState(sa.states[sa.last].length+1, i)

	p := sa.last
	for p != invalidState {
		if _, ok := sa.states[p].edges[t]; ok {
			break
		}
		sa.setEdge(p, t, cur)
		p = sa.states[p].link
	}

	switch {
	case p == invalidState:
		sa.states[cur].link = root
	default:
		q := sa.states[p].edges[t]
		if sa.states[q].length == sa.states[p].length+1 {
			sa.states[cur].link = q
		} else {
			clone := sa.cloneState(q, sa.states[p].length+1)
			for p != invalidState {
				target, ok := sa.states[p].edges[t]
				if !ok || target != q {
					break
				}
				sa.setEdge(p, t, clone)
				p = sa.states[p].link
			}
			sa.states[q].link = clone
			sa.states[cur].link = clone
		}
	}

	sa.last = cur
	sa.length++
	// lazily-built caches are invalidated by future extends; Build never
	// calls extend after handing the automaton to a caller, so there is no
	// need to actually clear them here.
}

func (sa *Automaton[T]) newState(length, firstPos int) stateID {
	id := stateID(len(sa.states))
	sa.states = append(sa.states, state[T]{length: length, link: invalidState, firstPos: firstPos})
	return id
}

func (sa *Automaton[T]) cloneState(q stateID, length int) stateID {
	var edges map[T]stateID
	if n := len(sa.states[q].edges); n > 0 {
		edges = make(map[T]stateID, n)
		for k, v := range sa.states[q].edges {
			edges[k] = v
		}
	}
	id := stateID(len(sa.states))
	sa.states = append(sa.states, state[T]{
		length:   length,
		link:     sa.states[q].link,
		firstPos: sa.states[q].firstPos,
		isClone:  true,
		edges:    edges,
	})
	return id
}

func (sa *Automaton[T]) setEdge(p stateID, t T, target stateID) {
	if sa.states[p].edges == nil {
		sa.states[p].edges = make(map[T]stateID)
	}
	sa.states[p].edges[t] = target
}

// Match is the result of a longest-match query: the indexed sequence and
// the query sequence share query[StartQuery:StartQuery+Length], which
// equals the indexed sequence's slice [StartIndexed:StartIndexed+Length].
type Match struct {
	StartIndexed int
	StartQuery   int
	Length       int
}

// LongestMatchIn returns the longest substring of query that also occurs in
// the sequence the automaton was built from (§4.1). Ties are broken by
// earliest position in query, then (implicitly, via the automaton's own
// first-occurrence bookkeeping) earliest position in the indexed sequence.
func (sa *Automaton[T]) LongestMatchIn(query []T) Match {
	p := root
	l := 0
	var best Match

	for j, t := range query {
		for {
			if _, ok := sa.states[p].edges[t]; ok {
				break
			}
			if p == root {
				break
			}
			p = sa.states[p].link
			l = sa.states[p].length
		}

		if next, ok := sa.states[p].edges[t]; ok {
			p = next
			l++
		} else {
			l = 0
		}

		if l > best.Length {
			best = Match{
				StartIndexed: sa.states[p].firstPos - l + 1,
				StartQuery:   j - l + 1,
				Length:       l,
			}
		}
	}

	return best
}

// Contains reports whether pattern occurs as a substring of the indexed
// sequence. It reuses the same deterministic walk find_all_starts needs, so
// it costs nothing extra to expose (§12 supplement).
func (sa *Automaton[T]) Contains(pattern []T) bool {
	p := root
	for _, t := range pattern {
		next, ok := sa.states[p].edges[t]
		if !ok {
			return false
		}
		p = next
	}
	return true
}

// FindAllStarts returns every starting position in the indexed sequence
// where pattern occurs, used by the n-way LCS engine (§4.2).
func (sa *Automaton[T]) FindAllStarts(pattern []T) map[int]struct{} {
	starts := make(map[int]struct{})
	if len(pattern) == 0 {
		for i := 0; i <= sa.length; i++ {
			starts[i] = struct{}{}
		}
		return starts
	}

	p := root
	for _, t := range pattern {
		next, ok := sa.states[p].edges[t]
		if !ok {
			return starts
		}
		p = next
	}

	ends := make(map[int]struct{})
	sa.collectEndPositions(p, ends)
	for e := range ends {
		starts[e-len(pattern)+1] = struct{}{}
	}
	return starts
}

// ensureChildren builds the suffix-link tree (children[v] = states whose
// link points to v) once and caches it.
func (sa *Automaton[T]) ensureChildren() {
	sa.childrenOnce.Do(func() {
		children := make([][]stateID, len(sa.states))
		for v := 1; v < len(sa.states); v++ {
			p := sa.states[v].link
			children[p] = append(children[p], stateID(v))
		}
		sa.children = children
	})
}

// collectEndPositions walks the suffix-link subtree rooted at s, gathering
// the source end-position of every non-clone descendant (clones never
// introduce a new endpos element of their own).
func (sa *Automaton[T]) collectEndPositions(s stateID, out map[int]struct{}) {
	sa.ensureChildren()
	stack := []stateID{s}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !sa.states[v].isClone {
			out[sa.states[v].firstPos] = struct{}{}
		}
		stack = append(stack, sa.children[v]...)
	}
}

// ensureLengthOrderDesc builds a counting-sorted (by length, descending)
// order over all states, used to propagate match lengths up the
// suffix-link tree in scanBestPerState.
func (sa *Automaton[T]) ensureLengthOrderDesc() {
	sa.lengthOrderOnce.Do(func() {
		buckets := make([][]stateID, sa.length+1)
		for v := range sa.states {
			l := sa.states[v].length
			buckets[l] = append(buckets[l], stateID(v))
		}
		order := make([]stateID, 0, len(sa.states))
		for l := len(buckets) - 1; l >= 0; l-- {
			order = append(order, buckets[l]...)
		}
		sa.lengthOrderDesc = order
	})
}

// scanBestPerState scans query against the automaton exactly like
// LongestMatchIn, but instead of keeping only the single best match it
// records, for every state reached, the longest match length observed at
// that state, then propagates those lengths up the suffix-link tree. The
// result, best[v], is the length of the longest substring of query that
// occurs in the indexed sequence and belongs to state v's equivalence
// class — the building block FindLCSMultiple uses for its per-position
// match-length array (§4.2 step 2).
func (sa *Automaton[T]) scanBestPerState(query []T) []int {
	sa.ensureLengthOrderDesc()

	best := make([]int, len(sa.states))
	p := root
	l := 0

	for _, t := range query {
		for {
			if _, ok := sa.states[p].edges[t]; ok {
				break
			}
			if p == root {
				break
			}
			p = sa.states[p].link
			l = sa.states[p].length
		}

		if next, ok := sa.states[p].edges[t]; ok {
			p = next
			l++
		} else {
			l = 0
		}

		if l > best[p] {
			best[p] = l
		}
	}

	for _, v := range sa.lengthOrderDesc {
		if v == root {
			continue
		}
		lv := sa.states[v].link
		if lv == invalidState {
			continue
		}
		cand := best[v]
		if cap := sa.states[lv].length; cand > cap {
			cand = cap
		}
		if cand > best[lv] {
			best[lv] = cand
		}
	}

	return best
}
