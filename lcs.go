package gaspra

// LCSResult is the outcome of a longest-common-substring query: a and b
// share a[StartA:StartA+Length] == b[StartB:StartB+Length], and no longer
// common substring exists.
type LCSResult struct {
	StartA, StartB, Length int
}

// FindLCS returns the longest common substring of a and b (§4.2). It builds
// the automaton over whichever of the two is shorter, to bound automaton
// size by the smaller input, then queries it with the other.
//
// Among equally long common substrings, the one chosen is the earliest in
// the queried (longer) sequence, then the earliest in the indexed one. So
// when a is longer than b, ties go to the earliest position in a, then in b;
// when a is no longer than b, ties go to the earliest position in b, then in
// a, and the earliest position in a is not preferred (FindLCS("ab", "ba")
// returns StartA 1, StartB 0).
func FindLCS[T comparable](a, b []T) (LCSResult, error) {
	if len(a) == 0 || len(b) == 0 {
		return LCSResult{}, nil
	}

	if len(a) <= len(b) {
		sa, err := Build(a)
		if err != nil {
			return LCSResult{}, err
		}
		m := sa.LongestMatchIn(b)
		return LCSResult{StartA: m.StartIndexed, StartB: m.StartQuery, Length: m.Length}, nil
	}

	sa, err := Build(b)
	if err != nil {
		return LCSResult{}, err
	}
	m := sa.LongestMatchIn(a)
	return LCSResult{StartA: m.StartQuery, StartB: m.StartIndexed, Length: m.Length}, nil
}

// FindLCSMultiple finds the longest token run common to every sequence in
// seqs (§4.2). It returns the starting position of that run within each
// input, in argument order, and the run's length. A length of 0 means no
// non-empty common substring exists; starts are then all 0. Fewer than two
// sequences, or an empty one, also yield length 0 with all starts 0.
func FindLCSMultiple[T comparable](seqs ...[]T) ([]int, int, error) {
	starts := make([]int, len(seqs))
	if len(seqs) == 0 {
		return starts, 0, nil
	}

	refIdx := 0
	for i, s := range seqs {
		if len(s) < len(seqs[refIdx]) {
			refIdx = i
		}
	}
	ref := seqs[refIdx]
	if len(ref) == 0 || len(seqs) == 1 {
		return starts, 0, nil
	}

	sa, err := Build(ref)
	if err != nil {
		return nil, 0, err
	}

	// minAcc[v] starts at the state's own length (the unconstrained upper
	// bound) and is pulled down by every other sequence's match-length
	// array, per §4.2 step 3 ("take the minimum over all s_i").
	minAcc := make([]int, len(sa.states))
	for v := range minAcc {
		minAcc[v] = sa.states[v].length
	}

	for idx, s := range seqs {
		if idx == refIdx {
			continue
		}
		best := sa.scanBestPerState(s)
		for v := 1; v < len(sa.states); v++ {
			if best[v] < minAcc[v] {
				minAcc[v] = best[v]
			}
		}
	}

	bestLength, bestStart := 0, 0
	for v := 1; v < len(sa.states); v++ {
		length := minAcc[v]
		if cap := sa.states[v].length; length > cap {
			length = cap
		}
		if length <= 0 {
			continue
		}
		start := sa.states[v].firstPos - length + 1
		if length > bestLength || (length == bestLength && start < bestStart) {
			bestLength, bestStart = length, start
		}
	}

	starts[refIdx] = bestStart
	if bestLength == 0 {
		return starts, 0, nil
	}

	pattern := ref[bestStart : bestStart+bestLength]
	patternSA, err := Build(pattern)
	if err != nil {
		return nil, 0, err
	}
	for idx, s := range seqs {
		if idx == refIdx {
			continue
		}
		m := patternSA.LongestMatchIn(s)
		starts[idx] = m.StartQuery
	}

	return starts, bestLength, nil
}
