// Package match decides whether a candidate selector is equivalent to a
// level's canonical selector on the level board.
package match

import (
	"sort"

	"golang.org/x/net/html"

	"github.com/verte-zerg/tuidiner/internal/board"
)

// Verdict is the outcome of comparing two match-sets.
type Verdict int

const (
	// Incorrect means the match-sets differ or the candidate matched nothing.
	Incorrect Verdict = iota
	// Correct means both selectors match the same non-empty set of elements.
	Correct
)

func (v Verdict) String() string {
	if v == Correct {
		return "correct"
	}
	return "incorrect"
}

// Evaluation carries the verdict and both match-sets.
type Evaluation struct {
	Verdict   Verdict
	Candidate []*html.Node
	Canonical []*html.Node
}

// Correct reports whether the verdict is Correct.
func (e Evaluation) Correct() bool {
	return e.Verdict == Correct
}

// Evaluate compares the elements matched by candidate and canonical on b.
// Candidates that do not parse match the empty set.
func Evaluate(b *board.Board, candidate, canonical string) Evaluation {
	got := b.Query(candidate)
	want := b.Query(canonical)
	eval := Evaluation{Verdict: Incorrect, Candidate: got, Canonical: want}
	if len(got) == 0 || len(want) == 0 {
		return eval
	}
	if sameSet(fingerprints(b, got), fingerprints(b, want)) {
		eval.Verdict = Correct
	}
	return eval
}

func fingerprints(b *board.Board, nodes []*html.Node) []string {
	seen := make(map[string]struct{}, len(nodes))
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		fp := b.Fingerprint(n)
		if _, ok := seen[fp]; ok {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, fp)
	}
	sort.Strings(out)
	return out
}

func sameSet(a, b []string) bool {
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
