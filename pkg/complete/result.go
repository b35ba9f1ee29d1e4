package complete

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Result is the growable-up-to-capacity collection of candidates produced by
// one generation pass, together with per-type counters. The counters always
// sum to Len.
type Result struct {
	items    []Candidate
	counts   [NumTypes]int
	capacity int
}

// NewResult creates a result set with a fixed capacity. Adding past the
// capacity is a hard error, never a silent truncation.
func NewResult(capacity int) (*Result, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalidParameter)
	}
	return &Result{
		items:    make([]Candidate, 0, capacity),
		capacity: capacity,
	}, nil
}

// Add appends a candidate, normalizing its score. Returns ErrCapacity when
// the set is full.
func (r *Result) Add(c Candidate) error {
	if len(r.items) >= r.capacity {
		return fmt.Errorf("%w: result set full at %d items", ErrCapacity, r.capacity)
	}
	c.Score = NormalizeScore(c.Score)
	if c.Type < 0 || int(c.Type) >= NumTypes {
		c.Type = TypeUnknown
	}
	r.items = append(r.items, c)
	r.counts[c.Type]++
	return nil
}

// Len returns the number of candidates.
func (r *Result) Len() int { return len(r.items) }

// Capacity returns the fixed capacity chosen at creation.
func (r *Result) Capacity() int { return r.capacity }

// Items returns the backing slice. Callers must treat it as read-only.
func (r *Result) Items() []Candidate { return r.items }

// At returns the candidate at index i.
func (r *Result) At(i int) (Candidate, error) {
	if i < 0 || i >= len(r.items) {
		return Candidate{}, fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidParameter, i, len(r.items))
	}
	return r.items[i], nil
}

// CountByType returns the number of candidates of the given category.
func (r *Result) CountByType(t CandidateType) int {
	if t < 0 || int(t) >= NumTypes {
		return 0
	}
	return r.counts[t]
}

// Texts returns the candidate texts in display order.
func (r *Result) Texts() []string {
	return lo.Map(r.items, func(c Candidate, _ int) string { return c.Text })
}

// Dedupe collapses candidates with identical text to the single instance with
// the highest relevance score. Ties are broken by insertion order, which is
// source-registration order, so a builtin "echo" always wins over the PATH
// "echo".
func (r *Result) Dedupe() {
	if len(r.items) < 2 {
		return
	}
	best := make(map[string]int, len(r.items))
	kept := r.items[:0]
	for _, c := range r.items {
		i, seen := best[c.Text]
		if !seen {
			best[c.Text] = len(kept)
			kept = append(kept, c)
			continue
		}
		if c.Score > kept[i].Score {
			kept[i] = c
		}
	}
	r.items = kept
	r.recount()
}

// Sort orders candidates by (type, exact-first, descending score, ascending
// text). The sort is stable, so the result set ends up partitioned into
// contiguous type-runs with deterministic ordering inside each run.
func (r *Result) Sort() {
	sort.SliceStable(r.items, func(i, j int) bool {
		a, b := r.items[i], r.items[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.Exact != b.Exact {
			return a.Exact
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Text < b.Text
	})
}

// CategoryPositions returns, for a sorted result set, the index of the first
// candidate of each contiguous type-run in display order.
func (r *Result) CategoryPositions() []int {
	var positions []int
	for i, c := range r.items {
		if i == 0 || c.Type != r.items[i-1].Type {
			positions = append(positions, i)
		}
	}
	return positions
}

func (r *Result) recount() {
	r.counts = [NumTypes]int{}
	for _, c := range r.items {
		r.counts[c.Type]++
	}
}
