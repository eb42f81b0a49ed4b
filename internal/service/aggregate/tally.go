package aggregate

import (
	"maps"
	"math"
	"sync"
)

// NoVote is the own-vote value of a viewer who has not voted.
const NoVote = -1

// TallySnapshot is a consistent view of a poll's counts.
type TallySnapshot struct {
	Counts      map[int]int
	Total       int
	Own         int
	Percentages map[int]int
}

// HasVoted reports whether the viewer has an active option.
func (s TallySnapshot) HasVoted() bool { return s.Own != NoVote }

// Tally holds a poll's per-option counts as the votes of everyone but the
// viewer plus the viewer's own vote. A server refetch replaces only the
// former, so it can never count the viewer twice.
type Tally struct {
	mu     sync.Mutex
	others map[int]int
	own    int
	// version counts own-vote changes.
	version uint64
}

// NewTally creates an empty tally with no own vote.
func NewTally() *Tally {
	return &Tally{others: map[int]int{}, own: NoVote}
}

// Own returns the viewer's current option or NoVote.
func (t *Tally) Own() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.own
}

// Version changes whenever the own vote is written.
func (t *Tally) Version() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

// SetOwn moves the viewer's vote to option and returns the previous option.
func (t *Tally) SetOwn(option int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.setOwn(option)
}

// RestoreOwn moves the own vote back from option to prev, but only while it
// is still option. It reports whether it did.
func (t *Tally) RestoreOwn(option, prev int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.own != option {
		return false
	}
	t.setOwn(prev)
	return true
}

// SetOwnAt sets the own vote read by a server fetch that started at version.
// A vote written since then wins and the call reports false.
func (t *Tally) SetOwnAt(version uint64, option int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.version != version {
		return false
	}
	if t.own != option {
		t.setOwn(option)
	}
	return true
}

func (t *Tally) setOwn(option int) int {
	prev := t.own
	t.version++
	t.own = option
	if option != NoVote {
		if _, ok := t.others[option]; !ok {
			t.others[option] = 0
		}
	}
	if prev != NoVote {
		if _, ok := t.others[prev]; !ok {
			t.others[prev] = 0
		}
	}
	return prev
}

// ReplaceOthers installs the authoritative counts of every voter except the viewer.
func (t *Tally) ReplaceOthers(others map[int]int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.others = make(map[int]int, len(others))
	for opt, n := range others {
		t.others[opt] = max(n, 0)
	}
	if t.own != NoVote {
		if _, ok := t.others[t.own]; !ok {
			t.others[t.own] = 0
		}
	}
}

// Snapshot returns the current counts, total and percentages.
func (t *Tally) Snapshot() TallySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts := maps.Clone(t.others)
	if t.own != NoVote {
		counts[t.own]++
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	return TallySnapshot{
		Counts:      counts,
		Total:       total,
		Own:         t.own,
		Percentages: Percentages(counts),
	}
}

// Percentages returns round(count/total*100) for every option, or an empty map
// when no votes were cast.
func Percentages(counts map[int]int) map[int]int {
	total := 0
	for _, n := range counts {
		total += n
	}
	result := make(map[int]int, len(counts))
	if total == 0 {
		return result
	}
	for opt, n := range counts {
		result[opt] = int(math.Round(float64(n) / float64(total) * 100))
	}
	return result
}
