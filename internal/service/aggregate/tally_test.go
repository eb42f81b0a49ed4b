package aggregate

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestTally_VoteThenRevote(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	assert.False(t, tally.Snapshot().HasVoted())

	prev := tally.SetOwn(0)
	assert.Equal(t, NoVote, prev)
	s := tally.Snapshot()
	assert.Equal(t, map[int]int{0: 1}, s.Counts)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, map[int]int{0: 100}, s.Percentages)

	prev = tally.SetOwn(1)
	assert.Equal(t, 0, prev)
	s = tally.Snapshot()
	assert.Equal(t, map[int]int{0: 0, 1: 1}, s.Counts)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, map[int]int{0: 0, 1: 100}, s.Percentages)
}

func TestTally_RefetchDoesNotDoubleCountViewer(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	tally.SetOwn(2)
	tally.ReplaceOthers(map[int]int{0: 3, 2: 1})

	s := tally.Snapshot()
	assert.Equal(t, map[int]int{0: 3, 2: 2}, s.Counts)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Own)
}

func TestTally_RollbackRestoresPrevious(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	tally.ReplaceOthers(map[int]int{0: 2, 1: 2})
	tally.SetOwn(0)
	before := tally.Snapshot()

	prev := tally.SetOwn(1)
	tally.SetOwn(prev)

	assert.Equal(t, before.Counts, tally.Snapshot().Counts)
	assert.Equal(t, before.Own, tally.Snapshot().Own)
}

func TestPercentages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		counts map[int]int
		want   map[int]int
	}{
		{"no votes", map[int]int{0: 0, 1: 0}, map[int]int{}},
		{"nil", nil, map[int]int{}},
		{"even split", map[int]int{0: 1, 1: 1}, map[int]int{0: 50, 1: 50}},
		{"thirds round independently", map[int]int{0: 1, 1: 1, 2: 1}, map[int]int{0: 33, 1: 33, 2: 33}},
		{"half rounds up", map[int]int{0: 1, 1: 7}, map[int]int{0: 13, 1: 88}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Percentages(tt.counts))
		})
	}
}

func TestTally_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("counts always sum to total", prop.ForAll(
		func(others []int, votes []int) bool {
			tally := NewTally()
			refetch := make(map[int]int, len(others))
			for i, n := range others {
				refetch[i] = n
			}
			tally.ReplaceOthers(refetch)
			for _, v := range votes {
				tally.SetOwn(v)
				s := tally.Snapshot()
				sum := 0
				for _, n := range s.Counts {
					sum += n
				}
				if sum != s.Total {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.IntRange(0, 50)),
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("percentages sum to 100 within option-count slack", prop.ForAll(
		func(counts []int) bool {
			m := make(map[int]int, len(counts))
			total := 0
			for i, n := range counts {
				m[i] = n
				total += n
			}
			pct := Percentages(m)
			if total == 0 {
				return len(pct) == 0
			}
			sum := 0
			for _, p := range pct {
				sum += p
			}
			diff := sum - 100
			if diff < 0 {
				diff = -diff
			}
			return diff <= len(counts)
		},
		gen.SliceOfN(5, gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

func TestTally_RestoreOwnOnlyUndoesItsOwnVote(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	prev := tally.SetOwn(0)

	// Another edit moved the vote since.
	tally.SetOwn(1)
	assert.False(t, tally.RestoreOwn(0, prev))
	assert.Equal(t, 1, tally.Own())

	assert.True(t, tally.RestoreOwn(1, prev))
	assert.Equal(t, NoVote, tally.Own())
	assert.Equal(t, 0, tally.Snapshot().Total)
}

func TestTally_SetOwnAtDropsStaleFetch(t *testing.T) {
	t.Parallel()

	tally := NewTally()
	started := tally.Version()
	tally.SetOwn(1)

	assert.False(t, tally.SetOwnAt(started, NoVote))
	assert.Equal(t, 1, tally.Own())

	assert.True(t, tally.SetOwnAt(tally.Version(), 0))
	assert.Equal(t, 0, tally.Own())
}
