package history

import (
	"bytes"
	"slices"
	"sort"
	"time"

	"github.com/claude/ironlog/internal/models"
)

// HistoricalSet is a stored set annotated with the end time of its workout.
type HistoricalSet struct {
	models.Set
	WorkoutEndTime time.Time
}

// PreviousSets maps a rendered Key to the baseline sets for that key.
// Keys with no sets are absent.
type PreviousSets map[string][]models.PreviousSet

// ResolvePreviousSets selects, per exercise+profile, every set belonging to the
// workouts with the latest end time for that key.
//
// Within a key, workouts are dense-ranked by end time descending and only rank 1
// survives, so workouts tied on the latest end time contribute all their sets.
// Survivors are ordered by CreatedAt ascending with set ID as the tie-break, so
// the result does not depend on input order. A zero WorkoutEndTime ranks below
// every real timestamp.
func ResolvePreviousSets(sets []HistoricalSet) PreviousSets {
	parts := make(map[partition][]HistoricalSet)
	for _, s := range sets {
		p := KeyOf(s.Set).partition()
		parts[p] = append(parts[p], s)
	}

	out := make(PreviousSets, len(parts))
	for _, members := range parts {
		latest := latestWorkoutSets(members)
		if len(latest) == 0 {
			continue
		}
		sortByCreated(latest)

		// Keys are rendered per set: a nil profile and an explicit zero
		// profile share a partition but not an output key.
		for _, s := range latest {
			key := KeyOf(s.Set).String()
			out[key] = append(out[key], baseline(s.Set))
		}
	}
	return out
}

// For returns the subset of p covering the given keys.
func (p PreviousSets) For(keys ...Key) PreviousSets {
	out := make(PreviousSets, len(keys))
	for _, k := range keys {
		if sets, ok := p[k.String()]; ok {
			out[k.String()] = sets
		}
	}
	return out
}

// Keys returns the rendered keys of p in lexical order.
func (p PreviousSets) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// latestWorkoutSets keeps the members whose workout holds dense rank 1.
func latestWorkoutSets(members []HistoricalSet) []HistoricalSet {
	ends := make([]time.Time, len(members))
	for i, m := range members {
		ends[i] = m.WorkoutEndTime
	}
	ranks := denseRank(ends)

	var kept []HistoricalSet
	for i, m := range members {
		if ranks[i] == 1 {
			kept = append(kept, m)
		}
	}
	return kept
}

// denseRank ranks times descending: equal times share a rank and the next
// distinct time gets the following rank, with no gaps.
func denseRank(times []time.Time) []int {
	distinct := slices.Clone(times)
	slices.SortFunc(distinct, func(a, b time.Time) int { return b.Compare(a) })
	distinct = slices.CompactFunc(distinct, time.Time.Equal)

	ranks := make([]int, len(times))
	for i, t := range times {
		pos, _ := slices.BinarySearchFunc(distinct, t, func(e, target time.Time) int {
			return target.Compare(e)
		})
		ranks[i] = pos + 1
	}
	return ranks
}

func sortByCreated(sets []HistoricalSet) {
	slices.SortStableFunc(sets, func(a, b HistoricalSet) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
}

func baseline(s models.Set) models.PreviousSet {
	return models.PreviousSet{
		Reps:       s.Reps,
		Weight:     s.Weight,
		WeightUnit: s.WeightUnit,
		Side:       s.Side,
	}
}
