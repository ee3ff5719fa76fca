package history

import (
	"strings"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Values offered when a user has no history for an exercise.
const (
	DefaultReps   = 10
	DefaultWeight = 20
)

// Suggestion is the pre-filled value for one set of a new workout.
// SourceKey is empty when the defaults were used.
type Suggestion struct {
	Reps       int             `json:"reps"`
	Weight     decimal.Decimal `json:"weight"`
	WeightUnit *string         `json:"weight_unit"`
	SourceKey  string          `json:"source_key,omitempty"`
}

// Suggest picks the baseline for the setNumber-th set (1-based) of an exercise.
//
// History for the exact profile wins; otherwise the lexically first key of any
// other profile of the same exercise is used. With a side, only sets of that
// side are considered (all sets if none match). Without a side, side-less sets
// are preferred, then right-side sets, then all. When the previous workout had
// fewer sets, the last one is repeated.
func Suggest(prev PreviousSets, exerciseID uuid.UUID, profileID *uuid.UUID, setNumber int, side *models.Side) Suggestion {
	primary := Key{ExerciseID: exerciseID, ProfileID: profileID}.String()
	key := primary
	sets := prev[primary]

	if len(sets) == 0 {
		prefix := exerciseID.String() + "_"
		for _, k := range prev.Keys() {
			if k != primary && strings.HasPrefix(k, prefix) && len(prev[k]) > 0 {
				key, sets = k, prev[k]
				break
			}
		}
	}
	if len(sets) == 0 {
		return defaultSuggestion()
	}

	candidates := filterSide(sets, side)
	if setNumber < 1 {
		setNumber = 1
	}
	target := candidates[min(setNumber-1, len(candidates)-1)]

	unit := target.WeightUnit
	return Suggestion{
		Reps:       target.Reps,
		Weight:     target.Weight,
		WeightUnit: &unit,
		SourceKey:  key,
	}
}

func filterSide(sets []models.PreviousSet, side *models.Side) []models.PreviousSet {
	if side != nil {
		if matched := bySide(sets, side); len(matched) > 0 {
			return matched
		}
		return sets
	}
	if bilateral := bySide(sets, nil); len(bilateral) > 0 {
		return bilateral
	}
	right := models.SideRight
	if matched := bySide(sets, &right); len(matched) > 0 {
		return matched
	}
	return sets
}

// bySide returns the sets whose side equals side; a nil side matches side-less sets.
func bySide(sets []models.PreviousSet, side *models.Side) []models.PreviousSet {
	var out []models.PreviousSet
	for _, s := range sets {
		switch {
		case side == nil && s.Side == nil:
			out = append(out, s)
		case side != nil && s.Side != nil && *s.Side == *side:
			out = append(out, s)
		}
	}
	return out
}

func defaultSuggestion() Suggestion {
	return Suggestion{
		Reps:   DefaultReps,
		Weight: decimal.NewFromInt(DefaultWeight),
	}
}
