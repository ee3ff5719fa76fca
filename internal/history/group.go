package history

import (
	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// GroupSets partitions one workout's sets into exercise groups.
//
// sets must be ordered by CreatedAt ascending. The order is not checked;
// unordered input yields groups in the order their keys first appear in it.
// Groups come back in first-appearance order and each group keeps its sets in
// input order. A group is unilateral when any of its sets carries a side.
func GroupSets(sets []models.Set) []models.WorkoutExerciseGroup {
	index := make(map[slot]int)
	groups := make([]models.WorkoutExerciseGroup, 0)

	for _, s := range sets {
		k := KeyOf(s)
		i, ok := index[k.slot()]
		if !ok {
			i = len(groups)
			index[k.slot()] = i
			groups = append(groups, models.WorkoutExerciseGroup{
				ExerciseID: s.ExerciseID,
				ProfileID:  cloneID(s.ProfileID),
				Sets:       []models.Set{},
			})
		}

		g := &groups[i]
		if s.Side != nil {
			g.IsUnilateral = true
		}
		g.Sets = append(g.Sets, s)
	}

	return groups
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
