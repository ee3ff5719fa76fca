package history

import (
	"fmt"
	"strings"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

const defaultProfileSuffix = "default"

// Key identifies an exercise performed with a given profile. A nil ProfileID
// is the exercise's default variant.
type Key struct {
	ExerciseID uuid.UUID
	ProfileID  *uuid.UUID
}

// KeyOf returns the key a set belongs to.
func KeyOf(s models.Set) Key {
	return Key{ExerciseID: s.ExerciseID, ProfileID: s.ProfileID}
}

// String renders the key as used in previous-set maps:
// "{exercise_id}_{profile_id}" or "{exercise_id}_default".
func (k Key) String() string {
	if k.ProfileID == nil {
		return k.ExerciseID.String() + "_" + defaultProfileSuffix
	}
	return k.ExerciseID.String() + "_" + k.ProfileID.String()
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	exercise, profile, ok := strings.Cut(s, "_")
	if !ok {
		return Key{}, fmt.Errorf("key %q: missing separator", s)
	}
	exerciseID, err := uuid.Parse(exercise)
	if err != nil {
		return Key{}, fmt.Errorf("key %q: exercise id: %w", s, err)
	}
	if profile == defaultProfileSuffix {
		return Key{ExerciseID: exerciseID}, nil
	}
	profileID, err := uuid.Parse(profile)
	if err != nil {
		return Key{}, fmt.Errorf("key %q: profile id: %w", s, err)
	}
	return Key{ExerciseID: exerciseID, ProfileID: &profileID}, nil
}

// slot is the comparable identity of a Key. The default profile and every
// concrete profile occupy distinct slots.
type slot struct {
	exercise uuid.UUID
	profile  uuid.UUID
	concrete bool
}

func (k Key) slot() slot {
	if k.ProfileID == nil {
		return slot{exercise: k.ExerciseID}
	}
	return slot{exercise: k.ExerciseID, profile: *k.ProfileID, concrete: true}
}

// partition is the comparable form used when ranking history. The default
// profile is folded onto uuid.Nil, matching how the sets table is indexed.
type partition struct {
	exercise uuid.UUID
	profile  uuid.UUID
}

func (k Key) partition() partition {
	p := partition{exercise: k.ExerciseID}
	if k.ProfileID != nil {
		p.profile = *k.ProfileID
	}
	return p
}
