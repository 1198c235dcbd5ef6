package progress

import (
	"strings"

	"github.com/claude/liftscope/internal/models"
)

// Defaults applied when a field cannot be resolved through its fallback chain.
const (
	UnknownEquipment = "Unknown"
	OtherBodyPart    = "Other"
	keySeparator     = "|"
)

// Key uniquely identifies one progress series: exercise name and equipment
// joined by "|". Equality is case-sensitive exact match.
type Key string

// MakeKey builds the key for an exercise+equipment combination.
func MakeKey(exercise, equipment string) Key {
	return Key(exercise + keySeparator + equipment)
}

// Split returns the exercise name and equipment halves of the key.
func (k Key) Split() (exercise, equipment string) {
	s := string(k)
	if i := strings.LastIndex(s, keySeparator); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// Resolver resolves the composite identity (equipment, body part) of a
// logged exercise slot. The catalog index is precomputed with lowercased
// names so the body-part fallback is a single map lookup.
type Resolver struct {
	byName map[string]models.CatalogExercise
}

// NewResolver builds a resolver over a catalog snapshot.
func NewResolver(catalog []models.CatalogExercise) *Resolver {
	idx := make(map[string]models.CatalogExercise, len(catalog))
	for _, ex := range catalog {
		idx[strings.ToLower(ex.Name)] = ex
	}
	return &Resolver{byName: idx}
}

// Equipment resolves the equipment label for a slot. Fallback order:
// template override, value recorded on the slot, "Unknown".
func (r *Resolver) Equipment(rec *models.WorkoutRecord, slot string) string {
	if rec.Template != nil {
		if eq := rec.Template.Equipment[slot]; eq != "" {
			return eq
		}
	}
	if eq := rec.Exercises[slot].Equipment; eq != "" {
		return eq
	}
	return UnknownEquipment
}

// BodyPart resolves the body-part label for a slot. Fallback order:
// template override, value recorded on the slot, case-insensitive catalog
// lookup by exercise name, "Other".
func (r *Resolver) BodyPart(rec *models.WorkoutRecord, slot, exerciseName string) string {
	if rec.Template != nil {
		if bp := rec.Template.BodyParts[slot]; bp != "" {
			return bp
		}
	}
	if bp := rec.Exercises[slot].BodyPart; bp != "" {
		return bp
	}
	if ex, ok := r.byName[strings.ToLower(exerciseName)]; ok && ex.BodyPart != "" {
		return ex.BodyPart
	}
	return OtherBodyPart
}
