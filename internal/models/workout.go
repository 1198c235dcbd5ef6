package models

import (
	"time"

	"github.com/google/uuid"
)

// LoggedSet is one set logged for an exercise slot.
type LoggedSet struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Valid reports whether the set counts toward volume and max-weight
// tracking. Both reps and weight must be present and positive.
func (s LoggedSet) Valid() bool {
	return s.Reps > 0 && s.Weight > 0
}

// ExerciseSlot holds everything logged for one slot of a workout session:
// the sets plus the equipment and body part as recorded at logging time.
// Equipment and body part may be empty; resolution falls back to the
// originating template and the exercise catalog.
type ExerciseSlot struct {
	Sets      []LoggedSet `json:"sets"`
	Equipment string      `json:"equipment,omitempty"`
	BodyPart  string      `json:"body_part,omitempty"`
}

// WorkoutTemplate is the plan a session was started from. Per-slot
// equipment and body-part overrides take precedence over slot values.
type WorkoutTemplate struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Equipment map[string]string `json:"equipment,omitempty"`
	BodyParts map[string]string `json:"body_parts,omitempty"`
}

// WorkoutRecord is an immutable snapshot of one workout session as read
// from the record source. Slots are keyed by stringified slot index.
type WorkoutRecord struct {
	ID          uuid.UUID               `json:"id"`
	UserID      int                     `json:"user_id"`
	Date        string                  `json:"date"` // YYYY-MM-DD
	CompletedAt *time.Time              `json:"completed_at,omitempty"`
	Cancelled   bool                    `json:"cancelled"`
	Location    string                  `json:"location"`
	Exercises   map[string]ExerciseSlot `json:"exercises"`
	Names       map[string]string       `json:"names"`
	Template    *WorkoutTemplate        `json:"template,omitempty"`
}

// Completed reports whether the session finished and counts toward progress.
func (r *WorkoutRecord) Completed() bool {
	return r.CompletedAt != nil && !r.Cancelled
}

// CatalogExercise is one entry of the exercise catalog, used as the last
// body-part fallback during key resolution.
type CatalogExercise struct {
	Name      string `json:"name"`
	BodyPart  string `json:"body_part"`
	Equipment string `json:"equipment,omitempty"`
}

// PRRecord is the heaviest set recorded for one exercise+equipment group.
type PRRecord struct {
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
	Date     string  `json:"date"`
	Location string  `json:"location"`
}

// PRGroup is the PR tracker's per-exercise grouping: the exercise identity
// plus its max-weight record.
type PRGroup struct {
	Exercise  string   `json:"exercise"`
	Equipment string   `json:"equipment"`
	BodyPart  string   `json:"body_part"`
	MaxWeight PRRecord `json:"max_weight"`
}
