package progress

import (
	"sort"

	"github.com/claude/liftscope/internal/models"
)

// SessionEntry is one workout's contribution to a progress series: the
// best set of that day plus the session's total volume.
type SessionEntry struct {
	Date        string           `json:"date"`
	MaxWeight   float64          `json:"max_weight"`
	MaxReps     int              `json:"max_reps"`
	TotalVolume float64          `json:"total_volume"`
	Location    string           `json:"location"`
	BestSet     models.LoggedSet `json:"best_set"`
}

// Entry is the aggregated time series for one exercise+equipment
// combination. Sessions are kept in ascending date order.
type Entry struct {
	Exercise  string         `json:"exercise"`
	Equipment string         `json:"equipment"`
	BodyPart  string         `json:"body_part"`
	Sessions  []SessionEntry `json:"sessions"`
}

// Aggregate builds the canonical progress map from raw workout records.
// Records must arrive in ascending completion-time order; that order
// determines session ordering and PR tie-breaks. Cancelled records and
// records without slot mappings are skipped. A session entry is appended
// only when at least one valid set carried weight.
func Aggregate(records []models.WorkoutRecord, res *Resolver) map[Key]*Entry {
	out := make(map[Key]*Entry)

	for i := range records {
		rec := &records[i]
		if rec.Cancelled || rec.Exercises == nil || rec.Names == nil {
			continue
		}

		location := rec.Location
		if location == "" {
			location = UnknownEquipment
		}

		for _, slot := range sortedSlots(rec.Exercises) {
			name := rec.Names[slot]
			if name == "" {
				continue
			}

			equipment := res.Equipment(rec, slot)
			bodyPart := res.BodyPart(rec, slot, name)
			key := MakeKey(name, equipment)

			entry, ok := out[key]
			if !ok {
				entry = &Entry{Exercise: name, Equipment: equipment, BodyPart: bodyPart}
				out[key] = entry
			}

			var (
				totalVolume float64
				best        models.LoggedSet
			)
			for _, set := range rec.Exercises[slot].Sets {
				if !set.Valid() {
					continue
				}
				totalVolume += float64(set.Reps) * set.Weight
				// Strict > keeps the first set reaching the maximum.
				if set.Weight > best.Weight {
					best = set
				}
			}

			if best.Weight > 0 {
				entry.Sessions = append(entry.Sessions, SessionEntry{
					Date:        rec.Date,
					MaxWeight:   best.Weight,
					MaxReps:     best.Reps,
					TotalVolume: totalVolume,
					Location:    location,
					BestSet:     best,
				})
			}
		}
	}

	for _, entry := range out {
		sort.SliceStable(entry.Sessions, func(i, j int) bool {
			return entry.Sessions[i].Date < entry.Sessions[j].Date
		})
	}

	return out
}

// sortedSlots returns the slot keys in deterministic order. Slot keys are
// stringified indexes, so lexicographic order is stable across passes.
func sortedSlots(slots map[string]models.ExerciseSlot) []string {
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
