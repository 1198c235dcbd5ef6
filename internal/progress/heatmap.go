package progress

import (
	"time"

	"github.com/claude/liftscope/internal/models"
)

// HeatMapWindowDays is the default rolling window: 12 weeks.
const HeatMapWindowDays = 84

// HeatMapDay is one calendar day of the training heat map.
type HeatMapDay struct {
	Date      string `json:"date"`
	Weekday   int    `json:"weekday"`
	Sets      int    `json:"sets"`
	Workouts  int    `json:"workouts"`
	Intensity int    `json:"intensity"`
	IsToday   bool   `json:"is_today"`
	IsFuture  bool   `json:"is_future"`
}

// HeatMap is a week-aligned calendar of daily training intensity. Intensity
// is a 0-4 bucket relative to the maximum set count observed within the
// window, not an absolute scale.
type HeatMap struct {
	Weeks   [][]HeatMapDay `json:"weeks"`
	MaxSets int            `json:"max_sets"`
}

// BuildHeatMap computes the rolling calendar from raw records. Only
// completed, non-cancelled records dated within the last windowDays days
// contribute. The calendar starts at the Sunday on or before
// (today - windowDays) and runs day by day through today inclusive; a week
// closes after each Saturday and a trailing partial week is still emitted.
func BuildHeatMap(records []models.WorkoutRecord, windowDays int, today time.Time) *HeatMap {
	if windowDays <= 0 {
		windowDays = HeatMapWindowDays
	}

	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	todayStr := today.Format(isoDateLayout)
	windowStart := today.AddDate(0, 0, -windowDays)
	windowStartStr := windowStart.Format(isoDateLayout)

	type dayTotals struct {
		sets     int
		workouts int
	}
	totals := make(map[string]dayTotals)
	maxSets := 0

	for i := range records {
		rec := &records[i]
		if !rec.Completed() || rec.Date < windowStartStr || rec.Date > todayStr {
			continue
		}
		sets := 0
		for _, slot := range rec.Exercises {
			for _, set := range slot.Sets {
				if set.Valid() {
					sets++
				}
			}
		}
		t := totals[rec.Date]
		t.sets += sets
		t.workouts++
		totals[rec.Date] = t
		if t.sets > maxSets {
			maxSets = t.sets
		}
	}

	// Align the calendar to the Sunday on/before the window start.
	start := windowStart.AddDate(0, 0, -int(windowStart.Weekday()))

	hm := &HeatMap{MaxSets: maxSets}
	var week []HeatMapDay
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(isoDateLayout)
		t := totals[dateStr]
		week = append(week, HeatMapDay{
			Date:      dateStr,
			Weekday:   int(d.Weekday()),
			Sets:      t.sets,
			Workouts:  t.workouts,
			Intensity: intensityBucket(t.sets, maxSets),
			IsToday:   dateStr == todayStr,
			IsFuture:  dateStr > todayStr,
		})
		if d.Weekday() == time.Saturday {
			hm.Weeks = append(hm.Weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		hm.Weeks = append(hm.Weeks, week)
	}

	return hm
}

// intensityBucket scales a day's set count against the window maximum.
func intensityBucket(sets, maxSets int) int {
	if sets == 0 || maxSets == 0 {
		return 0
	}
	f := float64(sets)
	m := float64(maxSets)
	switch {
	case f >= 0.75*m:
		return 4
	case f >= 0.5*m:
		return 3
	case f >= 0.25*m:
		return 2
	default:
		return 1
	}
}
