package progress

import (
	"math"
	"time"
)

// TimeRange selects the window of sessions included in a derived statistic.
type TimeRange string

const (
	RangeMonth      TimeRange = "1M"
	RangeQuarter    TimeRange = "3M"
	RangeHalfYear   TimeRange = "6M"
	RangeYear       TimeRange = "1Y"
	RangeAll        TimeRange = "ALL"
	isoDateLayout             = "2006-01-02"
)

// Cutoff returns the earliest included ISO date for the range, or "" when
// the range places no lower bound.
func (tr TimeRange) Cutoff(now time.Time) string {
	var from time.Time
	switch tr {
	case RangeMonth:
		from = now.AddDate(0, -1, 0)
	case RangeQuarter:
		from = now.AddDate(0, -3, 0)
	case RangeHalfYear:
		from = now.AddDate(0, -6, 0)
	case RangeYear:
		from = now.AddDate(-1, 0, 0)
	default:
		return ""
	}
	return from.Format(isoDateLayout)
}

// FilterSessions returns the subset of an already date-sorted session list
// whose date falls on or after the range cutoff. Comparison is on the ISO
// date string.
func FilterSessions(sessions []SessionEntry, tr TimeRange, now time.Time) []SessionEntry {
	cutoff := tr.Cutoff(now)
	if cutoff == "" {
		return sessions
	}
	filtered := make([]SessionEntry, 0, len(sessions))
	for _, s := range sessions {
		if s.Date >= cutoff {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Stats summarizes a progress series over a time window.
type Stats struct {
	SessionCount       int     `json:"session_count"`
	StartWeight        float64 `json:"start_weight"`
	CurrentWeight      float64 `json:"current_weight"`
	MaxWeight          float64 `json:"max_weight"`
	MinWeight          float64 `json:"min_weight"`
	Improvement        float64 `json:"improvement"`
	ImprovementPercent float64 `json:"improvement_percent"`
	PRDate             string  `json:"pr_date"`
	PRReps             int     `json:"pr_reps"`
	FirstDate          string  `json:"first_date"`
	LastDate           string  `json:"last_date"`
}

// ComputeStats derives summary statistics from a date-sorted session list
// restricted to the given time range. Returns nil when no session falls
// inside the window. The PR session is the chronologically earliest session
// whose max weight equals the window maximum.
func ComputeStats(sessions []SessionEntry, tr TimeRange, now time.Time) *Stats {
	filtered := FilterSessions(sessions, tr, now)
	if len(filtered) == 0 {
		return nil
	}

	first := filtered[0]
	last := filtered[len(filtered)-1]

	maxWeight := first.MaxWeight
	minWeight := first.MaxWeight
	pr := first
	for _, s := range filtered[1:] {
		if s.MaxWeight > maxWeight {
			maxWeight = s.MaxWeight
			pr = s
		}
		if s.MaxWeight < minWeight {
			minWeight = s.MaxWeight
		}
	}

	improvement := last.MaxWeight - first.MaxWeight
	var improvementPct float64
	if first.MaxWeight > 0 {
		improvementPct = round1(improvement / first.MaxWeight * 100)
	}

	return &Stats{
		SessionCount:       len(filtered),
		StartWeight:        first.MaxWeight,
		CurrentWeight:      last.MaxWeight,
		MaxWeight:          maxWeight,
		MinWeight:          minWeight,
		Improvement:        improvement,
		ImprovementPercent: improvementPct,
		PRDate:             pr.Date,
		PRReps:             pr.MaxReps,
		FirstDate:          first.Date,
		LastDate:           last.Date,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
