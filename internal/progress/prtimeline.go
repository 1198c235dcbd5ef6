package progress

import (
	"sort"

	"github.com/claude/liftscope/internal/models"
)

const (
	// minSignificantReps defines a "significant" PR: singles through
	// quadruples are excluded from the milestone timeline.
	minSignificantReps = 5

	// DefaultPRLimit bounds the timeline when the caller passes no limit.
	DefaultPRLimit = 10
)

// PRTimelineItem is one milestone of the personal-record timeline.
type PRTimelineItem struct {
	Exercise  string  `json:"exercise"`
	Equipment string  `json:"equipment"`
	BodyPart  string  `json:"body_part"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Date      string  `json:"date"`
	Location  string  `json:"location"`
}

// BuildPRTimeline merges the PR tracker's grouped max-weight records into a
// milestone timeline: only groups whose max-weight record reached at least
// five reps are kept, sorted descending by date and truncated to limit.
func BuildPRTimeline(groups []models.PRGroup, limit int) []PRTimelineItem {
	if limit <= 0 {
		limit = DefaultPRLimit
	}

	items := make([]PRTimelineItem, 0, len(groups))
	for _, g := range groups {
		if g.MaxWeight.Reps < minSignificantReps {
			continue
		}
		items = append(items, PRTimelineItem{
			Exercise:  g.Exercise,
			Equipment: g.Equipment,
			BodyPart:  g.BodyPart,
			Weight:    g.MaxWeight.Weight,
			Reps:      g.MaxWeight.Reps,
			Date:      g.MaxWeight.Date,
			Location:  g.MaxWeight.Location,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
