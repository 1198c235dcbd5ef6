// Package progress is the aggregation, derivation, and caching engine
// behind LiftScope's analytics. It turns raw workout session records into
// per-exercise time series and derives summary statistics, calendar
// consistency metrics, volume distribution, and the PR timeline.
//
// No error crosses the public boundary of this package: storage failures
// are logged and degrade to empty results.
package progress

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/claude/liftscope/internal/models"
)

// RecordSource supplies raw workout session documents for a user.
type RecordSource interface {
	// GetCompletedWorkouts returns completed, non-cancelled sessions in
	// ascending completion-time order.
	GetCompletedWorkouts(ctx context.Context, userID int) ([]models.WorkoutRecord, error)
	// GetWorkoutsInDateRange returns sessions dated on/after fromDate in
	// ascending date order, including in-progress ones.
	GetWorkoutsInDateRange(ctx context.Context, userID int, fromDate string) ([]models.WorkoutRecord, error)
}

// ExerciseCatalog supplies the exercise catalog used for body-part fallback.
type ExerciseCatalog interface {
	ExerciseCatalog(ctx context.Context) ([]models.CatalogExercise, error)
}

// PRTracker supplies grouped max-weight personal records.
type PRTracker interface {
	GetAllPRs(ctx context.Context, userID int) ([]models.PRGroup, error)
}

// Service is the engine facade consumed by the HTTP and MCP surfaces.
type Service struct {
	records RecordSource
	catalog ExerciseCatalog
	prs     PRTracker
	cache   *Cache
	log     *slog.Logger
	now     func() time.Time
}

// NewService wires the engine to its collaborators.
func NewService(records RecordSource, catalog ExerciseCatalog, prs PRTracker, log *slog.Logger) *Service {
	s := &Service{
		records: records,
		catalog: catalog,
		prs:     prs,
		log:     log,
		now:     time.Now,
	}
	s.cache = NewCache(s.rebuild, time.Now)
	return s
}

// rebuild is the cache's fetch function: one full aggregation pass.
// A catalog failure only weakens body-part resolution, so it degrades to
// an empty catalog; a record fetch failure fails the pass.
func (s *Service) rebuild(ctx context.Context, userID int) (map[Key]*Entry, error) {
	records, err := s.records.GetCompletedWorkouts(ctx, userID)
	if err != nil {
		s.log.Error("workout record fetch failed", "error", err)
		return nil, err
	}

	catalog, err := s.catalog.ExerciseCatalog(ctx)
	if err != nil {
		s.log.Warn("exercise catalog unavailable, body-part fallback degraded", "error", err)
		catalog = nil
	}

	return Aggregate(records, NewResolver(catalog)), nil
}

// progressMap reads the aggregated map through the cache.
func (s *Service) progressMap(ctx context.Context, userID int) map[Key]*Entry {
	return s.cache.Get(ctx, userID, false)
}

// ClearCache drops the cached aggregation. Called on workout completion.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// ExerciseListItem is one row of the flat exercise list.
type ExerciseListItem struct {
	Key          Key      `json:"key"`
	Exercise     string   `json:"exercise"`
	Equipment    string   `json:"equipment"`
	BodyPart     string   `json:"body_part"`
	Category     Category `json:"category"`
	SessionCount int      `json:"session_count"`
	LatestDate   string   `json:"latest_date"`
}

// ExerciseList returns every tracked exercise+equipment combination,
// sorted by most-recent session date descending with session count as the
// tie-break.
func (s *Service) ExerciseList(ctx context.Context, userID int) []ExerciseListItem {
	entries := s.progressMap(ctx, userID)

	items := make([]ExerciseListItem, 0, len(entries))
	for key, entry := range entries {
		if len(entry.Sessions) == 0 {
			continue
		}
		items = append(items, ExerciseListItem{
			Key:          key,
			Exercise:     entry.Exercise,
			Equipment:    entry.Equipment,
			BodyPart:     entry.BodyPart,
			Category:     Classify(entry.BodyPart),
			SessionCount: len(entry.Sessions),
			LatestDate:   entry.Sessions[len(entry.Sessions)-1].Date,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].LatestDate != items[j].LatestDate {
			return items[i].LatestDate > items[j].LatestDate
		}
		if items[i].SessionCount != items[j].SessionCount {
			return items[i].SessionCount > items[j].SessionCount
		}
		return items[i].Key < items[j].Key
	})

	return items
}

// EquipmentVariant is one exercise+equipment series inside the hierarchy.
type EquipmentVariant struct {
	Key          Key    `json:"key"`
	Equipment    string `json:"equipment"`
	BodyPart     string `json:"body_part"`
	SessionCount int    `json:"session_count"`
	LatestDate   string `json:"latest_date"`
}

// ExerciseGroup groups an exercise's equipment variants.
type ExerciseGroup struct {
	Exercise string             `json:"exercise"`
	Variants []EquipmentVariant `json:"variants"`
}

// CategoryGroup groups exercises under one training category.
type CategoryGroup struct {
	Category  Category        `json:"category"`
	Exercises []ExerciseGroup `json:"exercises"`
}

// ExerciseHierarchy returns category → exercise → equipment variants.
// Categories follow the fixed Push/Pull/Legs/Core/Other order with empty
// categories omitted; variant lists are sorted by session count descending.
func (s *Service) ExerciseHierarchy(ctx context.Context, userID int) []CategoryGroup {
	items := s.ExerciseList(ctx, userID)

	type exKey struct {
		category Category
		exercise string
	}
	variants := make(map[exKey][]EquipmentVariant)
	exerciseOrder := make(map[Category][]string)
	for _, it := range items {
		k := exKey{it.Category, it.Exercise}
		if _, seen := variants[k]; !seen {
			exerciseOrder[it.Category] = append(exerciseOrder[it.Category], it.Exercise)
		}
		variants[k] = append(variants[k], EquipmentVariant{
			Key:          it.Key,
			Equipment:    it.Equipment,
			BodyPart:     it.BodyPart,
			SessionCount: it.SessionCount,
			LatestDate:   it.LatestDate,
		})
	}

	var groups []CategoryGroup
	for _, cat := range CategoryOrder {
		names := exerciseOrder[cat]
		if len(names) == 0 {
			continue
		}
		group := CategoryGroup{Category: cat}
		for _, name := range names {
			vs := variants[exKey{cat, name}]
			sort.SliceStable(vs, func(i, j int) bool {
				return vs[i].SessionCount > vs[j].SessionCount
			})
			group.Exercises = append(group.Exercises, ExerciseGroup{Exercise: name, Variants: vs})
		}
		groups = append(groups, group)
	}

	return groups
}

// ExerciseProgress is one series windowed to a time range, with stats.
type ExerciseProgress struct {
	Exercise  string         `json:"exercise"`
	Equipment string         `json:"equipment"`
	BodyPart  string         `json:"body_part"`
	Sessions  []SessionEntry `json:"sessions"`
	Stats     *Stats         `json:"stats"`
}

// Progress returns the windowed session list and stats for one series,
// or nil when the key is unknown.
func (s *Service) Progress(ctx context.Context, userID int, key Key, tr TimeRange) *ExerciseProgress {
	entry, ok := s.progressMap(ctx, userID)[key]
	if !ok {
		return nil
	}

	now := s.now()
	return &ExerciseProgress{
		Exercise:  entry.Exercise,
		Equipment: entry.Equipment,
		BodyPart:  entry.BodyPart,
		Sessions:  FilterSessions(entry.Sessions, tr, now),
		Stats:     ComputeStats(entry.Sessions, tr, now),
	}
}

// ChartPoint carries the tooltip payload for one chart data point.
type ChartPoint struct {
	Date     string  `json:"date"`
	Weight   float64 `json:"weight"`
	Reps     int     `json:"reps"`
	Volume   float64 `json:"volume"`
	Location string  `json:"location"`
}

// ChartData is a render-ready view of one series: short date labels,
// max-weight values, and per-point tooltips.
type ChartData struct {
	Labels   []string     `json:"labels"`
	Data     []float64    `json:"data"`
	Tooltips []ChartPoint `json:"tooltips"`
	Stats    *Stats       `json:"stats"`
}

// Chart returns chart-ready data for one series, or nil for unknown keys.
func (s *Service) Chart(ctx context.Context, userID int, key Key, tr TimeRange) *ChartData {
	prog := s.Progress(ctx, userID, key, tr)
	if prog == nil {
		return nil
	}

	chart := &ChartData{
		Labels:   make([]string, len(prog.Sessions)),
		Data:     make([]float64, len(prog.Sessions)),
		Tooltips: make([]ChartPoint, len(prog.Sessions)),
		Stats:    prog.Stats,
	}
	for i, sess := range prog.Sessions {
		chart.Labels[i] = shortDate(sess.Date)
		chart.Data[i] = sess.MaxWeight
		chart.Tooltips[i] = ChartPoint{
			Date:     sess.Date,
			Weight:   sess.MaxWeight,
			Reps:     sess.MaxReps,
			Volume:   sess.TotalVolume,
			Location: sess.Location,
		}
	}
	return chart
}

// shortDate formats an ISO date as a compact chart label ("Jan 2").
// Unparseable dates pass through unchanged.
func shortDate(iso string) string {
	t, err := time.Parse(isoDateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("Jan 2")
}

// BodyPartDistribution returns volume shares per body part over the window.
func (s *Service) BodyPartDistribution(ctx context.Context, userID int, tr TimeRange) *Distribution {
	return BuildDistribution(s.progressMap(ctx, userID), tr, s.now())
}

// HeatMap returns the rolling 12-week training calendar. It reads raw
// records directly rather than the aggregated map, so in-progress sessions
// on the query boundary never leak in through the cache.
func (s *Service) HeatMap(ctx context.Context, userID int) *HeatMap {
	if userID <= 0 {
		return BuildHeatMap(nil, HeatMapWindowDays, s.now())
	}

	now := s.now()
	fromDate := now.AddDate(0, 0, -HeatMapWindowDays).Format(isoDateLayout)
	records, err := s.records.GetWorkoutsInDateRange(ctx, userID, fromDate)
	if err != nil {
		s.log.Error("heat map record fetch failed", "error", err)
		records = nil
	}
	return BuildHeatMap(records, HeatMapWindowDays, now)
}

// PRTimeline returns the significant-PR milestone timeline.
func (s *Service) PRTimeline(ctx context.Context, userID int, limit int) []PRTimelineItem {
	if userID <= 0 {
		return []PRTimelineItem{}
	}

	groups, err := s.prs.GetAllPRs(ctx, userID)
	if err != nil {
		s.log.Error("pr tracker fetch failed", "error", err)
		return []PRTimelineItem{}
	}
	return BuildPRTimeline(groups, limit)
}
