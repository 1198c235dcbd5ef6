package progress

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftscope/internal/models"
)

// fakeStore implements RecordSource, ExerciseCatalog, and PRTracker for
// facade tests.
type fakeStore struct {
	records   []models.WorkoutRecord
	catalog   []models.CatalogExercise
	prs       []models.PRGroup
	recordErr error
	prErr     error
	fetches   int
}

func (f *fakeStore) GetCompletedWorkouts(ctx context.Context, userID int) ([]models.WorkoutRecord, error) {
	f.fetches++
	return f.records, f.recordErr
}

func (f *fakeStore) GetWorkoutsInDateRange(ctx context.Context, userID int, fromDate string) ([]models.WorkoutRecord, error) {
	var out []models.WorkoutRecord
	for _, r := range f.records {
		if r.Date >= fromDate {
			out = append(out, r)
		}
	}
	return out, f.recordErr
}

func (f *fakeStore) ExerciseCatalog(ctx context.Context) ([]models.CatalogExercise, error) {
	return f.catalog, nil
}

func (f *fakeStore) GetAllPRs(ctx context.Context, userID int) ([]models.PRGroup, error) {
	return f.prs, f.prErr
}

func testService(store *fakeStore, now time.Time) *Service {
	svc := NewService(store, store, store, slog.Default())
	svc.now = func() time.Time { return now }
	svc.cache = NewCache(svc.rebuild, svc.now)
	return svc
}

func serviceFixture() (*fakeStore, *Service) {
	store := &fakeStore{
		records: []models.WorkoutRecord{
			record("2025-06-01", map[string]models.ExerciseSlot{
				"0": {Equipment: "Barbell", BodyPart: "Chest", Sets: []models.LoggedSet{{Reps: 8, Weight: 100}}},
				"1": {Equipment: "Barbell", BodyPart: "Quads", Sets: []models.LoggedSet{{Reps: 5, Weight: 140}}},
			}, map[string]string{"0": "Bench Press", "1": "Squat"}),
			record("2025-06-10", map[string]models.ExerciseSlot{
				"0": {Equipment: "Barbell", BodyPart: "Chest", Sets: []models.LoggedSet{{Reps: 6, Weight: 105}}},
			}, map[string]string{"0": "Bench Press"}),
		},
	}
	return store, testService(store, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
}

// TestExerciseListOrdering verifies latest-date-descending order with
// session count as tie-break, and category derivation.
func TestExerciseListOrdering(t *testing.T) {
	_, svc := serviceFixture()

	items := svc.ExerciseList(context.Background(), 1)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Exercise != "Bench Press" {
		t.Errorf("items[0] = %s, want Bench Press (latest session)", items[0].Exercise)
	}
	if items[0].SessionCount != 2 || items[0].LatestDate != "2025-06-10" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[0].Category != CategoryPush || items[1].Category != CategoryLegs {
		t.Errorf("categories = %s, %s; want Push, Legs", items[0].Category, items[1].Category)
	}
}

// TestExerciseHierarchyOrder verifies fixed category order with empty
// categories omitted.
func TestExerciseHierarchyOrder(t *testing.T) {
	_, svc := serviceFixture()

	groups := svc.ExerciseHierarchy(context.Background(), 1)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2 (Push, Legs)", len(groups))
	}
	if groups[0].Category != CategoryPush || groups[1].Category != CategoryLegs {
		t.Errorf("category order = %s, %s", groups[0].Category, groups[1].Category)
	}
	if len(groups[0].Exercises) != 1 || groups[0].Exercises[0].Exercise != "Bench Press" {
		t.Errorf("push group = %+v", groups[0].Exercises)
	}
}

// TestProgressWindowsSessions verifies Progress returns exactly the
// date >= cutoff subset with stats over the same window.
func TestProgressWindowsSessions(t *testing.T) {
	_, svc := serviceFixture()

	prog := svc.Progress(context.Background(), 1, MakeKey("Bench Press", "Barbell"), RangeAll)
	if prog == nil {
		t.Fatal("progress = nil")
	}
	if len(prog.Sessions) != 2 || prog.Stats == nil || prog.Stats.SessionCount != 2 {
		t.Errorf("progress = %+v", prog)
	}
	if prog.Stats.Improvement != 5 {
		t.Errorf("improvement = %v, want 5", prog.Stats.Improvement)
	}

	if got := svc.Progress(context.Background(), 1, MakeKey("Nope", "Barbell"), RangeAll); got != nil {
		t.Errorf("unknown key returned %+v, want nil", got)
	}
}

// TestChartLabelsAndTooltips verifies short date labels and per-point
// tooltip payloads.
func TestChartLabelsAndTooltips(t *testing.T) {
	_, svc := serviceFixture()

	chart := svc.Chart(context.Background(), 1, MakeKey("Bench Press", "Barbell"), RangeAll)
	if chart == nil {
		t.Fatal("chart = nil")
	}
	if chart.Labels[0] != "Jun 1" || chart.Labels[1] != "Jun 10" {
		t.Errorf("labels = %v", chart.Labels)
	}
	if chart.Data[1] != 105 {
		t.Errorf("data[1] = %v, want 105", chart.Data[1])
	}
	if chart.Tooltips[0].Volume != 800 || chart.Tooltips[0].Reps != 8 {
		t.Errorf("tooltip[0] = %+v", chart.Tooltips[0])
	}
}

// TestServiceCachesAcrossAccessors verifies repeated reads inside the TTL
// hit the cache instead of refetching records.
func TestServiceCachesAcrossAccessors(t *testing.T) {
	store, svc := serviceFixture()
	ctx := context.Background()

	svc.ExerciseList(ctx, 1)
	svc.ExerciseHierarchy(ctx, 1)
	svc.BodyPartDistribution(ctx, 1, RangeAll)

	if store.fetches != 1 {
		t.Errorf("record fetches = %d, want 1", store.fetches)
	}

	svc.ClearCache()
	svc.ExerciseList(ctx, 1)
	if store.fetches != 2 {
		t.Errorf("record fetches after clear = %d, want 2", store.fetches)
	}
}

// TestServiceAbsorbsFailures verifies fetch failures degrade to empty
// results instead of propagating.
func TestServiceAbsorbsFailures(t *testing.T) {
	store := &fakeStore{recordErr: errors.New("store down"), prErr: errors.New("store down")}
	svc := testService(store, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if got := svc.ExerciseList(ctx, 1); len(got) != 0 {
		t.Errorf("ExerciseList = %v, want empty", got)
	}
	if got := svc.PRTimeline(ctx, 1, 10); len(got) != 0 {
		t.Errorf("PRTimeline = %v, want empty", got)
	}
	hm := svc.HeatMap(ctx, 1)
	if hm == nil || hm.MaxSets != 0 {
		t.Errorf("HeatMap = %+v, want empty calendar", hm)
	}
}

// TestServiceNoUser verifies userID <= 0 short-circuits to empty results
// without touching the store.
func TestServiceNoUser(t *testing.T) {
	store, svc := serviceFixture()
	ctx := context.Background()

	if got := svc.ExerciseList(ctx, 0); len(got) != 0 {
		t.Errorf("ExerciseList(no user) = %v", got)
	}
	if got := svc.PRTimeline(ctx, 0, 10); len(got) != 0 {
		t.Errorf("PRTimeline(no user) = %v", got)
	}
	if store.fetches != 0 {
		t.Errorf("store fetched %d times for unauthenticated reads", store.fetches)
	}
}

// TestServiceBodyPartFromCatalog verifies the catalog fallback feeds the
// aggregated body part when slots carry none.
func TestServiceBodyPartFromCatalog(t *testing.T) {
	store := &fakeStore{
		records: []models.WorkoutRecord{
			record("2025-06-01", map[string]models.ExerciseSlot{
				"0": {Equipment: "Machine", Sets: []models.LoggedSet{{Reps: 10, Weight: 45}}},
			}, map[string]string{"0": "Leg Extension"}),
		},
		catalog: []models.CatalogExercise{{Name: "leg extension", BodyPart: "Quads"}},
	}
	svc := testService(store, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))

	items := svc.ExerciseList(context.Background(), 1)
	if len(items) != 1 || items[0].BodyPart != "Quads" {
		t.Errorf("items = %+v, want body part Quads via catalog", items)
	}
}
