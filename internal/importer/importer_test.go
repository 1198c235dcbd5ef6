package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/liftscope/internal/ingest"
	"github.com/claude/liftscope/internal/models"
)

type memStore struct {
	sessions []models.WorkoutRecord
}

func (m *memStore) InsertWorkoutSession(_ context.Context, rec models.WorkoutRecord) error {
	m.sessions = append(m.sessions, rec)
	return nil
}

func (m *memStore) UpsertWorkoutTemplate(_ context.Context, _ int, _ models.WorkoutTemplate) error {
	return nil
}

func (m *memStore) UpsertCatalogExercise(_ context.Context, _ models.CatalogExercise) error {
	return nil
}

const exportJSON = `{
  "sessions": [
    {
      "id": "22222222-2222-2222-2222-222222222222",
      "date": "2025-06-01",
      "completed_at": "2025-06-01T10:30:00Z",
      "exercises": {
        "slot-1": {"name": "Squat", "sets": [{"reps": 5, "weight": 225}]}
      }
    }
  ]
}`

func testImporter(t *testing.T, store *memStore, dryRun bool) *Importer {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("opening state db: %v", err)
	}
	t.Cleanup(func() { state.Close() })
	return New(ingest.NewProvider(store, log), state, 1, dryRun, log)
}

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestRunImportsNewFiles verifies that a fresh export file is imported and
// its sessions stored.
func TestRunImportsNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export-2025-06-01.json", exportJSON)

	store := &memStore{}
	imp := testImporter(t, store, false)

	stats, err := imp.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesImported != 1 {
		t.Errorf("files imported = %d, want 1", stats.FilesImported)
	}
	if stats.SessionsInserted != 1 || stats.SessionsCompleted != 1 {
		t.Errorf("sessions inserted/completed = %d/%d, want 1/1",
			stats.SessionsInserted, stats.SessionsCompleted)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("stored sessions = %d, want 1", len(store.sessions))
	}
}

// TestRunSkipsAlreadyImported verifies that a second run over the same
// directory does not re-import unchanged files.
func TestRunSkipsAlreadyImported(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", exportJSON)

	store := &memStore{}
	imp := testImporter(t, store, false)

	if _, err := imp.Run(context.Background(), dir); err != nil {
		t.Fatalf("first run: %v", err)
	}
	stats, err := imp.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.FilesSkipped != 1 {
		t.Errorf("files skipped = %d, want 1", stats.FilesSkipped)
	}
	if len(store.sessions) != 1 {
		t.Errorf("stored sessions = %d, want 1 (no re-import)", len(store.sessions))
	}
}

// TestRunReimportsChangedFile verifies that a file whose content changed is
// picked up again. Replace-by-id in storage makes this idempotent.
func TestRunReimportsChangedFile(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", exportJSON)

	store := &memStore{}
	imp := testImporter(t, store, false)

	if _, err := imp.Run(context.Background(), dir); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Same session id, new content.
	writeExport(t, dir, "export.json", `{
	  "sessions": [
	    {
	      "id": "22222222-2222-2222-2222-222222222222",
	      "date": "2025-06-01",
	      "completed_at": "2025-06-01T11:00:00Z",
	      "location": "Commercial Gym",
	      "exercises": {}
	    }
	  ]
	}`)

	stats, err := imp.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if stats.FilesImported != 1 {
		t.Errorf("files imported = %d, want 1", stats.FilesImported)
	}
	if len(store.sessions) != 2 {
		t.Errorf("insert calls = %d, want 2", len(store.sessions))
	}
}

// TestRunDryRun verifies that dry-run parses files but writes nothing and
// leaves the state database untouched.
func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", exportJSON)

	store := &memStore{}
	imp := testImporter(t, store, true)

	stats, err := imp.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesImported != 0 {
		t.Errorf("files imported = %d, want 0 in dry-run", stats.FilesImported)
	}
	if len(store.sessions) != 0 {
		t.Errorf("stored sessions = %d, want 0 in dry-run", len(store.sessions))
	}
}

// TestRunCountsBadFiles verifies that an unparseable file is counted as
// errored and does not abort the walk.
func TestRunCountsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "a-bad.json", "{nope")
	writeExport(t, dir, "b-good.json", exportJSON)

	store := &memStore{}
	imp := testImporter(t, store, false)

	stats, err := imp.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("files errored = %d, want 1", stats.FilesErrored)
	}
	if stats.FilesImported != 1 {
		t.Errorf("files imported = %d, want 1", stats.FilesImported)
	}
}

// TestStateDBRoundTrip exercises the dedup predicate directly.
func TestStateDBRoundTrip(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("opening state db: %v", err)
	}
	defer state.Close()

	ok, err := state.IsImported("a.json", 10, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("fresh file should not be marked imported")
	}

	if err := state.MarkImported("a.json", 10, "abc"); err != nil {
		t.Fatal(err)
	}

	ok, err = state.IsImported("a.json", 10, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("file should be marked imported")
	}

	// Different hash means the file changed.
	ok, err = state.IsImported("a.json", 10, "zzz")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("changed hash should not count as imported")
	}
}
