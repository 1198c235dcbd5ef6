package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/liftscope/internal/models"
)

type fakeStore struct {
	sessions  []models.WorkoutRecord
	templates []models.WorkoutTemplate
	catalog   []models.CatalogExercise
	failWith  error
}

func (f *fakeStore) InsertWorkoutSession(_ context.Context, rec models.WorkoutRecord) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.sessions = append(f.sessions, rec)
	return nil
}

func (f *fakeStore) UpsertWorkoutTemplate(_ context.Context, _ int, tpl models.WorkoutTemplate) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.templates = append(f.templates, tpl)
	return nil
}

func (f *fakeStore) UpsertCatalogExercise(_ context.Context, ex models.CatalogExercise) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.catalog = append(f.catalog, ex)
	return nil
}

func testProvider(store *fakeStore) *Provider {
	return NewProvider(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const fullPayload = `{
  "templates": [
    {
      "id": "11111111-1111-1111-1111-111111111111",
      "name": "Push Day",
      "equipment": {"slot-1": "Barbell"},
      "body_parts": {"slot-1": "Chest"}
    }
  ],
  "catalog": [
    {"name": "Bench Press", "body_part": "Chest", "equipment": "Barbell"}
  ],
  "sessions": [
    {
      "id": "22222222-2222-2222-2222-222222222222",
      "date": "2025-06-01",
      "completed_at": "2025-06-01T10:30:00Z",
      "location": "Home Gym",
      "template_id": "11111111-1111-1111-1111-111111111111",
      "exercises": {
        "slot-1": {
          "name": "Bench Press",
          "sets": [
            {"reps": 8, "weight": 185},
            {"reps": 6, "weight": 205}
          ]
        }
      }
    },
    {
      "id": "33333333-3333-3333-3333-333333333333",
      "date": "2025-06-02",
      "exercises": {}
    }
  ]
}`

// TestIngestFullPayload verifies that templates, catalog entries and
// sessions all land, and that only sessions with a completion timestamp
// count as completed.
func TestIngestFullPayload(t *testing.T) {
	store := &fakeStore{}
	result, err := testProvider(store).Ingest(context.Background(), strings.NewReader(fullPayload), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SessionsReceived != 2 || result.SessionsInserted != 2 {
		t.Errorf("sessions received/inserted = %d/%d, want 2/2",
			result.SessionsReceived, result.SessionsInserted)
	}
	if result.SessionsCompleted != 1 {
		t.Errorf("sessions completed = %d, want 1", result.SessionsCompleted)
	}
	if result.SetsReceived != 2 {
		t.Errorf("sets received = %d, want 2", result.SetsReceived)
	}
	if result.TemplatesUpserted != 1 {
		t.Errorf("templates upserted = %d, want 1", result.TemplatesUpserted)
	}
	if result.CatalogUpserted != 1 {
		t.Errorf("catalog upserted = %d, want 1", result.CatalogUpserted)
	}

	if len(store.sessions) != 2 {
		t.Fatalf("stored sessions = %d, want 2", len(store.sessions))
	}
	first := store.sessions[0]
	if first.UserID != 1 {
		t.Errorf("user id = %d, want 1", first.UserID)
	}
	if first.Template == nil || first.Template.Name != "Push Day" {
		t.Error("session should link to the template from the same payload")
	}
	if first.Names["slot-1"] != "Bench Press" {
		t.Errorf("slot name = %q, want %q", first.Names["slot-1"], "Bench Press")
	}
	if got := len(first.Exercises["slot-1"].Sets); got != 2 {
		t.Errorf("slot sets = %d, want 2", got)
	}
}

// TestIngestSkipsMalformedSessions verifies that sessions with a bad UUID
// or date are counted as skipped while valid siblings still land.
func TestIngestSkipsMalformedSessions(t *testing.T) {
	payload := `{
	  "sessions": [
	    {"id": "not-a-uuid", "date": "2025-06-01", "exercises": {}},
	    {"id": "22222222-2222-2222-2222-222222222222", "date": "June 1st", "exercises": {}},
	    {"id": "33333333-3333-3333-3333-333333333333", "date": "2025-06-03", "exercises": {}}
	  ]
	}`
	store := &fakeStore{}
	result, err := testProvider(store).Ingest(context.Background(), strings.NewReader(payload), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SessionsSkipped != 2 {
		t.Errorf("sessions skipped = %d, want 2", result.SessionsSkipped)
	}
	if result.SessionsInserted != 1 {
		t.Errorf("sessions inserted = %d, want 1", result.SessionsInserted)
	}
	if result.Message == "" {
		t.Error("expected a message mentioning skipped sessions")
	}
	if len(store.sessions) != 1 {
		t.Errorf("stored sessions = %d, want 1", len(store.sessions))
	}
}

// TestIngestDanglingTemplateRef verifies that a template_id not present in
// the payload leaves the session unlinked rather than failing.
func TestIngestDanglingTemplateRef(t *testing.T) {
	payload := `{
	  "sessions": [
	    {
	      "id": "22222222-2222-2222-2222-222222222222",
	      "date": "2025-06-01",
	      "template_id": "99999999-9999-9999-9999-999999999999",
	      "exercises": {}
	    }
	  ]
	}`
	store := &fakeStore{}
	result, err := testProvider(store).Ingest(context.Background(), strings.NewReader(payload), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SessionsInserted != 1 {
		t.Fatalf("sessions inserted = %d, want 1", result.SessionsInserted)
	}
	if store.sessions[0].Template != nil {
		t.Error("dangling template reference should leave Template nil")
	}
}

// TestIngestStorageErrorAborts verifies that a storage failure is fatal and
// wrapped, unlike malformed input which is merely skipped.
func TestIngestStorageErrorAborts(t *testing.T) {
	boom := errors.New("connection lost")
	store := &fakeStore{failWith: boom}
	_, err := testProvider(store).Ingest(context.Background(), strings.NewReader(fullPayload), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}

// TestIngestBadJSON verifies that an undecodable body is an error, not an
// empty result.
func TestIngestBadJSON(t *testing.T) {
	_, err := testProvider(&fakeStore{}).Ingest(context.Background(), strings.NewReader("{nope"), 1)
	if err == nil {
		t.Fatal("expected decode error")
	}
}

// TestParseRoundsOutOptionalFields verifies optional export fields decode
// into the expected record shape.
func TestParseRoundsOutOptionalFields(t *testing.T) {
	payload, err := Parse(strings.NewReader(fullPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(payload.Sessions))
	}
	s := payload.Sessions[0]
	if s.Location != "Home Gym" {
		t.Errorf("location = %q, want %q", s.Location, "Home Gym")
	}
	if s.CompletedAt == nil || !s.CompletedAt.Equal(time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("completed_at = %v, want 2025-06-01T10:30:00Z", s.CompletedAt)
	}
	if payload.Sessions[1].CompletedAt != nil {
		t.Error("second session should have nil completed_at")
	}
}
