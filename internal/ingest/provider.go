package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/liftscope/internal/models"
	"github.com/google/uuid"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived  int `json:"sessions_received"`
	SessionsInserted  int `json:"sessions_inserted"`
	SessionsSkipped   int `json:"sessions_skipped"`
	SessionsCompleted int `json:"sessions_completed"`

	SetsReceived int `json:"sets_received"`

	TemplatesUpserted int `json:"templates_upserted,omitempty"`
	CatalogUpserted   int `json:"catalog_upserted,omitempty"`

	Message string `json:"message,omitempty"`
}

// Store is the storage surface the provider writes through.
type Store interface {
	InsertWorkoutSession(ctx context.Context, rec models.WorkoutRecord) error
	UpsertWorkoutTemplate(ctx context.Context, userID int, tpl models.WorkoutTemplate) error
	UpsertCatalogExercise(ctx context.Context, ex models.CatalogExercise) error
}

// Provider processes session-export payloads.
type Provider struct {
	db  Store
	log *slog.Logger
}

// NewProvider creates a new session ingest provider.
func NewProvider(db Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest decodes a payload from r and stores accepted data for userID.
// Malformed sessions are skipped and counted, not fatal; storage errors
// abort the operation. SessionsCompleted tells the caller whether any
// completed session landed, which is what invalidates cached aggregates.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*Result, error) {
	payload, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return p.IngestPayload(ctx, payload, userID)
}

// IngestPayload stores an already-decoded payload. Templates land first so
// sessions in the same payload can link to them.
func (p *Provider) IngestPayload(ctx context.Context, payload *Payload, userID int) (*Result, error) {
	result := &Result{}

	templates := make(map[string]*models.WorkoutTemplate, len(payload.Templates))
	for _, te := range payload.Templates {
		tpl, err := te.toTemplate()
		if err != nil {
			p.log.Warn("skipping template", "id", te.ID, "error", err)
			continue
		}
		if err := p.db.UpsertWorkoutTemplate(ctx, userID, *tpl); err != nil {
			return result, fmt.Errorf("storing template %s: %w", te.ID, err)
		}
		templates[te.ID] = tpl
		result.TemplatesUpserted++
	}

	for _, ce := range payload.Catalog {
		if ce.Name == "" {
			continue
		}
		ex := models.CatalogExercise{Name: ce.Name, BodyPart: ce.BodyPart, Equipment: ce.Equipment}
		if err := p.db.UpsertCatalogExercise(ctx, ex); err != nil {
			return result, fmt.Errorf("storing catalog entry %q: %w", ce.Name, err)
		}
		result.CatalogUpserted++
	}

	for _, se := range payload.Sessions {
		result.SessionsReceived++

		rec, sets, err := se.toRecord(userID, templates)
		if err != nil {
			p.log.Warn("skipping session", "id", se.ID, "error", err)
			result.SessionsSkipped++
			continue
		}
		result.SetsReceived += sets

		if err := p.db.InsertWorkoutSession(ctx, *rec); err != nil {
			return result, fmt.Errorf("storing session %s: %w", se.ID, err)
		}
		result.SessionsInserted++
		if rec.Completed() {
			result.SessionsCompleted++
		}
	}

	if result.SessionsSkipped > 0 {
		result.Message = fmt.Sprintf(
			"%d sessions were skipped due to malformed ids or dates; accepted sessions are stored.",
			result.SessionsSkipped)
	}

	return result, nil
}

func (te TemplateExport) toTemplate() (*models.WorkoutTemplate, error) {
	id, err := uuid.Parse(te.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid template id: %w", err)
	}
	return &models.WorkoutTemplate{
		ID:        id,
		Name:      te.Name,
		Equipment: te.Equipment,
		BodyParts: te.BodyParts,
	}, nil
}

// toRecord converts a session export into the stored record form, returning
// the number of sets it carried. Template links resolve within the payload;
// a dangling template_id leaves the session unlinked.
func (se SessionExport) toRecord(userID int, templates map[string]*models.WorkoutTemplate) (*models.WorkoutRecord, int, error) {
	id, err := uuid.Parse(se.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid session id: %w", err)
	}
	if _, err := time.Parse("2006-01-02", se.Date); err != nil {
		return nil, 0, fmt.Errorf("invalid session date %q: %w", se.Date, err)
	}

	rec := &models.WorkoutRecord{
		ID:          id,
		UserID:      userID,
		Date:        se.Date,
		CompletedAt: se.CompletedAt,
		Cancelled:   se.Cancelled,
		Location:    se.Location,
		Exercises:   make(map[string]models.ExerciseSlot, len(se.Exercises)),
		Names:       make(map[string]string, len(se.Exercises)),
	}
	if se.TemplateID != "" {
		rec.Template = templates[se.TemplateID]
	}

	sets := 0
	for slot, ex := range se.Exercises {
		slotSets := make([]models.LoggedSet, 0, len(ex.Sets))
		for _, s := range ex.Sets {
			slotSets = append(slotSets, models.LoggedSet{Reps: s.Reps, Weight: s.Weight})
		}
		sets += len(slotSets)
		rec.Exercises[slot] = models.ExerciseSlot{
			Sets:      slotSets,
			Equipment: ex.Equipment,
			BodyPart:  ex.BodyPart,
		}
		rec.Names[slot] = ex.Name
	}

	return rec, sets, nil
}
