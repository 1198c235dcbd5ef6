package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftscope/internal/models"
	"github.com/google/uuid"
)

const isoDate = "2006-01-02"

// InsertWorkoutSession inserts or replaces a session row plus its slots and
// sets. Replace-by-ID keeps re-imports idempotent.
func (db *DB) InsertWorkoutSession(ctx context.Context, rec models.WorkoutRecord) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning session insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM workout_sessions WHERE id = $1 AND user_id = $2`,
		rec.ID, rec.UserID); err != nil {
		return fmt.Errorf("replacing session %s: %w", rec.ID, err)
	}

	var templateID *uuid.UUID
	if rec.Template != nil {
		templateID = &rec.Template.ID
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, session_date, completed_at, cancelled, location, template_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.UserID, rec.Date, rec.CompletedAt, rec.Cancelled, rec.Location, templateID); err != nil {
		return fmt.Errorf("inserting session %s: %w", rec.ID, err)
	}

	for slot, ex := range rec.Exercises {
		if _, err := tx.Exec(ctx,
			`INSERT INTO session_slots (session_id, slot, exercise_name, equipment, body_part)
			 VALUES ($1,$2,$3,$4,$5)`,
			rec.ID, slot, rec.Names[slot], ex.Equipment, ex.BodyPart); err != nil {
			return fmt.Errorf("inserting slot %s/%s: %w", rec.ID, slot, err)
		}
		for i, set := range ex.Sets {
			if _, err := tx.Exec(ctx,
				`INSERT INTO logged_sets (session_id, slot, set_number, reps, weight)
				 VALUES ($1,$2,$3,$4,$5)`,
				rec.ID, slot, i+1, set.Reps, set.Weight); err != nil {
				return fmt.Errorf("inserting set %s/%s/%d: %w", rec.ID, slot, i+1, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// UpsertWorkoutTemplate stores a template and its per-slot overrides.
func (db *DB) UpsertWorkoutTemplate(ctx context.Context, userID int, tpl models.WorkoutTemplate) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning template upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO workout_templates (id, user_id, name)
		 VALUES ($1,$2,$3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		tpl.ID, userID, tpl.Name); err != nil {
		return fmt.Errorf("upserting template %s: %w", tpl.ID, err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM template_slots WHERE template_id = $1`, tpl.ID); err != nil {
		return fmt.Errorf("clearing template slots %s: %w", tpl.ID, err)
	}

	slots := make(map[string]bool)
	for s := range tpl.Equipment {
		slots[s] = true
	}
	for s := range tpl.BodyParts {
		slots[s] = true
	}
	for slot := range slots {
		if _, err := tx.Exec(ctx,
			`INSERT INTO template_slots (template_id, slot, equipment, body_part)
			 VALUES ($1,$2,$3,$4)`,
			tpl.ID, slot, tpl.Equipment[slot], tpl.BodyParts[slot]); err != nil {
			return fmt.Errorf("inserting template slot %s/%s: %w", tpl.ID, slot, err)
		}
	}

	return tx.Commit(ctx)
}

// GetCompletedWorkouts returns a user's completed, non-cancelled sessions
// in ascending completion-time order, each rebuilt into the full record
// snapshot (slot maps plus template overrides).
func (db *DB) GetCompletedWorkouts(ctx context.Context, userID int) ([]models.WorkoutRecord, error) {
	return db.queryRecords(ctx, userID,
		`SELECT id, user_id, session_date, completed_at, cancelled, location, template_id
		 FROM workout_sessions
		 WHERE user_id = $1 AND completed_at IS NOT NULL AND NOT cancelled
		 ORDER BY completed_at ASC`, userID)
}

// GetWorkoutsInDateRange returns sessions dated on/after fromDate in
// ascending date order, including in-progress and cancelled ones; the
// consumer decides what qualifies.
func (db *DB) GetWorkoutsInDateRange(ctx context.Context, userID int, fromDate string) ([]models.WorkoutRecord, error) {
	return db.queryRecords(ctx, userID,
		`SELECT id, user_id, session_date, completed_at, cancelled, location, template_id
		 FROM workout_sessions
		 WHERE user_id = $1 AND session_date >= $2
		 ORDER BY session_date ASC`, userID, fromDate)
}

func (db *DB) queryRecords(ctx context.Context, userID int, query string, args ...any) ([]models.WorkoutRecord, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var (
		records     []models.WorkoutRecord
		sessionIDs  []uuid.UUID
		templateIDs []uuid.UUID
		seenTpl     = make(map[uuid.UUID]bool)
		tplRef      = make(map[uuid.UUID]uuid.UUID) // session -> template
	)
	for rows.Next() {
		var (
			rec        models.WorkoutRecord
			date       time.Time
			templateID *uuid.UUID
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &date, &rec.CompletedAt, &rec.Cancelled, &rec.Location, &templateID); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		rec.Date = date.Format(isoDate)
		rec.Exercises = make(map[string]models.ExerciseSlot)
		rec.Names = make(map[string]string)
		if templateID != nil {
			tplRef[rec.ID] = *templateID
			if !seenTpl[*templateID] {
				seenTpl[*templateID] = true
				templateIDs = append(templateIDs, *templateID)
			}
		}
		sessionIDs = append(sessionIDs, rec.ID)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return records, nil
	}

	byID := make(map[uuid.UUID]*models.WorkoutRecord, len(records))
	for i := range records {
		byID[records[i].ID] = &records[i]
	}

	if err := db.attachSlots(ctx, sessionIDs, byID); err != nil {
		return nil, err
	}

	templates, err := db.loadTemplates(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	for sessionID, tplID := range tplRef {
		if tpl, ok := templates[tplID]; ok {
			byID[sessionID].Template = tpl
		}
	}

	return records, nil
}

func (db *DB) attachSlots(ctx context.Context, sessionIDs []uuid.UUID, byID map[uuid.UUID]*models.WorkoutRecord) error {
	slotRows, err := db.Pool.Query(ctx,
		`SELECT session_id, slot, exercise_name, equipment, body_part
		 FROM session_slots
		 WHERE session_id = ANY($1)`, sessionIDs)
	if err != nil {
		return fmt.Errorf("querying slots: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var (
			sessionID uuid.UUID
			slot      string
			name      string
			ex        models.ExerciseSlot
		)
		if err := slotRows.Scan(&sessionID, &slot, &name, &ex.Equipment, &ex.BodyPart); err != nil {
			return fmt.Errorf("scanning slot: %w", err)
		}
		if rec, ok := byID[sessionID]; ok {
			rec.Exercises[slot] = ex
			rec.Names[slot] = name
		}
	}
	if err := slotRows.Err(); err != nil {
		return err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT session_id, slot, reps, weight
		 FROM logged_sets
		 WHERE session_id = ANY($1)
		 ORDER BY session_id, slot, set_number ASC`, sessionIDs)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var (
			sessionID uuid.UUID
			slot      string
			set       models.LoggedSet
		)
		if err := setRows.Scan(&sessionID, &slot, &set.Reps, &set.Weight); err != nil {
			return fmt.Errorf("scanning set: %w", err)
		}
		if rec, ok := byID[sessionID]; ok {
			ex := rec.Exercises[slot]
			ex.Sets = append(ex.Sets, set)
			rec.Exercises[slot] = ex
		}
	}
	return setRows.Err()
}

func (db *DB) loadTemplates(ctx context.Context, templateIDs []uuid.UUID) (map[uuid.UUID]*models.WorkoutTemplate, error) {
	templates := make(map[uuid.UUID]*models.WorkoutTemplate)
	if len(templateIDs) == 0 {
		return templates, nil
	}

	tplRows, err := db.Pool.Query(ctx,
		`SELECT id, name FROM workout_templates WHERE id = ANY($1)`, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer tplRows.Close()

	for tplRows.Next() {
		tpl := &models.WorkoutTemplate{
			Equipment: make(map[string]string),
			BodyParts: make(map[string]string),
		}
		if err := tplRows.Scan(&tpl.ID, &tpl.Name); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templates[tpl.ID] = tpl
	}
	if err := tplRows.Err(); err != nil {
		return nil, err
	}

	slotRows, err := db.Pool.Query(ctx,
		`SELECT template_id, slot, equipment, body_part
		 FROM template_slots
		 WHERE template_id = ANY($1)`, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("querying template slots: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var (
			tplID     uuid.UUID
			slot      string
			equipment string
			bodyPart  string
		)
		if err := slotRows.Scan(&tplID, &slot, &equipment, &bodyPart); err != nil {
			return nil, fmt.Errorf("scanning template slot: %w", err)
		}
		if tpl, ok := templates[tplID]; ok {
			if equipment != "" {
				tpl.Equipment[slot] = equipment
			}
			if bodyPart != "" {
				tpl.BodyParts[slot] = bodyPart
			}
		}
	}
	return templates, slotRows.Err()
}
