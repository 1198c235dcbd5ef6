package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/liftscope/internal/models"
)

// GetAllPRs returns the max-weight record per exercise+equipment group for
// a user, from completed non-cancelled sessions. Heavier wins; on equal
// weight the earliest session wins, matching the aggregator's strict-greater
// tie-break. Empty equipment and body-part labels fall back to the engine's
// literal defaults.
func (db *DB) GetAllPRs(ctx context.Context, userID int) ([]models.PRGroup, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT ON (sl.exercise_name, sl.equipment)
		        sl.exercise_name,
		        COALESCE(NULLIF(sl.equipment, ''), 'Unknown'),
		        COALESCE(NULLIF(sl.body_part, ''), 'Other'),
		        ls.weight,
		        ls.reps,
		        ws.session_date,
		        COALESCE(NULLIF(ws.location, ''), 'Unknown')
		 FROM logged_sets ls
		 JOIN session_slots sl ON sl.session_id = ls.session_id AND sl.slot = ls.slot
		 JOIN workout_sessions ws ON ws.id = ls.session_id
		 WHERE ws.user_id = $1
		   AND ws.completed_at IS NOT NULL
		   AND NOT ws.cancelled
		   AND ls.reps > 0
		   AND ls.weight > 0
		 ORDER BY sl.exercise_name, sl.equipment, ls.weight DESC, ws.session_date ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying PRs: %w", err)
	}
	defer rows.Close()

	var groups []models.PRGroup
	for rows.Next() {
		var (
			g    models.PRGroup
			date time.Time
		)
		if err := rows.Scan(&g.Exercise, &g.Equipment, &g.BodyPart,
			&g.MaxWeight.Weight, &g.MaxWeight.Reps, &date, &g.MaxWeight.Location); err != nil {
			return nil, fmt.Errorf("scanning PR group: %w", err)
		}
		g.MaxWeight.Date = date.Format(isoDate)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
