package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftscope/internal/models"
)

// ExerciseCatalog returns the full exercise catalog. The progress engine
// indexes it by lowercased name for body-part fallback lookups.
func (db *DB) ExerciseCatalog(ctx context.Context) ([]models.CatalogExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT name, body_part, equipment FROM exercise_catalog ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying exercise catalog: %w", err)
	}
	defer rows.Close()

	var catalog []models.CatalogExercise
	for rows.Next() {
		var ex models.CatalogExercise
		if err := rows.Scan(&ex.Name, &ex.BodyPart, &ex.Equipment); err != nil {
			return nil, fmt.Errorf("scanning catalog entry: %w", err)
		}
		catalog = append(catalog, ex)
	}
	return catalog, rows.Err()
}

// UpsertCatalogExercise stores one catalog entry keyed by name.
func (db *DB) UpsertCatalogExercise(ctx context.Context, ex models.CatalogExercise) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercise_catalog (name, body_part, equipment)
		 VALUES ($1,$2,$3)
		 ON CONFLICT (name) DO UPDATE SET body_part = EXCLUDED.body_part, equipment = EXCLUDED.equipment`,
		ex.Name, ex.BodyPart, ex.Equipment)
	if err != nil {
		return fmt.Errorf("upserting catalog exercise %q: %w", ex.Name, err)
	}
	return nil
}
