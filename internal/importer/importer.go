package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/claude/liftscope/internal/ingest"
)

// Stats tracks import progress.
type Stats struct {
	FilesTotal    int
	FilesImported int
	FilesSkipped  int
	FilesErrored  int

	SessionsInserted  int
	SessionsSkipped   int
	SessionsCompleted int
	TemplatesUpserted int
	CatalogUpserted   int
}

// Importer walks a directory of JSON session exports and feeds each new file
// through the ingest pipeline. Already-imported files are skipped via the
// state database; a changed file (different size or hash) is re-imported,
// which is safe because session inserts replace by id.
type Importer struct {
	provider *ingest.Provider
	state    *StateDB
	userID   int
	dryRun   bool
	log      *slog.Logger
	stats    Stats
}

// New creates a new Importer.
func New(provider *ingest.Provider, state *StateDB, userID int, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{
		provider: provider,
		state:    state,
		userID:   userID,
		dryRun:   dryRun,
		log:      log,
	}
}

// Run imports all *.json files under dir, in lexical order so older exports
// land before newer ones when filenames embed dates.
func (imp *Importer) Run(ctx context.Context, dir string) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return &imp.stats, fmt.Errorf("listing exports in %s: %w", dir, err)
	}
	sort.Strings(files)

	for _, f := range files {
		imp.stats.FilesTotal++

		relPath, _ := filepath.Rel(dir, f)
		info, err := os.Stat(f)
		if err != nil {
			imp.log.Warn("stat failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		hash, err := HashFile(f)
		if err != nil {
			imp.log.Warn("hash failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		imported, err := imp.state.IsImported(relPath, info.Size(), hash)
		if err != nil {
			imp.log.Warn("state check failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		if imported {
			imp.stats.FilesSkipped++
			continue
		}

		if err := imp.importFile(ctx, f); err != nil {
			imp.log.Warn("import failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		if imp.dryRun {
			continue
		}
		if err := imp.state.MarkImported(relPath, info.Size(), hash); err != nil {
			imp.log.Warn("failed to mark imported", "file", relPath, "error", err)
		}
		imp.stats.FilesImported++
	}

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	payload, err := ingest.Parse(f)
	if err != nil {
		return err
	}

	if imp.dryRun {
		imp.log.Info("dry-run: would import",
			"file", filepath.Base(path),
			"sessions", len(payload.Sessions),
			"templates", len(payload.Templates),
			"catalog", len(payload.Catalog),
		)
		return nil
	}

	result, err := imp.provider.IngestPayload(ctx, payload, imp.userID)
	if err != nil {
		return err
	}

	imp.stats.SessionsInserted += result.SessionsInserted
	imp.stats.SessionsSkipped += result.SessionsSkipped
	imp.stats.SessionsCompleted += result.SessionsCompleted
	imp.stats.TemplatesUpserted += result.TemplatesUpserted
	imp.stats.CatalogUpserted += result.CatalogUpserted

	imp.log.Info("imported file",
		"file", filepath.Base(path),
		"sessions", result.SessionsInserted,
		"skipped", result.SessionsSkipped,
	)
	return nil
}
