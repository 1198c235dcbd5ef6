package mcp

import (
	"context"
	"fmt"

	"github.com/claude/liftscope/internal/progress"
)

// DataSource abstracts the analytics surface for MCP tools. Local wraps the
// in-process engine; HTTPClient reaches a remote LiftScope server via its
// REST API (accessed over Tailscale).
type DataSource interface {
	ExerciseList(ctx context.Context, userID int) ([]progress.ExerciseListItem, error)
	ExerciseHierarchy(ctx context.Context, userID int) ([]progress.CategoryGroup, error)
	Progress(ctx context.Context, userID int, key progress.Key, tr progress.TimeRange) (*progress.ExerciseProgress, error)
	Chart(ctx context.Context, userID int, key progress.Key, tr progress.TimeRange) (*progress.ChartData, error)
	Distribution(ctx context.Context, userID int, tr progress.TimeRange) (*progress.Distribution, error)
	HeatMap(ctx context.Context, userID int) (*progress.HeatMap, error)
	PRTimeline(ctx context.Context, userID int, limit int) ([]progress.PRTimelineItem, error)
}

// Local adapts the in-process engine to DataSource. The engine absorbs
// fetch failures internally, so the only error Local produces is an
// unknown exercise key.
type Local struct {
	svc *progress.Service
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps a progress service.
func NewLocal(svc *progress.Service) *Local {
	return &Local{svc: svc}
}

func (l *Local) ExerciseList(ctx context.Context, userID int) ([]progress.ExerciseListItem, error) {
	return l.svc.ExerciseList(ctx, userID), nil
}

func (l *Local) ExerciseHierarchy(ctx context.Context, userID int) ([]progress.CategoryGroup, error) {
	return l.svc.ExerciseHierarchy(ctx, userID), nil
}

func (l *Local) Progress(ctx context.Context, userID int, key progress.Key, tr progress.TimeRange) (*progress.ExerciseProgress, error) {
	prog := l.svc.Progress(ctx, userID, key, tr)
	if prog == nil {
		return nil, fmt.Errorf("unknown exercise key %q", key)
	}
	return prog, nil
}

func (l *Local) Chart(ctx context.Context, userID int, key progress.Key, tr progress.TimeRange) (*progress.ChartData, error) {
	chart := l.svc.Chart(ctx, userID, key, tr)
	if chart == nil {
		return nil, fmt.Errorf("unknown exercise key %q", key)
	}
	return chart, nil
}

func (l *Local) Distribution(ctx context.Context, userID int, tr progress.TimeRange) (*progress.Distribution, error) {
	return l.svc.BodyPartDistribution(ctx, userID, tr), nil
}

func (l *Local) HeatMap(ctx context.Context, userID int) (*progress.HeatMap, error) {
	return l.svc.HeatMap(ctx, userID), nil
}

func (l *Local) PRTimeline(ctx context.Context, userID int, limit int) ([]progress.PRTimelineItem, error) {
	return l.svc.PRTimeline(ctx, userID, limit), nil
}
