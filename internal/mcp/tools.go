package mcp

import (
	"context"
	"strconv"

	"github.com/claude/liftscope/internal/progress"
	"github.com/mark3labs/mcp-go/mcp"
)

// parseRange validates a time-range string, defaulting to the full history.
func parseRange(s string) progress.TimeRange {
	switch tr := progress.TimeRange(s); tr {
	case progress.RangeMonth, progress.RangeQuarter, progress.RangeHalfYear, progress.RangeYear, progress.RangeAll:
		return tr
	default:
		return progress.RangeAll
	}
}

// parseLimit parses a positive integer limit, falling back to def.
func parseLimit(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}

// --- Tool definitions ---

var toolGetExerciseList = mcp.NewTool("get_exercise_list",
	mcp.WithDescription("List every tracked exercise+equipment combination with session count and most recent session date, sorted by recency."),
)

var toolGetExerciseHierarchy = mcp.NewTool("get_exercise_hierarchy",
	mcp.WithDescription("Exercises grouped by training category (Push/Pull/Legs/Core/Other), each with its equipment variants sorted by session count."),
)

var toolGetExerciseProgress = mcp.NewTool("get_exercise_progress",
	mcp.WithDescription("Per-session progress for one exercise+equipment series: max weight, best set, volume per session, plus summary statistics (improvement, PR, weight range)."),
	mcp.WithString("key", mcp.Required(), mcp.Description("Series key as 'Exercise Name|Equipment' (e.g. 'Bench Press|Barbell'). Get keys from get_exercise_list.")),
	mcp.WithString("range", mcp.Description("Time window. Defaults to ALL."), mcp.Enum("1M", "3M", "6M", "1Y", "ALL")),
)

var toolGetChartData = mcp.NewTool("get_chart_data",
	mcp.WithDescription("Chart-ready view of one series: short date labels, max-weight values, and per-point tooltips with reps, volume, and location."),
	mcp.WithString("key", mcp.Required(), mcp.Description("Series key as 'Exercise Name|Equipment'")),
	mcp.WithString("range", mcp.Description("Time window. Defaults to ALL."), mcp.Enum("1M", "3M", "6M", "1Y", "ALL")),
)

var toolGetBodyPartDistribution = mcp.NewTool("get_body_part_distribution",
	mcp.WithDescription("Training volume share per body part over a time window, with integer percentages and render colors."),
	mcp.WithString("range", mcp.Description("Time window. Defaults to ALL."), mcp.Enum("1M", "3M", "6M", "1Y", "ALL")),
)

var toolGetTrainingHeatmap = mcp.NewTool("get_training_heatmap",
	mcp.WithDescription("Rolling 12-week training calendar: per-day set and workout counts with relative intensity levels, weeks aligned to Sunday."),
)

var toolGetPRTimeline = mcp.NewTool("get_pr_timeline",
	mcp.WithDescription("Personal-record milestones: max weight per exercise+equipment at five or more reps, most recent first."),
	mcp.WithString("limit", mcp.Description("Maximum milestones to return. Defaults to 10.")),
)

// --- Tool handlers ---

func (h *handlers) getExerciseList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := h.ds.ExerciseList(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_exercise_list", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(items)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseHierarchy(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := h.ds.ExerciseHierarchy(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_exercise_hierarchy", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(groups)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key parameter is required"), nil
	}

	tr := parseRange(req.GetString("range", ""))
	uid := UserIDFromContext(ctx)

	prog, err := h.ds.Progress(ctx, uid, progress.Key(key), tr)
	if err != nil {
		h.log.Error("mcp get_exercise_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(prog)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getChartData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key parameter is required"), nil
	}

	tr := parseRange(req.GetString("range", ""))
	uid := UserIDFromContext(ctx)

	chart, err := h.ds.Chart(ctx, uid, progress.Key(key), tr)
	if err != nil {
		h.log.Error("mcp get_chart_data", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(chart)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBodyPartDistribution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tr := parseRange(req.GetString("range", ""))

	dist, err := h.ds.Distribution(ctx, UserIDFromContext(ctx), tr)
	if err != nil {
		h.log.Error("mcp get_body_part_distribution", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(dist)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingHeatmap(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hm, err := h.ds.HeatMap(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_training_heatmap", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(hm)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPRTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := parseLimit(req.GetString("limit", ""), progress.DefaultPRLimit)

	items, err := h.ds.PRTimeline(ctx, UserIDFromContext(ctx), limit)
	if err != nil {
		h.log.Error("mcp get_pr_timeline", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(items)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
